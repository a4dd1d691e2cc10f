package gridexport

import "context"

// cursorIterator reads a BatchQuery batch by batch.
type cursorIterator struct {
	query  BatchQuery
	size   int
	key    KeyFunc
	cursor BatchCursor
	batch  []any
	pos    int
	done   bool
}

func (it *cursorIterator) Next(ctx context.Context) (Entry, bool, error) {
	if it.done {
		return Entry{}, false, nil
	}
	if it.cursor == nil {
		cursor, err := it.query.Batch(ctx, it.size)
		if err != nil {
			return Entry{}, false, err
		}
		it.cursor = cursor
	}

	for it.pos >= len(it.batch) {
		batch, err := it.cursor.NextBatch(ctx)
		if err != nil {
			return Entry{}, false, err
		}
		if len(batch) == 0 {
			it.done = true
			it.batch = nil
			return Entry{}, false, nil
		}
		it.batch, it.pos = batch, 0
	}

	record := it.batch[it.pos]
	entry := Entry{Record: record, Key: it.key(record), Index: it.pos}
	it.pos++
	return entry, true, nil
}

func (it *cursorIterator) Close() error {
	it.done = true
	if it.cursor == nil {
		return nil
	}
	return it.cursor.Close()
}
