package gridexport

import "context"

// pagedIterator walks a PagedProvider page by page.
type pagedIterator struct {
	provider PagedProvider
	size     int
	key      KeyFunc
	started  bool
	models   []any
	pos      int
	done     bool
}

func (it *pagedIterator) Next(ctx context.Context) (Entry, bool, error) {
	if it.done {
		return Entry{}, false, nil
	}
	if !it.started {
		it.started = true
		it.provider.SetPageSize(it.size)
		if err := it.load(ctx); err != nil {
			return Entry{}, false, err
		}
	}

	for it.pos >= len(it.models) {
		if len(it.models) == 0 || !it.provider.Paginated() {
			it.done = true
			it.models = nil
			return Entry{}, false, nil
		}
		it.provider.SetPage(it.provider.Page() + 1)
		it.provider.Refresh()
		if err := it.load(ctx); err != nil {
			return Entry{}, false, err
		}
	}

	record := it.models[it.pos]
	entry := Entry{Record: record, Key: it.key(record), Index: it.pos}
	it.pos++
	return entry, true, nil
}

func (it *pagedIterator) load(ctx context.Context) error {
	models, err := it.provider.Models(ctx)
	if err != nil {
		return err
	}
	it.models, it.pos = models, 0
	return nil
}

func (it *pagedIterator) Close() error {
	it.done = true
	return nil
}
