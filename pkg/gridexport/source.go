package gridexport

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedSource is returned when a record source implements neither retrieval strategy.
var ErrUnsupportedSource = errors.New("unsupported record source")

// Entry is one record handed to the pipeline.
type Entry struct {
	Record any
	Key    any
	// Index is the position of the record within its batch or page.
	Index int
}

// Iterator yields records one at a time, fetching a new batch when the current one is used up.
type Iterator interface {
	// Next returns the next entry. ok is false once the source is exhausted.
	Next(ctx context.Context) (entry Entry, ok bool, err error)
	Close() error
}

// BatchQuery is a query that can be read in bounded batches (cursor strategy).
type BatchQuery interface {
	Batch(ctx context.Context, size int) (BatchCursor, error)
}

// BatchCursor returns successive batches of at most the requested size.
// An empty batch means the query is exhausted.
type BatchCursor interface {
	NextBatch(ctx context.Context) ([]any, error)
	Close() error
}

// PagedProvider serves records page by page (paged strategy).
type PagedProvider interface {
	SetPageSize(size int)
	Page() int
	SetPage(page int)
	// Paginated reports whether the provider supports more than one page.
	Paginated() bool
	// Refresh drops cached models so the next Models call re-fetches.
	Refresh()
	Models(ctx context.Context) ([]any, error)
}

// PrimaryKeyer is implemented by records read through the cursor strategy.
type PrimaryKeyer interface {
	PrimaryKey() any
}

// Identifier is implemented by records read through the paged strategy.
type Identifier interface {
	ID() any
}

// KeyFunc extracts the key of a record.
type KeyFunc func(record any) any

// NewIterator wraps source in the Iterator matching its retrieval strategy.
// A nil key func uses PrimaryKeyer for cursors and Identifier for pages.
func NewIterator(source any, batchSize int, key KeyFunc) (Iterator, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	switch s := source.(type) {
	case BatchQuery:
		if key == nil {
			key = primaryKeyOf
		}
		return &cursorIterator{query: s, size: batchSize, key: key}, nil
	case PagedProvider:
		if key == nil {
			key = idOf
		}
		return &pagedIterator{provider: s, size: batchSize, key: key}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedSource, source)
}

func primaryKeyOf(record any) any {
	if k, ok := record.(PrimaryKeyer); ok {
		return k.PrimaryKey()
	}
	return nil
}

func idOf(record any) any {
	if k, ok := record.(Identifier); ok {
		return k.ID()
	}
	if id := AttributeValue(record, "ID"); id != nil {
		return id
	}
	return AttributeValue(record, "id")
}
