package gridexport

import (
	"context"
	"fmt"
	"reflect"
)

// SliceProvider implements PagedProvider for in-memory slices.
type SliceProvider struct {
	data      reflect.Value
	pageSize  int
	page      int
	paginated bool
	models    []any
	fetches   int
}

// NewSliceProvider creates a PagedProvider over data, which must be a slice or a pointer to one.
// A provider built with paginated=false serves the whole slice as its only page.
func NewSliceProvider(data any, paginated bool) (*SliceProvider, error) {
	v, err := sliceValue(data)
	if err != nil {
		return nil, err
	}
	return &SliceProvider{data: v, paginated: paginated, pageSize: v.Len()}, nil
}

func (p *SliceProvider) SetPageSize(size int) {
	if p.paginated {
		p.pageSize = size
	}
	p.models = nil
}

func (p *SliceProvider) Page() int        { return p.page }
func (p *SliceProvider) SetPage(page int) { p.page = page }
func (p *SliceProvider) Paginated() bool  { return p.paginated }
func (p *SliceProvider) Refresh()         { p.models = nil }

// Fetches returns how many times Models had to slice the data.
func (p *SliceProvider) Fetches() int { return p.fetches }

func (p *SliceProvider) Models(_ context.Context) ([]any, error) {
	if p.models != nil {
		return p.models, nil
	}
	p.fetches++

	start, end := 0, p.data.Len()
	if p.paginated {
		if p.pageSize <= 0 {
			return nil, fmt.Errorf("page size must be positive, got %d", p.pageSize)
		}
		start = p.page * p.pageSize
		if start > end {
			start = end
		}
		if start+p.pageSize < end {
			end = start + p.pageSize
		}
	}

	models := make([]any, 0, end-start)
	for i := start; i < end; i++ {
		models = append(models, p.data.Index(i).Interface())
	}
	p.models = models
	return models, nil
}

// SliceQuery implements BatchQuery for in-memory slices.
type SliceQuery struct {
	data reflect.Value
}

// NewSliceQuery creates a BatchQuery over data, which must be a slice or a pointer to one.
func NewSliceQuery(data any) (*SliceQuery, error) {
	v, err := sliceValue(data)
	if err != nil {
		return nil, err
	}
	return &SliceQuery{data: v}, nil
}

func (q *SliceQuery) Batch(_ context.Context, size int) (BatchCursor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}
	return &sliceCursor{data: q.data, size: size}, nil
}

type sliceCursor struct {
	data   reflect.Value
	size   int
	offset int
}

func (c *sliceCursor) NextBatch(_ context.Context) ([]any, error) {
	end := c.offset + c.size
	if end > c.data.Len() {
		end = c.data.Len()
	}
	batch := make([]any, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		batch = append(batch, c.data.Index(i).Interface())
	}
	c.offset = end
	return batch, nil
}

func (c *sliceCursor) Close() error { return nil }

func sliceValue(data any) (reflect.Value, error) {
	if data == nil {
		return reflect.Value{}, fmt.Errorf("data cannot be nil")
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return reflect.Value{}, fmt.Errorf("data must be a slice, got %s", v.Kind())
	}
	return v, nil
}
