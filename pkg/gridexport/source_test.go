package gridexport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Num int
}

func (i item) PrimaryKey() any { return i.Num }
func (i item) ID() any         { return i.Num }

func items(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{Num: i + 1}
	}
	return out
}

func drain(t *testing.T, it Iterator) []Entry {
	t.Helper()
	var entries []Entry
	for {
		e, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		entries = append(entries, e)
	}
	require.NoError(t, it.Close())
	return entries
}

func TestIterator_CursorAndPagedAgree(t *testing.T) {
	for _, tc := range []struct{ records, batch int }{{0, 3}, {1, 3}, {5, 2}, {6, 3}, {7, 10}} {
		data := items(tc.records)

		query, err := NewSliceQuery(data)
		require.NoError(t, err)
		cursorIt, err := NewIterator(query, tc.batch, nil)
		require.NoError(t, err)

		provider, err := NewSliceProvider(data, true)
		require.NoError(t, err)
		pagedIt, err := NewIterator(provider, tc.batch, nil)
		require.NoError(t, err)

		fromCursor := drain(t, cursorIt)
		fromPages := drain(t, pagedIt)

		assert.Equal(t, fromCursor, fromPages, "records=%d batch=%d", tc.records, tc.batch)
		require.Len(t, fromCursor, tc.records)
		for i, e := range fromCursor {
			assert.Equal(t, i+1, e.Key)
			assert.Equal(t, i%tc.batch, e.Index, "index restarts every batch")
		}
	}
}

func TestIterator_PagedWithoutPagination(t *testing.T) {
	provider, err := NewSliceProvider(items(5), false)
	require.NoError(t, err)

	it, err := NewIterator(provider, 2, nil)
	require.NoError(t, err)
	entries := drain(t, it)

	assert.Len(t, entries, 5, "the single page holds every record")
	assert.Equal(t, 1, provider.Fetches(), "no second page is requested")
	assert.Equal(t, 0, provider.Page())
}

type countingQuery struct {
	batches [][]any
	sizes   []int
	err     error
	failAt  int
	closed  bool
}

func (q *countingQuery) Batch(_ context.Context, size int) (BatchCursor, error) {
	q.sizes = append(q.sizes, size)
	return q, nil
}

func (q *countingQuery) NextBatch(_ context.Context) ([]any, error) {
	if q.err != nil && q.failAt == 0 {
		return nil, q.err
	}
	q.failAt--
	if len(q.batches) == 0 {
		return nil, nil
	}
	b := q.batches[0]
	q.batches = q.batches[1:]
	return b, nil
}

func (q *countingQuery) Close() error {
	q.closed = true
	return nil
}

func TestIterator_CursorBatchSizeAndKeys(t *testing.T) {
	q := &countingQuery{batches: [][]any{{item{1}, item{2}}, {item{3}}}}
	it, err := NewIterator(q, 2, nil)
	require.NoError(t, err)

	entries := drain(t, it)
	assert.Equal(t, []int{2}, q.sizes)
	assert.True(t, q.closed)
	assert.Equal(t, []Entry{
		{Record: item{1}, Key: 1, Index: 0},
		{Record: item{2}, Key: 2, Index: 1},
		{Record: item{3}, Key: 3, Index: 0},
	}, entries)
}

func TestIterator_RetrievalErrorIsUnmodified(t *testing.T) {
	boom := errors.New("connection reset")
	q := &countingQuery{batches: [][]any{{item{1}}}, err: boom, failAt: 1}
	it, err := NewIterator(q, 10, nil)
	require.NoError(t, err)

	_, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = it.Next(context.Background())
	assert.False(t, ok)
	assert.Same(t, boom, err)
}

type failingPages struct {
	SliceProvider
	err error
}

func (p *failingPages) Models(context.Context) ([]any, error) { return nil, p.err }

func TestIterator_PagedErrorIsUnmodified(t *testing.T) {
	boom := errors.New("index unavailable")
	it, err := NewIterator(&failingPages{err: boom}, 10, nil)
	require.NoError(t, err)

	_, _, err = it.Next(context.Background())
	assert.Same(t, boom, err)
}

func TestIterator_KeyFallbacks(t *testing.T) {
	type row struct {
		ID   string
		Name string
	}
	provider, err := NewSliceProvider([]row{{ID: "a"}}, true)
	require.NoError(t, err)
	it, err := NewIterator(provider, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", drain(t, it)[0].Key)

	query, err := NewSliceQuery([]row{{ID: "a"}})
	require.NoError(t, err)
	it, err = NewIterator(query, 5, func(r any) any { return "custom-" + r.(row).ID })
	require.NoError(t, err)
	assert.Equal(t, "custom-a", drain(t, it)[0].Key)

	it, err = NewIterator(query, 5, nil)
	require.NoError(t, err)
	assert.Nil(t, drain(t, it)[0].Key, "records without PrimaryKey have no key")
}

func TestNewIterator_Errors(t *testing.T) {
	_, err := NewIterator([]int{1}, 10, nil)
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	query, _ := NewSliceQuery([]int{1})
	_, err = NewIterator(query, 0, nil)
	assert.Error(t, err)

	_, err = NewSliceProvider("nope", true)
	assert.Error(t, err)
	_, err = NewSliceQuery(nil)
	assert.Error(t, err)
}
