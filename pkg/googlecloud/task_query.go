package googlecloud

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
	"google.golang.org/api/iterator"
)

// taskIterator is the part of *datastore.Iterator a batch read uses.
type taskIterator interface {
	Next(dst interface{}) (*datastore.Key, error)
	Cursor() (datastore.Cursor, error)
}

// queryRunner runs a Datastore query.
type queryRunner interface {
	Run(ctx context.Context, q *datastore.Query) taskIterator
}

type datastoreRunner struct {
	ds *datastore.Client
}

func (r datastoreRunner) Run(ctx context.Context, q *datastore.Query) taskIterator {
	return r.ds.Run(ctx, q)
}

// TaskQuery reads the tasks of one list in created_at order, a batch at a
// time, resuming each batch from the previous batch's end cursor.
type TaskQuery struct {
	runner     queryRunner
	taskListID string
	onlyOpen   bool
	retry      RetryConfig
}

// TaskQuery returns a batch query over the tasks of taskListID.
// With onlyOpen set, finished tasks are skipped.
func (c *Client) TaskQuery(taskListID string, onlyOpen bool) *TaskQuery {
	return &TaskQuery{
		runner:     datastoreRunner{ds: c.ds},
		taskListID: taskListID,
		onlyOpen:   onlyOpen,
		retry:      DefaultRetryConfig(),
	}
}

func (q *TaskQuery) query() *datastore.Query {
	parentKey := datastore.NameKey(KindTaskList, q.taskListID, nil)
	query := datastore.NewQuery(KindTask).Ancestor(parentKey)
	if q.onlyOpen {
		query = query.Filter("done =", false)
	}
	return query.Order("created_at")
}

func (q *TaskQuery) Batch(ctx context.Context, size int) (gridexport.BatchCursor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}
	if q.taskListID == "" {
		return nil, fmt.Errorf("task list ID cannot be empty")
	}
	return &taskCursor{query: q, size: size}, nil
}

type taskCursor struct {
	query  *TaskQuery
	size   int
	cursor *datastore.Cursor
	done   bool
}

func (c *taskCursor) NextBatch(ctx context.Context) ([]any, error) {
	if c.done {
		return nil, nil
	}

	var (
		batch []any
		next  datastore.Cursor
	)
	// A batch starts from a fixed cursor, so a failed read can be replayed whole.
	err := WithRetry(ctx, c.query.retry, func() error {
		var err error
		batch, next, err = c.read(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(batch) < c.size {
		c.done = true
		return batch, nil
	}
	c.cursor = &next
	return batch, nil
}

func (c *taskCursor) read(ctx context.Context) ([]any, datastore.Cursor, error) {
	query := c.query.query().Limit(c.size)
	if c.cursor != nil {
		query = query.Start(*c.cursor)
	}

	it := c.query.runner.Run(ctx, query)
	batch := make([]any, 0, c.size)
	for {
		var task Task
		key, err := it.Next(&task)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, datastore.Cursor{}, fmt.Errorf("failed to read tasks: %w", err)
		}
		task.ID = key.ID
		task.TaskListID = c.query.taskListID
		batch = append(batch, task)
	}

	cursor, err := it.Cursor()
	if err != nil {
		return nil, datastore.Cursor{}, fmt.Errorf("failed to read task cursor: %w", err)
	}
	return batch, cursor, nil
}

func (c *taskCursor) Close() error {
	c.done = true
	return nil
}
