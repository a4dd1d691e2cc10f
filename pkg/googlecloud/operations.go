package googlecloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
)

const (
	KindTaskList = "TaskList"
	KindTask     = "Task"
)

var ErrNotFound = errors.New("entity not found")

func wrapDatastoreError(err error) error {
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

// CreateTaskList stores a task list under its string ID.
func (c *Client) CreateTaskList(ctx context.Context, list *TaskList) error {
	if list.ID == "" {
		return fmt.Errorf("task list ID cannot be empty")
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}

	key := datastore.NameKey(KindTaskList, list.ID, nil)
	_, err := c.ds.Put(ctx, key, list)
	return err
}

// GetTaskList retrieves a task list by ID.
func (c *Client) GetTaskList(ctx context.Context, id string) (*TaskList, error) {
	key := datastore.NameKey(KindTaskList, id, nil)
	var list TaskList
	if err := c.ds.Get(ctx, key, &list); err != nil {
		return nil, wrapDatastoreError(err)
	}
	list.ID = id
	return &list, nil
}

// CreateTask stores a task under the given list with an auto-allocated ID.
func (c *Client) CreateTask(ctx context.Context, taskListID string, task *Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	parentKey := datastore.NameKey(KindTaskList, taskListID, nil)
	key := datastore.IncompleteKey(KindTask, parentKey)

	newKey, err := c.ds.Put(ctx, key, task)
	if err != nil {
		return err
	}
	task.ID = newKey.ID
	task.TaskListID = taskListID
	return nil
}

// CountTasks counts the tasks of a list with a keys-only query.
func (c *Client) CountTasks(ctx context.Context, taskListID string) (int, error) {
	parentKey := datastore.NameKey(KindTaskList, taskListID, nil)
	query := datastore.NewQuery(KindTask).
		Ancestor(parentKey).
		KeysOnly()

	keys, err := c.ds.GetAll(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
