package googlecloud

import (
	"time"
)

// TaskList groups tasks under a named ancestor key.
type TaskList struct {
	ID        string    `datastore:"-" json:"id"` // key name
	Name      string    `datastore:"name" json:"name"`
	CreatedAt time.Time `datastore:"created_at" json:"created_at"`
}

// Task is a single unit of work stored under a TaskList.
type Task struct {
	ID          int64     `datastore:"-" json:"id"` // key id
	Description string    `datastore:"description" json:"description"`
	Done        bool      `datastore:"done" json:"done"`
	Priority    int       `datastore:"priority" json:"priority"`
	CreatedAt   time.Time `datastore:"created_at" json:"created_at"`

	TaskListID string `datastore:"-" json:"task_list_id"`
}

// PrimaryKey returns the datastore key id.
func (t Task) PrimaryKey() any { return t.ID }
