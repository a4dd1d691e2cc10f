package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_management_sample/gridexport/internal/logger"
	"github.com/locvowork/employee_management_sample/gridexport/internal/service/serviceutils"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/googlecloud"
)

// TaskStore is the part of the Datastore client the task endpoints need.
type TaskStore interface {
	CreateTaskList(ctx context.Context, list *googlecloud.TaskList) error
	CreateTask(ctx context.Context, taskListID string, task *googlecloud.Task) error
	CountTasks(ctx context.Context, taskListID string) (int, error)
}

// TaskHandler manages the task lists that /export/tasks reads.
type TaskHandler struct {
	store TaskStore
}

func NewTaskHandler(store TaskStore) *TaskHandler {
	return &TaskHandler{store: store}
}

// CreateTaskListHandler handles POST /api/v1/gcp/task-lists
func (h *TaskHandler) CreateTaskListHandler(c echo.Context) error {
	ctx := c.Request().Context()
	var list googlecloud.TaskList
	if err := c.Bind(&list); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	if list.ID == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "task list id is required", nil)
	}

	if err := h.store.CreateTaskList(ctx, &list); err != nil {
		logger.ErrorLog(ctx, "failed to create task list: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to create task list", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "task list created", list)
}

// CreateTaskHandler handles POST /api/v1/gcp/task-lists/:id/tasks
func (h *TaskHandler) CreateTaskHandler(c echo.Context) error {
	ctx := c.Request().Context()
	taskListID := c.Param("id")
	var task googlecloud.Task
	if err := c.Bind(&task); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}

	if err := h.store.CreateTask(ctx, taskListID, &task); err != nil {
		logger.ErrorLog(ctx, "failed to create task: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to create task", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "task created", task)
}

// CountTasksHandler handles GET /api/v1/gcp/task-lists/:id/count
func (h *TaskHandler) CountTasksHandler(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := h.store.CountTasks(ctx, c.Param("id"))
	if err != nil {
		logger.ErrorLog(ctx, "failed to count tasks: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to count tasks", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", map[string]int{"count": n})
}
