package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_management_sample/gridexport/internal/domain"
	"github.com/locvowork/employee_management_sample/gridexport/internal/logger"
	"github.com/locvowork/employee_management_sample/gridexport/internal/service"
	"github.com/locvowork/employee_management_sample/gridexport/internal/service/serviceutils"
)

const dateLayout = "2006-01-02"

type ExportHandler struct {
	svc service.ExportService
}

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportEmployeesHandler handles GET /export/employees
func (h *ExportHandler) ExportEmployeesHandler(c echo.Context) error {
	req, err := employeeRequest(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid query", err)
	}

	job, err := h.svc.ExportEmployees(c.Request().Context(), req)
	if err != nil {
		return exportError(c, err)
	}
	return h.stream(c, job)
}

// PreviewEmployeesHandler handles GET /export/employees/preview
func (h *ExportHandler) PreviewEmployeesHandler(c echo.Context) error {
	req, err := employeeRequest(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid query", err)
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid query", fmt.Errorf("limit: %w", err))
		}
	}

	preview, err := h.svc.PreviewEmployees(c.Request().Context(), req, limit)
	if err != nil {
		return exportError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", preview)
}

// ExportTasksHandler handles GET /export/tasks
func (h *ExportHandler) ExportTasksHandler(c echo.Context) error {
	footer, err := boolParam(c, "footer")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid query", err)
	}
	onlyOpen, err := boolParam(c, "open")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid query", err)
	}

	req := service.TaskExportRequest{
		Format:     c.QueryParam("format"),
		TaskListID: c.QueryParam("list"),
		OnlyOpen:   onlyOpen != nil && *onlyOpen,
		Footer:     footer,
	}
	job, err := h.svc.ExportTasks(c.Request().Context(), req)
	if err != nil {
		return exportError(c, err)
	}
	return h.stream(c, job)
}

func (h *ExportHandler) stream(c echo.Context, job *service.ExportJob) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, job.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, job.Filename))
	res.Header().Set("X-Export-Run-Id", job.RunID)
	res.WriteHeader(http.StatusOK)

	// The status is already sent, so a failure here can only cut the body short.
	if err := job.WriteTo(c.Request().Context(), res); err != nil {
		logger.ErrorLog(c.Request().Context(), "streaming %s aborted: %v", job.Filename, err)
		return err
	}
	return nil
}

func employeeRequest(c echo.Context) (service.ExportRequest, error) {
	req := service.ExportRequest{
		Format: c.QueryParam("format"),
		Source: c.QueryParam("source"),
		Filter: domain.EmployeeFilter{DeptName: c.QueryParam("dept")},
	}

	var err error
	if req.Footer, err = boolParam(c, "footer"); err != nil {
		return req, err
	}
	if req.Filter.HiredAfter, err = dateParam(c, "hired_after"); err != nil {
		return req, err
	}
	if req.Filter.HiredBefore, err = dateParam(c, "hired_before"); err != nil {
		return req, err
	}
	return req, nil
}

func boolParam(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &b, nil
}

func dateParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

func exportError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownFormat),
		errors.Is(err, service.ErrUnknownSource),
		errors.Is(err, service.ErrMissingTaskList):
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid export request", err)
	case errors.Is(err, service.ErrSourceUnavailable):
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "record source unavailable", err)
	}
	logger.ErrorLog(c.Request().Context(), "failed to prepare export: %v", err)
	return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to prepare export", err)
}
