package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/employee_management_sample/gridexport/internal/config"
	"github.com/locvowork/employee_management_sample/gridexport/internal/domain"
	"github.com/locvowork/employee_management_sample/gridexport/internal/logger"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/simpleexcel"
)

var (
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrUnknownSource     = errors.New("unknown record source")
	ErrSourceUnavailable = errors.New("record source not configured")
	ErrMissingTaskList   = errors.New("task list ID cannot be empty")
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	SourceDB     = "db"
	SourceSearch = "search"

	DefaultPreviewRows = 20
	MaxPreviewRows     = 200
)

// ExportRequest selects what to export and how.
type ExportRequest struct {
	Format string
	Source string
	// Footer overrides the profile's footer setting when set.
	Footer *bool
	Filter domain.EmployeeFilter
}

// TaskExportRequest selects the tasks of one task list.
type TaskExportRequest struct {
	Format     string
	TaskListID string
	OnlyOpen   bool
	Footer     *bool
}

// ExportJob is a prepared export. Filename and ContentType are known before
// any record is read so they can be sent ahead of the body.
type ExportJob struct {
	RunID       string
	Filename    string
	ContentType string

	exporter  *gridexport.Exporter
	newWriter func(io.Writer) (simpleexcel.RowWriter, error)
}

// WriteTo streams the whole export to w.
func (j *ExportJob) WriteTo(ctx context.Context, w io.Writer) error {
	ctx = logger.WithRunID(ctx, j.RunID)
	rw, err := j.newWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	if err := simpleexcel.Export(ctx, j.exporter, rw); err != nil {
		logger.ErrorLog(ctx, "export %s failed: %v", j.Filename, err)
		return err
	}
	return nil
}

// PreviewCell is a JSON cell; a nil Value means no value.
type PreviewCell struct {
	Value *string `json:"value"`
}

// Preview is the first rows of an export rendered as JSON.
type Preview struct {
	RunID     string          `json:"run_id"`
	Header    []string        `json:"header"`
	Rows      [][]PreviewCell `json:"rows"`
	Footer    []string        `json:"footer,omitempty"`
	Truncated bool            `json:"truncated"`
}

type ExportService interface {
	ExportEmployees(ctx context.Context, req ExportRequest) (*ExportJob, error)
	PreviewEmployees(ctx context.Context, req ExportRequest, limit int) (*Preview, error)
	ExportTasks(ctx context.Context, req TaskExportRequest) (*ExportJob, error)
}

// ExportSources holds the record sources available to the service.
// Search and Tasks are nil when their backend is not configured.
type ExportSources struct {
	Employees domain.EmployeeRepository
	Search    func(filter domain.EmployeeFilter) gridexport.PagedProvider
	Tasks     func(taskListID string, onlyOpen bool) gridexport.BatchQuery
}

type exportService struct {
	sources   ExportSources
	profile   config.ExportProfile
	formatter *gridexport.Formatter
	now       func() time.Time
}

func NewExportService(sources ExportSources, profile config.ExportProfile) (ExportService, error) {
	formatter, err := gridexport.NewFormatter(profile.Formatter)
	if err != nil {
		return nil, fmt.Errorf("invalid formatter settings: %w", err)
	}
	return &exportService{
		sources:   sources,
		profile:   profile,
		formatter: formatter,
		now:       time.Now,
	}, nil
}

func (s *exportService) ExportEmployees(ctx context.Context, req ExportRequest) (*ExportJob, error) {
	source, err := s.employeeSource(req)
	if err != nil {
		return nil, err
	}
	return s.newJob(ctx, "employees", req.Format, req.Footer, EmployeeColumns(), source)
}

func (s *exportService) ExportTasks(ctx context.Context, req TaskExportRequest) (*ExportJob, error) {
	if s.sources.Tasks == nil {
		return nil, fmt.Errorf("%w: tasks", ErrSourceUnavailable)
	}
	if req.TaskListID == "" {
		return nil, ErrMissingTaskList
	}
	return s.newJob(ctx, "tasks", req.Format, req.Footer, TaskColumns(), s.sources.Tasks(req.TaskListID, req.OnlyOpen))
}

func (s *exportService) PreviewEmployees(ctx context.Context, req ExportRequest, limit int) (*Preview, error) {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	if limit > MaxPreviewRows {
		limit = MaxPreviewRows
	}

	source, err := s.employeeSource(req)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	// One extra row tells a full preview from a truncated one in a single fetch.
	exp, err := gridexport.New(EmployeeColumns(), source, s.options(ctx, "preview", req.Footer, limit+1)...)
	if err != nil {
		return nil, err
	}

	preview := &Preview{RunID: runID, Rows: [][]PreviewCell{}}
	header, err := exp.Header()
	if err != nil {
		return nil, err
	}
	preview.Header = header.Strings()

	errPreviewFull := errors.New("preview full")
	err = exp.EachRow(ctx, func(row gridexport.Row) error {
		if len(preview.Rows) == limit {
			preview.Truncated = true
			return errPreviewFull
		}
		preview.Rows = append(preview.Rows, previewRow(row))
		return nil
	})
	if err != nil && !errors.Is(err, errPreviewFull) {
		return nil, err
	}

	footer, err := exp.Footer()
	if err != nil {
		return nil, err
	}
	if footer != nil {
		preview.Footer = footer.Strings()
	}
	if err := exp.Finish(); err != nil {
		return nil, err
	}
	return preview, nil
}

func previewRow(row gridexport.Row) []PreviewCell {
	cells := make([]PreviewCell, len(row))
	for i, c := range row {
		if c.Valid {
			v := c.Value
			cells[i].Value = &v
		}
	}
	return cells
}

func (s *exportService) employeeSource(req ExportRequest) (any, error) {
	switch strings.ToLower(req.Source) {
	case "", SourceDB:
		if s.sources.Employees == nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, SourceDB)
		}
		return s.sources.Employees.ExportQuery(req.Filter), nil
	case SourceSearch:
		if s.sources.Search == nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, SourceSearch)
		}
		return s.sources.Search(req.Filter), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
}

func (s *exportService) newJob(ctx context.Context, name, format string, footer *bool, columns []gridexport.Column, source any) (*ExportJob, error) {
	var (
		ext         string
		contentType string
		newWriter   func(io.Writer) (simpleexcel.RowWriter, error)
	)
	switch strings.ToLower(format) {
	case "", FormatCSV:
		ext, contentType = FormatCSV, simpleexcel.ContentTypeCSV
		newWriter = func(w io.Writer) (simpleexcel.RowWriter, error) {
			return simpleexcel.NewCSVExporter(w, true), nil
		}
	case FormatXLSX:
		ext, contentType = FormatXLSX, simpleexcel.ContentTypeXLSX
		newWriter = func(w io.Writer) (simpleexcel.RowWriter, error) {
			sw, err := simpleexcel.NewStreamExporter(w, name)
			if err != nil {
				return nil, err
			}
			return sw, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	exp, err := gridexport.New(columns, source, s.options(ctx, name, footer, s.profile.BatchSize)...)
	if err != nil {
		return nil, err
	}

	job := &ExportJob{
		RunID:       runID,
		Filename:    exp.Settings().Filename + "." + ext,
		ContentType: contentType,
		exporter:    exp,
		newWriter:   newWriter,
	}
	logger.InfoLog(ctx, "prepared %s export %s", name, job.Filename)
	return job, nil
}

func (s *exportService) options(ctx context.Context, name string, footer *bool, batchSize int) []gridexport.Option {
	exportFooter := s.profile.FooterEnabled()
	if footer != nil {
		exportFooter = *footer
	}
	return []gridexport.Option{
		gridexport.WithBatchSize(batchSize),
		gridexport.WithFooter(exportFooter),
		gridexport.WithFilename(fmt.Sprintf("%s%s_%d", s.profile.FilenamePrefix, name, s.now().Unix())),
		gridexport.WithFormatter(s.formatter),
		gridexport.WithLogger(logger.Logger(ctx).With().Str("export", name).Logger()),
	}
}
