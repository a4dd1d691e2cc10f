package gridexport

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrInvalidState is returned when an Exporter step is called out of order or twice.
var ErrInvalidState = errors.New("invalid exporter state")

// State is the progress of an export run.
type State int

const (
	StateInitialized State = iota
	StateHeaderGenerated
	StateBodyStreaming
	StateFooterGenerated
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateHeaderGenerated:
		return "header generated"
	case StateBodyStreaming:
		return "body streaming"
	case StateFooterGenerated:
		return "footer generated"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Result holds every row of a finished export. Header and Footer are nil when absent.
type Result struct {
	Header Row
	Body   []Row
	Footer Row
}

// Exporter turns columns and a record source into header, body and footer rows.
// One Exporter serves exactly one run; its steps only move forward.
type Exporter struct {
	columns  []Column
	source   any
	settings Settings
	resolver *Resolver
	log      zerolog.Logger
	state    State
	rows     int
}

// New prepares an export of source with the given columns.
// Interactive columns (action, checkbox, menu) are dropped here, once.
func New(columns []Column, source any, opts ...Option) (*Exporter, error) {
	settings, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	e := &Exporter{
		columns:  RetainedColumns(columns),
		source:   source,
		settings: settings,
		resolver: NewResolver(settings.formatter),
		state:    StateInitialized,
	}
	e.log = settings.logger.With().
		Str("filename", settings.Filename).
		Int("columns", len(e.columns)).
		Logger()
	return e, nil
}

// Columns returns the retained columns.
func (e *Exporter) Columns() []Column {
	return e.columns
}

// Settings returns the settings of the run.
func (e *Exporter) Settings() Settings {
	return e.settings
}

// State returns the current step of the run.
func (e *Exporter) State() State {
	return e.state
}

// advance moves to next, refusing to go back or repeat a step.
func (e *Exporter) advance(next State) error {
	if next <= e.state {
		return fmt.Errorf("%w: cannot enter %q from %q", ErrInvalidState, next, e.state)
	}
	e.state = next
	return nil
}

// Header returns the header row, or nil when no column is retained.
func (e *Exporter) Header() (Row, error) {
	if err := e.advance(StateHeaderGenerated); err != nil {
		return nil, err
	}
	if len(e.columns) == 0 {
		return nil, nil
	}

	row := make(Row, len(e.columns))
	for i := range e.columns {
		row[i] = Sanitize(e.columns[i].headerLabel())
	}
	return row, nil
}

// EachRow reads the whole record source and calls fn with every body row, in source order.
// Retrieval errors are returned as the source reported them.
func (e *Exporter) EachRow(ctx context.Context, fn func(Row) error) error {
	if err := e.advance(StateBodyStreaming); err != nil {
		return err
	}
	if len(e.columns) == 0 {
		return nil
	}

	it, err := NewIterator(e.source, e.settings.BatchSize, e.settings.keyFunc)
	if err != nil {
		return err
	}
	defer it.Close()

	for {
		entry, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if entry.Index == 0 {
			e.log.Debug().Int("rows", e.rows).Msg("fetched batch")
		}

		row, err := e.row(entry)
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
		e.rows++
	}

	e.log.Debug().Int("rows", e.rows).Msg("body exported")
	return nil
}

// Body collects every body row.
func (e *Exporter) Body(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := e.EachRow(ctx, func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (e *Exporter) row(entry Entry) (Row, error) {
	row := make(Row, len(e.columns))
	for i := range e.columns {
		value, err := e.resolver.Resolve(entry.Record, entry.Key, entry.Index, &e.columns[i])
		if err != nil {
			return nil, err
		}
		row[i] = Sanitize(value)
	}
	return row, nil
}

// Footer returns the footer row, or nil when footers are disabled or no column is retained.
// Columns without footer text get an empty cell so the row keeps its width.
func (e *Exporter) Footer() (Row, error) {
	if err := e.advance(StateFooterGenerated); err != nil {
		return nil, err
	}
	if !e.settings.ExportFooter || len(e.columns) == 0 {
		return nil, nil
	}

	row := make(Row, len(e.columns))
	for i, col := range e.columns {
		if col.Footer == "" {
			row[i] = Text("")
			continue
		}
		row[i] = Sanitize(col.Footer)
	}
	return row, nil
}

// Run generates the header, body and footer in order and finishes the run.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	header, err := e.Header()
	if err != nil {
		return nil, err
	}
	body, err := e.Body(ctx)
	if err != nil {
		return nil, err
	}
	footer, err := e.Footer()
	if err != nil {
		return nil, err
	}
	if err := e.Finish(); err != nil {
		return nil, err
	}
	return &Result{Header: header, Body: body, Footer: footer}, nil
}

// Finish marks the run as done. Later calls to any step fail.
func (e *Exporter) Finish() error {
	if err := e.advance(StateDone); err != nil {
		return err
	}
	e.log.Info().Int("rows", e.rows).Msg("export finished")
	return nil
}
