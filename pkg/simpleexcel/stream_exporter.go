package simpleexcel

import (
	"fmt"
	"io"

	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DefaultSheet    = "Export"
)

// StreamExporter writes rows to a single xlsx sheet through the excelize
// stream writer, so memory stays flat for large bodies. Null cells stay blank.
type StreamExporter struct {
	file        *excelize.File
	stream      *excelize.StreamWriter
	writer      io.Writer
	currentRow  int
	headerStyle int
	footerStyle int
	widths      []float64
}

// StreamOption customises a StreamExporter.
type StreamOption func(*StreamExporter)

// WithColumnWidths sets the widths of the first len(widths) columns. Zero keeps the default.
func WithColumnWidths(widths ...float64) StreamOption {
	return func(e *StreamExporter) {
		e.widths = widths
	}
}

// NewStreamExporter creates an exporter writing a sheet named sheet to w.
func NewStreamExporter(w io.Writer, sheet string, opts ...StreamOption) (*StreamExporter, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	e := &StreamExporter{file: f, writer: w, currentRow: 1}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	if e.headerStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "000000"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
	}); err != nil {
		f.Close()
		return nil, err
	}
	if e.footerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		f.Close()
		return nil, err
	}

	if e.stream, err = f.NewStreamWriter(sheet); err != nil {
		f.Close()
		return nil, err
	}
	for i, width := range e.widths {
		if width <= 0 {
			continue
		}
		if err := e.stream.SetColWidth(i+1, i+1, width); err != nil {
			f.Close()
			return nil, err
		}
	}
	return e, nil
}

func (e *StreamExporter) WriteHeader(row gridexport.Row) error {
	return e.setRow(row, e.headerStyle)
}

func (e *StreamExporter) WriteRow(row gridexport.Row) error {
	return e.setRow(row, 0)
}

func (e *StreamExporter) WriteFooter(row gridexport.Row) error {
	return e.setRow(row, e.footerStyle)
}

func (e *StreamExporter) setRow(row gridexport.Row, styleID int) error {
	values := make([]interface{}, len(row))
	for i, c := range row {
		switch {
		case !c.Valid:
			values[i] = nil
		case styleID != 0:
			values[i] = excelize.Cell{StyleID: styleID, Value: c.Value}
		default:
			values[i] = c.Value
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, e.currentRow)
	if err != nil {
		return err
	}
	if err := e.stream.SetRow(cell, values); err != nil {
		return fmt.Errorf("write row %d: %w", e.currentRow, err)
	}
	e.currentRow++
	return nil
}

// Close flushes the sheet and writes the workbook to the output writer.
func (e *StreamExporter) Close() error {
	defer e.file.Close()
	if err := e.stream.Flush(); err != nil {
		return err
	}
	return e.file.Write(e.writer)
}
