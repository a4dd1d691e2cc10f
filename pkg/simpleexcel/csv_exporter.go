package simpleexcel

import (
	"encoding/csv"
	"io"

	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
)

const ContentTypeCSV = "text/csv; charset=utf-8"

// utf8BOM makes spreadsheet applications detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes rows as comma separated values. Null cells become empty fields.
type CSVExporter struct {
	out     io.Writer
	w       *csv.Writer
	bom     bool
	started bool
}

// NewCSVExporter writes to w. With bom set, output starts with a UTF-8 byte order mark.
func NewCSVExporter(w io.Writer, bom bool) *CSVExporter {
	return &CSVExporter{out: w, w: csv.NewWriter(w), bom: bom}
}

func (e *CSVExporter) WriteHeader(row gridexport.Row) error { return e.write(row) }

func (e *CSVExporter) WriteRow(row gridexport.Row) error { return e.write(row) }

func (e *CSVExporter) WriteFooter(row gridexport.Row) error { return e.write(row) }

func (e *CSVExporter) write(row gridexport.Row) error {
	if !e.started {
		e.started = true
		if e.bom {
			if _, err := e.out.Write(utf8BOM); err != nil {
				return err
			}
		}
	}
	return e.w.Write(row.Strings())
}

func (e *CSVExporter) Close() error {
	e.w.Flush()
	return e.w.Error()
}
