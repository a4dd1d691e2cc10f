package simpleexcel

import (
	"context"

	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
)

// RowWriter receives the rows of one export in order.
type RowWriter interface {
	WriteHeader(row gridexport.Row) error
	WriteRow(row gridexport.Row) error
	WriteFooter(row gridexport.Row) error
	// Close flushes buffered output. It must be called once after the last row.
	Close() error
}

// Export drives exp through all of its steps and streams every row to w.
// Nil header and footer rows are not written. w is closed only on success.
func Export(ctx context.Context, exp *gridexport.Exporter, w RowWriter) error {
	header, err := exp.Header()
	if err != nil {
		return err
	}
	if header != nil {
		if err := w.WriteHeader(header); err != nil {
			return err
		}
	}

	if err := exp.EachRow(ctx, w.WriteRow); err != nil {
		return err
	}

	footer, err := exp.Footer()
	if err != nil {
		return err
	}
	if footer != nil {
		if err := w.WriteFooter(footer); err != nil {
			return err
		}
	}

	if err := exp.Finish(); err != nil {
		return err
	}
	return w.Close()
}
