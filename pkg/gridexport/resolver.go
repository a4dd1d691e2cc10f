package gridexport

import "fmt"

// RenderError reports a value or format function that failed while resolving a cell.
type RenderError struct {
	Column string
	Index  int
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render column %q at index %d: %v", e.Column, e.Index, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Resolver produces export values for cells.
type Resolver struct {
	formatter *Formatter
}

// NewResolver returns a Resolver formatting plain column values with f.
// A nil Formatter uses DefaultFormatter.
func NewResolver(f *Formatter) *Resolver {
	if f == nil {
		f = DefaultFormatter()
	}
	return &Resolver{formatter: f}
}

// Resolve returns the export value of column for one record.
// The export value function wins over the display one; the column itself is never modified.
func (r *Resolver) Resolve(record, key any, index int, column *Column) (string, error) {
	switch column.Kind {
	case KindAction, KindCheckbox:
		return "", nil
	case KindPlain:
		return r.resolvePlain(record, key, index, column)
	default:
		return r.resolveGeneric(record, key, index, column)
	}
}

func (r *Resolver) resolvePlain(record, key any, index int, column *Column) (string, error) {
	var raw any
	if fn := column.valueFunc(); fn != nil {
		v, err := fn(record, key, index)
		if err != nil {
			return "", r.renderError(column, index, err)
		}
		raw = v
	} else {
		raw = AttributeValue(record, column.Attribute)
	}

	out, err := r.formatter.Format(raw, column.Format)
	if err != nil {
		return "", r.renderError(column, index, err)
	}
	return out, nil
}

func (r *Resolver) resolveGeneric(record, key any, index int, column *Column) (string, error) {
	fn := column.valueFunc()
	if fn == nil {
		return "", nil
	}
	v, err := fn(record, key, index)
	if err != nil {
		return "", r.renderError(column, index, err)
	}
	return toString(indirect(v)), nil
}

func (r *Resolver) renderError(column *Column, index int, err error) error {
	name := column.Attribute
	if name == "" {
		name = column.Header
	}
	return &RenderError{Column: name, Index: index, Err: err}
}
