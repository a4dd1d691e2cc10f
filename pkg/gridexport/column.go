package gridexport

// ColumnKind tags what a grid column is used for.
type ColumnKind int

const (
	// KindPlain is a data column bound to a record attribute and a format.
	KindPlain ColumnKind = iota
	// KindGeneric renders its value function without formatting (serial numbers, computed cells).
	KindGeneric
	// KindAction holds row action links. Never exported.
	KindAction
	// KindCheckbox holds row selection checkboxes. Never exported.
	KindCheckbox
	// KindMenu holds a per-row dropdown menu. Never exported.
	KindMenu
)

func (k ColumnKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindGeneric:
		return "generic"
	case KindAction:
		return "action"
	case KindCheckbox:
		return "checkbox"
	case KindMenu:
		return "menu"
	}
	return "unknown"
}

// Interactive reports whether the kind only exists for on-screen interaction.
func (k ColumnKind) Interactive() bool {
	return k == KindAction || k == KindCheckbox || k == KindMenu
}

// ValueFunc computes the value of a cell for the given record.
type ValueFunc func(record any, key any, index int) (any, error)

// Column describes one field of the grid.
type Column struct {
	Kind ColumnKind `json:"kind"`
	// Attribute is the record field read by plain columns when Value is nil.
	// Dotted paths ("manager.name") walk nested structs and maps.
	Attribute string `json:"attribute"`
	Header    string `json:"header"`
	Footer    string `json:"footer"`
	// Format is applied to plain column values, e.g. "text", "date", "decimal:2".
	Format string `json:"format"`

	// Value is the on-screen rendering.
	Value ValueFunc `json:"-"`
	// ExportValue replaces Value while exporting, when set.
	ExportValue ValueFunc `json:"-"`
}

// DataColumn returns a plain column reading attribute with the given format.
func DataColumn(attribute, header, format string) Column {
	return Column{Kind: KindPlain, Attribute: attribute, Header: header, Format: format}
}

// SerialColumn returns a generic column numbering rows from 1 across the whole export.
// The counter lives in the column, so build a new one for every export.
func SerialColumn(header string) Column {
	n := 0
	return Column{
		Kind:   KindGeneric,
		Header: header,
		Value: func(_ any, _ any, _ int) (any, error) {
			n++
			return n, nil
		},
	}
}

// RetainedColumns returns the columns eligible for export, in their original order.
func RetainedColumns(columns []Column) []Column {
	retained := make([]Column, 0, len(columns))
	for _, col := range columns {
		if col.Kind.Interactive() {
			continue
		}
		retained = append(retained, col)
	}
	return retained
}

// valueFunc picks the function used for an export cell.
func (c *Column) valueFunc() ValueFunc {
	if c.ExportValue != nil {
		return c.ExportValue
	}
	return c.Value
}

// headerLabel is the text shown in the header row before sanitizing.
func (c *Column) headerLabel() string {
	if c.Kind == KindPlain && c.Header == "" {
		return DeriveLabel(c.Attribute)
	}
	return c.Header
}
