package gridexport

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Cell is a sanitized cell value. An invalid Cell means "no value", which writers
// keep apart from the empty string.
type Cell struct {
	Value string
	Valid bool
}

// Text returns a valid cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

func (c Cell) String() string {
	return c.Value
}

// Row is one output line, one cell per retained column.
type Row []Cell

// Strings flattens the row, rendering invalid cells as "".
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

const nbspEntity = "&nbsp;"

// Sanitize neutralizes a value before it reaches an exported document.
// Markup tags and the literal "&nbsp;" are removed, then any leading run of '=' or '+'
// so spreadsheet applications do not evaluate the cell as a formula.
// Empty input yields an invalid Cell.
func Sanitize(value string) Cell {
	if value == "" {
		return Cell{}
	}
	value = strings.ReplaceAll(stripTags(value), nbspEntity, "")
	return Text(strings.TrimLeft(value, "=+"))
}

// stripTags drops tags, comments and doctypes and keeps text exactly as written,
// entities included.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var buf bytes.Buffer
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader produces.
			return buf.String()
		case html.TextToken:
			buf.Write(z.Raw())
		}
	}
}
