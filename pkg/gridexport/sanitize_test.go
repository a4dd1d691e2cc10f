package gridexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Cell
	}{
		{name: "empty is null", input: "", want: Cell{}},
		{name: "plain text", input: "Alice", want: Text("Alice")},
		{name: "formula", input: "=SUM(1,2)", want: Text("SUM(1,2)")},
		{name: "plus prefix", input: "+1234", want: Text("1234")},
		{name: "mixed leading run", input: "=+=+cmd|' /C calc'!A0", want: Text("cmd|' /C calc'!A0")},
		{name: "inner operators kept", input: "a=b+c", want: Text("a=b+c")},
		{name: "minus is not stripped", input: "-2", want: Text("-2")},
		{name: "only operators", input: "==+", want: Text("")},
		{name: "tags stripped", input: "<b>Bold</b> <a href=\"x\">link</a>", want: Text("Bold link")},
		{name: "formula hidden in markup", input: "<span>=HYPERLINK(\"x\")</span>", want: Text("HYPERLINK(\"x\")")},
		{name: "nbsp removed", input: "&nbsp;", want: Text("")},
		{name: "other entities kept", input: "A &amp; B", want: Text("A &amp; B")},
		{name: "comment removed", input: "x<!-- note -->y", want: Text("xy")},
		{name: "less-than in text", input: "1 < 2", want: Text("1 < 2")},
		{name: "leading space protects nothing", input: " =1", want: Text(" =1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_OnlyLeadingRunIsStripped(t *testing.T) {
	tails := []string{"x", "x=y", "1+1", "a==", " =b", "é=+"}
	prefixes := []string{"", "=", "+", "==", "+=+", "=+=+="}

	for _, prefix := range prefixes {
		for _, tail := range tails {
			got := Sanitize(prefix + tail)
			assert.True(t, got.Valid)
			assert.Equal(t, tail, got.Value, "input %q", prefix+tail)
			assert.False(t, strings.HasPrefix(got.Value, "="))
			assert.False(t, strings.HasPrefix(got.Value, "+"))
		}
	}
}

func TestRow_Strings(t *testing.T) {
	row := Row{Text("a"), {}, Text("")}
	assert.Equal(t, []string{"a", "", ""}, row.Strings())
}
