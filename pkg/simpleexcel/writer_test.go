package simpleexcel

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type product struct {
	ID    int
	Name  string
	Note  *string
	Price float64
}

func products() []product {
	note := "=HYPERLINK(\"x\")"
	return []product{
		{ID: 1, Name: "<b>Widget</b>", Note: &note, Price: 9.5},
		{ID: 2, Name: "Gadget&nbsp;", Price: 120},
	}
}

func productColumns() []gridexport.Column {
	price := gridexport.DataColumn("Price", "Price", "decimal:2")
	price.Footer = "Total"
	return []gridexport.Column{
		gridexport.SerialColumn("#"),
		gridexport.DataColumn("Name", "", "text"),
		gridexport.DataColumn("Note", "Note", "text"),
		price,
		{Kind: gridexport.KindAction, Header: "Actions"},
	}
}

func newProductExporter(t *testing.T, opts ...gridexport.Option) *gridexport.Exporter {
	t.Helper()
	provider, err := gridexport.NewSliceProvider(products(), true)
	require.NoError(t, err)
	exp, err := gridexport.New(productColumns(), provider, opts...)
	require.NoError(t, err)
	return exp
}

func TestExport_XLSX(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewStreamExporter(&buf, "Products", WithColumnWidths(6, 30))
	require.NoError(t, err)

	require.NoError(t, Export(context.Background(), newProductExporter(t), w))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Products"}, f.GetSheetList())
	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"#", "Name", "Note", "Price"}, rows[0])
	assert.Equal(t, []string{"1", "Widget", "HYPERLINK(\"x\")", "9.50"}, rows[1])
	assert.Equal(t, []string{"2", "Gadget", "", "120.00"}, rows[2])
	assert.Equal(t, "Total", rows[3][len(rows[3])-1])

	width, err := f.GetColWidth("Products", "B")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), newProductExporter(t), NewCSVExporter(&buf, false)))

	assert.Equal(t, "#,Name,Note,Price\n"+
		"1,Widget,\"HYPERLINK(\"\"x\"\")\",9.50\n"+
		"2,Gadget,,120.00\n"+
		",,,Total\n", buf.String())
}

func TestExport_CSVWithoutFooter(t *testing.T) {
	var buf bytes.Buffer
	exp := newProductExporter(t, gridexport.WithFooter(false))
	require.NoError(t, Export(context.Background(), exp, NewCSVExporter(&buf, true)))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "#,Name,Note,Price\n1,Widget,\"HYPERLINK(\"\"x\"\")\",9.50\n2,Gadget,,120.00\n", string(out[len(utf8BOM):]))
	assert.Equal(t, gridexport.StateDone, exp.State())
}

type failingWriter struct {
	RowWriter
	closed bool
}

func (f *failingWriter) WriteHeader(gridexport.Row) error { return nil }
func (f *failingWriter) WriteRow(gridexport.Row) error    { return errors.New("disk full") }
func (f *failingWriter) Close() error {
	f.closed = true
	return nil
}

func TestExport_WriterError(t *testing.T) {
	w := &failingWriter{}
	exp := newProductExporter(t)

	err := Export(context.Background(), exp, w)
	assert.EqualError(t, err, "disk full")
	assert.False(t, w.closed)
	assert.Equal(t, gridexport.StateBodyStreaming, exp.State())
}

func TestExport_NoColumns(t *testing.T) {
	provider, err := gridexport.NewSliceProvider(products(), true)
	require.NoError(t, err)
	exp, err := gridexport.New([]gridexport.Column{{Kind: gridexport.KindCheckbox}}, provider)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), exp, NewCSVExporter(&buf, true)))
	assert.Empty(t, buf.String())
}
