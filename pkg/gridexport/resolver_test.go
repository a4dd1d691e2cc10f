package gridexport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	Name     string    `json:"name"`
	Qty      any       `json:"qty"`
	Price    float64   `json:"price"`
	Added    time.Time `json:"added_at"`
	Supplier *supplier `json:"supplier"`
}

type supplier struct {
	Name string
}

func TestResolver_PlainColumn(t *testing.T) {
	r := NewResolver(nil)
	rec := product{
		Name:     "Bolt",
		Qty:      12,
		Price:    1234.5,
		Added:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Supplier: &supplier{Name: "ACME"},
	}

	tests := []struct {
		name   string
		column Column
		want   string
	}{
		{name: "field name", column: DataColumn("Name", "", ""), want: "Bolt"},
		{name: "json tag", column: DataColumn("qty", "", "text"), want: "12"},
		{name: "decimal", column: DataColumn("price", "", "decimal"), want: "1,234.50"},
		{name: "date", column: DataColumn("added_at", "", "date"), want: "2024-03-01"},
		{name: "dotted path", column: DataColumn("supplier.Name", "", ""), want: "ACME"},
		{name: "missing attribute", column: DataColumn("nope", "", ""), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(rec, 1, 0, &tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_MapRecord(t *testing.T) {
	r := NewResolver(nil)
	rec := map[string]any{"name": "B", "qty": "=SUM(1,2)"}

	got, err := r.Resolve(rec, nil, 0, &Column{Kind: KindPlain, Attribute: "qty"})
	require.NoError(t, err)
	assert.Equal(t, "=SUM(1,2)", got, "resolving does not sanitize")
}

func TestResolver_ExportValueWins(t *testing.T) {
	r := NewResolver(nil)
	var displayCalls, exportCalls int
	col := Column{
		Kind:      KindPlain,
		Attribute: "Price",
		Format:    "decimal:1",
		Value: func(record, _ any, _ int) (any, error) {
			displayCalls++
			return "<b>on screen</b>", nil
		},
		ExportValue: func(record, _ any, _ int) (any, error) {
			exportCalls++
			return record.(product).Price * 2, nil
		},
	}

	got, err := r.Resolve(product{Price: 2}, nil, 0, &col)
	require.NoError(t, err)
	assert.Equal(t, "4.0", got)
	assert.Equal(t, 1, exportCalls)
	assert.Equal(t, 0, displayCalls)

	// The descriptor still renders on screen with its own function.
	v, err := col.Value(product{}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "<b>on screen</b>", v)
	assert.NotNil(t, col.ExportValue)
}

func TestResolver_DisplayValueWithoutExportValue(t *testing.T) {
	r := NewResolver(nil)
	col := Column{
		Kind: KindPlain,
		Value: func(record, key any, index int) (any, error) {
			return key.(string) + "/" + record.(product).Name, nil
		},
	}

	got, err := r.Resolve(product{Name: "Nut"}, "k1", 3, &col)
	require.NoError(t, err)
	assert.Equal(t, "k1/Nut", got)
}

func TestResolver_InteractiveColumnsAreEmpty(t *testing.T) {
	r := NewResolver(nil)
	called := false
	fn := func(_, _ any, _ int) (any, error) {
		called = true
		return "x", nil
	}

	for _, kind := range []ColumnKind{KindAction, KindCheckbox} {
		got, err := r.Resolve(product{}, nil, 0, &Column{Kind: kind, Value: fn, ExportValue: fn})
		require.NoError(t, err)
		assert.Equal(t, "", got)
	}
	assert.False(t, called)
}

func TestResolver_GenericColumn(t *testing.T) {
	r := NewResolver(nil)
	formatCalls := 0
	col := Column{
		Kind:   KindGeneric,
		Format: "decimal", // ignored for generic columns
		Value: func(_, _ any, index int) (any, error) {
			formatCalls++
			return index + 1, nil
		},
	}

	got, err := r.Resolve(nil, nil, 4, &col)
	require.NoError(t, err)
	assert.Equal(t, "5", got)
	assert.Equal(t, 1, formatCalls, "generic path runs once")

	got, err = r.Resolve(nil, nil, 0, &Column{Kind: KindGeneric})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestResolver_Errors(t *testing.T) {
	r := NewResolver(nil)
	boom := errors.New("boom")

	col := Column{
		Kind:      KindPlain,
		Attribute: "price",
		ExportValue: func(_, _ any, _ int) (any, error) {
			return nil, boom
		},
	}
	_, err := r.Resolve(product{}, nil, 7, &col)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "price", renderErr.Column)
	assert.Equal(t, 7, renderErr.Index)
	assert.NotNil(t, col.ExportValue, "descriptor untouched after a failure")

	_, err = r.Resolve(product{Name: "x"}, nil, 0, &Column{Kind: KindPlain, Attribute: "Name", Format: "decimal"})
	assert.ErrorAs(t, err, &renderErr)

	_, err = r.Resolve(nil, nil, 0, &Column{Kind: KindGeneric, Header: "Calc", Value: col.ExportValue})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "Calc", renderErr.Column)
}
