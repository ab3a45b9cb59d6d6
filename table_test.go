package abacus

import (
	"strings"
	"testing"
)

// TestTableAssembleDefault tests the table part for a default table
func TestTableAssembleDefault(t *testing.T) {
	table := NewTable()
	table.firstRow, table.firstCol = 0, 0
	table.lastRow, table.lastCol = 6, 3
	table.index = 1
	if err := table.normalizeColumns(); err != nil {
		t.Fatalf("normalizeColumns failed: %v", err)
	}

	got := string(table.assembleXML())
	want := strings.Join([]string{
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n",
		`<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" id="1" name="Table1" displayName="Table1" ref="A1:D7" totalsRowShown="0">`,
		`<autoFilter ref="A1:D7"/>`,
		`<tableColumns count="4">`,
		`<tableColumn id="1" name="Column1"/>`,
		`<tableColumn id="2" name="Column2"/>`,
		`<tableColumn id="3" name="Column3"/>`,
		`<tableColumn id="4" name="Column4"/>`,
		`</tableColumns>`,
		`<tableStyleInfo name="TableStyleMedium9" showFirstColumn="0" showLastColumn="0" showRowStripes="1" showColumnStripes="0"/>`,
		`</table>`,
	}, "")

	if got != want {
		t.Errorf("table part doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestTableAssembleNoHeaderRow tests that hiding the header row drops the
// autofilter as well
func TestTableAssembleNoHeaderRow(t *testing.T) {
	table := NewTable().SetHeaderRow(false)
	table.firstRow, table.firstCol = 1, 1
	table.lastRow, table.lastCol = 5, 2
	table.index = 2
	if err := table.normalizeColumns(); err != nil {
		t.Fatalf("normalizeColumns failed: %v", err)
	}

	got := string(table.assembleXML())

	wantTable := `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" id="2" name="Table2" displayName="Table2" ref="B2:C6" headerRowCount="0" totalsRowShown="0">`
	if !strings.Contains(got, wantTable) {
		t.Errorf("table element missing headerRowCount\ngot: %s\nwant substring: %s", got, wantTable)
	}
	if strings.Contains(got, "<autoFilter") {
		t.Errorf("autoFilter written without a header row\ngot: %s", got)
	}
}

// TestTableAssembleTotalRow tests a total row with a label and a function
func TestTableAssembleTotalRow(t *testing.T) {
	table := NewTable().
		SetName("Sales2024").
		SetTotalRow(true).
		SetColumns([]TableColumn{
			NewTableColumn().SetHeader("Product").SetTotalLabel("Totals"),
			NewTableColumn().SetHeader("Units").SetTotalFunction(TableFunctionSum),
		})
	table.firstRow, table.firstCol = 0, 0
	table.lastRow, table.lastCol = 7, 1
	table.index = 1
	if err := table.normalizeColumns(); err != nil {
		t.Fatalf("normalizeColumns failed: %v", err)
	}

	got := string(table.assembleXML())

	wantTable := `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" id="1" name="Sales2024" displayName="Sales2024" ref="A1:B8" totalsRowCount="1">`
	if !strings.Contains(got, wantTable) {
		t.Errorf("table element doesn't match\ngot: %s\nwant substring: %s", got, wantTable)
	}

	wantFilter := `<autoFilter ref="A1:B7"/>`
	if !strings.Contains(got, wantFilter) {
		t.Errorf("autofilter should stop above the total row\ngot: %s\nwant substring: %s", got, wantFilter)
	}

	wantColumns := strings.Join([]string{
		`<tableColumns count="2">`,
		`<tableColumn id="1" name="Product" totalsRowLabel="Totals"/>`,
		`<tableColumn id="2" name="Units" totalsRowFunction="sum"/>`,
		`</tableColumns>`,
	}, "")
	if !strings.Contains(got, wantColumns) {
		t.Errorf("table columns don't match\ngot: %s\nwant substring: %s", got, wantColumns)
	}
}

// TestTableAssembleStyleNone tests that an unstyled table omits the style
// name
func TestTableAssembleStyleNone(t *testing.T) {
	table := NewTable().SetStyle(TableStyleNone).SetBandedRows(false)
	table.firstRow, table.firstCol = 0, 0
	table.lastRow, table.lastCol = 3, 0
	table.index = 1
	if err := table.normalizeColumns(); err != nil {
		t.Fatalf("normalizeColumns failed: %v", err)
	}

	got := string(table.assembleXML())

	want := `<tableStyleInfo showFirstColumn="0" showLastColumn="0" showRowStripes="0" showColumnStripes="0"/>`
	if !strings.Contains(got, want) {
		t.Errorf("style info doesn't match\ngot: %s\nwant substring: %s", got, want)
	}
}

// TestTableColumnTotalFormula tests the SUBTOTAL formulas for the total
// row, including structured reference quoting
func TestTableColumnTotalFormula(t *testing.T) {
	tests := []struct {
		name     string
		function TableFunction
		want     string
	}{
		{"Sales", TableFunctionSum, "SUBTOTAL(109,[Sales])"},
		{"Sales", TableFunctionAverage, "SUBTOTAL(101,[Sales])"},
		{"Sales", TableFunctionCountNumbers, "SUBTOTAL(102,[Sales])"},
		{"Sales", TableFunctionCount, "SUBTOTAL(103,[Sales])"},
		{"Sales", TableFunctionMax, "SUBTOTAL(104,[Sales])"},
		{"Sales", TableFunctionMin, "SUBTOTAL(105,[Sales])"},
		{"Sales", TableFunctionStdDev, "SUBTOTAL(107,[Sales])"},
		{"Sales", TableFunctionVar, "SUBTOTAL(110,[Sales])"},
		{"Column#1", TableFunctionSum, "SUBTOTAL(109,[Column'#1])"},
		{"Col[um]n", TableFunctionSum, "SUBTOTAL(109,[Col'[um']n])"},
		{"O'Brien", TableFunctionSum, "SUBTOTAL(109,[O''Brien])"},
	}

	for _, test := range tests {
		column := NewTableColumn().SetHeader(test.name).SetTotalFunction(test.function)
		if got := column.totalFormula().formula; got != test.want {
			t.Errorf("totalFormula(%q, %v) = %q; want %q", test.name, test.function, got, test.want)
		}
	}

	plain := NewTableColumn().SetHeader("Sales")
	if got := plain.totalFormula().formula; got != "" {
		t.Errorf("totalFormula without a function = %q; want empty", got)
	}
}

// TestTableStyleNames tests the built-in style name strings
func TestTableStyleNames(t *testing.T) {
	tests := []struct {
		style TableStyle
		want  string
	}{
		{TableStyleNone, ""},
		{TableStyleLight1, "TableStyleLight1"},
		{TableStyleLight21, "TableStyleLight21"},
		{TableStyleMedium9, "TableStyleMedium9"},
		{TableStyleMedium28, "TableStyleMedium28"},
		{TableStyleDark1, "TableStyleDark1"},
		{TableStyleDark11, "TableStyleDark11"},
	}

	for _, test := range tests {
		if got := test.style.String(); got != test.want {
			t.Errorf("style %d name = %q; want %q", test.style, got, test.want)
		}
	}
}

// TestTableDuplicateColumnNames tests that duplicate headers are rejected
// regardless of case
func TestTableDuplicateColumnNames(t *testing.T) {
	table := NewTable().SetColumns([]TableColumn{
		NewTableColumn().SetHeader("Sales"),
		NewTableColumn().SetHeader("SALES"),
	})
	table.firstRow, table.firstCol = 0, 0
	table.lastRow, table.lastCol = 4, 1
	table.index = 1

	if err := table.normalizeColumns(); err == nil {
		t.Fatal("normalizeColumns should reject duplicate column names")
	}
}

// TestTableColumnDefaults tests default header naming for missing columns
func TestTableColumnDefaults(t *testing.T) {
	table := NewTable().SetColumns([]TableColumn{
		NewTableColumn().SetHeader("First"),
	})
	table.firstRow, table.firstCol = 0, 0
	table.lastRow, table.lastCol = 4, 2
	table.index = 1
	if err := table.normalizeColumns(); err != nil {
		t.Fatalf("normalizeColumns failed: %v", err)
	}

	want := []string{"First", "Column2", "Column3"}
	if len(table.columns) != len(want) {
		t.Fatalf("column count = %d; want %d", len(table.columns), len(want))
	}
	for i, name := range want {
		if table.columns[i].name != name {
			t.Errorf("column %d name = %q; want %q", i, table.columns[i].name, name)
		}
	}
}
