package abacus

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// Table is an Excel worksheet table: a named range with filtering,
// styling, and optional total row. Add one to a worksheet with
// Worksheet.AddTable.
//
//	table := abacus.NewTable().SetColumns([]abacus.TableColumn{
//		abacus.NewTableColumn().SetHeader("Product"),
//		abacus.NewTableColumn().SetHeader("Units").SetTotalFunction(abacus.TableFunctionSum),
//	}).SetTotalRow(true)
//	ws.AddTable(0, 0, 6, 1, table)
type Table struct {
	columns []TableColumn
	name    string
	style   TableStyle

	firstRow uint32
	lastRow  uint32
	firstCol uint16
	lastCol  uint16
	index    uint32
	relID    uint32

	showHeaderRow     bool
	showTotalRow      bool
	showFirstColumn   bool
	showLastColumn    bool
	showBandedRows    bool
	showBandedColumns bool
	showAutofilter    bool
}

// NewTable creates a table with Excel's defaults: a header row, an
// autofilter, banded rows, and the Medium 9 style.
func NewTable() *Table {
	return &Table{
		style:          TableStyleMedium9,
		showHeaderRow:  true,
		showBandedRows: true,
		showAutofilter: true,
	}
}

// SetName sets the table name. Without one, tables are named Table1,
// Table2, and so on in the order they are added to the workbook. Names
// must be unique across the workbook.
func (t *Table) SetName(name string) *Table {
	t.name = name
	return t
}

// SetStyle sets one of Excel's built-in table styles.
func (t *Table) SetStyle(style TableStyle) *Table {
	t.style = style
	return t
}

// SetColumns sets the column descriptions. Columns beyond the ones given
// here get default headers Column1, Column2, and so on.
func (t *Table) SetColumns(columns []TableColumn) *Table {
	t.columns = columns
	return t
}

// SetHeaderRow enables or disables the header row. On by default.
func (t *Table) SetHeaderRow(enable bool) *Table {
	t.showHeaderRow = enable
	return t
}

// SetTotalRow enables a total row as the last table row.
func (t *Table) SetTotalRow(enable bool) *Table {
	t.showTotalRow = enable
	return t
}

// SetAutofilter enables or disables the header dropdowns. On by default.
func (t *Table) SetAutofilter(enable bool) *Table {
	t.showAutofilter = enable
	return t
}

// SetFirstColumn highlights the first table column.
func (t *Table) SetFirstColumn(enable bool) *Table {
	t.showFirstColumn = enable
	return t
}

// SetLastColumn highlights the last table column.
func (t *Table) SetLastColumn(enable bool) *Table {
	t.showLastColumn = enable
	return t
}

// SetBandedRows enables or disables row banding. On by default.
func (t *Table) SetBandedRows(enable bool) *Table {
	t.showBandedRows = enable
	return t
}

// SetBandedColumns enables column banding.
func (t *Table) SetBandedColumns(enable bool) *Table {
	t.showBandedColumns = enable
	return t
}

// displayName returns the user name or the default indexed name.
func (t *Table) displayName() string {
	if t.name != "" {
		return t.name
	}
	return "Table" + strconv.FormatUint(uint64(t.index), 10)
}

// validateTableName checks a user supplied table name against Excel's
// naming rules. Uniqueness across the workbook is checked at save time.
func validateTableName(name string) error {
	if utf8.RuneCountInString(name) > maxParameterLen {
		return newParameterError("table name",
			fmt.Sprintf("longer than Excel's limit of %d characters", maxParameterLen))
	}
	if strings.ContainsAny(name, " []:*?/\\") {
		return newParameterError("table name",
			"must not contain spaces or the characters []:*?/\\")
	}

	first, _ := utf8.DecodeRuneInString(name)
	if first >= '0' && first <= '9' || first == '.' {
		return newParameterError("table name", "must not start with a digit or period")
	}

	return nil
}

// normalizeColumns pads or truncates the column list to the table width
// and fills in default header names.
func (t *Table) normalizeColumns() error {
	want := int(t.lastCol-t.firstCol) + 1

	columns := make([]TableColumn, want)
	copy(columns, t.columns)

	seen := make(map[string]bool, want)
	for i := range columns {
		if columns[i].name == "" {
			columns[i].name = "Column" + strconv.Itoa(i+1)
		}

		key := strings.ToLower(columns[i].name)
		if seen[key] {
			return newParameterError("table column",
				"duplicate column name "+strconv.Quote(columns[i].name))
		}
		seen[key] = true
	}

	t.columns = columns
	return nil
}

// assembleXML renders the xl/tables/tableN.xml part.
func (t *Table) assembleXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	name := t.displayName()

	attrs := []xmlwriter.Attr{
		{Key: "xmlns", Value: nsMain},
		{Key: "id", Value: strconv.FormatUint(uint64(t.index), 10)},
		{Key: "name", Value: name},
		{Key: "displayName", Value: name},
		{Key: "ref", Value: CellRange(t.firstRow, t.firstCol, t.lastRow, t.lastCol)},
	}

	if !t.showHeaderRow {
		attrs = append(attrs, xmlwriter.Attr{Key: "headerRowCount", Value: "0"})
	}

	if t.showTotalRow {
		attrs = append(attrs, xmlwriter.Attr{Key: "totalsRowCount", Value: "1"})
	} else {
		attrs = append(attrs, xmlwriter.Attr{Key: "totalsRowShown", Value: "0"})
	}

	w.StartTagAttr("table", attrs)

	if t.showAutofilter && t.showHeaderRow {
		lastRow := t.lastRow
		if t.showTotalRow {
			lastRow--
		}
		w.EmptyTagAttr("autoFilter", []xmlwriter.Attr{
			{Key: "ref", Value: CellRange(t.firstRow, t.firstCol, lastRow, t.lastCol)},
		})
	}

	w.StartTagAttr("tableColumns", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(len(t.columns))},
	})
	for i, column := range t.columns {
		columnAttrs := []xmlwriter.Attr{
			{Key: "id", Value: strconv.Itoa(i + 1)},
			{Key: "name", Value: column.name},
		}
		if column.totalLabel != "" {
			columnAttrs = append(columnAttrs,
				xmlwriter.Attr{Key: "totalsRowLabel", Value: column.totalLabel})
		} else if column.totalFunction != TableFunctionNone {
			columnAttrs = append(columnAttrs,
				xmlwriter.Attr{Key: "totalsRowFunction", Value: column.totalFunction.value()})
		}
		w.EmptyTagAttr("tableColumn", columnAttrs)
	}
	w.EndTag("tableColumns")

	styleAttrs := []xmlwriter.Attr{}
	if t.style != TableStyleNone {
		styleAttrs = append(styleAttrs, xmlwriter.Attr{Key: "name", Value: t.style.String()})
	}
	styleAttrs = append(styleAttrs,
		xmlwriter.Attr{Key: "showFirstColumn", Value: xmlBool(t.showFirstColumn)},
		xmlwriter.Attr{Key: "showLastColumn", Value: xmlBool(t.showLastColumn)},
		xmlwriter.Attr{Key: "showRowStripes", Value: xmlBool(t.showBandedRows)},
		xmlwriter.Attr{Key: "showColumnStripes", Value: xmlBool(t.showBandedColumns)},
	)
	w.EmptyTagAttr("tableStyleInfo", styleAttrs)

	w.EndTag("table")

	return w.Bytes()
}

func xmlBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// TableColumn describes one table column: its header and its optional
// total row content.
type TableColumn struct {
	name          string
	totalFunction TableFunction
	totalLabel    string
}

// NewTableColumn creates a table column description.
func NewTableColumn() TableColumn {
	return TableColumn{}
}

// SetHeader sets the column header text.
func (c TableColumn) SetHeader(name string) TableColumn {
	c.name = name
	return c
}

// SetTotalFunction sets the subtotal function shown in the total row.
func (c TableColumn) SetTotalFunction(function TableFunction) TableColumn {
	c.totalFunction = function
	return c
}

// SetTotalLabel sets a text label in the total row instead of a
// function. A label takes precedence over a total function.
func (c TableColumn) SetTotalLabel(label string) TableColumn {
	c.totalLabel = label
	return c
}

// totalFormula returns the SUBTOTAL formula for the column's total row
// cell. Special characters in the column name are quoted the way Excel's
// structured references require.
func (c TableColumn) totalFormula() Formula {
	if c.totalFunction == TableFunctionNone {
		return NewFormula("")
	}

	name := strings.ReplaceAll(c.name, "'", "''")
	name = strings.ReplaceAll(name, "#", "'#")
	name = strings.ReplaceAll(name, "]", "']")
	name = strings.ReplaceAll(name, "[", "'[")

	return NewFormula("SUBTOTAL(" + c.totalFunction.subtotal() + ",[" + name + "])")
}

// TableFunction is a total row function for a table column.
type TableFunction int

// Total row functions available in a table's dropdown.
const (
	TableFunctionNone TableFunction = iota
	TableFunctionAverage
	TableFunctionCount
	TableFunctionCountNumbers
	TableFunctionMax
	TableFunctionMin
	TableFunctionStdDev
	TableFunctionSum
	TableFunctionVar
)

func (f TableFunction) value() string {
	switch f {
	case TableFunctionAverage:
		return "average"
	case TableFunctionCount:
		return "count"
	case TableFunctionCountNumbers:
		return "countNums"
	case TableFunctionMax:
		return "max"
	case TableFunctionMin:
		return "min"
	case TableFunctionStdDev:
		return "stdDev"
	case TableFunctionSum:
		return "sum"
	case TableFunctionVar:
		return "var"
	default:
		return "None"
	}
}

// subtotal returns the SUBTOTAL function number, from the 100 series
// that ignores hidden rows.
func (f TableFunction) subtotal() string {
	switch f {
	case TableFunctionAverage:
		return "101"
	case TableFunctionCountNumbers:
		return "102"
	case TableFunctionCount:
		return "103"
	case TableFunctionMax:
		return "104"
	case TableFunctionMin:
		return "105"
	case TableFunctionStdDev:
		return "107"
	case TableFunctionVar:
		return "110"
	default:
		return "109"
	}
}

// TableStyle is one of Excel's built-in table styles.
type TableStyle int

// The built-in table styles: 21 light, 28 medium, and 11 dark, plus
// TableStyleNone for an unstyled table.
const (
	TableStyleNone TableStyle = iota
	TableStyleLight1
	TableStyleLight2
	TableStyleLight3
	TableStyleLight4
	TableStyleLight5
	TableStyleLight6
	TableStyleLight7
	TableStyleLight8
	TableStyleLight9
	TableStyleLight10
	TableStyleLight11
	TableStyleLight12
	TableStyleLight13
	TableStyleLight14
	TableStyleLight15
	TableStyleLight16
	TableStyleLight17
	TableStyleLight18
	TableStyleLight19
	TableStyleLight20
	TableStyleLight21
	TableStyleMedium1
	TableStyleMedium2
	TableStyleMedium3
	TableStyleMedium4
	TableStyleMedium5
	TableStyleMedium6
	TableStyleMedium7
	TableStyleMedium8
	TableStyleMedium9
	TableStyleMedium10
	TableStyleMedium11
	TableStyleMedium12
	TableStyleMedium13
	TableStyleMedium14
	TableStyleMedium15
	TableStyleMedium16
	TableStyleMedium17
	TableStyleMedium18
	TableStyleMedium19
	TableStyleMedium20
	TableStyleMedium21
	TableStyleMedium22
	TableStyleMedium23
	TableStyleMedium24
	TableStyleMedium25
	TableStyleMedium26
	TableStyleMedium27
	TableStyleMedium28
	TableStyleDark1
	TableStyleDark2
	TableStyleDark3
	TableStyleDark4
	TableStyleDark5
	TableStyleDark6
	TableStyleDark7
	TableStyleDark8
	TableStyleDark9
	TableStyleDark10
	TableStyleDark11
)

func (s TableStyle) String() string {
	switch {
	case s >= TableStyleLight1 && s <= TableStyleLight21:
		return "TableStyleLight" + strconv.Itoa(int(s-TableStyleLight1)+1)
	case s >= TableStyleMedium1 && s <= TableStyleMedium28:
		return "TableStyleMedium" + strconv.Itoa(int(s-TableStyleMedium1)+1)
	case s >= TableStyleDark1 && s <= TableStyleDark11:
		return "TableStyleDark" + strconv.Itoa(int(s-TableStyleDark1)+1)
	default:
		return ""
	}
}
