package abacus

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// Worksheet layout defaults. Row heights are in points, column widths in
// character units of the default font, and both have fixed pixel
// equivalents at 96 DPI.
const (
	defaultRowHeight = 15.0
	defaultColWidth  = 8.43

	defaultRowPixels = 20
	defaultColPixels = 64
)

// cellKind discriminates the payload of a cell.
type cellKind uint8

const (
	cellBlank cellKind = iota
	cellNumber
	cellString
	cellRichString
	cellBool
	cellFormula
)

// errorLiterals are the Excel error values. A cached formula result in
// this set serializes with the error cell type instead of as a string.
var errorLiterals = map[string]bool{
	"#DIV/0!": true,
	"#N/A":    true,
	"#NAME?":  true,
	"#NULL!":  true,
	"#NUM!":   true,
	"#REF!":   true,
	"#VALUE!": true,
}

// cell is one written worksheet cell. The kind selects the payload
// fields: num carries numbers, booleans and datetime serials, sst the
// shared string index, formula and result the formula cells.
type cell struct {
	kind cellKind
	xf   uint32

	num     float64
	sst     uint32
	formula string
	result  string

	// arrayRange is the spill range of an array formula. dynamic marks
	// dynamic array formulas, which carry cell metadata.
	arrayRange string
	dynamic    bool

	// richText is the concatenated plain text of a rich string, kept
	// for column width estimation.
	richText string
}

// rowOptions holds user settings for a whole row.
type rowOptions struct {
	height    float64
	format    Format
	xf        uint32
	heightSet bool
	hasFormat bool
	hidden    bool
}

// colOptions holds user settings for a whole column.
type colOptions struct {
	width     float64
	format    Format
	xf        uint32
	widthSet  bool
	hasFormat bool
	hidden    bool
	autofit   bool
}

// sameColOptions reports whether two columns serialize identically, so
// adjacent columns can share one col element.
func sameColOptions(a, b *colOptions) bool {
	return a.width == b.width && a.widthSet == b.widthSet &&
		a.hidden == b.hidden && a.autofit == b.autofit &&
		a.hasFormat == b.hasFormat && a.xf == b.xf
}

// rangeRef is a rectangular cell range in zero indexed coordinates.
type rangeRef struct {
	firstRow uint32
	firstCol uint16
	lastRow  uint32
	lastCol  uint16
}

func (r rangeRef) cellRange() string {
	return CellRange(r.firstRow, r.firstCol, r.lastRow, r.lastCol)
}

func (r rangeRef) cellRangeAbs() string {
	return cellRangeAbs(r.firstRow, r.firstCol, r.lastRow, r.lastCol)
}

// overlaps reports whether two ranges share at least one cell.
func (r rangeRef) overlaps(other rangeRef) bool {
	return r.firstRow <= other.lastRow && other.firstRow <= r.lastRow &&
		r.firstCol <= other.lastCol && other.firstCol <= r.lastCol
}

// cellLocation keys per-cell feature maps such as hyperlinks.
type cellLocation struct {
	row uint32
	col uint16
}

// conditionalBlock groups the conditional format rules that share a
// range. Each group serializes as one conditionalFormatting element;
// dxfIDs holds the resolved differential format index per rule, -1
// until the formats are registered.
type conditionalBlock struct {
	sqref  string
	rules  []ConditionalFormat
	dxfIDs []int
}

// validationRange pairs a data validation with the range it covers.
type validationRange struct {
	validation *DataValidation
	sqref      string
}

// imagePlacement anchors an image at a cell.
type imagePlacement struct {
	row   uint32
	col   uint16
	image *Image
}

// RichString is one formatted segment of a rich string. A slice of
// segments makes up the argument to WriteRichString:
//
//	ws.WriteRichString(0, 0, []abacus.RichString{
//		{Text: "Some "},
//		{Format: abacus.NewFormat().SetBold(), Text: "bold"},
//		{Text: " text"},
//	})
type RichString struct {
	Format Format
	Text   string
}

// ProtectionOptions selects which operations remain available on a
// protected worksheet. The zero value locks everything including cell
// selection; NewProtectionOptions matches Excel's protection dialog
// defaults, which leave selection enabled.
type ProtectionOptions struct {
	SelectLockedCells   bool
	SelectUnlockedCells bool
	FormatCells         bool
	FormatColumns       bool
	FormatRows          bool
	InsertColumns       bool
	InsertRows          bool
	InsertHyperlinks    bool
	DeleteColumns       bool
	DeleteRows          bool
	Sort                bool
	UseAutofilter       bool
	UsePivotTables      bool
	EditScenarios       bool
	EditObjects         bool
}

// NewProtectionOptions returns the protection options Excel uses by
// default when protecting a sheet.
func NewProtectionOptions() ProtectionOptions {
	return ProtectionOptions{
		SelectLockedCells:   true,
		SelectUnlockedCells: true,
	}
}

// Worksheet is a single sheet of cells in a workbook:
//
//	wb := abacus.NewWorkbook()
//	ws := wb.AddWorksheet()
//	ws.WriteString(0, 0, "Item")
//	ws.WriteNumber(1, 0, 42)
//
// Rows and columns are zero indexed, so cell A1 is (0, 0). Worksheets
// are created through the workbook and share its string and format
// tables; the zero value is not usable.
type Worksheet struct {
	name string

	strings *sharedStrings
	formats *formats

	cells map[uint32]map[uint16]*cell
	rows  map[uint32]*rowOptions
	cols  map[uint16]*colOptions

	// Extent of the written cells, grown by storeCell. Row and column
	// settings do not count towards the dimension.
	firstRow uint32
	lastRow  uint32
	firstCol uint16
	lastCol  uint16
	hasCells bool

	merges       []rangeRef
	hyperlinks   map[cellLocation]*hyperlink
	validations  []validationRange
	conditionals []*conditionalBlock
	tables       []*Table
	images       []imagePlacement

	drawingPart  *drawing
	drawingRelID uint32

	hasDynamicFormulas bool

	selected        bool
	active          bool
	hidden          bool
	rightToLeft     bool
	screenGridlines bool
	zoom            uint16

	freezeRow uint32
	freezeCol uint16
	hasFreeze bool

	tabColor Color

	protected    bool
	passwordHash uint16
	protection   ProtectionOptions

	autofilterArea rangeRef
	hasAutofilter  bool

	printGridlines   bool
	landscape        bool
	pageSetupChanged bool
	paperSize        uint16
	printScale       uint16
	fitToPage        bool
	fitWidth         uint16
	fitHeight        uint16

	marginLeft   float64
	marginRight  float64
	marginTop    float64
	marginBottom float64
	marginHeader float64
	marginFooter float64

	header    string
	footer    string
	headerSet bool
	footerSet bool

	printArea    rangeRef
	hasPrintArea bool

	repeatRowsFirst uint32
	repeatRowsLast  uint32
	hasRepeatRows   bool

	repeatColsFirst uint16
	repeatColsLast  uint16
	hasRepeatCols   bool
}

func newWorksheet(name string, strings *sharedStrings, formats *formats) *Worksheet {
	return &Worksheet{
		name:    name,
		strings: strings,
		formats: formats,

		cells:      make(map[uint32]map[uint16]*cell),
		rows:       make(map[uint32]*rowOptions),
		cols:       make(map[uint16]*colOptions),
		hyperlinks: make(map[cellLocation]*hyperlink),

		screenGridlines: true,
		zoom:            100,
		printScale:      100,
		fitWidth:        1,
		fitHeight:       1,

		marginLeft:   0.7,
		marginRight:  0.7,
		marginTop:    0.75,
		marginBottom: 0.75,
		marginHeader: 0.3,
		marginFooter: 0.3,
	}
}

// Name returns the worksheet name.
func (ws *Worksheet) Name() string {
	return ws.name
}

// SetName renames the worksheet. Names are limited to 31 characters,
// must not contain the characters []:*?/\ and must not start or end
// with an apostrophe. Uniqueness across the workbook is checked at save
// time.
func (ws *Worksheet) SetName(name string) error {
	if err := validateSheetName(name); err != nil {
		return err
	}

	ws.name = name
	return nil
}

// checkBounds validates a cell location against the row and column
// limits.
func checkBounds(row uint32, col uint16) error {
	if row >= MaxRow || col >= MaxCol {
		return ErrRowColumnLimit
	}
	return nil
}

// checkRange validates a range: corners in order, both within bounds.
func checkRange(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16) error {
	if firstRow > lastRow || firstCol > lastCol {
		return ErrRowColumnOrder
	}
	if lastRow >= MaxRow || lastCol >= MaxCol {
		return ErrRowColumnLimit
	}
	return nil
}

// rowEntry returns the settings record for a row, creating it on first
// use.
func (ws *Worksheet) rowEntry(row uint32) *rowOptions {
	opts, ok := ws.rows[row]
	if !ok {
		opts = &rowOptions{}
		ws.rows[row] = opts
	}
	return opts
}

// colEntry returns the settings record for a column, creating it on
// first use.
func (ws *Worksheet) colEntry(col uint16) *colOptions {
	opts, ok := ws.cols[col]
	if !ok {
		opts = &colOptions{}
		ws.cols[col] = opts
	}
	return opts
}

// storeCell records a cell, overwriting any previous cell at the
// location, and grows the written extent.
func (ws *Worksheet) storeCell(row uint32, col uint16, c *cell) {
	if !ws.hasCells {
		ws.hasCells = true
		ws.firstRow, ws.lastRow = row, row
		ws.firstCol, ws.lastCol = col, col
	} else {
		if row < ws.firstRow {
			ws.firstRow = row
		}
		if row > ws.lastRow {
			ws.lastRow = row
		}
		if col < ws.firstCol {
			ws.firstCol = col
		}
		if col > ws.lastCol {
			ws.lastCol = col
		}
	}

	cells, ok := ws.cells[row]
	if !ok {
		cells = make(map[uint16]*cell)
		ws.cells[row] = cells
	}
	cells[col] = c
}

// WriteNumber writes a number to a cell. Spreadsheets have no NaN or
// infinity values, so those are written as the strings "#NUM!" and
// "#DIV/0".
func (ws *Worksheet) WriteNumber(row uint32, col uint16, number float64) error {
	return ws.writeNumber(row, col, number, 0)
}

// WriteNumberWithFormat writes a formatted number to a cell.
func (ws *Worksheet) WriteNumberWithFormat(row uint32, col uint16, number float64, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeNumber(row, col, number, ws.formats.register(format))
}

func (ws *Worksheet) writeNumber(row uint32, col uint16, number float64, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	if math.IsNaN(number) {
		return ws.writeString(row, col, "#NUM!", xf)
	}
	if math.IsInf(number, 0) {
		return ws.writeString(row, col, "#DIV/0", xf)
	}

	ws.storeCell(row, col, &cell{kind: cellNumber, num: number, xf: xf})
	return nil
}

// WriteString writes a string to a cell. The text is deduplicated into
// the workbook's shared string table; strings longer than Excel's limit
// of 32,767 characters return ErrMaxStringLength.
func (ws *Worksheet) WriteString(row uint32, col uint16, value string) error {
	return ws.writeString(row, col, value, 0)
}

// WriteStringWithFormat writes a formatted string to a cell.
func (ws *Worksheet) WriteStringWithFormat(row uint32, col uint16, value string, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeString(row, col, value, ws.formats.register(format))
}

func (ws *Worksheet) writeString(row uint32, col uint16, value string, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	if utf8.RuneCountInString(value) > maxStringLen {
		return ErrMaxStringLength
	}

	ws.storeCell(row, col, &cell{kind: cellString, sst: ws.strings.intern(value), xf: xf})
	return nil
}

// WriteRichString writes a string with multiple font formats, given as
// formatted segments:
//
//	ws.WriteRichString(0, 0, []abacus.RichString{
//		{Text: "Some "},
//		{Format: abacus.NewFormat().SetBold(), Text: "bold"},
//		{Text: " text"},
//	})
//
// Only the font properties of the segment formats apply. Segments with
// empty text are skipped; the combined text is subject to the usual
// string length limit.
func (ws *Worksheet) WriteRichString(row uint32, col uint16, segments []RichString) error {
	return ws.writeRichString(row, col, segments, 0)
}

// WriteRichStringWithFormat writes a rich string with a cell format for
// the properties outside the text, such as borders and fills.
func (ws *Worksheet) WriteRichStringWithFormat(row uint32, col uint16, segments []RichString, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeRichString(row, col, segments, ws.formats.register(format))
}

func (ws *Worksheet) writeRichString(row uint32, col uint16, segments []RichString, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	if len(segments) == 0 {
		return newParameterError("rich string", "requires at least one segment")
	}

	length := 0
	for _, segment := range segments {
		length += utf8.RuneCountInString(segment.Text)
	}
	if length == 0 {
		return newParameterError("rich string", "requires at least one segment with text")
	}
	if length > maxStringLen {
		return ErrMaxStringLength
	}

	var plain strings.Builder
	for _, segment := range segments {
		plain.WriteString(segment.Text)
	}

	ws.storeCell(row, col, &cell{
		kind:     cellRichString,
		sst:      ws.strings.intern(renderRichString(segments)),
		richText: plain.String(),
		xf:       xf,
	})
	return nil
}

// renderRichString renders rich string segments to the run markup
// stored in the shared string table.
func renderRichString(segments []RichString) string {
	w := xmlwriter.New()

	for _, segment := range segments {
		if segment.Text == "" {
			continue
		}

		w.StartTag("r")
		if !segment.Format.IsDefault() {
			writeFontElement(w, "rPr", segment.Format.font)
		}
		if needsPreserve(segment.Text) {
			w.DataElementAttr("t", segment.Text, []xmlwriter.Attr{
				{Key: "xml:space", Value: "preserve"},
			})
		} else {
			w.DataElement("t", segment.Text)
		}
		w.EndTag("r")
	}

	return w.String()
}

// WriteBool writes a boolean to a cell.
func (ws *Worksheet) WriteBool(row uint32, col uint16, value bool) error {
	return ws.writeBool(row, col, value, 0)
}

// WriteBoolWithFormat writes a formatted boolean to a cell.
func (ws *Worksheet) WriteBoolWithFormat(row uint32, col uint16, value bool, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeBool(row, col, value, ws.formats.register(format))
}

func (ws *Worksheet) writeBool(row uint32, col uint16, value bool, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	c := &cell{kind: cellBool, xf: xf}
	if value {
		c.num = 1
	}
	ws.storeCell(row, col, c)
	return nil
}

// WriteBlank writes an empty cell. Excel only stores blank cells that
// carry a format, so WriteBlankWithFormat is the useful variant; an
// unformatted blank merely extends the sheet dimensions.
func (ws *Worksheet) WriteBlank(row uint32, col uint16) error {
	return ws.writeBlank(row, col, 0)
}

// WriteBlankWithFormat writes an empty cell with a format, for
// patterns like coloring the background of cells without content.
func (ws *Worksheet) WriteBlankWithFormat(row uint32, col uint16, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeBlank(row, col, ws.formats.register(format))
}

func (ws *Worksheet) writeBlank(row uint32, col uint16, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	ws.storeCell(row, col, &cell{kind: cellBlank, xf: xf})
	return nil
}

// WriteFormula writes a formula to a cell. Formulas using dynamic array
// functions such as SORT or SEQUENCE are upgraded to single cell
// dynamic array formulas automatically.
func (ws *Worksheet) WriteFormula(row uint32, col uint16, formula Formula) error {
	return ws.writeFormula(row, col, formula, 0)
}

// WriteFormulaWithFormat writes a formatted formula to a cell.
func (ws *Worksheet) WriteFormulaWithFormat(row uint32, col uint16, formula Formula, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeFormula(row, col, formula, ws.formats.register(format))
}

func (ws *Worksheet) writeFormula(row uint32, col uint16, formula Formula, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	if formula.isDynamic() {
		return ws.storeArrayFormula(row, col, row, col, formula, xf, true)
	}

	ws.storeCell(row, col, &cell{
		kind:    cellFormula,
		formula: formula.expand(false),
		result:  formula.result,
		xf:      xf,
	})
	return nil
}

// WriteArrayFormula writes a legacy CSE array formula over a range. The
// formula lives in the top left cell; the rest of the range is filled
// with its spilled results, which this writer leaves as zeroes.
func (ws *Worksheet) WriteArrayFormula(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, formula Formula) error {
	return ws.storeArrayFormula(firstRow, firstCol, lastRow, lastCol, formula, 0, false)
}

// WriteArrayFormulaWithFormat writes a formatted CSE array formula over
// a range.
func (ws *Worksheet) WriteArrayFormulaWithFormat(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, formula Formula, format Format) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	return ws.storeArrayFormula(firstRow, firstCol, lastRow, lastCol, formula, ws.formats.register(format), false)
}

// WriteDynamicArrayFormula writes a dynamic array formula over a range.
// The workbook gains the metadata part that marks dynamic formulas.
func (ws *Worksheet) WriteDynamicArrayFormula(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, formula Formula) error {
	return ws.storeArrayFormula(firstRow, firstCol, lastRow, lastCol, formula, 0, true)
}

// WriteDynamicArrayFormulaWithFormat writes a formatted dynamic array
// formula over a range.
func (ws *Worksheet) WriteDynamicArrayFormulaWithFormat(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, formula Formula, format Format) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	return ws.storeArrayFormula(firstRow, firstCol, lastRow, lastCol, formula, ws.formats.register(format), true)
}

// WriteDynamicFormula writes a dynamic array formula to a single cell.
func (ws *Worksheet) WriteDynamicFormula(row uint32, col uint16, formula Formula) error {
	return ws.storeArrayFormula(row, col, row, col, formula, 0, true)
}

// WriteDynamicFormulaWithFormat writes a formatted dynamic array
// formula to a single cell.
func (ws *Worksheet) WriteDynamicFormulaWithFormat(row uint32, col uint16, formula Formula, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.storeArrayFormula(row, col, row, col, formula, ws.formats.register(format), true)
}

func (ws *Worksheet) storeArrayFormula(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, formula Formula, xf uint32, dynamic bool) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}

	if dynamic {
		ws.hasDynamicFormulas = true
	}

	ws.storeCell(firstRow, firstCol, &cell{
		kind:       cellFormula,
		formula:    formula.expand(false),
		result:     formula.result,
		arrayRange: CellRange(firstRow, firstCol, lastRow, lastCol),
		dynamic:    dynamic,
		xf:         xf,
	})

	// Pad the rest of the spill range with zeroes the way Excel does.
	for row := firstRow; row <= lastRow; row++ {
		for col := firstCol; col <= lastCol; col++ {
			if row == firstRow && col == firstCol {
				continue
			}
			ws.storeCell(row, col, &cell{kind: cellNumber, xf: xf})
		}
	}

	return nil
}

// SetFormulaResult sets the cached result of a previously written
// formula, for viewers that do not recalculate on load. Locations
// without a formula cell are left untouched.
func (ws *Worksheet) SetFormulaResult(row uint32, col uint16, result string) {
	if c, ok := ws.cells[row][col]; ok && c.kind == cellFormula {
		c.result = result
	}
}

// WriteDatetime writes a date or time as an Excel serial number with a
// default date, time, or datetime number format chosen from the parts of
// the value that are set. A value on Go's zero date counts as a bare time
// of day.
func (ws *Worksheet) WriteDatetime(row uint32, col uint16, datetime time.Time) error {
	return ws.writeDatetime(row, col, datetime, 0)
}

// WriteDatetimeWithFormat writes a date or time with a number format
// that controls how it displays, like "yyyy-mm-dd" or "hh:mm".
func (ws *Worksheet) WriteDatetimeWithFormat(row uint32, col uint16, datetime time.Time, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}
	return ws.writeDatetime(row, col, datetime, ws.formats.register(format))
}

func (ws *Worksheet) writeDatetime(row uint32, col uint16, datetime time.Time, xf uint32) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	serial, err := DatetimeToSerial(datetime)
	if err != nil {
		return err
	}

	// A serial number without a number format displays as a bare number,
	// so format-less datetimes get the default format for their parts.
	if xf == 0 {
		xf = ws.formats.register(NewFormat().SetNumFormat(datetimeNumFormat(datetime)))
	}

	ws.storeCell(row, col, &cell{kind: cellNumber, num: serial, xf: xf})
	return nil
}

// WriteURL writes a hyperlink to a cell, shown with the workbook's
// Hyperlink style. The cell text is the URL's display text, or the link
// itself when none is set.
func (ws *Worksheet) WriteURL(row uint32, col uint16, url URL) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	h, err := newHyperlink(url)
	if err != nil {
		return err
	}
	return ws.storeURL(row, col, h, ws.formats.ensureHyperlinkStyle())
}

// WriteURLWithFormat writes a hyperlink with an explicit cell format
// instead of the Hyperlink style.
func (ws *Worksheet) WriteURLWithFormat(row uint32, col uint16, url URL, format Format) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	h, err := newHyperlink(url)
	if err != nil {
		return err
	}
	return ws.storeURL(row, col, h, ws.formats.register(format))
}

func (ws *Worksheet) storeURL(row uint32, col uint16, h *hyperlink, xf uint32) error {
	if err := ws.writeString(row, col, h.userText, xf); err != nil {
		return err
	}

	ws.hyperlinks[cellLocation{row: row, col: col}] = h
	return nil
}

// MergeRange merges a rectangular range into one display cell. The
// covered cells become blanks carrying the format; the value shown in
// the merge is whatever is written to the top left cell, before or
// after merging. Ranges must span at least two cells and must not
// overlap an existing merge.
func (ws *Worksheet) MergeRange(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, format Format) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	if firstRow == lastRow && firstCol == lastCol {
		return ErrMergeRangeSingleCell
	}

	merge := rangeRef{firstRow: firstRow, firstCol: firstCol, lastRow: lastRow, lastCol: lastCol}
	for _, existing := range ws.merges {
		if merge.overlaps(existing) {
			return fmt.Errorf("%w: %s overlaps %s",
				ErrMergeRangeOverlaps, merge.cellRange(), existing.cellRange())
		}
	}

	xf := ws.formats.register(format)
	for row := firstRow; row <= lastRow; row++ {
		for col := firstCol; col <= lastCol; col++ {
			if row == firstRow && col == firstCol {
				// An already written top left cell keeps its value.
				if c, ok := ws.cells[row][col]; ok {
					c.xf = xf
					continue
				}
			}
			ws.storeCell(row, col, &cell{kind: cellBlank, xf: xf})
		}
	}

	ws.merges = append(ws.merges, merge)
	return nil
}

// SetRowHeight sets the height of a row in points. Negative heights are
// ignored.
func (ws *Worksheet) SetRowHeight(row uint32, height float64) error {
	if row >= MaxRow {
		return ErrRowColumnLimit
	}
	if height < 0 {
		return nil
	}

	opts := ws.rowEntry(row)
	opts.height = height
	opts.heightSet = true
	return nil
}

// SetRowFormat sets a format for a whole row. The format applies to
// cells without their own format, including cells never written.
func (ws *Worksheet) SetRowFormat(row uint32, format Format) error {
	if row >= MaxRow {
		return ErrRowColumnLimit
	}

	opts := ws.rowEntry(row)
	opts.format = format
	opts.hasFormat = true
	return nil
}

// SetRowHidden hides or unhides a row.
func (ws *Worksheet) SetRowHidden(row uint32, hidden bool) error {
	if row >= MaxRow {
		return ErrRowColumnLimit
	}

	ws.rowEntry(row).hidden = hidden
	return nil
}

// SetColumnWidth sets the width of a column in character units of the
// default font. Negative widths are ignored.
func (ws *Worksheet) SetColumnWidth(col uint16, width float64) error {
	if col >= MaxCol {
		return ErrRowColumnLimit
	}
	if width < 0 {
		return nil
	}

	opts := ws.colEntry(col)
	opts.width = width
	opts.widthSet = true
	opts.autofit = false
	return nil
}

// SetColumnFormat sets a format for a whole column, applied to cells
// without their own format.
func (ws *Worksheet) SetColumnFormat(col uint16, format Format) error {
	if col >= MaxCol {
		return ErrRowColumnLimit
	}

	opts := ws.colEntry(col)
	opts.format = format
	opts.hasFormat = true
	return nil
}

// SetColumnHidden hides or unhides a column.
func (ws *Worksheet) SetColumnHidden(col uint16, hidden bool) error {
	if col >= MaxCol {
		return ErrRowColumnLimit
	}

	ws.colEntry(col).hidden = hidden
	return nil
}

// SetFreezePanes freezes rows and columns so they stay visible while
// scrolling. The arguments name the first unfrozen cell: (1, 0) freezes
// the top row, (0, 1) the first column, (1, 1) both. (0, 0) removes the
// freeze.
func (ws *Worksheet) SetFreezePanes(row uint32, col uint16) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	ws.freezeRow = row
	ws.freezeCol = col
	ws.hasFreeze = row > 0 || col > 0
	return nil
}

// SetAutofilter adds dropdown filter buttons to the header row of a
// range. The range is also recorded as the sheet's hidden
// _FilterDatabase defined name at save time.
func (ws *Worksheet) SetAutofilter(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}

	ws.autofilterArea = rangeRef{firstRow: firstRow, firstCol: firstCol, lastRow: lastRow, lastCol: lastCol}
	ws.hasAutofilter = true
	return nil
}

// AddTable turns a range into an Excel table. The table's header row
// strings and any total row cells are written into the range; columns
// beyond those described by the table get default headers. When the
// table shows a total row the supplied range must include it.
func (ws *Worksheet) AddTable(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, table *Table) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	if table.showHeaderRow && lastRow == firstRow {
		return newParameterError("table", "range must have at least one data row below the header")
	}
	if table.name != "" {
		if err := validateTableName(table.name); err != nil {
			return err
		}
	}

	ref := rangeRef{firstRow: firstRow, firstCol: firstCol, lastRow: lastRow, lastCol: lastCol}
	for _, existing := range ws.tables {
		other := rangeRef{
			firstRow: existing.firstRow,
			firstCol: existing.firstCol,
			lastRow:  existing.lastRow,
			lastCol:  existing.lastCol,
		}
		if ref.overlaps(other) {
			return fmt.Errorf("%w: %s overlaps %s",
				ErrTableRangeOverlaps, ref.cellRange(), other.cellRange())
		}
	}

	table.firstRow, table.firstCol = firstRow, firstCol
	table.lastRow, table.lastCol = lastRow, lastCol

	if err := table.normalizeColumns(); err != nil {
		return err
	}

	if table.showHeaderRow {
		for i, column := range table.columns {
			if err := ws.writeString(firstRow, firstCol+uint16(i), column.name, 0); err != nil {
				return err
			}
		}
	}

	if table.showTotalRow {
		for i, column := range table.columns {
			col := firstCol + uint16(i)
			if column.totalLabel != "" {
				if err := ws.writeString(lastRow, col, column.totalLabel, 0); err != nil {
					return err
				}
				continue
			}
			if column.totalFunction != TableFunctionNone {
				if err := ws.writeFormula(lastRow, col, column.totalFormula(), 0); err != nil {
					return err
				}
			}
		}
	}

	ws.tables = append(ws.tables, table)
	return nil
}

// AddDataValidation restricts what can be entered into a range of
// cells. The validation's own range list, when set, overrides the range
// arguments.
func (ws *Worksheet) AddDataValidation(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, validation *DataValidation) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	if err := validation.validate(); err != nil {
		return err
	}

	sqref := validation.multiRange
	if sqref == "" {
		sqref = CellRange(firstRow, firstCol, lastRow, lastCol)
	}

	ws.validations = append(ws.validations, validationRange{validation: validation, sqref: sqref})
	return nil
}

// AddConditionalFormat attaches a conditional format rule to a range.
// Rules attached to the same range are grouped and evaluated in the
// order they were added; a rule's own range list, when set, overrides
// the range arguments.
func (ws *Worksheet) AddConditionalFormat(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16, format ConditionalFormat) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}
	if err := format.validate(); err != nil {
		return err
	}

	sqref := format.multiRange()
	if sqref == "" {
		sqref = CellRange(firstRow, firstCol, lastRow, lastCol)
	}

	for _, block := range ws.conditionals {
		if block.sqref == sqref {
			block.rules = append(block.rules, format)
			block.dxfIDs = append(block.dxfIDs, -1)
			return nil
		}
	}

	ws.conditionals = append(ws.conditionals, &conditionalBlock{
		sqref:  sqref,
		rules:  []ConditionalFormat{format},
		dxfIDs: []int{-1},
	})
	return nil
}

// InsertImage places an image with its top left corner at a cell. The
// image floats over the grid at its scaled size; inserting the same
// image several times stores its data once.
func (ws *Worksheet) InsertImage(row uint32, col uint16, image *Image) error {
	if err := checkBounds(row, col); err != nil {
		return err
	}

	ws.images = append(ws.images, imagePlacement{row: row, col: col, image: image})
	return nil
}

// Protect locks the worksheet against editing, with Excel's default
// protection options and no password.
func (ws *Worksheet) Protect() {
	ws.ProtectWithOptions(NewProtectionOptions())
}

// ProtectWithPassword locks the worksheet with a password. The stored
// hash is Excel's legacy 16 bit scheme, enough to stop casual edits but
// no real protection.
func (ws *Worksheet) ProtectWithPassword(password string) {
	ws.ProtectWithOptions(NewProtectionOptions())
	ws.passwordHash = hashPassword(password)
}

// ProtectWithOptions locks the worksheet with explicit options for
// what remains editable.
func (ws *Worksheet) ProtectWithOptions(options ProtectionOptions) {
	ws.protected = true
	ws.protection = options
}

// SetTabColor sets the color of the sheet's tab in the tab bar.
func (ws *Worksheet) SetTabColor(color Color) {
	ws.tabColor = color
}

// SetHidden hides the worksheet from the tab bar. The sheet stays
// addressable by formulas and defined names. At least one sheet in a
// workbook must remain visible.
func (ws *Worksheet) SetHidden(enable bool) {
	ws.hidden = enable
	if enable {
		ws.selected = false
		ws.active = false
	}
}

// SetActive makes this the sheet that is open when the file loads.
func (ws *Worksheet) SetActive(enable bool) {
	ws.active = enable
	if enable {
		ws.selected = true
		ws.hidden = false
	}
}

// SetSelected selects the sheet's tab without making it active. The
// active sheet is selected automatically.
func (ws *Worksheet) SetSelected(enable bool) {
	ws.selected = enable
	if enable {
		ws.hidden = false
	}
}

// SetZoom sets the screen zoom. Values outside Excel's 10 to 400
// percent range are ignored.
func (ws *Worksheet) SetZoom(zoom uint16) {
	if zoom < 10 || zoom > 400 {
		return
	}
	ws.zoom = zoom
}

// SetRightToLeft displays the worksheet right to left, with column A on
// the right, for right to left locales.
func (ws *Worksheet) SetRightToLeft(enable bool) {
	ws.rightToLeft = enable
}

// SetScreenGridlines turns the on-screen cell gridlines on or off. They
// are on by default.
func (ws *Worksheet) SetScreenGridlines(enable bool) {
	ws.screenGridlines = enable
}

// SetPrintGridlines turns gridline printing on. Excel leaves it off by
// default.
func (ws *Worksheet) SetPrintGridlines(enable bool) {
	ws.printGridlines = enable
}

// SetLandscape sets landscape printing orientation.
func (ws *Worksheet) SetLandscape() {
	ws.landscape = true
	ws.pageSetupChanged = true
}

// SetPortrait sets portrait printing orientation, the default.
func (ws *Worksheet) SetPortrait() {
	ws.landscape = false
	ws.pageSetupChanged = true
}

// SetPaperSize sets the printer paper size by its OOXML index: 1 for US
// Letter, 9 for A4. Zero leaves the printer default.
func (ws *Worksheet) SetPaperSize(size uint16) {
	ws.paperSize = size
	ws.pageSetupChanged = true
}

// SetPrintScale scales printed output. Values outside the 10 to 400
// percent range are ignored; SetFitToPages overrides the scale.
func (ws *Worksheet) SetPrintScale(scale uint16) {
	if scale < 10 || scale > 400 {
		return
	}
	ws.printScale = scale
	ws.pageSetupChanged = true
}

// SetFitToPages shrinks printed output to fit a number of pages wide
// and tall. A zero means as many pages as needed in that direction.
func (ws *Worksheet) SetFitToPages(width, height uint16) {
	ws.fitWidth = width
	ws.fitHeight = height
	ws.fitToPage = true
	ws.pageSetupChanged = true
}

// SetMargins sets the page margins in inches, in the order left, right,
// top, bottom, header, footer. Negative values leave that margin
// unchanged.
func (ws *Worksheet) SetMargins(left, right, top, bottom, header, footer float64) {
	if left >= 0 {
		ws.marginLeft = left
	}
	if right >= 0 {
		ws.marginRight = right
	}
	if top >= 0 {
		ws.marginTop = top
	}
	if bottom >= 0 {
		ws.marginBottom = bottom
	}
	if header >= 0 {
		ws.marginHeader = header
	}
	if footer >= 0 {
		ws.marginFooter = footer
	}
}

// SetHeader sets the printed page header. Excel control codes such as
// &P for the page number, &C for centering and &F for the file name
// pass through; "&[Picture]" placeholders become &G. Headers are
// limited to 255 characters.
func (ws *Worksheet) SetHeader(header string) error {
	if utf8.RuneCountInString(header) > maxParameterLen {
		return newParameterError("header",
			fmt.Sprintf("longer than Excel's limit of %d characters", maxParameterLen))
	}

	ws.header = strings.ReplaceAll(header, "&[Picture]", "&G")
	ws.headerSet = true
	return nil
}

// SetFooter sets the printed page footer, with the same control codes
// and length limit as SetHeader.
func (ws *Worksheet) SetFooter(footer string) error {
	if utf8.RuneCountInString(footer) > maxParameterLen {
		return newParameterError("footer",
			fmt.Sprintf("longer than Excel's limit of %d characters", maxParameterLen))
	}

	ws.footer = strings.ReplaceAll(footer, "&[Picture]", "&G")
	ws.footerSet = true
	return nil
}

// SetPrintArea restricts printing to a range, stored as the sheet's
// hidden Print_Area defined name.
func (ws *Worksheet) SetPrintArea(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16) error {
	if err := checkRange(firstRow, firstCol, lastRow, lastCol); err != nil {
		return err
	}

	ws.printArea = rangeRef{firstRow: firstRow, firstCol: firstCol, lastRow: lastRow, lastCol: lastCol}
	ws.hasPrintArea = true
	return nil
}

// SetRepeatRows repeats a band of rows at the top of every printed
// page, stored in the sheet's Print_Titles defined name.
func (ws *Worksheet) SetRepeatRows(firstRow, lastRow uint32) error {
	if firstRow > lastRow {
		return ErrRowColumnOrder
	}
	if lastRow >= MaxRow {
		return ErrRowColumnLimit
	}

	ws.repeatRowsFirst = firstRow
	ws.repeatRowsLast = lastRow
	ws.hasRepeatRows = true
	return nil
}

// SetRepeatColumns repeats a band of columns at the left of every
// printed page, stored in the sheet's Print_Titles defined name.
func (ws *Worksheet) SetRepeatColumns(firstCol, lastCol uint16) error {
	if firstCol > lastCol {
		return ErrRowColumnOrder
	}
	if lastCol >= MaxCol {
		return ErrRowColumnLimit
	}

	ws.repeatColsFirst = firstCol
	ws.repeatColsLast = lastCol
	ws.hasRepeatCols = true
	return nil
}

// registerFeatureFormats resolves the formats attached to rows, columns
// and conditional format rules into registry indexes. Iteration is over
// sorted keys so index assignment does not depend on map order; calling
// it again is harmless.
func (ws *Worksheet) registerFeatureFormats() {
	rowNums := make([]uint32, 0, len(ws.rows))
	for row := range ws.rows {
		rowNums = append(rowNums, row)
	}
	sort.Slice(rowNums, func(i, j int) bool { return rowNums[i] < rowNums[j] })
	for _, row := range rowNums {
		if opts := ws.rows[row]; opts.hasFormat {
			opts.xf = ws.formats.register(opts.format)
		}
	}

	colNums := make([]uint16, 0, len(ws.cols))
	for col := range ws.cols {
		colNums = append(colNums, col)
	}
	sort.Slice(colNums, func(i, j int) bool { return colNums[i] < colNums[j] })
	for _, col := range colNums {
		if opts := ws.cols[col]; opts.hasFormat {
			opts.xf = ws.formats.register(opts.format)
		}
	}

	for _, block := range ws.conditionals {
		for i, rule := range block.rules {
			if block.dxfIDs[i] >= 0 {
				continue
			}
			if f, ok := rule.dxfFormat(); ok {
				block.dxfIDs[i] = int(ws.formats.registerDxf(f))
			}
		}
	}
}

// resolveRelIDs numbers the sheet's relationship IDs: external
// hyperlinks in cell order, then the drawing, then the tables. The
// same order builds the .rels part, so the numbering stays aligned.
func (ws *Worksheet) resolveRelIDs() {
	next := uint32(1)

	for _, loc := range ws.sortedHyperlinkLocations() {
		if h := ws.hyperlinks[loc]; h.needsRelationship() {
			h.relID = next
			next++
		}
	}

	if len(ws.images) > 0 {
		ws.drawingRelID = next
		next++
	}

	for _, table := range ws.tables {
		table.relID = next
		next++
	}
}

func (ws *Worksheet) sortedHyperlinkLocations() []cellLocation {
	locations := make([]cellLocation, 0, len(ws.hyperlinks))
	for loc := range ws.hyperlinks {
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool {
		if locations[i].row != locations[j].row {
			return locations[i].row < locations[j].row
		}
		return locations[i].col < locations[j].col
	})
	return locations
}

// relationships builds the worksheet part's .rels file. drawingNumber
// is the workbook-wide number of the sheet's drawing part.
func (ws *Worksheet) relationships(drawingNumber uint32) *relationships {
	ws.resolveRelIDs()

	rels := newRelationships()

	for _, loc := range ws.sortedHyperlinkLocations() {
		if h := ws.hyperlinks[loc]; h.needsRelationship() {
			rels.addDocumentMode("/hyperlink", h.target(), h.targetMode())
		}
	}

	if len(ws.images) > 0 {
		rels.addDocument("/drawing",
			"../drawings/drawing"+strconv.FormatUint(uint64(drawingNumber), 10)+".xml")
	}

	for _, table := range ws.tables {
		rels.addDocument("/table",
			"../tables/table"+strconv.FormatUint(uint64(table.index), 10)+".xml")
	}

	return rels
}

// prepareDrawing lays the placed images out into the sheet's drawing
// part. Placements of the same image share one relationship ID.
func (ws *Worksheet) prepareDrawing() {
	if len(ws.images) == 0 {
		return
	}

	d := &drawing{}
	relIDs := make(map[uint64]uint32)

	for _, placement := range ws.images {
		relID, ok := relIDs[placement.image.hash]
		if !ok {
			relID = uint32(len(relIDs) + 1)
			relIDs[placement.image.hash] = relID
		}

		info := ws.positionImage(placement)
		info.relID = relID
		d.drawings = append(d.drawings, info)
	}

	ws.drawingPart = d
}

// drawingImages returns the distinct images placed on the sheet in
// first use order, matching the relationship IDs from prepareDrawing.
func (ws *Worksheet) drawingImages() []*Image {
	var images []*Image
	seen := make(map[uint64]bool)

	for _, placement := range ws.images {
		if !seen[placement.image.hash] {
			seen[placement.image.hash] = true
			images = append(images, placement.image)
		}
	}

	return images
}

// positionImage computes the two cell anchor of an image placement:
// the anchor cell, the cell under the bottom right corner with pixel
// offsets into it, and the absolute position, all converted to EMUs.
func (ws *Worksheet) positionImage(placement imagePlacement) drawingInfo {
	width := placement.image.scaledWidth()
	height := placement.image.scaledHeight()

	var xAbs, yAbs float64
	for col := uint16(0); col < placement.col; col++ {
		xAbs += float64(ws.columnPixelWidth(col))
	}
	for row := uint32(0); row < placement.row; row++ {
		yAbs += float64(ws.rowPixelHeight(row))
	}

	// Walk the bottom right corner forward until the remaining extent
	// fits inside one cell. Hidden rows and columns contribute zero
	// pixels, so the walk is bounded by the sheet limits.
	colEnd := placement.col
	x2 := width
	for colEnd < MaxCol-1 {
		cw := float64(ws.columnPixelWidth(colEnd))
		if x2 < cw {
			break
		}
		x2 -= cw
		colEnd++
	}

	rowEnd := placement.row
	y2 := height
	for rowEnd < MaxRow-1 {
		rh := float64(ws.rowPixelHeight(rowEnd))
		if y2 < rh {
			break
		}
		y2 -= rh
		rowEnd++
	}

	return drawingInfo{
		from: drawingCoordinates{col: placement.col, row: placement.row},
		to: drawingCoordinates{
			col:       colEnd,
			row:       rowEnd,
			colOffset: emu(x2),
			rowOffset: emu(y2),
		},
		colAbsolute: emu(xAbs),
		rowAbsolute: emu(yAbs),
		width:       emu(width),
		height:      emu(height),
		description: placement.image.altText,
		decorative:  placement.image.decorative,
	}
}

// emu converts pixels at 96 DPI to English Metric Units.
func emu(pixels float64) int64 {
	return int64(math.Round(pixels * 9525))
}

// columnPixelWidth returns the pixel width of a column the way Excel
// derives it from character units.
func (ws *Worksheet) columnPixelWidth(col uint16) uint32 {
	opts, ok := ws.cols[col]
	if !ok {
		return defaultColPixels
	}
	if opts.hidden {
		return 0
	}

	width := defaultColWidth
	if opts.widthSet {
		width = opts.width
	}
	if width < 1 {
		return uint32(width*12 + 0.5)
	}
	return uint32(width*7+0.5) + 5
}

// rowPixelHeight returns the pixel height of a row.
func (ws *Worksheet) rowPixelHeight(row uint32) uint32 {
	opts, ok := ws.rows[row]
	if !ok {
		return defaultRowPixels
	}
	if opts.hidden {
		return 0
	}

	height := defaultRowHeight
	if opts.heightSet {
		height = opts.height
	}
	return uint32(height * 4.0 / 3.0)
}

// assembleXML renders the xl/worksheets/sheetN.xml part. Elements
// follow the schema order readers require.
func (ws *Worksheet) assembleXML() []byte {
	ws.registerFeatureFormats()
	ws.resolveRelIDs()

	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("worksheet", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsMain},
		{Key: "xmlns:r", Value: nsOfficeRel},
	})

	ws.writeSheetPr(w)
	ws.writeDimension(w)
	ws.writeSheetViews(w)
	w.EmptyTagAttr("sheetFormatPr", []xmlwriter.Attr{
		{Key: "defaultRowHeight", Value: formatFloat(defaultRowHeight)},
	})
	ws.writeCols(w)
	ws.writeSheetData(w)
	ws.writeSheetProtection(w)
	ws.writeAutofilter(w)
	ws.writeMergeCells(w)
	ws.writeConditionalFormats(w)
	ws.writeDataValidations(w)
	ws.writeHyperlinks(w)
	ws.writePrintOptions(w)
	ws.writePageMargins(w)
	ws.writePageSetup(w)
	ws.writeHeaderFooter(w)
	ws.writeDrawing(w)
	ws.writeTableParts(w)

	w.EndTag("worksheet")

	return w.Bytes()
}

func (ws *Worksheet) writeSheetPr(w *xmlwriter.Writer) {
	if ws.tabColor.isDefault() && !ws.fitToPage {
		return
	}

	w.StartTag("sheetPr")
	if !ws.tabColor.isDefault() {
		w.EmptyTagAttr("tabColor", ws.tabColor.attributes())
	}
	if ws.fitToPage {
		w.EmptyTagAttr("pageSetUpPr", []xmlwriter.Attr{{Key: "fitToPage", Value: "1"}})
	}
	w.EndTag("sheetPr")
}

func (ws *Worksheet) writeDimension(w *xmlwriter.Writer) {
	ref := "A1"
	if ws.hasCells {
		ref = CellRange(ws.firstRow, ws.firstCol, ws.lastRow, ws.lastCol)
	}
	w.EmptyTagAttr("dimension", []xmlwriter.Attr{{Key: "ref", Value: ref}})
}

func (ws *Worksheet) writeSheetViews(w *xmlwriter.Writer) {
	w.StartTag("sheetViews")

	var attrs []xmlwriter.Attr
	if !ws.screenGridlines {
		attrs = append(attrs, xmlwriter.Attr{Key: "showGridLines", Value: "0"})
	}
	if ws.rightToLeft {
		attrs = append(attrs, xmlwriter.Attr{Key: "rightToLeft", Value: "1"})
	}
	if ws.selected {
		attrs = append(attrs, xmlwriter.Attr{Key: "tabSelected", Value: "1"})
	}
	if ws.zoom != 100 {
		zoom := strconv.FormatUint(uint64(ws.zoom), 10)
		attrs = append(attrs,
			xmlwriter.Attr{Key: "zoomScale", Value: zoom},
			xmlwriter.Attr{Key: "zoomScaleNormal", Value: zoom})
	}
	attrs = append(attrs, xmlwriter.Attr{Key: "workbookViewId", Value: "0"})

	if !ws.hasFreeze {
		w.EmptyTagAttr("sheetView", attrs)
	} else {
		w.StartTagAttr("sheetView", attrs)
		ws.writePane(w)
		w.EndTag("sheetView")
	}

	w.EndTag("sheetViews")
}

func (ws *Worksheet) writePane(w *xmlwriter.Writer) {
	var pane string
	switch {
	case ws.freezeRow > 0 && ws.freezeCol > 0:
		pane = "bottomRight"
	case ws.freezeRow > 0:
		pane = "bottomLeft"
	default:
		pane = "topRight"
	}

	var attrs []xmlwriter.Attr
	if ws.freezeCol > 0 {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "xSplit",
			Value: strconv.FormatUint(uint64(ws.freezeCol), 10),
		})
	}
	if ws.freezeRow > 0 {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "ySplit",
			Value: strconv.FormatUint(uint64(ws.freezeRow), 10),
		})
	}
	attrs = append(attrs,
		xmlwriter.Attr{Key: "topLeftCell", Value: RowColToCell(ws.freezeRow, ws.freezeCol)},
		xmlwriter.Attr{Key: "activePane", Value: pane},
		xmlwriter.Attr{Key: "state", Value: "frozen"})

	w.EmptyTagAttr("pane", attrs)
	w.EmptyTagAttr("selection", []xmlwriter.Attr{{Key: "pane", Value: pane}})
}

func (ws *Worksheet) writeCols(w *xmlwriter.Writer) {
	if len(ws.cols) == 0 {
		return
	}

	colNums := make([]uint16, 0, len(ws.cols))
	for col := range ws.cols {
		colNums = append(colNums, col)
	}
	sort.Slice(colNums, func(i, j int) bool { return colNums[i] < colNums[j] })

	w.StartTag("cols")
	for start := 0; start < len(colNums); {
		end := start
		for end+1 < len(colNums) && colNums[end+1] == colNums[end]+1 &&
			sameColOptions(ws.cols[colNums[end+1]], ws.cols[colNums[start]]) {
			end++
		}
		ws.writeColElement(w, colNums[start], colNums[end], ws.cols[colNums[start]])
		start = end + 1
	}
	w.EndTag("cols")
}

func (ws *Worksheet) writeColElement(w *xmlwriter.Writer, first, last uint16, opts *colOptions) {
	width := defaultColWidth
	if opts.widthSet {
		width = opts.width
	}
	if opts.hidden {
		width = 0
	}

	attrs := []xmlwriter.Attr{
		{Key: "min", Value: strconv.FormatUint(uint64(first)+1, 10)},
		{Key: "max", Value: strconv.FormatUint(uint64(last)+1, 10)},
		{Key: "width", Value: formatFloat(width)},
	}
	if opts.hasFormat && opts.xf > 0 {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "style",
			Value: strconv.FormatUint(uint64(opts.xf), 10),
		})
	}
	if opts.hidden {
		attrs = append(attrs, xmlwriter.Attr{Key: "hidden", Value: "1"})
	}
	if opts.autofit {
		attrs = append(attrs, xmlwriter.Attr{Key: "bestFit", Value: "1"})
	}
	if opts.widthSet && !opts.hidden {
		attrs = append(attrs, xmlwriter.Attr{Key: "customWidth", Value: "1"})
	}

	w.EmptyTagAttr("col", attrs)
}

func (ws *Worksheet) writeSheetData(w *xmlwriter.Writer) {
	if len(ws.cells) == 0 && len(ws.rows) == 0 {
		w.EmptyTag("sheetData")
		return
	}

	spans := ws.calculateSpans()

	rowNums := make([]uint32, 0, len(ws.cells)+len(ws.rows))
	for row := range ws.cells {
		rowNums = append(rowNums, row)
	}
	for row := range ws.rows {
		if _, ok := ws.cells[row]; !ok {
			rowNums = append(rowNums, row)
		}
	}
	sort.Slice(rowNums, func(i, j int) bool { return rowNums[i] < rowNums[j] })

	w.StartTag("sheetData")
	for _, row := range rowNums {
		cells := ws.cells[row]
		if len(cells) == 0 {
			ws.writeRowElement(w, row, "", false)
			continue
		}

		ws.writeRowElement(w, row, spans[row/16], true)

		colNums := make([]uint16, 0, len(cells))
		for col := range cells {
			colNums = append(colNums, col)
		}
		sort.Slice(colNums, func(i, j int) bool { return colNums[i] < colNums[j] })

		for _, col := range colNums {
			ws.writeCell(w, row, col, cells[col])
		}
		w.EndTag("row")
	}
	w.EndTag("sheetData")
}

// calculateSpans computes the spans attribute written on each row with
// cells: the 1-based column extent of all cells within the row's 16 row
// block, keyed by block index.
func (ws *Worksheet) calculateSpans() map[uint32]string {
	spans := make(map[uint32]string)
	if !ws.hasCells {
		return spans
	}

	var minCol, maxCol uint16
	inBlock := false

	for row := ws.firstRow; row <= ws.lastRow; row++ {
		for col := range ws.cells[row] {
			if !inBlock {
				minCol, maxCol = col, col
				inBlock = true
				continue
			}
			if col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
		}

		if (row+1)%16 == 0 || row == ws.lastRow {
			if inBlock {
				spans[row/16] = strconv.FormatUint(uint64(minCol)+1, 10) +
					":" + strconv.FormatUint(uint64(maxCol)+1, 10)
				inBlock = false
			}
		}
	}

	return spans
}

func (ws *Worksheet) writeRowElement(w *xmlwriter.Writer, row uint32, span string, open bool) {
	attrs := []xmlwriter.Attr{
		{Key: "r", Value: strconv.FormatUint(uint64(row)+1, 10)},
	}
	if span != "" {
		attrs = append(attrs, xmlwriter.Attr{Key: "spans", Value: span})
	}

	if opts, ok := ws.rows[row]; ok {
		customHeight := opts.heightSet && opts.height != defaultRowHeight
		if opts.hasFormat && opts.xf > 0 {
			attrs = append(attrs,
				xmlwriter.Attr{Key: "s", Value: strconv.FormatUint(uint64(opts.xf), 10)},
				xmlwriter.Attr{Key: "customFormat", Value: "1"})
		}
		if customHeight {
			attrs = append(attrs, xmlwriter.Attr{Key: "ht", Value: formatFloat(opts.height)})
		}
		if opts.hidden {
			attrs = append(attrs, xmlwriter.Attr{Key: "hidden", Value: "1"})
		}
		if customHeight {
			attrs = append(attrs, xmlwriter.Attr{Key: "customHeight", Value: "1"})
		}
	}

	if open {
		w.StartTagAttr("row", attrs)
	} else {
		w.EmptyTagAttr("row", attrs)
	}
}

func (ws *Worksheet) writeCell(w *xmlwriter.Writer, row uint32, col uint16, c *cell) {
	attrs := []xmlwriter.Attr{{Key: "r", Value: RowColToCell(row, col)}}
	if c.xf > 0 {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "s",
			Value: strconv.FormatUint(uint64(c.xf), 10),
		})
	}

	switch c.kind {
	case cellBlank:
		w.EmptyTagAttr("c", attrs)

	case cellNumber:
		w.StartTagAttr("c", attrs)
		w.DataElement("v", formatFloat(c.num))
		w.EndTag("c")

	case cellString, cellRichString:
		attrs = append(attrs, xmlwriter.Attr{Key: "t", Value: "s"})
		w.StartTagAttr("c", attrs)
		w.DataElement("v", strconv.FormatUint(uint64(c.sst), 10))
		w.EndTag("c")

	case cellBool:
		attrs = append(attrs, xmlwriter.Attr{Key: "t", Value: "b"})
		w.StartTagAttr("c", attrs)
		if c.num != 0 {
			w.DataElement("v", "1")
		} else {
			w.DataElement("v", "0")
		}
		w.EndTag("c")

	case cellFormula:
		if c.dynamic {
			attrs = append(attrs, xmlwriter.Attr{Key: "cm", Value: "1"})
		}
		result := c.result
		if result == "" {
			result = "0"
		}
		if _, err := strconv.ParseFloat(result, 64); err != nil {
			if errorLiterals[result] {
				attrs = append(attrs, xmlwriter.Attr{Key: "t", Value: "e"})
			} else {
				attrs = append(attrs, xmlwriter.Attr{Key: "t", Value: "str"})
			}
		}
		w.StartTagAttr("c", attrs)
		if c.arrayRange != "" {
			w.DataElementAttr("f", c.formula, []xmlwriter.Attr{
				{Key: "t", Value: "array"},
				{Key: "ref", Value: c.arrayRange},
			})
		} else {
			w.DataElement("f", c.formula)
		}
		w.DataElement("v", result)
		w.EndTag("c")
	}
}

func (ws *Worksheet) writeSheetProtection(w *xmlwriter.Writer) {
	if !ws.protected {
		return
	}

	var attrs []xmlwriter.Attr
	if ws.passwordHash != 0 {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "password",
			Value: fmt.Sprintf("%04X", ws.passwordHash),
		})
	}
	attrs = append(attrs, xmlwriter.Attr{Key: "sheet", Value: "1"})
	if !ws.protection.EditObjects {
		attrs = append(attrs, xmlwriter.Attr{Key: "objects", Value: "1"})
	}
	if !ws.protection.EditScenarios {
		attrs = append(attrs, xmlwriter.Attr{Key: "scenarios", Value: "1"})
	}
	if ws.protection.FormatCells {
		attrs = append(attrs, xmlwriter.Attr{Key: "formatCells", Value: "0"})
	}
	if ws.protection.FormatColumns {
		attrs = append(attrs, xmlwriter.Attr{Key: "formatColumns", Value: "0"})
	}
	if ws.protection.FormatRows {
		attrs = append(attrs, xmlwriter.Attr{Key: "formatRows", Value: "0"})
	}
	if ws.protection.InsertColumns {
		attrs = append(attrs, xmlwriter.Attr{Key: "insertColumns", Value: "0"})
	}
	if ws.protection.InsertRows {
		attrs = append(attrs, xmlwriter.Attr{Key: "insertRows", Value: "0"})
	}
	if ws.protection.InsertHyperlinks {
		attrs = append(attrs, xmlwriter.Attr{Key: "insertHyperlinks", Value: "0"})
	}
	if ws.protection.DeleteColumns {
		attrs = append(attrs, xmlwriter.Attr{Key: "deleteColumns", Value: "0"})
	}
	if ws.protection.DeleteRows {
		attrs = append(attrs, xmlwriter.Attr{Key: "deleteRows", Value: "0"})
	}
	if !ws.protection.SelectLockedCells {
		attrs = append(attrs, xmlwriter.Attr{Key: "selectLockedCells", Value: "1"})
	}
	if ws.protection.Sort {
		attrs = append(attrs, xmlwriter.Attr{Key: "sort", Value: "0"})
	}
	if ws.protection.UseAutofilter {
		attrs = append(attrs, xmlwriter.Attr{Key: "autoFilter", Value: "0"})
	}
	if ws.protection.UsePivotTables {
		attrs = append(attrs, xmlwriter.Attr{Key: "pivotTables", Value: "0"})
	}
	if !ws.protection.SelectUnlockedCells {
		attrs = append(attrs, xmlwriter.Attr{Key: "selectUnlockedCells", Value: "1"})
	}

	w.EmptyTagAttr("sheetProtection", attrs)
}

func (ws *Worksheet) writeAutofilter(w *xmlwriter.Writer) {
	if !ws.hasAutofilter {
		return
	}
	w.EmptyTagAttr("autoFilter", []xmlwriter.Attr{
		{Key: "ref", Value: ws.autofilterArea.cellRange()},
	})
}

func (ws *Worksheet) writeMergeCells(w *xmlwriter.Writer) {
	if len(ws.merges) == 0 {
		return
	}

	w.StartTagAttr("mergeCells", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(len(ws.merges))},
	})
	for _, merge := range ws.merges {
		w.EmptyTagAttr("mergeCell", []xmlwriter.Attr{{Key: "ref", Value: merge.cellRange()}})
	}
	w.EndTag("mergeCells")
}

func (ws *Worksheet) writeConditionalFormats(w *xmlwriter.Writer) {
	priority := 1
	for _, block := range ws.conditionals {
		w.StartTagAttr("conditionalFormatting", []xmlwriter.Attr{
			{Key: "sqref", Value: block.sqref},
		})
		for i, rule := range block.rules {
			rule.writeRule(w, block.dxfIDs[i], priority)
			priority++
		}
		w.EndTag("conditionalFormatting")
	}
}

func (ws *Worksheet) writeDataValidations(w *xmlwriter.Writer) {
	active := 0
	for _, v := range ws.validations {
		if !v.validation.ignored() {
			active++
		}
	}
	if active == 0 {
		return
	}

	w.StartTagAttr("dataValidations", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(active)},
	})
	for _, v := range ws.validations {
		if v.validation.ignored() {
			continue
		}
		v.validation.writeXML(w, v.sqref)
	}
	w.EndTag("dataValidations")
}

func (ws *Worksheet) writeHyperlinks(w *xmlwriter.Writer) {
	if len(ws.hyperlinks) == 0 {
		return
	}

	w.StartTag("hyperlinks")
	for _, loc := range ws.sortedHyperlinkLocations() {
		h := ws.hyperlinks[loc]
		attrs := []xmlwriter.Attr{{Key: "ref", Value: RowColToCell(loc.row, loc.col)}}

		if h.needsRelationship() {
			attrs = append(attrs, xmlwriter.Attr{
				Key:   "r:id",
				Value: "rId" + strconv.FormatUint(uint64(h.relID), 10),
			})
			if h.relAnchor != "" {
				attrs = append(attrs, xmlwriter.Attr{Key: "location", Value: h.relAnchor})
			}
			if h.toolTip != "" {
				attrs = append(attrs, xmlwriter.Attr{Key: "tooltip", Value: h.toolTip})
			}
		} else {
			attrs = append(attrs, xmlwriter.Attr{Key: "location", Value: h.relAnchor})
			if h.toolTip != "" {
				attrs = append(attrs, xmlwriter.Attr{Key: "tooltip", Value: h.toolTip})
			}
			attrs = append(attrs, xmlwriter.Attr{Key: "display", Value: h.userText})
		}

		w.EmptyTagAttr("hyperlink", attrs)
	}
	w.EndTag("hyperlinks")
}

func (ws *Worksheet) writePrintOptions(w *xmlwriter.Writer) {
	if !ws.printGridlines {
		return
	}
	w.EmptyTagAttr("printOptions", []xmlwriter.Attr{{Key: "gridLines", Value: "1"}})
}

func (ws *Worksheet) writePageMargins(w *xmlwriter.Writer) {
	w.EmptyTagAttr("pageMargins", []xmlwriter.Attr{
		{Key: "left", Value: formatFloat(ws.marginLeft)},
		{Key: "right", Value: formatFloat(ws.marginRight)},
		{Key: "top", Value: formatFloat(ws.marginTop)},
		{Key: "bottom", Value: formatFloat(ws.marginBottom)},
		{Key: "header", Value: formatFloat(ws.marginHeader)},
		{Key: "footer", Value: formatFloat(ws.marginFooter)},
	})
}

func (ws *Worksheet) writePageSetup(w *xmlwriter.Writer) {
	if !ws.pageSetupChanged {
		return
	}

	var attrs []xmlwriter.Attr
	if ws.paperSize > 0 {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "paperSize",
			Value: strconv.FormatUint(uint64(ws.paperSize), 10),
		})
	}
	if ws.printScale != 100 && !ws.fitToPage {
		attrs = append(attrs, xmlwriter.Attr{
			Key:   "scale",
			Value: strconv.FormatUint(uint64(ws.printScale), 10),
		})
	}
	if ws.fitToPage {
		if ws.fitWidth != 1 {
			attrs = append(attrs, xmlwriter.Attr{
				Key:   "fitToWidth",
				Value: strconv.FormatUint(uint64(ws.fitWidth), 10),
			})
		}
		if ws.fitHeight != 1 {
			attrs = append(attrs, xmlwriter.Attr{
				Key:   "fitToHeight",
				Value: strconv.FormatUint(uint64(ws.fitHeight), 10),
			})
		}
	}

	orientation := "portrait"
	if ws.landscape {
		orientation = "landscape"
	}
	attrs = append(attrs,
		xmlwriter.Attr{Key: "orientation", Value: orientation},
		xmlwriter.Attr{Key: "horizontalDpi", Value: "200"},
		xmlwriter.Attr{Key: "verticalDpi", Value: "200"})

	w.EmptyTagAttr("pageSetup", attrs)
}

func (ws *Worksheet) writeHeaderFooter(w *xmlwriter.Writer) {
	if !ws.headerSet && !ws.footerSet {
		return
	}

	w.StartTag("headerFooter")
	if ws.header != "" {
		w.DataElement("oddHeader", ws.header)
	}
	if ws.footer != "" {
		w.DataElement("oddFooter", ws.footer)
	}
	w.EndTag("headerFooter")
}

func (ws *Worksheet) writeDrawing(w *xmlwriter.Writer) {
	if len(ws.images) == 0 {
		return
	}
	w.EmptyTagAttr("drawing", []xmlwriter.Attr{
		{Key: "r:id", Value: "rId" + strconv.FormatUint(uint64(ws.drawingRelID), 10)},
	})
}

func (ws *Worksheet) writeTableParts(w *xmlwriter.Writer) {
	if len(ws.tables) == 0 {
		return
	}

	w.StartTagAttr("tableParts", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(len(ws.tables))},
	})
	for _, table := range ws.tables {
		w.EmptyTagAttr("tablePart", []xmlwriter.Attr{
			{Key: "r:id", Value: "rId" + strconv.FormatUint(uint64(table.relID), 10)},
		})
	}
	w.EndTag("tableParts")
}
