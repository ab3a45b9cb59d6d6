package abacus

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/richardlehane/mscfb"
	"github.com/tsawler/abacus/internal/xmlwriter"
)

// Workbook is an in-memory spreadsheet document. It owns the worksheets
// in tab order along with the shared string and format tables every
// sheet writes into, and turns the whole model into an xlsx package in
// one pass when saved.
//
// A Workbook and its worksheets are not safe for concurrent use.
type Workbook struct {
	sheets []*Worksheet

	strings *sharedStrings
	formats *formats

	definedNames []definedName
	properties   DocProperties

	vbaProject  []byte
	vbaCodeName string

	structureLocked     bool
	passwordHash        uint16
	readOnlyRecommended bool
}

// definedName is one workbook defined name: a user name or one of the
// _xlnm built-ins generated from print settings. sheetID is the zero
// based sheet scope, or -1 for workbook scope.
type definedName struct {
	name    string
	value   string
	sheetID int
	hidden  bool
}

// appDisplay returns the form of the name listed in docProps/app.xml:
// sheet local names are prefixed with their quoted sheet name and the
// _xlnm. prefix of the built-ins is dropped.
func (d definedName) appDisplay(sheets []*Worksheet) string {
	if d.sheetID < 0 {
		return d.name
	}
	return QuoteSheetName(sheets[d.sheetID].name) + "!" + strings.TrimPrefix(d.name, "_xlnm.")
}

// NewWorkbook creates an empty workbook. Worksheets are added with
// AddWorksheet; a workbook saved without any fails.
func NewWorkbook() *Workbook {
	return &Workbook{
		strings:    newSharedStrings(),
		formats:    newFormats(),
		properties: NewDocProperties(),
	}
}

// AddWorksheet appends a worksheet to the workbook and returns it. The
// sheet is named Sheet1, Sheet2, and so on; use SetName to rename it.
func (wb *Workbook) AddWorksheet() *Worksheet {
	name := "Sheet" + strconv.Itoa(len(wb.sheets)+1)
	ws := newWorksheet(name, wb.strings, wb.formats)
	wb.sheets = append(wb.sheets, ws)
	return ws
}

// Worksheets returns the worksheets in tab order.
func (wb *Workbook) Worksheets() []*Worksheet {
	return wb.sheets
}

// WorksheetByName returns the worksheet with the given name.
func (wb *Workbook) WorksheetByName(name string) (*Worksheet, error) {
	for _, ws := range wb.sheets {
		if ws.name == name {
			return ws, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWorksheet, name)
}

// WorksheetByIndex returns the worksheet at a zero based tab position.
func (wb *Workbook) WorksheetByIndex(index int) (*Worksheet, error) {
	if index < 0 || index >= len(wb.sheets) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownWorksheet, index)
	}
	return wb.sheets[index], nil
}

// DefineName adds a defined name that can be used in formulas in place
// of a cell range or constant, like "Sales" for "=Sheet1!$B$2:$B$10".
// A name of the form "Sheet1!Sales" is scoped to that sheet, which must
// already exist; otherwise the name is workbook global.
func (wb *Workbook) DefineName(name, formula string) error {
	scope := -1
	bare := name

	if i := strings.LastIndex(name, "!"); i >= 0 {
		sheet := name[:i]
		if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
			sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
		}

		idx := -1
		for j, ws := range wb.sheets {
			if ws.name == sheet {
				idx = j
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownWorksheet, sheet)
		}

		scope, bare = idx, name[i+1:]
	}

	if err := validateDefinedName(bare); err != nil {
		return err
	}

	wb.definedNames = append(wb.definedNames, definedName{
		name:    bare,
		value:   strings.TrimPrefix(formula, "="),
		sheetID: scope,
	})
	return nil
}

// validateDefinedName applies Excel's defined name rules: names start
// with a letter, underscore, or backslash, continue with word
// characters, periods, backslashes, or question marks, and must not be
// readable as a cell reference.
func validateDefinedName(name string) error {
	if name == "" {
		return newParameterError("defined name", "cannot be blank")
	}
	if utf8.RuneCountInString(name) > maxParameterLen {
		return newParameterError("defined name",
			fmt.Sprintf("longer than Excel's limit of %d characters", maxParameterLen))
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) && first != '_' && first != '\\' {
		return newParameterError("defined name",
			"must start with a letter, an underscore, or a backslash")
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '.', '_', '\\', '?':
		default:
			return newParameterError("defined name",
				fmt.Sprintf("character %q is not allowed", r))
		}
	}

	upper := strings.ToUpper(name)
	if looksLikeA1Ref(upper) || looksLikeRCRef(upper) {
		return newParameterError("defined name", "cannot look like a cell reference")
	}

	return nil
}

// SetProperties sets the document properties written into the package.
// Pinning both the created and modified instants makes saves of the
// same workbook byte for byte identical.
func (wb *Workbook) SetProperties(properties DocProperties) {
	wb.properties = properties
}

// SetReadOnlyRecommended asks spreadsheet applications to suggest, but
// not enforce, opening the file read-only.
func (wb *Workbook) SetReadOnlyRecommended(enable bool) {
	wb.readOnlyRecommended = enable
}

// ProtectStructure locks the workbook structure so sheets cannot be
// added, deleted, hidden, or renamed. Cell editing is a per-sheet
// setting, see Worksheet.Protect.
func (wb *Workbook) ProtectStructure() {
	wb.structureLocked = true
}

// ProtectStructureWithPassword locks the workbook structure behind a
// password. The password is stored as Excel's legacy 16-bit hash, which
// deters casual edits rather than determined ones.
func (wb *Workbook) ProtectStructureWithPassword(password string) {
	wb.structureLocked = true
	wb.passwordHash = hashPassword(password)
}

// AddVBAProject attaches an extracted vbaProject.bin macro file and
// turns the workbook into a macro-enabled document, which should be
// saved with an .xlsm extension. The data must be an OLE compound file,
// the container format of VBA projects.
func (wb *Workbook) AddVBAProject(project []byte) error {
	if _, err := mscfb.New(bytes.NewReader(project)); err != nil {
		return fmt.Errorf("%w: %v", ErrVBAProject, err)
	}

	wb.vbaProject = append([]byte(nil), project...)
	if wb.vbaCodeName == "" {
		wb.vbaCodeName = "ThisWorkbook"
	}
	return nil
}

// SetVBAName sets the VBA code name of the workbook object, which must
// match the name used inside the attached project. The default is
// ThisWorkbook.
func (wb *Workbook) SetVBAName(name string) error {
	if name == "" {
		return newParameterError("VBA name", "cannot be blank")
	}
	wb.vbaCodeName = name
	return nil
}

// Save assembles the workbook and writes it to path. The package is
// built in memory and written through a sibling temporary file that is
// renamed into place, so a failed save leaves no partial output.
func (wb *Workbook) Save(path string) error {
	var buf bytes.Buffer
	if err := wb.write(&buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// SaveToBuffer assembles the workbook and returns the package bytes.
func (wb *Workbook) SaveToBuffer() ([]byte, error) {
	var buf bytes.Buffer
	if err := wb.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToWriter assembles the workbook and writes the package to w. The
// package is completed in memory first, so nothing reaches w when
// assembly fails.
func (wb *Workbook) SaveToWriter(w io.Writer) error {
	var buf bytes.Buffer
	if err := wb.write(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (wb *Workbook) write(buf *bytes.Buffer) error {
	if err := wb.prepare(); err != nil {
		return err
	}
	return writePackage(wb, buf)
}

// prepare validates the workbook and forces every lazy registration
// into the shared tables so the parts can serialize without further
// model changes. It runs at the start of each save and is repeatable:
// saving twice prepares twice and produces the same package.
func (wb *Workbook) prepare() error {
	if len(wb.sheets) == 0 {
		return ErrWorkbookEmpty
	}

	seen := make(map[string]bool, len(wb.sheets))
	for _, ws := range wb.sheets {
		lower := strings.ToLower(ws.name)
		if seen[lower] {
			return fmt.Errorf("%w: %q", ErrSheetNameReused, ws.name)
		}
		seen[lower] = true
	}

	visible := false
	for _, ws := range wb.sheets {
		if !ws.hidden {
			visible = true
			break
		}
	}
	if !visible {
		return newParameterError("workbook", "every worksheet is hidden")
	}

	// Excel expects at least one selected tab. When the caller didn't
	// pick one, the first visible sheet is it.
	selected := false
	for _, ws := range wb.sheets {
		if ws.selected || ws.active {
			selected = true
			break
		}
	}
	if !selected {
		for _, ws := range wb.sheets {
			if !ws.hidden {
				ws.selected = true
				break
			}
		}
	}

	// Number the tables across the workbook and check their names.
	// Numbering feeds the default TableN names, so it runs first.
	tableNames := make(map[string]bool)
	index := uint32(0)
	for _, ws := range wb.sheets {
		for _, table := range ws.tables {
			index++
			table.index = index

			lower := strings.ToLower(table.displayName())
			if tableNames[lower] {
				return fmt.Errorf("%w: %q", ErrTableNameReused, table.displayName())
			}
			tableNames[lower] = true
		}
	}

	for _, ws := range wb.sheets {
		ws.registerFeatureFormats()
		ws.prepareDrawing()
	}

	wb.formats.prepare()
	return nil
}

// effectiveDefinedNames merges the user defined names with the _xlnm
// built-ins generated from each sheet's autofilter and print settings,
// sorted into the stable order they are written in.
func (wb *Workbook) effectiveDefinedNames() []definedName {
	names := make([]definedName, len(wb.definedNames))
	copy(names, wb.definedNames)

	for i, ws := range wb.sheets {
		quoted := QuoteSheetName(ws.name)

		if ws.hasAutofilter {
			names = append(names, definedName{
				name:    "_xlnm._FilterDatabase",
				value:   quoted + "!" + ws.autofilterArea.cellRangeAbs(),
				sheetID: i,
				hidden:  true,
			})
		}
		if ws.hasPrintArea {
			names = append(names, definedName{
				name:    "_xlnm.Print_Area",
				value:   quoted + "!" + ws.printArea.cellRangeAbs(),
				sheetID: i,
			})
		}
		if ws.hasRepeatRows || ws.hasRepeatCols {
			var value string
			if ws.hasRepeatCols {
				value = quoted + "!" + colRangeAbs(ws.repeatColsFirst, ws.repeatColsLast)
			}
			if ws.hasRepeatRows {
				if value != "" {
					value += ","
				}
				value += quoted + "!" + rowRangeAbs(ws.repeatRowsFirst, ws.repeatRowsLast)
			}
			names = append(names, definedName{
				name:    "_xlnm.Print_Titles",
				value:   value,
				sheetID: i,
			})
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		a := strings.ToLower(strings.TrimPrefix(names[i].name, "_xlnm."))
		b := strings.ToLower(strings.TrimPrefix(names[j].name, "_xlnm."))
		if a != b {
			return a < b
		}
		return names[i].sheetID < names[j].sheetID
	})

	return names
}

// appNamedRanges returns the defined names listed in docProps/app.xml.
// Hidden names, such as autofilter ranges, stay out of the list.
func (wb *Workbook) appNamedRanges(names []definedName) []string {
	var ranges []string
	for _, dn := range names {
		if dn.hidden {
			continue
		}
		ranges = append(ranges, dn.appDisplay(wb.sheets))
	}
	return ranges
}

func (wb *Workbook) sheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, ws := range wb.sheets {
		names[i] = ws.name
	}
	return names
}

// activeTab returns the tab index shown when the file opens: the first
// sheet marked active, or 0.
func (wb *Workbook) activeTab() int {
	for i, ws := range wb.sheets {
		if ws.active {
			return i
		}
	}
	return 0
}

func (wb *Workbook) hasDynamicFormulas() bool {
	for _, ws := range wb.sheets {
		if ws.hasDynamicFormulas {
			return true
		}
	}
	return false
}

// assembleXML renders the xl/workbook.xml part. Element order follows
// the schema sequence: fileVersion, fileSharing, workbookPr,
// workbookProtection, bookViews, sheets, definedNames, calcPr.
func (wb *Workbook) assembleXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("workbook", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsMain},
		{Key: "xmlns:r", Value: nsOfficeRel},
	})

	w.EmptyTagAttr("fileVersion", []xmlwriter.Attr{
		{Key: "appName", Value: "xl"},
		{Key: "lastEdited", Value: "4"},
		{Key: "lowestEdited", Value: "4"},
		{Key: "rupBuild", Value: "4505"},
	})

	if wb.readOnlyRecommended {
		w.EmptyTagAttr("fileSharing", []xmlwriter.Attr{
			{Key: "readOnlyRecommended", Value: "1"},
		})
	}

	var prAttrs []xmlwriter.Attr
	if len(wb.vbaProject) > 0 {
		prAttrs = append(prAttrs, xmlwriter.Attr{Key: "codeName", Value: wb.vbaCodeName})
	}
	prAttrs = append(prAttrs, xmlwriter.Attr{Key: "defaultThemeVersion", Value: "124226"})
	w.EmptyTagAttr("workbookPr", prAttrs)

	if wb.structureLocked {
		var attrs []xmlwriter.Attr
		if wb.passwordHash != 0 {
			attrs = append(attrs, xmlwriter.Attr{
				Key:   "workbookPassword",
				Value: fmt.Sprintf("%04X", wb.passwordHash),
			})
		}
		attrs = append(attrs, xmlwriter.Attr{Key: "lockStructure", Value: "1"})
		w.EmptyTagAttr("workbookProtection", attrs)
	}

	w.StartTag("bookViews")
	viewAttrs := []xmlwriter.Attr{
		{Key: "xWindow", Value: "240"},
		{Key: "yWindow", Value: "15"},
		{Key: "windowWidth", Value: "16095"},
		{Key: "windowHeight", Value: "9660"},
	}
	if tab := wb.activeTab(); tab > 0 {
		viewAttrs = append(viewAttrs, xmlwriter.Attr{Key: "activeTab", Value: strconv.Itoa(tab)})
	}
	w.EmptyTagAttr("workbookView", viewAttrs)
	w.EndTag("bookViews")

	w.StartTag("sheets")
	for i, ws := range wb.sheets {
		attrs := []xmlwriter.Attr{
			{Key: "name", Value: ws.name},
			{Key: "sheetId", Value: strconv.Itoa(i + 1)},
		}
		if ws.hidden {
			attrs = append(attrs, xmlwriter.Attr{Key: "state", Value: "hidden"})
		}
		attrs = append(attrs, xmlwriter.Attr{Key: "r:id", Value: "rId" + strconv.Itoa(i+1)})
		w.EmptyTagAttr("sheet", attrs)
	}
	w.EndTag("sheets")

	if names := wb.effectiveDefinedNames(); len(names) > 0 {
		w.StartTag("definedNames")
		for _, dn := range names {
			attrs := []xmlwriter.Attr{{Key: "name", Value: dn.name}}
			if dn.sheetID >= 0 {
				attrs = append(attrs, xmlwriter.Attr{Key: "localSheetId", Value: strconv.Itoa(dn.sheetID)})
			}
			if dn.hidden {
				attrs = append(attrs, xmlwriter.Attr{Key: "hidden", Value: "1"})
			}
			w.DataElementAttr("definedName", dn.value, attrs)
		}
		w.EndTag("definedNames")
	}

	w.EmptyTagAttr("calcPr", []xmlwriter.Attr{
		{Key: "calcId", Value: "124519"},
		{Key: "fullCalcOnLoad", Value: "1"},
	})

	w.EndTag("workbook")
	return w.Bytes()
}
