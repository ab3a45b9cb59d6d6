package abacus

import (
	"strconv"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// formats is the workbook's format registry. Cell formats are deduplicated
// structurally: registering an equal Format returns the previously issued
// index, and index 0 is always the default format. Differential (dxf)
// formats used by conditional formatting are stored as-is, one entry per
// registration, because consumers reference them positionally.
//
// Both tables are append-only, so an index remains valid for the life of
// the workbook.
type formats struct {
	xfs     []xfEntry
	xfIndex map[Format]uint32
	dxfs    []Format

	// Custom number format strings in first-seen order. Entry i has the
	// style sheet id 164+i; ids 0-163 are Excel's built-in formats.
	numFormats  []string
	numFmtIndex map[string]uint16

	hasHyperlinkStyle bool
	hyperlinkXf       uint32

	// Resolved by prepare before serialization.
	fontCount       uint16
	fillCount       uint16
	borderCount     uint16
	hyperlinkFontID uint16
}

// xfEntry is one cellXfs entry: the registered format plus the sub-table
// indices resolved at save time.
type xfEntry struct {
	format   Format
	numFmtID uint16
	fontID   uint16
	fillID   uint16
	borderID uint16

	// introduces* mark the first entry seen with a given font, fill, or
	// border. The sub-tables are serialized by walking the entries that
	// introduced their values.
	introducesFont   bool
	introducesFill   bool
	introducesBorder bool
}

func newFormats() *formats {
	f := &formats{
		xfIndex:     make(map[Format]uint32),
		numFmtIndex: make(map[string]uint16),
	}

	// Index 0 is the default format.
	f.register(Format{})

	return f
}

// register adds a cell format and returns its index. Equal formats share
// an index.
func (fs *formats) register(f Format) uint32 {
	if i, ok := fs.xfIndex[f]; ok {
		return i
	}

	i := uint32(len(fs.xfs))
	fs.xfs = append(fs.xfs, xfEntry{format: f})
	fs.xfIndex[f] = i

	if f.numFormat != "" {
		fs.customNumFormatID(f.numFormat)
	}

	return i
}

// registerDxf adds a differential format and returns its index. Every call
// appends: dxf entries are not shared, even when equal.
func (fs *formats) registerDxf(f Format) uint32 {
	i := uint32(len(fs.dxfs))
	fs.dxfs = append(fs.dxfs, f)

	if f.numFormat != "" {
		fs.customNumFormatID(f.numFormat)
	}

	return i
}

// customNumFormatID returns the style sheet id for a custom number format
// string, assigning ids from 164 in first-seen order.
func (fs *formats) customNumFormatID(numFormat string) uint16 {
	if id, ok := fs.numFmtIndex[numFormat]; ok {
		return id
	}

	id := uint16(164 + len(fs.numFormats))
	fs.numFormats = append(fs.numFormats, numFormat)
	fs.numFmtIndex[numFormat] = id

	return id
}

// hyperlinkFormat is the implicit format applied to hyperlink cells: the
// default font underlined in the theme hyperlink color.
func hyperlinkFormat() Format {
	f := NewFormat().SetUnderline(UnderlineSingle).SetFontColor(ThemeColor(10, 0))
	f.font.hyperlink = true
	return f
}

// ensureHyperlinkStyle registers the hyperlink cell format and the
// matching built-in cell style, returning the format index.
func (fs *formats) ensureHyperlinkStyle() uint32 {
	if !fs.hasHyperlinkStyle {
		fs.hyperlinkXf = fs.register(hyperlinkFormat())
		fs.hasHyperlinkStyle = true
	}
	return fs.hyperlinkXf
}

// prepare resolves the font, fill, border, and number format sub-tables in
// one pass over the registered formats, in first-seen order.
func (fs *formats) prepare() {
	fontIndex := make(map[fontFormat]uint16)
	fillIndex := make(map[fillFormat]uint16)
	borderIndex := make(map[borderFormat]uint16)

	// prepare runs once per save, so the counts start from scratch each
	// time rather than accumulating.
	fs.fontCount = 0
	fs.borderCount = 0
	fs.hyperlinkFontID = 0

	// Fill ids 0 and 1 are the fixed default fills, none and gray125.
	nextFill := uint16(2)

	for i := range fs.xfs {
		xf := &fs.xfs[i]

		if xf.format.numFormat != "" {
			xf.numFmtID = fs.numFmtIndex[xf.format.numFormat]
		} else {
			xf.numFmtID = xf.format.numFormatIndex
		}

		font := xf.format.font
		if id, ok := fontIndex[font]; ok {
			xf.fontID = id
		} else {
			id = fs.fontCount
			fontIndex[font] = id
			fs.fontCount++
			xf.fontID = id
			xf.introducesFont = true
			if font.hyperlink {
				fs.hyperlinkFontID = id
			}
		}

		fill := normalizeFill(xf.format.fill)
		if fill == (fillFormat{}) {
			xf.fillID = 0
		} else if id, ok := fillIndex[fill]; ok {
			xf.fillID = id
		} else {
			fillIndex[fill] = nextFill
			xf.fillID = nextFill
			nextFill++
			xf.introducesFill = true
		}

		border := xf.format.borders
		if id, ok := borderIndex[border]; ok {
			xf.borderID = id
		} else {
			id = fs.borderCount
			borderIndex[border] = id
			fs.borderCount++
			xf.borderID = id
			xf.introducesBorder = true
		}
	}

	fs.fillCount = nextFill
}

// normalizeFill applies the fill shorthand users expect: a background
// color with no pattern means a solid fill of that color.
func normalizeFill(fill fillFormat) fillFormat {
	if fill.pattern > PatternSolid {
		return fill
	}

	if fill.foregroundColor.isDefault() && !fill.backgroundColor.isDefault() {
		fill.foregroundColor = fill.backgroundColor
		fill.backgroundColor = Color{}
		fill.pattern = PatternSolid
	} else if !fill.foregroundColor.isDefault() {
		fill.pattern = PatternSolid
	}

	return fill
}

// assembleXML renders the xl/styles.xml part.
func (fs *formats) assembleXML() []byte {
	fs.prepare()

	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("styleSheet", []xmlwriter.Attr{{Key: "xmlns", Value: nsMain}})

	fs.writeNumFmts(w)
	fs.writeFonts(w)
	fs.writeFills(w)
	fs.writeBorders(w)
	fs.writeCellStyleXfs(w)
	fs.writeCellXfs(w)
	fs.writeCellStyles(w)
	fs.writeDxfs(w)

	w.EmptyTagAttr("tableStyles", []xmlwriter.Attr{
		{Key: "count", Value: "0"},
		{Key: "defaultTableStyle", Value: "TableStyleMedium9"},
		{Key: "defaultPivotStyle", Value: "PivotStyleLight16"},
	})

	w.EndTag("styleSheet")

	return w.Bytes()
}

func (fs *formats) writeNumFmts(w *xmlwriter.Writer) {
	if len(fs.numFormats) == 0 {
		return
	}

	w.StartTagAttr("numFmts", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(len(fs.numFormats))},
	})

	for i, numFormat := range fs.numFormats {
		w.EmptyTagAttr("numFmt", []xmlwriter.Attr{
			{Key: "numFmtId", Value: strconv.Itoa(164 + i)},
			{Key: "formatCode", Value: numFormat},
		})
	}

	w.EndTag("numFmts")
}

func (fs *formats) writeFonts(w *xmlwriter.Writer) {
	w.StartTagAttr("fonts", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(int(fs.fontCount))},
	})

	for i := range fs.xfs {
		if fs.xfs[i].introducesFont {
			writeFontElement(w, "font", fs.xfs[i].format.font)
		}
	}

	w.EndTag("fonts")
}

// writeFontElement writes a full font description. The same element body
// serves the style sheet's <font> and the rich string <rPr> blocks, which
// differ only in the wrapper tag and the name element.
func writeFontElement(w *xmlwriter.Writer, tag string, font fontFormat) {
	w.StartTag(tag)

	if font.bold {
		w.EmptyTag("b")
	}
	if font.italic {
		w.EmptyTag("i")
	}
	if font.strikethrough {
		w.EmptyTag("strike")
	}
	if font.underline != UnderlineNone {
		writeUnderline(w, font.underline)
	}
	if font.script != ScriptNone {
		writeVertAlign(w, font.script)
	}

	w.EmptyTagAttr("sz", []xmlwriter.Attr{
		{Key: "val", Value: formatFloat(font.effectiveSize())},
	})

	if font.color.isDefault() {
		w.EmptyTagAttr("color", []xmlwriter.Attr{{Key: "theme", Value: "1"}})
	} else {
		w.EmptyTagAttr("color", font.color.attributes())
	}

	nameTag := "name"
	if tag == "rPr" {
		nameTag = "rFont"
	}
	w.EmptyTagAttr(nameTag, []xmlwriter.Attr{{Key: "val", Value: font.effectiveName()}})

	if family := font.effectiveFamily(); family > 0 {
		w.EmptyTagAttr("family", []xmlwriter.Attr{
			{Key: "val", Value: strconv.Itoa(int(family))},
		})
	}

	if font.charset > 0 {
		w.EmptyTagAttr("charset", []xmlwriter.Attr{
			{Key: "val", Value: strconv.Itoa(int(font.charset))},
		})
	}

	if scheme := font.effectiveScheme(); scheme != "" {
		w.EmptyTagAttr("scheme", []xmlwriter.Attr{{Key: "val", Value: scheme}})
	}

	w.EndTag(tag)
}

func writeUnderline(w *xmlwriter.Writer, u Underline) {
	switch u {
	case UnderlineDouble:
		w.EmptyTagAttr("u", []xmlwriter.Attr{{Key: "val", Value: "double"}})
	case UnderlineSingleAccounting:
		w.EmptyTagAttr("u", []xmlwriter.Attr{{Key: "val", Value: "singleAccounting"}})
	case UnderlineDoubleAccounting:
		w.EmptyTagAttr("u", []xmlwriter.Attr{{Key: "val", Value: "doubleAccounting"}})
	default:
		w.EmptyTag("u")
	}
}

func writeVertAlign(w *xmlwriter.Writer, s Script) {
	switch s {
	case ScriptSuperscript:
		w.EmptyTagAttr("vertAlign", []xmlwriter.Attr{{Key: "val", Value: "superscript"}})
	case ScriptSubscript:
		w.EmptyTagAttr("vertAlign", []xmlwriter.Attr{{Key: "val", Value: "subscript"}})
	}
}

func (fs *formats) writeFills(w *xmlwriter.Writer) {
	w.StartTagAttr("fills", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(int(fs.fillCount))},
	})

	// The two fixed default fills.
	writePatternOnlyFill(w, "none")
	writePatternOnlyFill(w, "gray125")

	for i := range fs.xfs {
		if fs.xfs[i].introducesFill {
			writeFillElement(w, normalizeFill(fs.xfs[i].format.fill))
		}
	}

	w.EndTag("fills")
}

func writePatternOnlyFill(w *xmlwriter.Writer, pattern string) {
	w.StartTag("fill")
	w.EmptyTagAttr("patternFill", []xmlwriter.Attr{{Key: "patternType", Value: pattern}})
	w.EndTag("fill")
}

func writeFillElement(w *xmlwriter.Writer, fill fillFormat) {
	// A pattern with no colors, like gray125, writes in the short form.
	if fill.pattern != PatternNone && fill.foregroundColor.isDefault() && fill.backgroundColor.isDefault() {
		writePatternOnlyFill(w, fill.pattern.value())
		return
	}

	w.StartTag("fill")
	w.StartTagAttr("patternFill", []xmlwriter.Attr{
		{Key: "patternType", Value: fill.pattern.value()},
	})

	if !fill.foregroundColor.isDefault() {
		w.EmptyTagAttr("fgColor", fill.foregroundColor.attributes())
	}

	if !fill.backgroundColor.isDefault() {
		w.EmptyTagAttr("bgColor", fill.backgroundColor.attributes())
	} else {
		w.EmptyTagAttr("bgColor", []xmlwriter.Attr{{Key: "indexed", Value: "64"}})
	}

	w.EndTag("patternFill")
	w.EndTag("fill")
}

func (fs *formats) writeBorders(w *xmlwriter.Writer) {
	w.StartTagAttr("borders", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(int(fs.borderCount))},
	})

	for i := range fs.xfs {
		if fs.xfs[i].introducesBorder {
			writeBorderElement(w, fs.xfs[i].format.borders)
		}
	}

	w.EndTag("borders")
}

func writeBorderElement(w *xmlwriter.Writer, b borderFormat) {
	var attrs []xmlwriter.Attr
	switch b.diagonalType {
	case DiagonalBorderUp:
		attrs = []xmlwriter.Attr{{Key: "diagonalUp", Value: "1"}}
	case DiagonalBorderDown:
		attrs = []xmlwriter.Attr{{Key: "diagonalDown", Value: "1"}}
	case DiagonalBorderUpDown:
		attrs = []xmlwriter.Attr{
			{Key: "diagonalUp", Value: "1"},
			{Key: "diagonalDown", Value: "1"},
		}
	}
	w.StartTagAttr("border", attrs)

	writeSubBorder(w, "left", b.left, b.leftColor)
	writeSubBorder(w, "right", b.right, b.rightColor)
	writeSubBorder(w, "top", b.top, b.topColor)
	writeSubBorder(w, "bottom", b.bottom, b.bottomColor)
	writeSubBorder(w, "diagonal", b.diagonal, b.diagonalColor)

	w.EndTag("border")
}

func writeSubBorder(w *xmlwriter.Writer, edge string, style BorderStyle, color Color) {
	if style == BorderNone {
		w.EmptyTag(edge)
		return
	}

	w.StartTagAttr(edge, []xmlwriter.Attr{{Key: "style", Value: style.value()}})

	if !color.isDefault() {
		w.EmptyTagAttr("color", color.attributes())
	} else {
		w.EmptyTagAttr("color", []xmlwriter.Attr{{Key: "auto", Value: "1"}})
	}

	w.EndTag(edge)
}

func (fs *formats) writeCellStyleXfs(w *xmlwriter.Writer) {
	count := "1"
	if fs.hasHyperlinkStyle {
		count = "2"
	}

	w.StartTagAttr("cellStyleXfs", []xmlwriter.Attr{{Key: "count", Value: count}})

	w.EmptyTagAttr("xf", []xmlwriter.Attr{
		{Key: "numFmtId", Value: "0"},
		{Key: "fontId", Value: "0"},
		{Key: "fillId", Value: "0"},
		{Key: "borderId", Value: "0"},
	})

	if fs.hasHyperlinkStyle {
		w.StartTagAttr("xf", []xmlwriter.Attr{
			{Key: "numFmtId", Value: "0"},
			{Key: "fontId", Value: strconv.Itoa(int(fs.hyperlinkFontID))},
			{Key: "fillId", Value: "0"},
			{Key: "borderId", Value: "0"},
			{Key: "applyNumberFormat", Value: "0"},
			{Key: "applyFill", Value: "0"},
			{Key: "applyBorder", Value: "0"},
			{Key: "applyAlignment", Value: "0"},
			{Key: "applyProtection", Value: "0"},
		})
		w.EmptyTagAttr("alignment", []xmlwriter.Attr{{Key: "vertical", Value: "top"}})
		w.EmptyTagAttr("protection", []xmlwriter.Attr{{Key: "locked", Value: "0"}})
		w.EndTag("xf")
	}

	w.EndTag("cellStyleXfs")
}

func (fs *formats) writeCellXfs(w *xmlwriter.Writer) {
	w.StartTagAttr("cellXfs", []xmlwriter.Attr{
		{Key: "count", Value: strconv.Itoa(len(fs.xfs))},
	})

	for i := range fs.xfs {
		fs.writeCellXf(w, &fs.xfs[i])
	}

	w.EndTag("cellXfs")
}

func (fs *formats) writeCellXf(w *xmlwriter.Writer, xf *xfEntry) {
	f := xf.format
	isHyperlink := f.font.hyperlink

	xfID := "0"
	if isHyperlink {
		xfID = "1"
	}

	attrs := []xmlwriter.Attr{
		{Key: "numFmtId", Value: strconv.Itoa(int(xf.numFmtID))},
		{Key: "fontId", Value: strconv.Itoa(int(xf.fontID))},
		{Key: "fillId", Value: strconv.Itoa(int(xf.fillID))},
		{Key: "borderId", Value: strconv.Itoa(int(xf.borderID))},
		{Key: "xfId", Value: xfID},
	}

	if f.quotePrefix {
		attrs = append(attrs, xmlwriter.Attr{Key: "quotePrefix", Value: "1"})
	}
	if xf.numFmtID > 0 {
		attrs = append(attrs, xmlwriter.Attr{Key: "applyNumberFormat", Value: "1"})
	}
	if xf.fontID > 0 && !isHyperlink {
		attrs = append(attrs, xmlwriter.Attr{Key: "applyFont", Value: "1"})
	}
	if xf.fillID > 0 {
		attrs = append(attrs, xmlwriter.Attr{Key: "applyFill", Value: "1"})
	}
	if xf.borderID > 0 {
		attrs = append(attrs, xmlwriter.Attr{Key: "applyBorder", Value: "1"})
	}
	if f.applyAlignment() || isHyperlink {
		attrs = append(attrs, xmlwriter.Attr{Key: "applyAlignment", Value: "1"})
	}
	if f.hasProtection() || isHyperlink {
		attrs = append(attrs, xmlwriter.Attr{Key: "applyProtection", Value: "1"})
	}

	if !f.hasAlignment() && !f.hasProtection() {
		w.EmptyTagAttr("xf", attrs)
		return
	}

	w.StartTagAttr("xf", attrs)
	if f.hasAlignment() {
		writeAlignmentElement(w, f.alignment)
	}
	if f.hasProtection() {
		writeProtectionElement(w, f)
	}
	w.EndTag("xf")
}

func writeAlignmentElement(w *xmlwriter.Writer, a alignmentFormat) {
	horizontal := a.horizontal
	shrink := a.shrink

	// Indent only applies to left, right and distributed alignment;
	// Excel falls back to left otherwise.
	if a.indent > 0 && horizontal != HAlignLeft && horizontal != HAlignRight &&
		horizontal != HAlignDistributed {
		horizontal = HAlignLeft
	}

	// Shrink is mutually exclusive with wrapping and fill-like alignment.
	if a.textWrap || horizontal == HAlignFill || horizontal == HAlignJustify ||
		horizontal == HAlignDistributed {
		shrink = false
	}

	var attrs []xmlwriter.Attr

	switch horizontal {
	case HAlignCenter:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "center"})
	case HAlignCenterAcross:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "centerContinuous"})
	case HAlignDistributed:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "distributed"})
	case HAlignFill:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "fill"})
	case HAlignJustify:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "justify"})
	case HAlignLeft:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "left"})
	case HAlignRight:
		attrs = append(attrs, xmlwriter.Attr{Key: "horizontal", Value: "right"})
	}

	switch a.vertical {
	case VAlignCenter:
		attrs = append(attrs, xmlwriter.Attr{Key: "vertical", Value: "center"})
	case VAlignDistributed:
		attrs = append(attrs, xmlwriter.Attr{Key: "vertical", Value: "distributed"})
	case VAlignJustify:
		attrs = append(attrs, xmlwriter.Attr{Key: "vertical", Value: "justify"})
	case VAlignTop:
		attrs = append(attrs, xmlwriter.Attr{Key: "vertical", Value: "top"})
	}

	if a.indent != 0 {
		attrs = append(attrs, xmlwriter.Attr{Key: "indent", Value: strconv.Itoa(int(a.indent))})
	}
	if a.rotation != 0 {
		attrs = append(attrs, xmlwriter.Attr{Key: "textRotation", Value: strconv.Itoa(int(a.rotation))})
	}
	if a.textWrap {
		attrs = append(attrs, xmlwriter.Attr{Key: "wrapText", Value: "1"})
	}
	if shrink {
		attrs = append(attrs, xmlwriter.Attr{Key: "shrinkToFit", Value: "1"})
	}
	if a.readingOrder >= 1 && a.readingOrder <= 2 {
		attrs = append(attrs, xmlwriter.Attr{Key: "readingOrder", Value: strconv.Itoa(int(a.readingOrder))})
	}

	w.EmptyTagAttr("alignment", attrs)
}

func writeProtectionElement(w *xmlwriter.Writer, f Format) {
	var attrs []xmlwriter.Attr

	if f.unlocked {
		attrs = append(attrs, xmlwriter.Attr{Key: "locked", Value: "0"})
	}
	if f.hidden {
		attrs = append(attrs, xmlwriter.Attr{Key: "hidden", Value: "1"})
	}

	w.EmptyTagAttr("protection", attrs)
}

func (fs *formats) writeCellStyles(w *xmlwriter.Writer) {
	count := "1"
	if fs.hasHyperlinkStyle {
		count = "2"
	}

	w.StartTagAttr("cellStyles", []xmlwriter.Attr{{Key: "count", Value: count}})

	if fs.hasHyperlinkStyle {
		w.EmptyTagAttr("cellStyle", []xmlwriter.Attr{
			{Key: "name", Value: "Hyperlink"},
			{Key: "xfId", Value: "1"},
			{Key: "builtinId", Value: "8"},
		})
	}

	w.EmptyTagAttr("cellStyle", []xmlwriter.Attr{
		{Key: "name", Value: "Normal"},
		{Key: "xfId", Value: "0"},
		{Key: "builtinId", Value: "0"},
	})

	w.EndTag("cellStyles")
}

func (fs *formats) writeDxfs(w *xmlwriter.Writer) {
	countAttr := []xmlwriter.Attr{{Key: "count", Value: strconv.Itoa(len(fs.dxfs))}}

	if len(fs.dxfs) == 0 {
		w.EmptyTagAttr("dxfs", countAttr)
		return
	}

	w.StartTagAttr("dxfs", countAttr)

	for _, dxf := range fs.dxfs {
		fs.writeDxf(w, dxf)
	}

	w.EndTag("dxfs")
}

// writeDxf writes one differential format. Unlike a full font or fill
// description, a dxf carries only the properties that differ from the
// cell's own format.
func (fs *formats) writeDxf(w *xmlwriter.Writer, f Format) {
	if f.IsDefault() {
		w.EmptyTag("dxf")
		return
	}

	w.StartTag("dxf")

	if f.hasFont() {
		w.StartTag("font")
		if f.font.bold {
			w.EmptyTag("b")
		}
		if f.font.italic {
			w.EmptyTag("i")
		}
		if f.font.strikethrough {
			w.EmptyTag("strike")
		}
		if f.font.underline != UnderlineNone {
			writeUnderline(w, f.font.underline)
		}
		if !f.font.color.isDefault() {
			w.EmptyTagAttr("color", f.font.color.attributes())
		}
		w.EndTag("font")
	}

	if f.numFormat != "" {
		w.EmptyTagAttr("numFmt", []xmlwriter.Attr{
			{Key: "numFmtId", Value: strconv.Itoa(int(fs.numFmtIndex[f.numFormat]))},
			{Key: "formatCode", Value: f.numFormat},
		})
	}

	if f.hasFill() {
		w.StartTag("fill")
		if f.fill.pattern == PatternNone {
			w.StartTag("patternFill")
		} else {
			w.StartTagAttr("patternFill", []xmlwriter.Attr{
				{Key: "patternType", Value: f.fill.pattern.value()},
			})
		}
		if !f.fill.foregroundColor.isDefault() {
			w.EmptyTagAttr("fgColor", f.fill.foregroundColor.attributes())
		}
		if !f.fill.backgroundColor.isDefault() {
			w.EmptyTagAttr("bgColor", f.fill.backgroundColor.attributes())
		}
		w.EndTag("patternFill")
		w.EndTag("fill")
	}

	if f.hasBorder() {
		writeBorderElement(w, f.borders)
	}

	w.EndTag("dxf")
}

// formatFloat renders a float the way Excel writes them: integral values
// without a decimal point, others in shortest round-trip form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
