package abacus

import (
	"strconv"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// Format describes the visual formatting of a cell: number format, font,
// alignment, borders, fill, and protection. A Format is a value; the Set
// methods return a modified copy, so formats can be built fluently and
// shared freely:
//
//	bold := abacus.NewFormat().SetBold()
//	money := abacus.NewFormat().SetNumFormat("$#,##0.00")
//	err := worksheet.WriteNumberWithFormat(0, 0, 1234.5, money)
//
// Equal formats are stored once in the workbook: registering the same
// format for a thousand cells produces a single style table entry.
type Format struct {
	numFormat      string
	numFormatIndex uint16

	font      fontFormat
	alignment alignmentFormat
	borders   borderFormat
	fill      fillFormat

	hidden      bool
	unlocked    bool
	quotePrefix bool
}

// fontFormat holds the font properties of a Format. The zero value means
// the default font: Calibri 11, theme color 1, family 2, minor scheme.
type fontFormat struct {
	bold          bool
	italic        bool
	strikethrough bool
	underline     Underline
	script        Script
	name          string
	size          float64
	color         Color
	family        uint8
	charset       uint8
	scheme        string
	schemeSet     bool
	hyperlink     bool
}

type alignmentFormat struct {
	horizontal   HAlign
	vertical     VAlign
	textWrap     bool
	rotation     int16
	indent       uint8
	shrink       bool
	readingOrder uint8
}

type borderFormat struct {
	left          BorderStyle
	right         BorderStyle
	top           BorderStyle
	bottom        BorderStyle
	diagonal      BorderStyle
	diagonalType  DiagonalBorder
	leftColor     Color
	rightColor    Color
	topColor      Color
	bottomColor   Color
	diagonalColor Color
}

type fillFormat struct {
	pattern         Pattern
	foregroundColor Color
	backgroundColor Color
}

// NewFormat returns an empty format, equal to the workbook default.
func NewFormat() Format {
	return Format{}
}

// Underline is the style of font underline.
type Underline uint8

// Font underline styles.
const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineSingleAccounting
	UnderlineDoubleAccounting
)

// Script is a font super/subscript setting.
type Script uint8

// Font script settings.
const (
	ScriptNone Script = iota
	ScriptSuperscript
	ScriptSubscript
)

// HAlign is the horizontal alignment of a cell.
type HAlign uint8

// Horizontal alignments.
const (
	HAlignGeneral HAlign = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignFill
	HAlignJustify
	HAlignCenterAcross
	HAlignDistributed
)

// VAlign is the vertical alignment of a cell.
type VAlign uint8

// Vertical alignments. Bottom is Excel's default and is omitted from the
// output.
const (
	VAlignBottom VAlign = iota
	VAlignTop
	VAlignCenter
	VAlignJustify
	VAlignDistributed
)

// Pattern is a cell fill pattern.
type Pattern uint8

// Fill patterns.
const (
	PatternNone Pattern = iota
	PatternSolid
	PatternMediumGray
	PatternDarkGray
	PatternLightGray
	PatternDarkHorizontal
	PatternDarkVertical
	PatternDarkDown
	PatternDarkUp
	PatternDarkGrid
	PatternDarkTrellis
	PatternLightHorizontal
	PatternLightVertical
	PatternLightDown
	PatternLightUp
	PatternLightGrid
	PatternLightTrellis
	PatternGray125
	PatternGray0625
)

func (p Pattern) value() string {
	switch p {
	case PatternSolid:
		return "solid"
	case PatternMediumGray:
		return "mediumGray"
	case PatternDarkGray:
		return "darkGray"
	case PatternLightGray:
		return "lightGray"
	case PatternDarkHorizontal:
		return "darkHorizontal"
	case PatternDarkVertical:
		return "darkVertical"
	case PatternDarkDown:
		return "darkDown"
	case PatternDarkUp:
		return "darkUp"
	case PatternDarkGrid:
		return "darkGrid"
	case PatternDarkTrellis:
		return "darkTrellis"
	case PatternLightHorizontal:
		return "lightHorizontal"
	case PatternLightVertical:
		return "lightVertical"
	case PatternLightDown:
		return "lightDown"
	case PatternLightUp:
		return "lightUp"
	case PatternLightGrid:
		return "lightGrid"
	case PatternLightTrellis:
		return "lightTrellis"
	case PatternGray125:
		return "gray125"
	case PatternGray0625:
		return "gray0625"
	default:
		return "none"
	}
}

// BorderStyle is the line style of a cell border edge.
type BorderStyle uint8

// Border line styles.
const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderMedium
	BorderDashed
	BorderDotted
	BorderThick
	BorderDouble
	BorderHair
	BorderMediumDashed
	BorderDashDot
	BorderMediumDashDot
	BorderDashDotDot
	BorderMediumDashDotDot
	BorderSlantDashDot
)

func (b BorderStyle) value() string {
	switch b {
	case BorderThin:
		return "thin"
	case BorderMedium:
		return "medium"
	case BorderDashed:
		return "dashed"
	case BorderDotted:
		return "dotted"
	case BorderThick:
		return "thick"
	case BorderDouble:
		return "double"
	case BorderHair:
		return "hair"
	case BorderMediumDashed:
		return "mediumDashed"
	case BorderDashDot:
		return "dashDot"
	case BorderMediumDashDot:
		return "mediumDashDot"
	case BorderDashDotDot:
		return "dashDotDot"
	case BorderMediumDashDotDot:
		return "mediumDashDotDot"
	case BorderSlantDashDot:
		return "slantDashDot"
	default:
		return "none"
	}
}

// DiagonalBorder is the direction of a diagonal cell border.
type DiagonalBorder uint8

// Diagonal border directions.
const (
	DiagonalBorderNone DiagonalBorder = iota
	DiagonalBorderUp
	DiagonalBorderDown
	DiagonalBorderUpDown
)

// SetNumFormat sets the number format from an Excel format string, like
// "0.00" or "yyyy-mm-dd". Unrecognized format strings are stored in the
// style table as custom formats.
func (f Format) SetNumFormat(format string) Format {
	f.numFormat = format
	return f
}

// SetNumFormatIndex sets the number format to one of Excel's built-in
// formats, indexed 0-163.
func (f Format) SetNumFormatIndex(index uint16) Format {
	f.numFormatIndex = index
	f.numFormat = ""
	return f
}

// SetBold sets bold text.
func (f Format) SetBold() Format {
	f.font.bold = true
	return f
}

// SetItalic sets italic text.
func (f Format) SetItalic() Format {
	f.font.italic = true
	return f
}

// SetUnderline sets the underline style. A normal underline covers the
// text only; the accounting variants underline the full cell width.
func (f Format) SetUnderline(u Underline) Format {
	f.font.underline = u
	return f
}

// SetFontStrikethrough sets struck-out text.
func (f Format) SetFontStrikethrough() Format {
	f.font.strikethrough = true
	return f
}

// SetFontScript sets superscript or subscript text.
func (f Format) SetFontScript(s Script) Format {
	f.font.script = s
	return f
}

// SetFontName sets the font name. Excel substitutes its default when the
// named font is not installed on the reading machine.
func (f Format) SetFontName(name string) Format {
	f.font.name = name
	if name != "Calibri" {
		f.font.scheme = ""
		f.font.schemeSet = true
	}
	return f
}

// SetFontSize sets the font size in points.
func (f Format) SetFontSize(size float64) Format {
	f.font.size = size
	return f
}

// SetFontColor sets the font color.
func (f Format) SetFontColor(c Color) Format {
	f.font.color = c
	return f
}

// SetFontFamily sets the font family index, usually in the range 1-4.
func (f Format) SetFontFamily(family uint8) Format {
	f.font.family = family
	return f
}

// SetFontCharset sets the font character set index.
func (f Format) SetFontCharset(charset uint8) Format {
	f.font.charset = charset
	return f
}

// SetFontScheme sets the font scheme, "major" or "minor".
func (f Format) SetFontScheme(scheme string) Format {
	f.font.scheme = scheme
	f.font.schemeSet = true
	return f
}

// SetAlign sets the horizontal alignment.
func (f Format) SetAlign(align HAlign) Format {
	f.alignment.horizontal = align
	return f
}

// SetVerticalAlign sets the vertical alignment.
func (f Format) SetVerticalAlign(align VAlign) Format {
	f.alignment.vertical = align
	return f
}

// SetTextWrap turns on text wrapping. Line breaks in the cell text become
// visible line breaks.
func (f Format) SetTextWrap() Format {
	f.alignment.textWrap = true
	return f
}

// SetRotation sets the text rotation in the range -90 to 90 degrees, or
// 270 for stacked vertical text. Values outside the range are ignored.
func (f Format) SetRotation(rotation int16) Format {
	switch {
	case rotation == 270:
		f.alignment.rotation = 255
	case rotation >= -90 && rotation <= 90:
		if rotation < 0 {
			rotation = -rotation + 90
		}
		f.alignment.rotation = rotation
	}
	return f
}

// SetIndent sets the indentation level of the cell text.
func (f Format) SetIndent(indent uint8) Format {
	f.alignment.indent = indent
	return f
}

// SetShrink shrinks the text to fit the cell width on display.
func (f Format) SetShrink() Format {
	f.alignment.shrink = true
	return f
}

// SetReadingDirection sets the text reading direction: 1 for left to
// right, 2 for right to left. Values outside 1-2 are ignored.
func (f Format) SetReadingDirection(direction uint8) Format {
	f.alignment.readingOrder = direction
	return f
}

// SetPattern sets the fill pattern.
func (f Format) SetPattern(p Pattern) Format {
	f.fill.pattern = p
	return f
}

// SetBackgroundColor sets the cell background color. When a solid pattern
// has not been set it is implied.
func (f Format) SetBackgroundColor(c Color) Format {
	f.fill.backgroundColor = c
	return f
}

// SetForegroundColor sets the fill pattern foreground color.
func (f Format) SetForegroundColor(c Color) Format {
	f.fill.foregroundColor = c
	return f
}

// SetBorder sets the border style for all four cell edges.
func (f Format) SetBorder(style BorderStyle) Format {
	f.borders.left = style
	f.borders.right = style
	f.borders.top = style
	f.borders.bottom = style
	return f
}

// SetBorderTop sets the top border style.
func (f Format) SetBorderTop(style BorderStyle) Format {
	f.borders.top = style
	return f
}

// SetBorderBottom sets the bottom border style.
func (f Format) SetBorderBottom(style BorderStyle) Format {
	f.borders.bottom = style
	return f
}

// SetBorderLeft sets the left border style.
func (f Format) SetBorderLeft(style BorderStyle) Format {
	f.borders.left = style
	return f
}

// SetBorderRight sets the right border style.
func (f Format) SetBorderRight(style BorderStyle) Format {
	f.borders.right = style
	return f
}

// SetBorderColor sets the border color for all four cell edges.
func (f Format) SetBorderColor(c Color) Format {
	f.borders.leftColor = c
	f.borders.rightColor = c
	f.borders.topColor = c
	f.borders.bottomColor = c
	return f
}

// SetBorderTopColor sets the top border color.
func (f Format) SetBorderTopColor(c Color) Format {
	f.borders.topColor = c
	return f
}

// SetBorderBottomColor sets the bottom border color.
func (f Format) SetBorderBottomColor(c Color) Format {
	f.borders.bottomColor = c
	return f
}

// SetBorderLeftColor sets the left border color.
func (f Format) SetBorderLeftColor(c Color) Format {
	f.borders.leftColor = c
	return f
}

// SetBorderRightColor sets the right border color.
func (f Format) SetBorderRightColor(c Color) Format {
	f.borders.rightColor = c
	return f
}

// SetBorderDiagonal sets the diagonal border style. The direction is set
// with SetBorderDiagonalType.
func (f Format) SetBorderDiagonal(style BorderStyle) Format {
	f.borders.diagonal = style
	return f
}

// SetBorderDiagonalType sets the direction of the diagonal border.
func (f Format) SetBorderDiagonalType(t DiagonalBorder) Format {
	f.borders.diagonalType = t
	return f
}

// SetBorderDiagonalColor sets the diagonal border color.
func (f Format) SetBorderDiagonalColor(c Color) Format {
	f.borders.diagonalColor = c
	return f
}

// SetHidden hides the cell formula when the worksheet is protected.
func (f Format) SetHidden() Format {
	f.hidden = true
	return f
}

// SetLocked locks the cell when the worksheet is protected. Cells are
// locked by default.
func (f Format) SetLocked() Format {
	f.unlocked = false
	return f
}

// SetUnlocked unlocks the cell so it stays editable when the worksheet is
// protected.
func (f Format) SetUnlocked() Format {
	f.unlocked = true
	return f
}

// SetQuotePrefix prefixes the cell with an implicit apostrophe so that its
// content is read as a literal string.
func (f Format) SetQuotePrefix() Format {
	f.quotePrefix = true
	return f
}

// IsDefault reports whether the format is equal to the workbook default.
func (f Format) IsDefault() bool {
	return f == Format{}
}

func (f Format) hasFont() bool {
	return f.font != fontFormat{}
}

func (f Format) hasFill() bool {
	return f.fill != fillFormat{}
}

func (f Format) hasBorder() bool {
	return f.borders != borderFormat{}
}

func (f Format) hasAlignment() bool {
	return f.alignment != alignmentFormat{}
}

// applyAlignment reports whether the xf needs the applyAlignment flag.
// Shrink and reading order travel in the alignment element without
// setting the flag, matching Excel.
func (f Format) applyAlignment() bool {
	a := f.alignment
	return a.horizontal != HAlignGeneral || a.vertical != VAlignBottom ||
		a.textWrap || a.rotation != 0 || a.indent != 0
}

func (f Format) hasProtection() bool {
	return f.hidden || f.unlocked
}

// effectiveSize returns the font size, defaulting to 11.
func (f fontFormat) effectiveSize() float64 {
	if f.size == 0 {
		return 11
	}
	return f.size
}

// effectiveName returns the font name, defaulting to Calibri.
func (f fontFormat) effectiveName() string {
	if f.name == "" {
		return "Calibri"
	}
	return f.name
}

// effectiveFamily returns the font family, defaulting to 2 for the
// default font.
func (f fontFormat) effectiveFamily() uint8 {
	if f.family == 0 && f.name == "" {
		return 2
	}
	return f.family
}

// effectiveScheme returns the font scheme. The default font belongs to
// the theme's minor scheme.
func (f fontFormat) effectiveScheme() string {
	if f.schemeSet {
		return f.scheme
	}
	if f.name == "" {
		return "minor"
	}
	return ""
}

// Color is a cell, font, or border color: the default, an RGB value, or an
// entry from the workbook theme palette.
type Color struct {
	kind  colorKind
	rgb   uint32
	theme uint8
	shade uint8
}

type colorKind uint8

const (
	colorDefault colorKind = iota
	colorRGB
	colorTheme
)

// RGB returns a color from an 0xRRGGBB value.
func RGB(rgb uint32) Color {
	return Color{kind: colorRGB, rgb: rgb & 0xFFFFFF}
}

// ThemeColor returns a color from the workbook theme palette. The palette
// is the 10 columns by 6 rows grid in Excel's color picker: color is the
// column 0-9 and shade the row 0-5, so "White, Background 1" is
// ThemeColor(0, 0) and "Orange, Accent 6, Darker 50%" is ThemeColor(9, 5).
func ThemeColor(color, shade uint8) Color {
	return Color{kind: colorTheme, theme: color, shade: shade}
}

// Standard named colors.
var (
	ColorBlack   = RGB(0x000000)
	ColorBlue    = RGB(0x0000FF)
	ColorBrown   = RGB(0x800000)
	ColorCyan    = RGB(0x00FFFF)
	ColorGray    = RGB(0x808080)
	ColorGreen   = RGB(0x008000)
	ColorLime    = RGB(0x00FF00)
	ColorMagenta = RGB(0xFF00FF)
	ColorNavy    = RGB(0x000080)
	ColorOrange  = RGB(0xFF6600)
	ColorPink    = RGB(0xFFC0CB)
	ColorPurple  = RGB(0x800080)
	ColorRed     = RGB(0xFF0000)
	ColorSilver  = RGB(0xC0C0C0)
	ColorWhite   = RGB(0xFFFFFF)
	ColorYellow  = RGB(0xFFFF00)
)

func (c Color) isDefault() bool {
	return c.kind == colorDefault
}

// argbHex returns the color as an ARGB hex string like "FFFF0000".
func (c Color) argbHex() string {
	return "FF" + c.rgbHex()
}

func (c Color) rgbHex() string {
	const digits = "0123456789ABCDEF"
	v := c.rgb
	b := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		b[i] = digits[v&0xF]
		v >>= 4
	}
	return string(b)
}

// themeTints maps a theme palette position to the tint attribute Excel
// writes for it. The first three palette columns have their own tint
// progressions.
func themeTint(color, shade uint8) string {
	type tintRow [5]string

	var tints tintRow
	switch color {
	case 0:
		tints = tintRow{
			"-4.9989318521683403E-2",
			"-0.14999847407452621",
			"-0.249977111117893",
			"-0.34998626667073579",
			"-0.499984740745262",
		}
	case 1:
		tints = tintRow{
			"0.499984740745262",
			"0.34998626667073579",
			"0.249977111117893",
			"0.14999847407452621",
			"4.9989318521683403E-2",
		}
	case 2:
		tints = tintRow{
			"-9.9978637043366805E-2",
			"-0.249977111117893",
			"-0.499984740745262",
			"-0.749992370372631",
			"-0.89999084444715716",
		}
	default:
		tints = tintRow{
			"0.79998168889431442",
			"0.59999389629810485",
			"0.39997558519241921",
			"-0.249977111117893",
			"-0.499984740745262",
		}
	}

	if shade < 1 || shade > 5 {
		return ""
	}
	return tints[shade-1]
}

// attributes returns the XML attributes for the color: rgb="FFxxxxxx" for
// RGB colors, theme and optional tint for theme colors.
func (c Color) attributes() []xmlwriter.Attr {
	if c.kind == colorTheme {
		attrs := []xmlwriter.Attr{
			{Key: "theme", Value: strconv.Itoa(int(c.theme))},
		}
		if tint := themeTint(c.theme, c.shade); tint != "" {
			attrs = append(attrs, xmlwriter.Attr{Key: "tint", Value: tint})
		}
		return attrs
	}

	return []xmlwriter.Attr{{Key: "rgb", Value: c.argbHex()}}
}
