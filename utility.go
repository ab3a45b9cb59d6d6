package abacus

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Worksheet grid limits. Rows and columns are zero-indexed throughout the
// API, so the maximum addressable cell is (MaxRow-1, MaxCol-1), or
// XFD1048576 in A1 notation.
const (
	MaxRow = 1_048_576
	MaxCol = 16_384
)

// Excel limits on cell content.
const (
	maxStringLen    = 32_767
	maxURLLen       = 2_080
	maxParameterLen = 255
)

// ColumnNumberToName converts a zero-indexed column number to a column
// letter name: 0 becomes "A", 25 becomes "Z" and 26 becomes "AA".
func ColumnNumberToName(col uint16) string {
	name := make([]byte, 0, 3)
	n := uint32(col) + 1

	for n > 0 {
		rem := (n - 1) % 26
		name = append(name, byte('A'+rem))
		n = (n - 1) / 26
	}

	for i, j := 0, len(name)-1; i < j; i, j = i+1, j-1 {
		name[i], name[j] = name[j], name[i]
	}

	return string(name)
}

// RowColToCell converts a zero-indexed row and column to an A1 style cell
// reference: (0, 0) becomes "A1".
func RowColToCell(row uint32, col uint16) string {
	return ColumnNumberToName(col) + strconv.FormatUint(uint64(row)+1, 10)
}

// CellRange converts a zero-indexed range to an A1 style range reference:
// (0, 0, 9, 1) becomes "A1:B10". A range of a single cell collapses to a
// single reference.
func CellRange(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16) string {
	first := RowColToCell(firstRow, firstCol)
	last := RowColToCell(lastRow, lastCol)

	if first == last {
		return first
	}

	return first + ":" + last
}

// rowColToCellAbs returns an absolute $A$1 style reference.
func rowColToCellAbs(row uint32, col uint16) string {
	return "$" + ColumnNumberToName(col) + "$" + strconv.FormatUint(uint64(row)+1, 10)
}

// cellRangeAbs returns an absolute $A$1:$B$10 style range reference.
func cellRangeAbs(firstRow uint32, firstCol uint16, lastRow uint32, lastCol uint16) string {
	first := rowColToCellAbs(firstRow, firstCol)
	last := rowColToCellAbs(lastRow, lastCol)

	if first == last {
		return first
	}

	return first + ":" + last
}

// rowRangeAbs returns an absolute full row range like $1:$3.
func rowRangeAbs(firstRow, lastRow uint32) string {
	return "$" + strconv.FormatUint(uint64(firstRow)+1, 10) +
		":$" + strconv.FormatUint(uint64(lastRow)+1, 10)
}

// colRangeAbs returns an absolute full column range like $A:$C.
func colRangeAbs(firstCol, lastCol uint16) string {
	return "$" + ColumnNumberToName(firstCol) + ":$" + ColumnNumberToName(lastCol)
}

// QuoteSheetName quotes a worksheet name for use in a formula or defined
// name, following Excel's quoting rules. Names are quoted when they contain
// non-word characters, start with a digit or period, or could be misread as
// an A1 or R1C1 cell reference. Embedded single quotes are doubled. Names
// that are already quoted pass through unchanged.
func QuoteSheetName(name string) string {
	if strings.HasPrefix(name, "'") {
		return name
	}

	hadQuote := strings.Contains(name, "'")
	name = strings.ReplaceAll(name, "'", "''")

	if hadQuote || requiresQuoting(name) {
		return "'" + name + "'"
	}

	return name
}

func requiresQuoting(name string) bool {
	// Names containing anything other than word characters and periods.
	// Supplementary-plane characters such as emoji are treated as word
	// characters, matching Excel.
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r <= 0xFFFF {
			return true
		}
	}

	// Names starting with a digit or period.
	if name == "" {
		return false
	}
	first := name[0]
	if first >= '0' && first <= '9' || first == '.' {
		return true
	}

	upper := strings.ToUpper(name)

	// Names starting with R or C are judged by the R1C1 rules alone, so
	// "C16385" stays unquoted even though cell C16385 exists.
	if strings.HasPrefix(upper, "R") || strings.HasPrefix(upper, "C") {
		return looksLikeRCRef(upper)
	}

	return looksLikeA1Ref(upper)
}

// looksLikeA1Ref reports whether an upper-cased name has the form of an in
// range A1 style reference, like "A1" or "XFD1048576".
func looksLikeA1Ref(name string) bool {
	i := 0
	for i < len(name) && name[i] >= 'A' && name[i] <= 'Z' {
		i++
	}
	if i == 0 || i > 3 || i == len(name) {
		return false
	}

	col, ok := columnNameToNumber(name[:i])
	if !ok {
		return false
	}

	digits := name[i:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return false
		}
	}

	row, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return false
	}

	return col < MaxCol && row >= 1 && row <= MaxRow
}

// looksLikeRCRef reports whether an upper-cased name starts with an in
// range R1C1 style reference, like "R1C1", "RC2" or a bare "R" or "C".
func looksLikeRCRef(name string) bool {
	s := name

	if strings.HasPrefix(s, "R") {
		s = s[1:]
		digits, rest := splitDigits(s)
		if digits != "" {
			row, err := strconv.ParseUint(digits, 10, 64)
			if err != nil || row < 1 || row > MaxRow {
				return false
			}
		}
		s = rest
		if !strings.HasPrefix(s, "C") {
			// "R" and "R<row>" are references only when nothing follows.
			return s == ""
		}
		s = s[1:]
	} else if strings.HasPrefix(s, "C") {
		s = s[1:]
	} else {
		return false
	}

	digits, rest := splitDigits(s)
	if digits == "" {
		// A bare column cursor like "C" or "RC" is only a reference when
		// nothing follows it.
		return rest == ""
	}

	col, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return false
	}

	return col >= 1 && col <= MaxCol
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// columnNameToNumber converts a column letter name to a zero-indexed
// column number. Reports false for names past "XFD".
func columnNameToNumber(name string) (uint16, bool) {
	if name == "" || len(name) > 3 {
		return 0, false
	}

	n := uint32(0)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 'A' || c > 'Z' {
			return 0, false
		}
		n = n*26 + uint32(c-'A') + 1
	}

	if n > MaxCol {
		return 0, false
	}

	return uint16(n - 1), true
}

// validateSheetName applies the name rules Excel enforces when a sheet is
// created: non-blank, at most 31 characters, none of the characters
// [ ] : * ? / \ and no leading or trailing apostrophe. Uniqueness against
// other sheets is checked later, when the workbook is saved.
func validateSheetName(name string) error {
	if name == "" {
		return ErrSheetNameBlank
	}

	if utf8.RuneCountInString(name) > 31 {
		return ErrSheetNameLength
	}

	if strings.ContainsAny(name, `[]:*?/\`) {
		return ErrSheetNameCharacter
	}

	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return ErrSheetNameApostrophe
	}

	return nil
}

// hashPassword implements the legacy 16-bit password hash from
// ECMA-376-4:2016 used by sheet and workbook protection.
func hashPassword(password string) uint16 {
	if password == "" {
		return 0
	}

	var hash uint16
	data := []byte(password)

	for i := len(data) - 1; i >= 0; i-- {
		hash = ((hash >> 14) & 0x01) | ((hash << 1) & 0x7fff)
		hash ^= uint16(data[i])
	}

	hash = ((hash >> 14) & 0x01) | ((hash << 1) & 0x7fff)
	hash ^= uint16(len(data))
	hash ^= 0xCE4B

	return hash
}

// pixelWidth returns the pixel width of a string rendered in the default
// font, Calibri 11, using per character widths measured from Excel.
func pixelWidth(s string) int {
	width := 0
	for _, r := range s {
		width += runePixelWidth(r)
	}
	return width
}

func runePixelWidth(r rune) int {
	switch r {
	case ' ', '\'':
		return 3
	case ',', '.', ':', ';', 'I', '`', 'i', 'j', 'l':
		return 4
	case '!', '(', ')', '-', 'J', '[', ']', 'f', 'r', 't', '{', '}':
		return 5
	case '"', '/', 'L', '\\', 'c', 's', 'z':
		return 6
	case '#', '$', '*', '+', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		'<', '=', '>', '?', 'E', 'F', 'S', 'T', 'Y', 'Z', '^', '_', 'a', 'g',
		'k', 'v', 'x', 'y', '|', '~':
		return 7
	case 'B', 'C', 'K', 'P', 'R', 'X', 'b', 'd', 'e', 'h', 'n', 'o', 'p', 'q', 'u':
		return 8
	case 'A', 'D', 'G', 'H', 'U', 'V':
		return 9
	case '&', 'N', 'O', 'Q':
		return 10
	case '%', 'w':
		return 11
	case 'M', 'm':
		return 12
	case '@', 'W':
		return 13
	default:
		return 8
	}
}
