package abacus

import (
	"errors"
	"fmt"
	"testing"
)

func TestColumnNumberToName(t *testing.T) {
	tests := []struct {
		col  uint16
		want string
	}{
		{0, "A"},
		{1, "B"},
		{2, "C"},
		{9, "J"},
		{24, "Y"},
		{25, "Z"},
		{26, "AA"},
		{254, "IU"},
		{255, "IV"},
		{256, "IW"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ColumnNumberToName(tt.col); got != tt.want {
				t.Errorf("ColumnNumberToName(%d) = %q, want %q", tt.col, got, tt.want)
			}
		})
	}
}

func TestRowColToCell(t *testing.T) {
	tests := []struct {
		row  uint32
		col  uint16
		want string
	}{
		{0, 0, "A1"},
		{0, 1, "B1"},
		{0, 9, "J1"},
		{1, 0, "A2"},
		{9, 0, "A10"},
		{1, 24, "Y2"},
		{7, 25, "Z8"},
		{9, 26, "AA10"},
		{1, 254, "IU2"},
		{1, 256, "IW2"},
		{0, 16383, "XFD1"},
		{1048575, 16383, "XFD1048576"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := RowColToCell(tt.row, tt.col); got != tt.want {
				t.Errorf("RowColToCell(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestCellRange(t *testing.T) {
	tests := []struct {
		firstRow uint32
		firstCol uint16
		lastRow  uint32
		lastCol  uint16
		want     string
	}{
		{0, 0, 9, 0, "A1:A10"},
		{1, 2, 8, 2, "C2:C9"},
		{0, 0, 3, 4, "A1:E4"},
		{0, 0, 0, 0, "A1"},
		{0, 0, 0, 1, "A1:B1"},
		{0, 2, 0, 9, "C1:J1"},
		{1, 0, 2, 0, "A2:A3"},
		{7, 25, 9, 26, "Z8:AA10"},
		{1, 254, 1, 255, "IU2:IV2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := CellRange(tt.firstRow, tt.firstCol, tt.lastRow, tt.lastCol)
			if got != tt.want {
				t.Errorf("CellRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellRangeAbs(t *testing.T) {
	tests := []struct {
		firstRow uint32
		firstCol uint16
		lastRow  uint32
		lastCol  uint16
		want     string
	}{
		{0, 0, 9, 0, "$A$1:$A$10"},
		{0, 0, 0, 0, "$A$1"},
		{1, 2, 8, 7, "$C$2:$H$9"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := cellRangeAbs(tt.firstRow, tt.firstCol, tt.lastRow, tt.lastCol)
			if got != tt.want {
				t.Errorf("cellRangeAbs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteSheetName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		// Already quoted names pass through.
		{"'Sheet 1'", "'Sheet 1'"},

		// Simple names that need no quoting.
		{"Sheet1", "Sheet1"},
		{"Sheet.1", "Sheet.1"},
		{"Sheet_1", "Sheet_1"},
		{"_", "_"},
		{"_Sheet1", "_Sheet1"},
		{"été", "été"},
		{"mangé", "mangé"},
		{"Sheet😀", "Sheet😀"},

		// Non-word characters force quoting.
		{"Sheet-1", "'Sheet-1'"},
		{"Sheet 1", "'Sheet 1'"},
		{"Sheet#1", "'Sheet#1'"},
		{" ", "' '"},
		{"    ", "'    '"},
		{"Sheet©", "'Sheet©'"},
		{"-Sheet1", "'-Sheet1'"},
		{"#Sheet1", "'#Sheet1'"},

		// Embedded quotes are doubled and force quoting.
		{"Sheet'1", "'Sheet''1'"},
		{"Sheet''1", "'Sheet''''1'"},

		// Leading digits and periods force quoting.
		{".", "'.'"},
		{".Sheet1", "'.Sheet1'"},
		{"1Sheet1", "'1Sheet1'"},
		{"1", "'1'"},
		{"1234", "'1234'"},

		// Names that look like in range A1 references.
		{"A0", "A0"},
		{"A1", "'A1'"},
		{"a1", "'a1'"},
		{"XFD", "XFD"},
		{"XFE1", "XFE1"},
		{"ZZZ1", "ZZZ1"},
		{"XFD1", "'XFD1'"},
		{"B1048577", "B1048577"},
		{"A1048576", "'A1048576'"},
		{"B1048576a", "B1048576a"},
		{"XFD048576", "'XFD048576'"},
		{"XFD1048576", "'XFD1048576'"},
		{"XFD01048577", "XFD01048577"},
		{"A123456789012345678901", "A123456789012345678901"},

		// Names that start with in range R1C1 references.
		{"A", "A"},
		{"B", "B"},
		{"C", "'C'"},
		{"c", "'c'"},
		{"R", "'R'"},
		{"r", "'r'"},
		{"CR", "CR"},
		{"CZ", "CZ"},
		{"RC", "'RC'"},
		{"rc", "'rc'"},
		{"RCZ", "RCZ"},
		{"RRC", "RRC"},
		{"R0C0", "R0C0"},
		{"C8", "'C8'"},
		{"R4C", "'R4C'"},
		{"RC2", "'RC2'"},
		{"rc2z", "'rc2z'"},
		{"R1C1", "'R1C1'"},
		{"R1C1b", "'R1C1b'"},
		{"bR1C1", "bR1C1"},
		{"bR1C1b", "bR1C1b"},
		{"C16384", "'C16384'"},
		{"C16385", "C16385"},
		{"C16385Z", "C16385Z"},
		{"C16384Z", "'C16384Z'"},
		{"PC16384Z", "PC16384Z"},
		{"RC16383", "'RC16383'"},
		{"RC16384Z", "'RC16384Z'"},
		{"RC16385Z", "RC16385Z"},
		{"R1048576", "'R1048576'"},
		{"R1048577C", "R1048577C"},
		{"R1048576C", "'R1048576C'"},
		{"R1048577C1", "R1048577C1"},
		{"R1048575C1", "'R1048575C1'"},
		{"R1048576C16384", "'R1048576C16384'"},
		{"R1048577C16384", "R1048577C16384"},
		{"ZR1048576C16384", "ZR1048576C16384"},
		{"C123456789012345678901Z", "C123456789012345678901Z"},
		{"R123456789012345678901Z", "R123456789012345678901Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteSheetName(tt.name); got != tt.want {
				t.Errorf("QuoteSheetName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidateSheetName(t *testing.T) {
	tests := []struct {
		name      string
		sheetName string
		wantErr   error
	}{
		{"valid simple", "Sheet1", nil},
		{"valid spaces", "My Data Sheet", nil},
		{"valid unicode", "Résultats", nil},
		{"valid max length", "abcdefghijklmnopqrstuvwxyz12345", nil},
		{"blank", "", ErrSheetNameBlank},
		{"too long", "abcdefghijklmnopqrstuvwxyz123456", ErrSheetNameLength},
		{"open bracket", "Sheet[1", ErrSheetNameCharacter},
		{"close bracket", "Sheet]1", ErrSheetNameCharacter},
		{"colon", "Sheet:1", ErrSheetNameCharacter},
		{"asterisk", "Sheet*1", ErrSheetNameCharacter},
		{"question mark", "Sheet?1", ErrSheetNameCharacter},
		{"forward slash", "Sheet/1", ErrSheetNameCharacter},
		{"backslash", `Sheet\1`, ErrSheetNameCharacter},
		{"leading apostrophe", "'Sheet1", ErrSheetNameApostrophe},
		{"trailing apostrophe", "Sheet1'", ErrSheetNameApostrophe},
		{"inner apostrophe ok", "Sheet'1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSheetName(tt.sheetName)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateSheetName(%q) = %v, want %v", tt.sheetName, err, tt.wantErr)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"", "0000"},
		{"password", "83AF"},
		{"This is a longer phrase", "D14E"},
		{"0", "CE2A"},
		{"01", "CEED"},
		{"012", "CF7C"},
		{"0123", "CC4B"},
		{"01234", "CACA"},
		{"012345", "C789"},
		{"0123456", "DC88"},
		{"01234567", "EB87"},
		{"012345678", "9B86"},
		{"0123456789", "FF84"},
		{"01234567890", "FF86"},
		{"012345678901", "EF87"},
		{"0123456789012", "AF8A"},
		{"01234567890123", "EF90"},
		{"012345678901234", "EFA5"},
		{"0123456789012345", "EFD0"},
		{"01234567890123456", "EF09"},
		{"012345678901234567", "EEB2"},
		{"0123456789012345678", "ED33"},
		{"01234567890123456789", "EA14"},
		{"012345678901234567890", "E615"},
		{"0123456789012345678901", "FE96"},
		{"01234567890123456789012", "CC97"},
		{"012345678901234567890123", "AA98"},
		{"0123456789012345678901234", "FA98"},
		{"01234567890123456789012345", "D298"},
		{"0123456789012345678901234567890", "D2D3"},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got := fmt.Sprintf("%04X", hashPassword(tt.password))
			if got != tt.want {
				t.Errorf("hashPassword(%q) = %s, want %s", tt.password, got, tt.want)
			}
		})
	}
}

func TestPixelWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"i", 4},
		{"W", 13},
		{"Foo", 23},
		{"commuter", 64},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := pixelWidth(tt.input); got != tt.want {
				t.Errorf("pixelWidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
