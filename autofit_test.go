package abacus

import (
	"strings"
	"testing"
	"time"
)

func TestAutofitStrings(t *testing.T) {
	ws := testWorksheet()
	if err := ws.WriteString(0, 0, "Hello"); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}
	if err := ws.WriteString(1, 0, "Hi"); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}
	if err := ws.WriteString(0, 1, "日本語"); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}

	ws.Autofit()

	// Hello is 33 pixels in Calibri 11; plus 7 pixels padding over the
	// 7 pixel digit width.
	if got, want := ws.cols[0].width, 40.0/7.0; got != want {
		t.Errorf("column A width = %v, want %v", got, want)
	}
	// Wide runes count 16 pixels each.
	if got, want := ws.cols[1].width, 55.0/7.0; got != want {
		t.Errorf("column B width = %v, want %v", got, want)
	}
	if !ws.cols[0].autofit || !ws.cols[0].widthSet {
		t.Errorf("column A autofit/widthSet = %v/%v, want true/true",
			ws.cols[0].autofit, ws.cols[0].widthSet)
	}
}

func TestAutofitNumberAndBool(t *testing.T) {
	ws := testWorksheet()
	if err := ws.WriteNumber(0, 0, 12345); err != nil {
		t.Fatalf("WriteNumber() = %v", err)
	}
	if err := ws.WriteBool(0, 1, true); err != nil {
		t.Fatalf("WriteBool() = %v", err)
	}
	if err := ws.WriteBool(0, 2, false); err != nil {
		t.Fatalf("WriteBool() = %v", err)
	}

	ws.Autofit()

	if got, want := ws.cols[0].width, 6.0; got != want {
		t.Errorf("number column width = %v, want %v", got, want)
	}
	if got, want := ws.cols[1].width, 38.0/7.0; got != want {
		t.Errorf("TRUE column width = %v, want %v", got, want)
	}
	if got, want := ws.cols[2].width, 43.0/7.0; got != want {
		t.Errorf("FALSE column width = %v, want %v", got, want)
	}
}

func TestAutofitDatetimeColumns(t *testing.T) {
	ws := testWorksheet()
	moment := time.Date(2023, 9, 26, 12, 45, 0, 0, time.UTC)

	if err := ws.WriteDatetimeWithFormat(0, 0, moment, NewFormat().SetNumFormat("yyyy-mm-dd")); err != nil {
		t.Fatalf("WriteDatetimeWithFormat() = %v", err)
	}
	if err := ws.WriteDatetimeWithFormat(0, 1, moment, NewFormat().SetNumFormat("hh:mm:ss")); err != nil {
		t.Fatalf("WriteDatetimeWithFormat() = %v", err)
	}
	if err := ws.WriteDatetimeWithFormat(0, 2, moment, NewFormat().SetNumFormat("yyyy-mm-dd hh:mm")); err != nil {
		t.Fatalf("WriteDatetimeWithFormat() = %v", err)
	}
	if err := ws.WriteDatetimeWithFormat(0, 3, moment, NewFormat().SetNumFormatIndex(14)); err != nil {
		t.Fatalf("WriteDatetimeWithFormat() = %v", err)
	}

	ws.Autofit()

	if got, want := ws.cols[0].width, 73.0/7.0; got != want {
		t.Errorf("date column width = %v, want %v", got, want)
	}
	if got, want := ws.cols[1].width, 57.0/7.0; got != want {
		t.Errorf("time column width = %v, want %v", got, want)
	}
	if got, want := ws.cols[2].width, 18.0; got != want {
		t.Errorf("datetime column width = %v, want %v", got, want)
	}
	if got, want := ws.cols[3].width, 73.0/7.0; got != want {
		t.Errorf("built-in date column width = %v, want %v", got, want)
	}
}

func TestAutofitClassifyNumFormat(t *testing.T) {
	tests := []struct {
		format   string
		date     bool
		clock    bool
		percent  bool
		currency bool
	}{
		{"yyyy-mm-dd", true, false, false, false},
		{"mmm d yyyy", true, false, false, false},
		{"hh:mm:ss", false, true, false, false},
		{"mm:ss", false, true, false, false},
		{"[h]:mm", false, true, false, false},
		{"yyyy-mm-dd hh:mm", true, true, false, false},
		{"0.00%", false, false, true, false},
		{"[$$-409]#,##0.00", false, false, false, true},
		{"#,##0.00", false, false, false, false},
		{"General", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			date, clock, percent, currency := classifyNumFormat(tt.format)
			if date != tt.date || clock != tt.clock || percent != tt.percent || currency != tt.currency {
				t.Errorf("classifyNumFormat(%q) = %v %v %v %v, want %v %v %v %v",
					tt.format, date, clock, percent, currency,
					tt.date, tt.clock, tt.percent, tt.currency)
			}
		})
	}
}

func TestAutofitPercentAndCurrency(t *testing.T) {
	ws := testWorksheet()
	if err := ws.WriteNumberWithFormat(0, 0, 0.5, NewFormat().SetNumFormat("0.00%")); err != nil {
		t.Fatalf("WriteNumberWithFormat() = %v", err)
	}
	if err := ws.WriteNumberWithFormat(0, 1, 99, NewFormat().SetNumFormat("[$$-409]#,##0.00")); err != nil {
		t.Fatalf("WriteNumberWithFormat() = %v", err)
	}

	ws.Autofit()

	// 0.5 displays as 50 plus the percent sign.
	if got, want := ws.cols[0].width, 32.0/7.0; got != want {
		t.Errorf("percent column width = %v, want %v", got, want)
	}
	// 99 plus a currency symbol.
	if got, want := ws.cols[1].width, 4.0; got != want {
		t.Errorf("currency column width = %v, want %v", got, want)
	}
}

func TestAutofitFormulaUsesResult(t *testing.T) {
	ws := testWorksheet()
	if err := ws.WriteFormula(0, 0, NewFormula("=A2*2").SetResult("600")); err != nil {
		t.Fatalf("WriteFormula() = %v", err)
	}

	ws.Autofit()

	if got, want := ws.cols[0].width, 4.0; got != want {
		t.Errorf("formula column width = %v, want %v", got, want)
	}
}

func TestAutofitRichString(t *testing.T) {
	ws := testWorksheet()
	segments := []RichString{
		{Text: "ab", Format: NewFormat().SetBold()},
		{Text: "cd"},
	}
	if err := ws.WriteRichString(0, 0, segments); err != nil {
		t.Fatalf("WriteRichString() = %v", err)
	}

	ws.Autofit()

	if got, want := ws.cols[0].width, 36.0/7.0; got != want {
		t.Errorf("rich string column width = %v, want %v", got, want)
	}
}

func TestAutofitOnlyWidens(t *testing.T) {
	ws := testWorksheet()
	if err := ws.SetColumnWidth(0, 50); err != nil {
		t.Fatalf("SetColumnWidth() = %v", err)
	}
	if err := ws.WriteString(0, 0, "Hi"); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}
	if err := ws.SetColumnWidth(1, 1); err != nil {
		t.Fatalf("SetColumnWidth() = %v", err)
	}
	if err := ws.WriteString(0, 1, "Hello"); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}

	ws.Autofit()

	if got := ws.cols[0].width; got != 50 {
		t.Errorf("wider explicit width changed to %v, want 50", got)
	}
	if ws.cols[0].autofit {
		t.Errorf("kept explicit width was flagged as autofit")
	}
	if got, want := ws.cols[1].width, 40.0/7.0; got != want {
		t.Errorf("narrow explicit width = %v, want widened to %v", got, want)
	}
	if !ws.cols[1].autofit {
		t.Errorf("widened column not flagged as autofit")
	}
}

func TestAutofitCapsWidth(t *testing.T) {
	ws := testWorksheet()
	if err := ws.WriteString(0, 0, strings.Repeat("W", 300)); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}

	ws.Autofit()

	if got := ws.cols[0].width; got != 255 {
		t.Errorf("column width = %v, want capped at 255", got)
	}
}

func TestAutofitSkipsBlankCells(t *testing.T) {
	ws := testWorksheet()
	if err := ws.WriteBlankWithFormat(0, 0, NewFormat().SetBold()); err != nil {
		t.Fatalf("WriteBlankWithFormat() = %v", err)
	}

	ws.Autofit()

	if _, ok := ws.cols[0]; ok {
		t.Errorf("blank-only column got a width")
	}
}
