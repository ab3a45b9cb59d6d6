package abacus

import (
	"strings"

	"github.com/xuri/nfp"
	"golang.org/x/text/width"
)

// Autofit estimates the rendered width of every column with written
// cells and widens the columns to fit, like Excel's AutoFit Column
// Width. The widths are estimates from per character metrics of the
// default font, not a text layout pass, but they land close to what
// Excel computes. Call it after the data is written; an explicit
// SetColumnWidth is kept when it is already wider than the estimate.
func (ws *Worksheet) Autofit() {
	maxPixels := make(map[uint16]int)

	for _, row := range ws.cells {
		for col, c := range row {
			if px := ws.cellPixelWidth(c); px > maxPixels[col] {
				maxPixels[col] = px
			}
		}
	}

	for col, px := range maxPixels {
		if px == 0 {
			continue
		}

		// 7 pixels of cell padding, then pixels to character units of
		// the default font. Excel caps column widths at 255 characters.
		w := float64(px+7) / 7.0
		if w > 255 {
			w = 255
		}

		opts := ws.colEntry(col)
		if opts.widthSet && opts.width >= w {
			continue
		}
		opts.width = w
		opts.widthSet = true
		opts.autofit = true
	}
}

// cellPixelWidth estimates the rendered pixel width of one cell.
func (ws *Worksheet) cellPixelWidth(c *cell) int {
	switch c.kind {
	case cellString:
		return textPixelWidth(ws.strings.strings[c.sst])
	case cellRichString:
		return textPixelWidth(c.richText)
	case cellBool:
		if c.num != 0 {
			return pixelWidth("TRUE")
		}
		return pixelWidth("FALSE")
	case cellFormula:
		// Formulas are not evaluated, so the stored result is the only
		// guide to the displayed width.
		return textPixelWidth(c.result)
	case cellNumber:
		return ws.numberPixelWidth(c)
	default:
		return 0
	}
}

// numberPixelWidth estimates the width of a numeric cell from its value
// and number format. Dates and times display as text far wider than
// their serial numbers, so classified formats use representative
// rendered strings instead.
func (ws *Worksheet) numberPixelWidth(c *cell) int {
	var date, clock, percent, currency bool
	if c.xf != 0 {
		f := ws.formats.xfs[c.xf].format
		if f.numFormat != "" {
			date, clock, percent, currency = classifyNumFormat(f.numFormat)
		} else {
			date, clock, percent, currency = classifyBuiltInNumFormat(f.numFormatIndex)
		}
	}

	switch {
	case date && clock:
		return pixelWidth("2023-09-26 12:45:00")
	case date:
		return pixelWidth("2023-09-26")
	case clock:
		return pixelWidth("12:45:00")
	case percent:
		return pixelWidth(formatFloat(c.num*100)) + runePixelWidth('%')
	case currency:
		return pixelWidth(formatFloat(c.num)) + runePixelWidth('$')
	default:
		return pixelWidth(formatFloat(c.num))
	}
}

// classifyBuiltInNumFormat classifies the width-affecting built-in
// number format indices: 14-17 dates, 18-21 and 45-47 times, 22 date
// plus time, 9-10 percentages, 5-8 and 37-44 currency and accounting.
func classifyBuiltInNumFormat(index uint16) (date, clock, percent, currency bool) {
	switch {
	case index >= 14 && index <= 17:
		return true, false, false, false
	case index >= 18 && index <= 21 || index >= 45 && index <= 47:
		return false, true, false, false
	case index == 22:
		return true, true, false, false
	case index == 9 || index == 10:
		return false, false, true, false
	case index >= 5 && index <= 8 || index >= 37 && index <= 44:
		return false, false, false, true
	}
	return false, false, false, false
}

// classifyNumFormat parses a number format and reports the features that
// change the displayed width of a numeric value.
func classifyNumFormat(numFormat string) (date, clock, percent, currency bool) {
	if numFormat == "" {
		return false, false, false, false
	}

	parser := nfp.NumberFormatParser()
	for _, section := range parser.Parse(numFormat) {
		for _, token := range section.Items {
			switch token.TType {
			case nfp.TokenTypeDateTimes:
				// Bare m runs are ambiguous between month and minute;
				// the unambiguous y/d/h/s tokens around them decide the
				// classification.
				value := strings.ToLower(token.TValue)
				if strings.ContainsAny(value, "yd") {
					date = true
				}
				if strings.ContainsAny(value, "hs") {
					clock = true
				}
			case nfp.TokenTypeElapsedDateTimes:
				clock = true
			case nfp.TokenTypePercent:
				percent = true
			case nfp.TokenTypeCurrencyLanguage:
				currency = true
			}
		}
	}

	return date, clock, percent, currency
}

// textPixelWidth measures a string like pixelWidth but counts East Asian
// wide and fullwidth runes at twice the default width, matching how they
// render in spreadsheet fonts.
func textPixelWidth(s string) int {
	px := 0
	for _, r := range s {
		if r < 0x80 {
			px += runePixelWidth(r)
			continue
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			px += 16
		default:
			px += 8
		}
	}
	return px
}
