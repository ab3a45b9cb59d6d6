// Package htmltable imports HTML tables into worksheets.
package htmltable

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/abacus"
)

// ErrNoTable is returned when the document contains no table element.
var ErrNoTable = errors.New("no table element in document")

// tableCell is one parsed td or th cell.
type tableCell struct {
	text    string
	header  bool
	rowSpan int
	colSpan int
}

// gridRef addresses a cell slot while spanned cells are placed.
type gridRef struct {
	row int
	col int
}

// Import writes the first table found in the HTML document to the
// worksheet, starting at A1. Header cells are written bold, cell text
// that parses as a number is written as a number, and rowspan/colspan
// attributes become merged ranges. It returns the number of table rows
// written.
func Import(ws *abacus.Worksheet, r io.Reader) (int, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("parsing HTML: %w", err)
	}

	table := findElement(doc, "table")
	if table == nil {
		return 0, ErrNoTable
	}

	rows := tableRows(table)
	bold := abacus.NewFormat().SetBold()
	occupied := make(map[gridRef]bool)

	for i, row := range rows {
		col := 0
		for _, c := range row {
			for occupied[gridRef{row: i, col: col}] {
				col++
			}
			lastRow := i + c.rowSpan - 1
			lastCol := col + c.colSpan - 1
			if lastRow >= abacus.MaxRow || lastCol >= abacus.MaxCol {
				return 0, abacus.ErrRowColumnLimit
			}

			if err := writeCell(ws, uint32(i), uint16(col), c, bold); err != nil {
				return 0, err
			}

			if c.rowSpan > 1 || c.colSpan > 1 {
				format := abacus.NewFormat()
				if c.header {
					format = bold
				}
				if err := ws.MergeRange(uint32(i), uint16(col), uint32(lastRow), uint16(lastCol), format); err != nil {
					return 0, err
				}
				for rr := i; rr <= lastRow; rr++ {
					for cc := col; cc <= lastCol; cc++ {
						occupied[gridRef{row: rr, col: cc}] = true
					}
				}
			}

			col += c.colSpan
		}
	}

	return len(rows), nil
}

// writeCell writes one cell value through the worksheet API.
func writeCell(ws *abacus.Worksheet, row uint32, col uint16, c tableCell, bold abacus.Format) error {
	if n, ok := parseNumber(c.text); ok {
		if c.header {
			return ws.WriteNumberWithFormat(row, col, n, bold)
		}
		return ws.WriteNumber(row, col, n)
	}
	if c.text == "" {
		return nil
	}
	if c.header {
		return ws.WriteStringWithFormat(row, col, c.text, bold)
	}
	return ws.WriteString(row, col, c.text)
}

// parseNumber reports whether the cell text reads as a plain number.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// tableRows collects the rows of a table element, walking thead, tbody
// and tfoot sections as well as direct tr children.
func tableRows(table *html.Node) [][]tableCell {
	rows := make([][]tableCell, 0)

	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					if row := parseRow(tr, c.Data == "thead"); len(row) > 0 {
						rows = append(rows, row)
					}
				}
			}
		case "tr":
			if row := parseRow(c, false); len(row) > 0 {
				rows = append(rows, row)
			}
		}
	}

	return rows
}

// parseRow parses the td and th cells of a single tr element.
func parseRow(tr *html.Node, inHead bool) []tableCell {
	row := make([]tableCell, 0)

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cell := tableCell{
				text:    textContent(c),
				header:  inHead || c.Data == "th",
				rowSpan: 1,
				colSpan: 1,
			}

			for _, attr := range c.Attr {
				switch attr.Key {
				case "rowspan":
					fmt.Sscanf(attr.Val, "%d", &cell.rowSpan)
				case "colspan":
					fmt.Sscanf(attr.Val, "%d", &cell.colSpan)
				}
			}
			if cell.rowSpan < 1 {
				cell.rowSpan = 1
			}
			if cell.colSpan < 1 {
				cell.colSpan = 1
			}

			row = append(row, cell)
		}
	}

	return row
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// textContent extracts the text of a node and its descendants with
// whitespace runs collapsed the way browsers render them.
func textContent(n *html.Node) string {
	var b strings.Builder
	textContentRecursive(n, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func textContentRecursive(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		case "br":
			b.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContentRecursive(c, b)
	}
}
