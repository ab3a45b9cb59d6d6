// Package abacus writes Excel xlsx and xlsm files.
//
// Basic usage:
//
//	wb := abacus.NewWorkbook()
//	ws := wb.AddWorksheet()
//
//	ws.WriteString(0, 0, "Hello")
//	ws.WriteNumber(1, 0, 12345)
//
//	if err := wb.Save("hello.xlsx"); err != nil {
//	    // handle error
//	}
//
// With formatting:
//
//	bold := abacus.NewFormat().SetBold()
//	money := abacus.NewFormat().SetNumFormat("#,##0.00")
//
//	ws.WriteStringWithFormat(0, 0, "Total", bold)
//	ws.WriteNumberWithFormat(0, 1, 1234.5, money)
//
// Worksheets support formulas, datetimes, hyperlinks, rich strings,
// merged ranges, autofilters, Excel tables, data validation, conditional
// formatting, images, and page setup for printing. Workbooks carry
// document properties, defined names, and optional VBA projects. Output
// is assembled in memory and written with fixed zip entry metadata, so
// saves are byte-reproducible once the document timestamps are pinned.
package abacus
