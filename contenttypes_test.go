package abacus

import (
	"strings"
	"testing"
)

func TestContentTypesAssemble(t *testing.T) {
	ct := newContentTypes()
	ct.addDefault("jpeg", "image/jpeg")
	ct.addWorksheet(1)
	ct.addSharedStrings()
	ct.addWorkbook(false)

	got := string(ct.assembleXML())
	want := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="jpeg" ContentType="image/jpeg"/>` +
		`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
		`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
		`<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>` +
		`<Override PartName="/xl/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
		`<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>` +
		`<Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/>` +
		`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>` +
		`</Types>`
	if got != want {
		t.Errorf("assembleXML() mismatch\ngot:  %s\nwant: %s", got, want)
	}
}

func TestContentTypesMacroWorkbook(t *testing.T) {
	ct := newContentTypes()
	ct.addWorksheet(1)
	ct.addWorkbook(true)

	got := string(ct.assembleXML())
	for _, fragment := range []string{
		`<Default Extension="bin" ContentType="application/vnd.ms-office.vbaProject"/>`,
		`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.ms-excel.sheet.macroEnabled.main+xml"/>`,
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("assembleXML() missing %s in:\n%s", fragment, got)
		}
	}
}

func TestContentTypesDefaultDeduplication(t *testing.T) {
	ct := newContentTypes()
	ct.addDefault("png", "image/png")
	ct.addDefault("png", "image/png")
	ct.addDefault("gif", "image/gif")

	got := string(ct.assembleXML())
	if n := strings.Count(got, `Extension="png"`); n != 1 {
		t.Errorf("png default count = %d, want 1", n)
	}
	if !strings.Contains(got, `<Default Extension="gif" ContentType="image/gif"/>`) {
		t.Errorf("assembleXML() missing gif default in:\n%s", got)
	}
}

func TestContentTypesFeatureParts(t *testing.T) {
	ct := newContentTypes()
	ct.addDrawing(2)
	ct.addTable(3)
	ct.addMetadata()
	ct.addCustomProperties()

	got := string(ct.assembleXML())
	for _, fragment := range []string{
		`<Override PartName="/xl/drawings/drawing2.xml" ContentType="application/vnd.openxmlformats-officedocument.drawing+xml"/>`,
		`<Override PartName="/xl/tables/table3.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"/>`,
		`<Override PartName="/xl/metadata.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheetMetadata+xml"/>`,
		`<Override PartName="/docProps/custom.xml" ContentType="application/vnd.openxmlformats-officedocument.custom-properties+xml"/>`,
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("assembleXML() missing %s in:\n%s", fragment, got)
		}
	}
}
