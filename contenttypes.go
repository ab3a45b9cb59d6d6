package abacus

import (
	"fmt"
	"strings"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// contentTypes builds the [Content_Types].xml part, which maps every file
// in the package to a MIME type, either by extension (Default) or by full
// part name (Override).
type contentTypes struct {
	defaults  []contentTypePair
	overrides []contentTypePair
}

type contentTypePair struct {
	name        string
	contentType string
}

// newContentTypes returns the map preseeded with the entries every
// workbook carries.
func newContentTypes() *contentTypes {
	return &contentTypes{
		defaults: []contentTypePair{
			{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
			{"xml", "application/xml"},
		},
		overrides: []contentTypePair{
			{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
			{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
			{"/xl/styles.xml", "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"},
			{"/xl/theme/theme1.xml", "application/vnd.openxmlformats-officedocument.theme+xml"},
		},
	}
}

// addDefault registers a content type for a file extension. Repeated
// registrations for the same extension are ignored, so media files can
// register their type once per image rather than once per format.
func (ct *contentTypes) addDefault(extension, contentType string) {
	for _, d := range ct.defaults {
		if d.name == extension {
			return
		}
	}
	ct.defaults = append(ct.defaults, contentTypePair{extension, contentType})
}

// addOverride registers a content type for a single package part.
func (ct *contentTypes) addOverride(partName, contentType string) {
	ct.overrides = append(ct.overrides, contentTypePair{partName, contentType})
}

func (ct *contentTypes) addWorkbook(macroEnabled bool) {
	if macroEnabled {
		ct.addDefault("bin", "application/vnd.ms-office.vbaProject")
		ct.addOverride("/xl/workbook.xml", "application/vnd.ms-excel.sheet.macroEnabled.main+xml")
		return
	}
	ct.addOverride("/xl/workbook.xml", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml")
}

func (ct *contentTypes) addWorksheet(index int) {
	ct.addOverride(
		fmt.Sprintf("/xl/worksheets/sheet%d.xml", index),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml")
}

func (ct *contentTypes) addDrawing(index int) {
	ct.addOverride(
		fmt.Sprintf("/xl/drawings/drawing%d.xml", index),
		"application/vnd.openxmlformats-officedocument.drawing+xml")
}

func (ct *contentTypes) addTable(index int) {
	ct.addOverride(
		fmt.Sprintf("/xl/tables/table%d.xml", index),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml")
}

func (ct *contentTypes) addSharedStrings() {
	ct.addOverride("/xl/sharedStrings.xml",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml")
}

func (ct *contentTypes) addMetadata() {
	ct.addOverride("/xl/metadata.xml",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheetMetadata+xml")
}

func (ct *contentTypes) addCustomProperties() {
	ct.addOverride("/docProps/custom.xml",
		"application/vnd.openxmlformats-officedocument.custom-properties+xml")
}

// covers reports whether a part is reachable through an override for its
// full name or a default for its extension.
func (ct *contentTypes) covers(name string) bool {
	for _, o := range ct.overrides {
		if o.name == "/"+name {
			return true
		}
	}

	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	ext := name[dot+1:]
	for _, d := range ct.defaults {
		if d.name == ext {
			return true
		}
	}
	return false
}

func (ct *contentTypes) assembleXML() []byte {
	w := xmlwriter.New()
	w.Declaration()
	w.StartTagAttr("Types", []xmlwriter.Attr{{Key: "xmlns", Value: nsContentTypes}})

	for _, d := range ct.defaults {
		w.EmptyTagAttr("Default", []xmlwriter.Attr{
			{Key: "Extension", Value: d.name},
			{Key: "ContentType", Value: d.contentType},
		})
	}
	for _, o := range ct.overrides {
		w.EmptyTagAttr("Override", []xmlwriter.Attr{
			{Key: "PartName", Value: o.name},
			{Key: "ContentType", Value: o.contentType},
		})
	}

	w.EndTag("Types")
	return w.Bytes()
}
