package abacus

import "github.com/tsawler/abacus/internal/xmlwriter"

// assembleMetadataXML writes xl/metadata.xml, the part that defines the
// XLDAPR cell metadata record referenced by the cm attribute on dynamic
// array formula cells. The part is fixed: one metadata type, one future
// metadata block carrying the dynamicArrayProperties extension, and one
// cell metadata record.
func assembleMetadataXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("metadata", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsMain},
		{Key: "xmlns:xda", Value: nsXDA},
	})

	w.StartTagAttr("metadataTypes", []xmlwriter.Attr{{Key: "count", Value: "1"}})
	w.EmptyTagAttr("metadataType", []xmlwriter.Attr{
		{Key: "name", Value: "XLDAPR"},
		{Key: "minSupportedVersion", Value: "120000"},
		{Key: "copy", Value: "1"},
		{Key: "pasteAll", Value: "1"},
		{Key: "pasteValues", Value: "1"},
		{Key: "merge", Value: "1"},
		{Key: "splitFirst", Value: "1"},
		{Key: "rowColShift", Value: "1"},
		{Key: "clearFormats", Value: "1"},
		{Key: "clearComments", Value: "1"},
		{Key: "assign", Value: "1"},
		{Key: "coerce", Value: "1"},
		{Key: "cellMeta", Value: "1"},
	})
	w.EndTag("metadataTypes")

	w.StartTagAttr("futureMetadata", []xmlwriter.Attr{
		{Key: "name", Value: "XLDAPR"},
		{Key: "count", Value: "1"},
	})
	w.StartTag("bk")
	w.StartTag("extLst")
	w.StartTagAttr("ext", []xmlwriter.Attr{
		{Key: "uri", Value: "{bdbb8cdc-fa1e-496e-a857-3c3f30c029c3}"},
	})
	w.EmptyTagAttr("xda:dynamicArrayProperties", []xmlwriter.Attr{
		{Key: "fDynamic", Value: "1"},
		{Key: "fCollapsed", Value: "0"},
	})
	w.EndTag("ext")
	w.EndTag("extLst")
	w.EndTag("bk")
	w.EndTag("futureMetadata")

	w.StartTagAttr("cellMetadata", []xmlwriter.Attr{{Key: "count", Value: "1"}})
	w.StartTag("bk")
	w.EmptyTagAttr("rc", []xmlwriter.Attr{
		{Key: "t", Value: "1"},
		{Key: "v", Value: "0"},
	})
	w.EndTag("bk")
	w.EndTag("cellMetadata")

	w.EndTag("metadata")

	return w.Bytes()
}
