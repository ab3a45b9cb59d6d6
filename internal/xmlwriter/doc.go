// Package xmlwriter provides a minimal streaming writer for the XML parts
// of an OOXML package.
//
// Spreadsheet part XML is written as a flat stream of tags in schema order,
// with no indentation and no self-closing shortcuts beyond <tag/>. The
// writer therefore exposes tag-level primitives rather than a document
// model:
//
//	w := xmlwriter.New()
//	w.Declaration()
//	w.StartTagAttr("sst", []xmlwriter.Attr{{"xmlns", nsMain}})
//	w.DataElement("t", "hello")
//	w.EndTag("sst")
//	data := w.Bytes()
//
// Escaping follows the conventions of Excel's own output: attribute values
// escape &, ", <, > and newline; character data escapes only &, < and >.
// Element and attribute ordering is entirely caller-driven.
package xmlwriter
