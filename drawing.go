package abacus

import (
	"strconv"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// drawingCoordinates locates one corner of an image anchor: a cell plus
// an EMU offset into it. Excel uses 914400 EMUs per inch, 9525 per pixel
// at 96 DPI.
type drawingCoordinates struct {
	col       uint16
	row       uint32
	colOffset int64
	rowOffset int64
}

// drawingInfo describes one placed image in a drawing part.
type drawingInfo struct {
	from        drawingCoordinates
	to          drawingCoordinates
	colAbsolute int64
	rowAbsolute int64
	width       int64
	height      int64
	description string
	decorative  bool
	relID       uint32
}

// drawing assembles the xl/drawings/drawingN.xml part for one worksheet.
type drawing struct {
	drawings []drawingInfo
}

func (d *drawing) assembleXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("xdr:wsDr", []xmlwriter.Attr{
		{Key: "xmlns:xdr", Value: nsSpreadsheetDr},
		{Key: "xmlns:a", Value: nsDrawing},
	})

	for i := range d.drawings {
		d.writeTwoCellAnchor(w, uint32(i+1), &d.drawings[i])
	}

	w.EndTag("xdr:wsDr")

	return w.Bytes()
}

func (d *drawing) writeTwoCellAnchor(w *xmlwriter.Writer, index uint32, info *drawingInfo) {
	w.StartTagAttr("xdr:twoCellAnchor", []xmlwriter.Attr{
		{Key: "editAs", Value: "oneCell"},
	})

	writeAnchorCorner(w, "xdr:from", info.from)
	writeAnchorCorner(w, "xdr:to", info.to)
	d.writePic(w, index, info)

	w.EmptyTag("xdr:clientData")
	w.EndTag("xdr:twoCellAnchor")
}

func writeAnchorCorner(w *xmlwriter.Writer, tag string, coords drawingCoordinates) {
	w.StartTag(tag)
	w.DataElement("xdr:col", strconv.Itoa(int(coords.col)))
	w.DataElement("xdr:colOff", strconv.FormatInt(coords.colOffset, 10))
	w.DataElement("xdr:row", strconv.Itoa(int(coords.row)))
	w.DataElement("xdr:rowOff", strconv.FormatInt(coords.rowOffset, 10))
	w.EndTag(tag)
}

func (d *drawing) writePic(w *xmlwriter.Writer, index uint32, info *drawingInfo) {
	w.StartTag("xdr:pic")

	// Non-visual picture properties.
	w.StartTag("xdr:nvPicPr")
	d.writeCNvPr(w, index, info)
	w.StartTag("xdr:cNvPicPr")
	w.EmptyTagAttr("a:picLocks", []xmlwriter.Attr{{Key: "noChangeAspect", Value: "1"}})
	w.EndTag("xdr:cNvPicPr")
	w.EndTag("xdr:nvPicPr")

	// The image fill.
	w.StartTag("xdr:blipFill")
	w.EmptyTagAttr("a:blip", []xmlwriter.Attr{
		{Key: "xmlns:r", Value: nsOfficeRel},
		{Key: "r:embed", Value: "rId" + strconv.FormatUint(uint64(info.relID), 10)},
	})
	w.StartTag("a:stretch")
	w.EmptyTag("a:fillRect")
	w.EndTag("a:stretch")
	w.EndTag("xdr:blipFill")

	// Shape properties: the frame position and extent.
	w.StartTag("xdr:spPr")
	w.StartTag("a:xfrm")
	w.EmptyTagAttr("a:off", []xmlwriter.Attr{
		{Key: "x", Value: strconv.FormatInt(info.colAbsolute, 10)},
		{Key: "y", Value: strconv.FormatInt(info.rowAbsolute, 10)},
	})
	w.EmptyTagAttr("a:ext", []xmlwriter.Attr{
		{Key: "cx", Value: strconv.FormatInt(info.width, 10)},
		{Key: "cy", Value: strconv.FormatInt(info.height, 10)},
	})
	w.EndTag("a:xfrm")
	w.StartTagAttr("a:prstGeom", []xmlwriter.Attr{{Key: "prst", Value: "rect"}})
	w.EmptyTag("a:avLst")
	w.EndTag("a:prstGeom")
	w.EndTag("xdr:spPr")

	w.EndTag("xdr:pic")
}

func (d *drawing) writeCNvPr(w *xmlwriter.Writer, index uint32, info *drawingInfo) {
	attrs := []xmlwriter.Attr{
		{Key: "id", Value: strconv.FormatUint(uint64(index+1), 10)},
		{Key: "name", Value: "Picture " + strconv.FormatUint(uint64(index), 10)},
	}

	if info.description != "" {
		attrs = append(attrs, xmlwriter.Attr{Key: "descr", Value: info.description})
	}

	if !info.decorative {
		w.EmptyTagAttr("xdr:cNvPr", attrs)
		return
	}

	w.StartTagAttr("xdr:cNvPr", attrs)
	writeDecorativeExt(w)
	w.EndTag("xdr:cNvPr")
}

// writeDecorativeExt writes the accessibility extension marking an image
// as decorative.
func writeDecorativeExt(w *xmlwriter.Writer) {
	w.StartTag("a:extLst")

	w.StartTagAttr("a:ext", []xmlwriter.Attr{
		{Key: "uri", Value: "{FF2B5EF4-FFF2-40B4-BE49-F238E27FC236}"},
	})
	w.EmptyTagAttr("a16:creationId", []xmlwriter.Attr{
		{Key: "xmlns:a16", Value: "http://schemas.microsoft.com/office/drawing/2014/main"},
		{Key: "id", Value: "{00000000-0008-0000-0000-000002000000}"},
	})
	w.EndTag("a:ext")

	w.StartTagAttr("a:ext", []xmlwriter.Attr{
		{Key: "uri", Value: "{C183D7F6-B498-43B3-948B-1728B52AA6E4}"},
	})
	w.EmptyTagAttr("adec:decorative", []xmlwriter.Attr{
		{Key: "xmlns:adec", Value: "http://schemas.microsoft.com/office/drawing/2017/decorative"},
		{Key: "val", Value: "1"},
	})
	w.EndTag("a:ext")

	w.EndTag("a:extLst")
}
