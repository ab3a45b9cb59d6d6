package abacus

import (
	"strconv"
	"time"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// DocProperties holds the document metadata written to the docProps parts
// of the package: the core Dublin Core properties, the extended
// application properties, and any custom properties.
//
// The creation and modification times default to the wall clock at save
// time. Pinning both with SetCreated and SetModified makes the package
// output byte for byte deterministic:
//
//	props := abacus.NewDocProperties().
//		SetTitle("Annual report").
//		SetAuthor("Jane").
//		SetCreated(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
//	wb.SetProperties(props)
type DocProperties struct {
	title         string
	subject       string
	author        string
	manager       string
	company       string
	category      string
	keywords      string
	comment       string
	status        string
	hyperlinkBase string
	created       time.Time
	modified      time.Time
	custom        []customProperty
}

// NewDocProperties returns an empty set of document properties.
func NewDocProperties() DocProperties {
	return DocProperties{}
}

// SetTitle sets the document title.
func (p DocProperties) SetTitle(title string) DocProperties {
	p.title = title
	return p
}

// SetSubject sets the document subject.
func (p DocProperties) SetSubject(subject string) DocProperties {
	p.subject = subject
	return p
}

// SetAuthor sets the document author, used as both the creator and the
// last-modified-by name.
func (p DocProperties) SetAuthor(author string) DocProperties {
	p.author = author
	return p
}

// SetManager sets the manager property.
func (p DocProperties) SetManager(manager string) DocProperties {
	p.manager = manager
	return p
}

// SetCompany sets the company property.
func (p DocProperties) SetCompany(company string) DocProperties {
	p.company = company
	return p
}

// SetCategory sets the document category.
func (p DocProperties) SetCategory(category string) DocProperties {
	p.category = category
	return p
}

// SetKeywords sets the document keyword list, as a single comma or space
// separated string.
func (p DocProperties) SetKeywords(keywords string) DocProperties {
	p.keywords = keywords
	return p
}

// SetComment sets the document description.
func (p DocProperties) SetComment(comment string) DocProperties {
	p.comment = comment
	return p
}

// SetStatus sets the content status, such as "Draft" or "Final".
func (p DocProperties) SetStatus(status string) DocProperties {
	p.status = status
	return p
}

// SetHyperlinkBase sets the base address used to resolve relative
// hyperlinks in the document.
func (p DocProperties) SetHyperlinkBase(base string) DocProperties {
	p.hyperlinkBase = base
	return p
}

// SetCreated pins the creation instant written to the package.
func (p DocProperties) SetCreated(created time.Time) DocProperties {
	p.created = created
	return p
}

// SetModified pins the modification instant written to the package. When
// unset it follows the creation instant.
func (p DocProperties) SetModified(modified time.Time) DocProperties {
	p.modified = modified
	return p
}

// SetCustomText adds a custom text property.
func (p DocProperties) SetCustomText(name, value string) DocProperties {
	p.custom = append(p.custom, customProperty{kind: customText, name: name, text: value})
	return p
}

// SetCustomNumber adds a custom floating point property.
func (p DocProperties) SetCustomNumber(name string, value float64) DocProperties {
	p.custom = append(p.custom, customProperty{kind: customNumber, name: name, number: value})
	return p
}

// SetCustomInt adds a custom integer property.
func (p DocProperties) SetCustomInt(name string, value int) DocProperties {
	p.custom = append(p.custom, customProperty{kind: customInt, name: name, integer: value})
	return p
}

// SetCustomBool adds a custom boolean property.
func (p DocProperties) SetCustomBool(name string, value bool) DocProperties {
	p.custom = append(p.custom, customProperty{kind: customBool, name: name, boolean: value})
	return p
}

// SetCustomDatetime adds a custom date property.
func (p DocProperties) SetCustomDatetime(name string, value time.Time) DocProperties {
	p.custom = append(p.custom, customProperty{kind: customDatetime, name: name, datetime: value})
	return p
}

type customPropertyKind uint8

const (
	customText customPropertyKind = iota
	customInt
	customNumber
	customBool
	customDatetime
)

type customProperty struct {
	kind     customPropertyKind
	name     string
	text     string
	integer  int
	number   float64
	boolean  bool
	datetime time.Time
}

// hasCustom reports whether a docProps/custom.xml part is needed.
func (p DocProperties) hasCustom() bool {
	return len(p.custom) > 0
}

// w3cdtf formats an instant the way the core properties part expects.
func w3cdtf(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// assembleCoreXML writes docProps/core.xml. Unset creation and
// modification instants resolve against now.
func (p DocProperties) assembleCoreXML(now time.Time) []byte {
	created := p.created
	if created.IsZero() {
		created = now
	}
	modified := p.modified
	if modified.IsZero() {
		modified = created
	}

	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("cp:coreProperties", []xmlwriter.Attr{
		{Key: "xmlns:cp", Value: nsCoreProps},
		{Key: "xmlns:dc", Value: nsDublinCore},
		{Key: "xmlns:dcterms", Value: nsDCTerms},
		{Key: "xmlns:dcmitype", Value: nsDCMIType},
		{Key: "xmlns:xsi", Value: nsXSI},
	})

	if p.title != "" {
		w.DataElement("dc:title", p.title)
	}
	if p.subject != "" {
		w.DataElement("dc:subject", p.subject)
	}
	w.DataElement("dc:creator", p.author)
	if p.keywords != "" {
		w.DataElement("cp:keywords", p.keywords)
	}
	if p.comment != "" {
		w.DataElement("dc:description", p.comment)
	}
	w.DataElement("cp:lastModifiedBy", p.author)

	typeAttr := []xmlwriter.Attr{{Key: "xsi:type", Value: "dcterms:W3CDTF"}}
	w.DataElementAttr("dcterms:created", w3cdtf(created), typeAttr)
	w.DataElementAttr("dcterms:modified", w3cdtf(modified), typeAttr)

	if p.category != "" {
		w.DataElement("cp:category", p.category)
	}
	if p.status != "" {
		w.DataElement("cp:contentStatus", p.status)
	}

	w.EndTag("cp:coreProperties")

	return w.Bytes()
}

// assembleAppXML writes docProps/app.xml: the application identity, the
// Worksheets heading pair with the sheet names, and a Named Ranges pair
// when the workbook has visible defined names.
func (p DocProperties) assembleAppXML(sheetNames, namedRanges []string) []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("Properties", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsExtProps},
		{Key: "xmlns:vt", Value: nsDocPropsVT},
	})

	w.DataElement("Application", "Microsoft Excel")
	w.DataElement("DocSecurity", "0")
	w.DataElement("ScaleCrop", "false")

	pairs := 1
	if len(namedRanges) > 0 {
		pairs = 2
	}

	w.StartTag("HeadingPairs")
	w.StartTagAttr("vt:vector", []xmlwriter.Attr{
		{Key: "size", Value: strconv.Itoa(pairs * 2)},
		{Key: "baseType", Value: "variant"},
	})
	writeHeadingPair(w, "Worksheets", len(sheetNames))
	if len(namedRanges) > 0 {
		writeHeadingPair(w, "Named Ranges", len(namedRanges))
	}
	w.EndTag("vt:vector")
	w.EndTag("HeadingPairs")

	w.StartTag("TitlesOfParts")
	w.StartTagAttr("vt:vector", []xmlwriter.Attr{
		{Key: "size", Value: strconv.Itoa(len(sheetNames) + len(namedRanges))},
		{Key: "baseType", Value: "lpstr"},
	})
	for _, name := range sheetNames {
		w.DataElement("vt:lpstr", name)
	}
	for _, name := range namedRanges {
		w.DataElement("vt:lpstr", name)
	}
	w.EndTag("vt:vector")
	w.EndTag("TitlesOfParts")

	if p.manager != "" {
		w.DataElement("Manager", p.manager)
	}
	w.DataElement("Company", p.company)
	w.DataElement("LinksUpToDate", "false")
	w.DataElement("SharedDoc", "false")
	if p.hyperlinkBase != "" {
		w.DataElement("HyperlinkBase", p.hyperlinkBase)
	}
	w.DataElement("HyperlinksChanged", "false")
	w.DataElement("AppVersion", "12.0000")

	w.EndTag("Properties")

	return w.Bytes()
}

func writeHeadingPair(w *xmlwriter.Writer, name string, count int) {
	w.StartTag("vt:variant")
	w.DataElement("vt:lpstr", name)
	w.EndTag("vt:variant")
	w.StartTag("vt:variant")
	w.DataElement("vt:i4", strconv.Itoa(count))
	w.EndTag("vt:variant")
}

// assembleCustomXML writes docProps/custom.xml. Property ids start at 2,
// after the reserved format id entry.
func (p DocProperties) assembleCustomXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("Properties", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsCustomProps},
		{Key: "xmlns:vt", Value: nsDocPropsVT},
	})

	for i, property := range p.custom {
		w.StartTagAttr("property", []xmlwriter.Attr{
			{Key: "fmtid", Value: "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}"},
			{Key: "pid", Value: strconv.Itoa(i + 2)},
			{Key: "name", Value: property.name},
		})

		switch property.kind {
		case customText:
			w.DataElement("vt:lpwstr", property.text)
		case customInt:
			w.DataElement("vt:i4", strconv.Itoa(property.integer))
		case customNumber:
			w.DataElement("vt:r8", formatFloat(property.number))
		case customBool:
			w.DataElement("vt:bool", strconv.FormatBool(property.boolean))
		case customDatetime:
			w.DataElement("vt:filetime", w3cdtf(property.datetime))
		}

		w.EndTag("property")
	}

	w.EndTag("Properties")

	return w.Bytes()
}
