package xmlwriter

import (
	"bytes"
	"strings"
)

// Attr is a single XML attribute. Attributes are passed as slices so that
// they serialize in the exact order given by the caller.
type Attr struct {
	Key   string
	Value string
}

// Writer accumulates the XML for one package part in memory.
type Writer struct {
	buf bytes.Buffer
}

// New returns an empty part writer.
func New() *Writer {
	return &Writer{}
}

// Declaration writes the standard XML declaration used by every part,
// followed by a newline.
func (w *Writer) Declaration() {
	w.buf.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\"?>\n")
}

// StartTag writes an opening tag without attributes.
func (w *Writer) StartTag(tag string) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

// StartTagAttr writes an opening tag with the given attributes.
func (w *Writer) StartTagAttr(tag string, attrs []Attr) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	w.writeAttrs(attrs)
	w.buf.WriteByte('>')
}

// EndTag writes a closing tag.
func (w *Writer) EndTag(tag string) {
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

// EmptyTag writes a self-closing tag without attributes.
func (w *Writer) EmptyTag(tag string) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	w.buf.WriteString("/>")
}

// EmptyTagAttr writes a self-closing tag with the given attributes.
func (w *Writer) EmptyTagAttr(tag string, attrs []Attr) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	w.writeAttrs(attrs)
	w.buf.WriteString("/>")
}

// DataElement writes <tag>data</tag> with the data escaped.
func (w *Writer) DataElement(tag, data string) {
	w.StartTag(tag)
	w.buf.WriteString(EscapeData(data))
	w.EndTag(tag)
}

// DataElementAttr writes <tag attrs>data</tag> with the data escaped.
func (w *Writer) DataElementAttr(tag, data string, attrs []Attr) {
	w.StartTagAttr(tag, attrs)
	w.buf.WriteString(EscapeData(data))
	w.EndTag(tag)
}

// SiElement writes a shared string table <si> entry. When
// preserveWhitespace is set the inner <t> carries xml:space="preserve" so
// that leading or trailing whitespace survives Excel's parser.
func (w *Writer) SiElement(s string, preserveWhitespace bool) {
	if preserveWhitespace {
		w.buf.WriteString(`<si><t xml:space="preserve">`)
	} else {
		w.buf.WriteString("<si><t>")
	}
	w.buf.WriteString(EscapeData(s))
	w.buf.WriteString("</t></si>")
}

// SiRichElement writes a shared string table <si> entry for a rich string.
// The run markup is pre-rendered and passed through unmodified.
func (w *Writer) SiRichElement(runs string) {
	w.buf.WriteString("<si>")
	w.buf.WriteString(runs)
	w.buf.WriteString("</si>")
}

// Raw writes a pre-built XML fragment without escaping.
func (w *Writer) Raw(s string) {
	w.buf.WriteString(s)
}

// Bytes returns the accumulated part content.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// String returns the accumulated part content as a string.
func (w *Writer) String() string {
	return w.buf.String()
}

// Reset clears the writer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}

func (w *Writer) writeAttrs(attrs []Attr) {
	for _, a := range attrs {
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.Key)
		w.buf.WriteString(`="`)
		w.buf.WriteString(EscapeAttr(a.Value))
		w.buf.WriteByte('"')
	}
}

// EscapeAttr escapes the XML special characters in an attribute value.
// Newlines become a character reference so they survive inside the
// attribute; Excel does the same.
func EscapeAttr(s string) string {
	if !strings.ContainsAny(s, "&\"<>\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\n':
			b.WriteString("&#xA;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeData escapes the XML special characters in character data. Double
// quotes and newlines are not escaped in data sections.
func EscapeData(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeURL percent-encodes the characters Excel escapes in hyperlink
// targets.
func EscapeURL(s string) string {
	if !strings.ContainsAny(s, "%\" <>[]^`{}") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '%':
			b.WriteString("%25")
		case '"':
			b.WriteString("%22")
		case ' ':
			b.WriteString("%20")
		case '<':
			b.WriteString("%3c")
		case '>':
			b.WriteString("%3e")
		case '[':
			b.WriteString("%5b")
		case ']':
			b.WriteString("%5d")
		case '^':
			b.WriteString("%5e")
		case '`':
			b.WriteString("%60")
		case '{':
			b.WriteString("%7b")
		case '}':
			b.WriteString("%7d")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
