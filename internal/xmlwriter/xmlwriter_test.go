package xmlwriter

import "testing"

func TestDeclaration(t *testing.T) {
	w := New()
	w.Declaration()

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\"?>\n"
	if got := w.String(); got != want {
		t.Errorf("Declaration() = %q, want %q", got, want)
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{
			name:  "start tag",
			write: func(w *Writer) { w.StartTag("foo") },
			want:  "<foo>",
		},
		{
			name:  "start tag with empty attrs",
			write: func(w *Writer) { w.StartTagAttr("foo", nil) },
			want:  "<foo>",
		},
		{
			name: "start tag with attrs",
			write: func(w *Writer) {
				w.StartTagAttr("foo", []Attr{{"span", "8"}, {"baz", "7"}})
			},
			want: `<foo span="8" baz="7">`,
		},
		{
			name:  "end tag",
			write: func(w *Writer) { w.EndTag("foo") },
			want:  "</foo>",
		},
		{
			name:  "empty tag",
			write: func(w *Writer) { w.EmptyTag("foo") },
			want:  "<foo/>",
		},
		{
			name: "empty tag with attrs",
			write: func(w *Writer) {
				w.EmptyTagAttr("foo", []Attr{{"span", "8"}})
			},
			want: `<foo span="8"/>`,
		},
		{
			name:  "data element",
			write: func(w *Writer) { w.DataElement("foo", "bar") },
			want:  "<foo>bar</foo>",
		},
		{
			name: "data element with attrs",
			write: func(w *Writer) {
				w.DataElementAttr("foo", "bar", []Attr{{"span", "8"}})
			},
			want: `<foo span="8">bar</foo>`,
		},
		{
			name:  "data element escaped",
			write: func(w *Writer) { w.DataElement("foo", "&<>") },
			want:  "<foo>&amp;&lt;&gt;</foo>",
		},
		{
			name:  "si element",
			write: func(w *Writer) { w.SiElement("foo", false) },
			want:  "<si><t>foo</t></si>",
		},
		{
			name:  "si element preserving whitespace",
			write: func(w *Writer) { w.SiElement("foo ", true) },
			want:  `<si><t xml:space="preserve">foo </t></si>`,
		},
		{
			name: "si rich element",
			write: func(w *Writer) {
				w.SiRichElement("<r><t>a</t></r><r><t>b</t></r>")
			},
			want: "<si><r><t>a</t></r><r><t>b</t></r></si>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			tt.write(w)
			if got := w.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", "plain", "plain"},
		{"ampersand", "fish & chips", "fish &amp; chips"},
		{"quote", `say "hi"`, "say &quot;hi&quot;"},
		{"angle brackets", "<tag>", "&lt;tag&gt;"},
		{"newline", "line1\nline2", "line1&#xA;line2"},
		{"mixed", `a<b&c>"d"`, "a&lt;b&amp;c&gt;&quot;d&quot;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeAttr(tt.input); got != tt.want {
				t.Errorf("EscapeAttr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeData(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", "plain", "plain"},
		{"ampersand", "fish & chips", "fish &amp; chips"},
		{"angle brackets", "<tag>", "&lt;tag&gt;"},
		{"quotes kept", `say "hi"`, `say "hi"`},
		{"newline kept", "line1\nline2", "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeData(tt.input); got != tt.want {
				t.Errorf("EscapeData(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", "https://example.com/a", "https://example.com/a"},
		{"space", "https://example.com/a b", "https://example.com/a%20b"},
		{"percent", "https://example.com/100%", "https://example.com/100%25"},
		{"brackets", "https://example.com/[x]", "https://example.com/%5bx%5d"},
		{"braces and caret", "a{b}^c", "a%7bb%7d%5ec"},
		{"backtick and quote", "a`\"b", "a%60%22b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeURL(tt.input); got != tt.want {
				t.Errorf("EscapeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	w := New()
	w.StartTag("foo")
	w.Reset()
	w.StartTag("bar")

	if got := w.String(); got != "<bar>" {
		t.Errorf("after Reset got %q, want %q", got, "<bar>")
	}
}
