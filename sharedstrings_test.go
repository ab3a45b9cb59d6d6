package abacus

import (
	"strings"
	"testing"
)

func TestSharedStringsIntern(t *testing.T) {
	sst := newSharedStrings()

	words := []string{"neptune", "neptune", "neptune", "neptune", "mars", "venus", "mars"}
	indices := make([]uint32, 0, len(words))
	for _, word := range words {
		indices = append(indices, sst.intern(word))
	}

	wantIndices := []uint32{0, 0, 0, 0, 1, 2, 1}
	for i, want := range wantIndices {
		if indices[i] != want {
			t.Errorf("intern(%q) call %d = %d, want %d", words[i], i, indices[i], want)
		}
	}

	if sst.count != 7 {
		t.Errorf("count = %d, want 7", sst.count)
	}
	if len(sst.strings) != 3 {
		t.Errorf("unique count = %d, want 3", len(sst.strings))
	}
}

func TestSharedStringsInternStable(t *testing.T) {
	sst := newSharedStrings()

	first := sst.intern("alpha")
	sst.intern("beta")
	sst.intern("gamma")

	// Re-interning after later additions must return the original index.
	if got := sst.intern("alpha"); got != first {
		t.Errorf("re-intern returned %d, want %d", got, first)
	}
}

func TestSharedStringsAssembleXML(t *testing.T) {
	sst := newSharedStrings()
	for _, word := range []string{"neptune", "neptune", "neptune", "neptune", "mars", "venus", "mars"} {
		sst.intern(word)
	}

	got := string(sst.assembleXML())
	want := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="7" uniqueCount="3">` +
		`<si><t>neptune</t></si>` +
		`<si><t>mars</t></si>` +
		`<si><t>venus</t></si>` +
		`</sst>`

	if got != want {
		t.Errorf("assembleXML() mismatch\ngot:  %s\nwant: %s", got, want)
	}
}

func TestSharedStringsWhitespacePreserve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading space", " alpha", `<si><t xml:space="preserve"> alpha</t></si>`},
		{"trailing space", "alpha ", `<si><t xml:space="preserve">alpha </t></si>`},
		{"trailing tab", "alpha\t", `<si><t xml:space="preserve">alpha` + "\t" + `</t></si>`},
		{"leading newline", "\nalpha", `<si><t xml:space="preserve">` + "\n" + `alpha</t></si>`},
		{"trailing carriage return", "alpha\r", `<si><t xml:space="preserve">alpha` + "\r" + `</t></si>`},
		{"interior space only", "al pha", `<si><t>al pha</t></si>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sst := newSharedStrings()
			sst.intern(tt.input)

			got := string(sst.assembleXML())
			if !strings.Contains(got, tt.want) {
				t.Errorf("assembleXML() = %s, want to contain %s", got, tt.want)
			}
		})
	}
}

func TestSharedStringsRichPassthrough(t *testing.T) {
	sst := newSharedStrings()
	sst.intern("<r><t>a</t></r><r><rPr><b/></rPr><t>bold</t></r>")

	got := string(sst.assembleXML())
	want := "<si><r><t>a</t></r><r><rPr><b/></rPr><t>bold</t></r></si>"

	if !strings.Contains(got, want) {
		t.Errorf("assembleXML() = %s, want to contain %s", got, want)
	}
}
