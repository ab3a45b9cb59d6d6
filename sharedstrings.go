package abacus

import (
	"strconv"
	"strings"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// sharedStrings is the append-only table of unique strings shared by every
// worksheet in a workbook. Each distinct string is stored once; cells hold
// the table index. Indices are dense, zero-based, issued in first-seen
// order, and never change once issued.
type sharedStrings struct {
	// count totals every intern call, including repeats. It becomes the
	// count attribute of the sst element, where uniqueCount is the table
	// size.
	count   uint32
	strings []string
	index   map[string]uint32
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{index: make(map[string]uint32)}
}

// intern returns the table index for s, appending it on first sight.
func (s *sharedStrings) intern(str string) uint32 {
	s.count++

	if i, ok := s.index[str]; ok {
		return i
	}

	i := uint32(len(s.strings))
	s.strings = append(s.strings, str)
	s.index[str] = i

	return i
}

func (s *sharedStrings) isEmpty() bool {
	return len(s.strings) == 0
}

// assembleXML renders the xl/sharedStrings.xml part. Rich strings are
// stored in the table as pre-rendered <r> run markup and pass through
// unescaped; plain strings with leading or trailing whitespace get the
// xml:space="preserve" treatment so Excel keeps the whitespace.
func (s *sharedStrings) assembleXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("sst", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsMain},
		{Key: "count", Value: strconv.FormatUint(uint64(s.count), 10)},
		{Key: "uniqueCount", Value: strconv.FormatUint(uint64(len(s.strings)), 10)},
	})

	for _, str := range s.strings {
		if strings.HasPrefix(str, "<r>") && strings.HasSuffix(str, "</r>") {
			w.SiRichElement(str)
			continue
		}

		w.SiElement(str, needsPreserve(str))
	}

	w.EndTag("sst")

	return w.Bytes()
}

// needsPreserve reports whether a string needs xml:space="preserve" to
// survive an XML round trip with its whitespace intact.
func needsPreserve(s string) bool {
	if s == "" {
		return false
	}

	switch s[0] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	switch s[len(s)-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
