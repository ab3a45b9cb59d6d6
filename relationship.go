package abacus

import (
	"strconv"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// relationships collects the relationships of one package part and
// assembles its .rels XML. IDs are not stored: a relationship's ID is
// its 1-based position in insertion order, so callers that hand out
// rId numbers ahead of time must add relationships in the same order.
type relationships struct {
	rels []relationship
}

type relationship struct {
	relType    string
	target     string
	targetMode string
}

func newRelationships() *relationships {
	return &relationships{}
}

// addDocument adds a relationship typed under the office document
// schema. The type suffix carries its leading slash: "/worksheet".
func (r *relationships) addDocument(suffix, target string) {
	r.rels = append(r.rels, relationship{
		relType: nsOfficeRel + suffix,
		target:  target,
	})
}

// addDocumentMode is addDocument with an explicit TargetMode, used for
// external targets such as hyperlinks.
func (r *relationships) addDocumentMode(suffix, target, mode string) {
	r.rels = append(r.rels, relationship{
		relType:    nsOfficeRel + suffix,
		target:     target,
		targetMode: mode,
	})
}

// addPackage adds a relationship typed under the package schema, used
// for the document property parts.
func (r *relationships) addPackage(suffix, target string) {
	r.rels = append(r.rels, relationship{
		relType: nsPackageRel + suffix,
		target:  target,
	})
}

// addMicrosoft adds a relationship typed under the Microsoft Office
// schema, used for the VBA project part.
func (r *relationships) addMicrosoft(suffix, target string) {
	r.rels = append(r.rels, relationship{
		relType: nsMicrosoftRel + suffix,
		target:  target,
	})
}

func (r *relationships) isEmpty() bool {
	return len(r.rels) == 0
}

func (r *relationships) count() int {
	return len(r.rels)
}

// targets returns the targets of the internal relationships. External
// targets point outside the package, so they are skipped.
func (r *relationships) targets() []string {
	var targets []string
	for _, rel := range r.rels {
		if rel.targetMode == "" {
			targets = append(targets, rel.target)
		}
	}
	return targets
}

func (r *relationships) assembleXML() []byte {
	w := xmlwriter.New()
	w.Declaration()

	w.StartTagAttr("Relationships", []xmlwriter.Attr{
		{Key: "xmlns", Value: nsPackageRel},
	})

	for i, rel := range r.rels {
		attrs := []xmlwriter.Attr{
			{Key: "Id", Value: "rId" + strconv.Itoa(i+1)},
			{Key: "Type", Value: rel.relType},
			{Key: "Target", Value: rel.target},
		}
		if rel.targetMode != "" {
			attrs = append(attrs, xmlwriter.Attr{Key: "TargetMode", Value: rel.targetMode})
		}
		w.EmptyTagAttr("Relationship", attrs)
	}

	w.EndTag("Relationships")

	return w.Bytes()
}
