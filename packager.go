package abacus

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// zipEpoch is the fixed modification time stamped on every archive entry.
// Excel ignores zip timestamps, and a fixed instant keeps saves of the
// same workbook byte for byte identical.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// part is one file of the assembled package.
type part struct {
	name string
	data []byte
}

// writePackage assembles the workbook into its package parts and writes
// them to buf as a zip archive. The parts are assembled and verified
// before the first archive byte is written, so a failed save produces no
// output at all.
func writePackage(wb *Workbook, buf *bytes.Buffer) error {
	parts, err := assembleParts(wb)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(buf)
	for _, p := range parts {
		header := &zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		header.SetMode(0o600)

		f, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return &PackageError{Part: p.name, Err: err}
		}
		if _, err := f.Write(p.data); err != nil {
			zw.Close()
			return &PackageError{Part: p.name, Err: err}
		}
	}
	return zw.Close()
}

// assembleParts renders every package part in write order. Drawing parts
// are numbered across the workbook in sheet order and media files are
// deduplicated by content, so an image placed on three sheets is stored
// once.
func assembleParts(wb *Workbook) ([]part, error) {
	macro := len(wb.vbaProject) > 0
	hasStrings := !wb.strings.isEmpty()
	hasMetadata := wb.hasDynamicFormulas()
	hasCustom := wb.properties.hasCustom()

	drawingNumbers := make(map[int]int)
	var media []*Image
	mediaNumbers := make(map[uint64]int)
	for i, ws := range wb.sheets {
		if len(ws.images) == 0 {
			continue
		}
		drawingNumbers[i] = len(drawingNumbers) + 1
		for _, img := range ws.drawingImages() {
			if _, ok := mediaNumbers[img.hash]; !ok {
				media = append(media, img)
				mediaNumbers[img.hash] = len(media)
			}
		}
	}

	tableCount := 0
	for _, ws := range wb.sheets {
		tableCount += len(ws.tables)
	}

	ct := newContentTypes()
	for _, img := range media {
		ct.addDefault(img.extension(), img.contentType())
	}
	for i := range wb.sheets {
		ct.addWorksheet(i + 1)
	}
	for n := 1; n <= len(drawingNumbers); n++ {
		ct.addDrawing(n)
	}
	for n := 1; n <= tableCount; n++ {
		ct.addTable(n)
	}
	if hasStrings {
		ct.addSharedStrings()
	}
	if hasMetadata {
		ct.addMetadata()
	}
	if hasCustom {
		ct.addCustomProperties()
	}
	ct.addWorkbook(macro)

	rootRels := newRelationships()
	rootRels.addDocument("/officeDocument", "xl/workbook.xml")
	rootRels.addPackage("/metadata/core-properties", "docProps/core.xml")
	rootRels.addDocument("/extended-properties", "docProps/app.xml")
	if hasCustom {
		rootRels.addDocument("/custom-properties", "docProps/custom.xml")
	}

	wbRels := newRelationships()
	for i := range wb.sheets {
		wbRels.addDocument("/worksheet", "worksheets/sheet"+strconv.Itoa(i+1)+".xml")
	}
	wbRels.addDocument("/theme", "theme/theme1.xml")
	wbRels.addDocument("/styles", "styles.xml")
	if hasStrings {
		wbRels.addDocument("/sharedStrings", "sharedStrings.xml")
	}
	if hasMetadata {
		wbRels.addDocument("/sheetMetadata", "metadata.xml")
	}
	if macro {
		wbRels.addMicrosoft("/vbaProject", "vbaProject.bin")
	}

	var parts []part
	relParts := make(map[string]*relationships)
	add := func(name string, data []byte) {
		parts = append(parts, part{name: name, data: data})
	}
	addRels := func(name string, rels *relationships) {
		add(name, rels.assembleXML())
		relParts[name] = rels
	}

	add("[Content_Types].xml", ct.assembleXML())
	addRels("_rels/.rels", rootRels)
	addRels("xl/_rels/workbook.xml.rels", wbRels)
	add("xl/theme/theme1.xml", assembleThemeXML())

	for i, ws := range wb.sheets {
		n := strconv.Itoa(i + 1)
		rels := ws.relationships(uint32(drawingNumbers[i]))

		// Recompute the relationship count the sheet should have ended
		// up with. A mismatch means the model and the manifest disagree,
		// and a package like that would open with broken links.
		wantRels := len(ws.tables)
		if len(ws.images) > 0 {
			wantRels++
		}
		for _, h := range ws.hyperlinks {
			if h.needsRelationship() {
				wantRels++
			}
		}
		if rels.count() != wantRels {
			return nil, &PackageError{
				Part: "xl/worksheets/_rels/sheet" + n + ".xml.rels",
				Err: fmt.Errorf("sheet %q needs %d relationships, built %d",
					ws.name, wantRels, rels.count()),
			}
		}

		add("xl/worksheets/sheet"+n+".xml", ws.assembleXML())
		if !rels.isEmpty() {
			addRels("xl/worksheets/_rels/sheet"+n+".xml.rels", rels)
		}
	}

	for i, ws := range wb.sheets {
		number, ok := drawingNumbers[i]
		if !ok {
			continue
		}
		n := strconv.Itoa(number)

		drawingRels := newRelationships()
		for _, img := range ws.drawingImages() {
			drawingRels.addDocument("/image",
				"../media/image"+strconv.Itoa(mediaNumbers[img.hash])+"."+img.extension())
		}

		add("xl/drawings/drawing"+n+".xml", ws.drawingPart.assembleXML())
		addRels("xl/drawings/_rels/drawing"+n+".xml.rels", drawingRels)
	}

	for i, img := range media {
		add("xl/media/image"+strconv.Itoa(i+1)+"."+img.extension(), img.data)
	}

	for _, ws := range wb.sheets {
		for _, table := range ws.tables {
			add("xl/tables/table"+strconv.FormatUint(uint64(table.index), 10)+".xml",
				table.assembleXML())
		}
	}

	add("xl/workbook.xml", wb.assembleXML())
	if macro {
		add("xl/vbaProject.bin", wb.vbaProject)
	}
	if hasStrings {
		add("xl/sharedStrings.xml", wb.strings.assembleXML())
	}
	add("xl/styles.xml", wb.formats.assembleXML())
	add("docProps/core.xml", wb.properties.assembleCoreXML(time.Now().UTC()))
	add("docProps/app.xml",
		wb.properties.assembleAppXML(wb.sheetNames(), wb.appNamedRanges(wb.effectiveDefinedNames())))
	if hasCustom {
		add("docProps/custom.xml", wb.properties.assembleCustomXML())
	}
	if hasMetadata {
		add("xl/metadata.xml", assembleMetadataXML())
	}

	if err := verifyPackage(parts, relParts, ct); err != nil {
		return nil, err
	}

	return parts, nil
}

// relIDRef matches the relationship id references a part writes into its
// XML, in both the r:id and r:embed attribute forms. The leading tag
// bracket restricts matches to attribute positions: the emitter escapes
// every < in character data and attribute values, so a raw bracket only
// ever opens a real tag.
var relIDRef = regexp.MustCompile(`<[^>]* r:(?:id|embed)="rId([0-9]+)"`)

// verifyPackage checks the assembled package for internal consistency:
// every relationship resolves to a part in the archive, every rId cited
// in part XML has an entry in that part's manifest, and every part has a
// content type.
func verifyPackage(parts []part, relParts map[string]*relationships, ct *contentTypes) error {
	names := make(map[string]bool, len(parts))
	for _, p := range parts {
		names[p.name] = true
	}

	for relsName, rels := range relParts {
		// A rels part at dir/_rels/file.rels resolves its targets
		// relative to dir.
		base := path.Dir(path.Dir(relsName))
		for _, target := range rels.targets() {
			resolved := path.Clean(target)
			if base != "." {
				resolved = path.Join(base, target)
			}
			if !names[resolved] {
				return &PackageError{
					Part: relsName,
					Err:  fmt.Errorf("relationship target %s is not in the package", target),
				}
			}
		}
	}

	for _, p := range parts {
		if !strings.HasSuffix(p.name, ".xml") {
			continue
		}
		refs := relIDRef.FindAllSubmatch(p.data, -1)
		if len(refs) == 0 {
			continue
		}
		relsName := path.Join(path.Dir(p.name), "_rels", path.Base(p.name)+".rels")
		rels := relParts[relsName]
		for _, ref := range refs {
			id, _ := strconv.Atoi(string(ref[1]))
			if rels == nil || id < 1 || id > rels.count() {
				return &PackageError{
					Part: p.name,
					Err:  fmt.Errorf("rId%d has no entry in %s", id, relsName),
				}
			}
		}
	}

	for _, p := range parts {
		if p.name == "[Content_Types].xml" {
			continue
		}
		if !ct.covers(p.name) {
			return &PackageError{Part: p.name, Err: errors.New("no content type declared")}
		}
	}

	return nil
}
