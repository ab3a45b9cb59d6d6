package abacus

import (
	"errors"
	"strings"
	"testing"
)

// TestHyperlinkWeb tests parsing of web links
func TestHyperlinkWeb(t *testing.T) {
	h, err := newHyperlink(NewURL("https://go.dev/dl/"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}

	if h.linkType != hyperlinkURL {
		t.Errorf("linkType = %v; want hyperlinkURL", h.linkType)
	}
	if h.userText != "https://go.dev/dl/" {
		t.Errorf("userText = %q; want the link", h.userText)
	}
	if !h.needsRelationship() {
		t.Error("web link should need a relationship")
	}
	if h.target() != "https://go.dev/dl/" {
		t.Errorf("target = %q; want the link", h.target())
	}
	if h.targetMode() != "External" {
		t.Errorf("targetMode = %q; want External", h.targetMode())
	}
}

// TestHyperlinkAnchor tests splitting of #anchor fragments
func TestHyperlinkAnchor(t *testing.T) {
	h, err := newHyperlink(NewURL("https://en.wikipedia.org/wiki/Spreadsheet#History"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}

	if h.urlLink != "https://en.wikipedia.org/wiki/Spreadsheet" {
		t.Errorf("urlLink = %q; want the link without the anchor", h.urlLink)
	}
	if h.relAnchor != "History" {
		t.Errorf("relAnchor = %q; want %q", h.relAnchor, "History")
	}

	// The relationship target keeps the full link.
	if h.target() != "https://en.wikipedia.org/wiki/Spreadsheet#History" {
		t.Errorf("target = %q; want the full link", h.target())
	}
}

// TestHyperlinkMailto tests mailto links
func TestHyperlinkMailto(t *testing.T) {
	h, err := newHyperlink(NewURL("mailto:ops@example.com"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}

	if h.linkType != hyperlinkURL {
		t.Errorf("linkType = %v; want hyperlinkURL", h.linkType)
	}
	if h.userText != "ops@example.com" {
		t.Errorf("userText = %q; want the address without the scheme", h.userText)
	}
	if h.target() != "mailto:ops@example.com" {
		t.Errorf("target = %q; want the full link", h.target())
	}
}

// TestHyperlinkInternal tests internal workbook links
func TestHyperlinkInternal(t *testing.T) {
	h, err := newHyperlink(NewURL("internal:Sheet2!A1"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}

	if h.linkType != hyperlinkInternal {
		t.Errorf("linkType = %v; want hyperlinkInternal", h.linkType)
	}
	if h.relAnchor != "Sheet2!A1" {
		t.Errorf("relAnchor = %q; want %q", h.relAnchor, "Sheet2!A1")
	}
	if h.userText != "Sheet2!A1" {
		t.Errorf("userText = %q; want %q", h.userText, "Sheet2!A1")
	}
	if h.needsRelationship() {
		t.Error("internal link should not need a relationship")
	}
	if h.target() != "#Sheet2!A1" {
		t.Errorf("target = %q; want %q", h.target(), "#Sheet2!A1")
	}
	if h.targetMode() != "" {
		t.Errorf("targetMode = %q; want empty", h.targetMode())
	}
}

// TestHyperlinkFile tests file links, absolute and relative
func TestHyperlinkFile(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		urlLink  string
		relLink  string
		userText string
	}{
		{
			"windows drive",
			`file:///C:\Temp\quarterly.xlsx`,
			`file:///C:\Temp\quarterly.xlsx`,
			`file:///C:\Temp\quarterly.xlsx`,
			`C:\Temp\quarterly.xlsx`,
		},
		{
			"network share",
			`file://\\share\reports.xlsx`,
			`file://\\share\reports.xlsx`,
			`file://\\share\reports.xlsx`,
			`\\share\reports.xlsx`,
		},
		{
			"relative path",
			`file:///sales\quarterly.xlsx`,
			`sales\quarterly.xlsx`,
			`sales/quarterly.xlsx`,
			`sales\quarterly.xlsx`,
		},
		{
			"bare relative",
			`file://quarterly.xlsx`,
			`quarterly.xlsx`,
			`quarterly.xlsx`,
			`quarterly.xlsx`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := newHyperlink(NewURL(tt.link))
			if err != nil {
				t.Fatalf("newHyperlink failed: %v", err)
			}

			if h.linkType != hyperlinkFile {
				t.Errorf("linkType = %v; want hyperlinkFile", h.linkType)
			}
			if h.urlLink != tt.urlLink {
				t.Errorf("urlLink = %q; want %q", h.urlLink, tt.urlLink)
			}
			if h.relLink != tt.relLink {
				t.Errorf("relLink = %q; want %q", h.relLink, tt.relLink)
			}
			if h.userText != tt.userText {
				t.Errorf("userText = %q; want %q", h.userText, tt.userText)
			}
		})
	}
}

// TestHyperlinkFileHashEscape tests the extra # escaping in file targets
func TestHyperlinkFileHashEscape(t *testing.T) {
	h, err := newHyperlink(NewURL("file://report#2024.xlsx"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}

	if h.relAnchor != "2024.xlsx" {
		t.Errorf("relAnchor = %q; want %q", h.relAnchor, "2024.xlsx")
	}
	if h.relLink != "report%232024.xlsx" {
		t.Errorf("relLink = %q; want %q", h.relLink, "report%232024.xlsx")
	}
}

// TestHyperlinkUnknownScheme tests rejection of unrecognized links
func TestHyperlinkUnknownScheme(t *testing.T) {
	for _, link := range []string{"www.example.com", "gopher://hole", ""} {
		if _, err := newHyperlink(NewURL(link)); !errors.Is(err, ErrUnknownURLType) {
			t.Errorf("newHyperlink(%q) error = %v; want ErrUnknownURLType", link, err)
		}
	}
}

// TestHyperlinkEscaping tests URL character escaping
func TestHyperlinkEscaping(t *testing.T) {
	h, err := newHyperlink(NewURL("https://example.com/a b[c]"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}

	want := "https://example.com/a%20b%5bc%5d"
	if h.urlLink != want {
		t.Errorf("urlLink = %q; want %q", h.urlLink, want)
	}

	// An already escaped link passes through untouched.
	h, err = newHyperlink(NewURL("https://example.com/a%20b"))
	if err != nil {
		t.Fatalf("newHyperlink failed: %v", err)
	}
	if h.urlLink != "https://example.com/a%20b" {
		t.Errorf("urlLink = %q; want it unchanged", h.urlLink)
	}
}

// TestHyperlinkLengthLimits tests the URL and tooltip length limits
func TestHyperlinkLengthLimits(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("x", maxURLLen)
	if _, err := newHyperlink(NewURL(long)); !errors.Is(err, ErrMaxURLLength) {
		t.Errorf("long URL error = %v; want ErrMaxURLLength", err)
	}

	tip := strings.Repeat("t", maxParameterLen+1)
	_, err := newHyperlink(NewURL("https://example.com").SetTip(tip))
	var paramErr *ParameterError
	if !errors.As(err, &paramErr) {
		t.Errorf("long tooltip error = %v; want ParameterError", err)
	}
}

// TestRelativePath tests file path classification
func TestRelativePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`file.xlsx`, true},
		{`..\file.xlsx`, true},
		{`sub\file.xlsx`, true},
		{`C:\temp\file.xlsx`, false},
		{`z:\file.xlsx`, false},
		{`\\share\file.xlsx`, false},
	}

	for _, tt := range tests {
		if got := relativePath(tt.path); got != tt.want {
			t.Errorf("relativePath(%q) = %v; want %v", tt.path, got, tt.want)
		}
	}
}
