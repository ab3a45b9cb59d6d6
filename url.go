package abacus

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// URL is a worksheet hyperlink: a web link, a mailto address, a link to a
// cell in this workbook via the "internal:" pseudo-scheme, or a link to
// another file via "file://".
//
//	ws.WriteURL(0, 0, abacus.NewURL("https://go.dev"))
//	ws.WriteURL(1, 0, abacus.NewURL("internal:Sheet2!A1"))
//	ws.WriteURL(2, 0, abacus.NewURL("file:///C:\\reports\\annual.xlsx"))
//	ws.WriteURL(3, 0, abacus.NewURL("mailto:rep@example.com").SetText("Email us"))
type URL struct {
	link string
	text string
	tip  string
}

// NewURL creates a hyperlink from a link string.
func NewURL(link string) URL {
	return URL{link: link}
}

// SetText sets an alternative, user friendly, text for the link. Without
// it the cell shows the link itself.
func (u URL) SetText(text string) URL {
	u.text = text
	return u
}

// SetTip sets the screen tip shown when the mouse hovers over the link.
func (u URL) SetTip(tip string) URL {
	u.tip = tip
	return u
}

// hyperlinkType classifies how a link is stored: web and file links get a
// worksheet relationship, internal links only a location attribute.
type hyperlinkType int

const (
	hyperlinkURL hyperlinkType = iota
	hyperlinkInternal
	hyperlinkFile
)

// hyperlink is the parsed, escaped form of a URL, ready to serialize. The
// same link can produce up to three strings: the cell text, the
// relationship target, and the location fragment.
type hyperlink struct {
	urlLink   string
	relLink   string
	userText  string
	toolTip   string
	relAnchor string
	linkType  hyperlinkType
	relID     uint32
}

// newHyperlink parses and validates a URL.
func newHyperlink(u URL) (*hyperlink, error) {
	h := &hyperlink{
		urlLink:  u.link,
		relLink:  u.link,
		userText: u.text,
		toolTip:  u.tip,
	}

	if err := h.parse(); err != nil {
		return nil, err
	}

	// The user text length is checked when the string cell is written.
	if utf8.RuneCountInString(h.urlLink) > maxURLLen ||
		utf8.RuneCountInString(h.relAnchor) > maxURLLen {
		return nil, ErrMaxURLLength
	}

	h.escape()

	if utf8.RuneCountInString(h.toolTip) > maxParameterLen {
		return nil, newParameterError("tooltip",
			fmt.Sprintf("longer than Excel's limit of %d characters", maxParameterLen))
	}

	return h, nil
}

// parse splits the link into its stored parts based on the scheme.
func (h *hyperlink) parse() error {
	link := h.urlLink

	switch {
	case strings.HasPrefix(link, "http://"),
		strings.HasPrefix(link, "https://"),
		strings.HasPrefix(link, "ftp://"),
		strings.HasPrefix(link, "ftps://"):
		h.linkType = hyperlinkURL

		if h.userText == "" {
			h.userText = h.urlLink
		}

		// Split a trailing #anchor fragment, if any.
		if link, anchor, ok := strings.Cut(h.urlLink, "#"); ok {
			h.relAnchor = anchor
			h.urlLink = link
		}

	case strings.HasPrefix(link, "mailto:"):
		h.linkType = hyperlinkURL

		if h.userText == "" {
			h.userText = strings.TrimPrefix(link, "mailto:")
		}

	case strings.HasPrefix(link, "internal:"):
		h.linkType = hyperlinkInternal
		h.relAnchor = strings.TrimPrefix(link, "internal:")

		if h.userText == "" {
			h.userText = h.relAnchor
		}

	case strings.HasPrefix(link, "file://"):
		h.linkType = hyperlinkFile

		linkPath := strings.TrimPrefix(link, "file:///")
		linkPath = strings.TrimPrefix(linkPath, "file://")

		// Relative file paths are stored without the scheme but keep
		// the Windows path separator in the worksheet string.
		relative := relativePath(linkPath)
		if relative {
			h.urlLink = linkPath
		}

		h.relLink = h.urlLink
		if relative {
			h.relLink = strings.ReplaceAll(h.relLink, `\`, "/")
		}

		if h.userText == "" {
			h.userText = linkPath
		}

		if link, anchor, ok := strings.Cut(h.urlLink, "#"); ok {
			h.relAnchor = anchor
			h.urlLink = link
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownURLType, link)
	}

	return nil
}

// escape applies URL escaping to the link strings, unless the user passed
// an already escaped link.
func (h *hyperlink) escape() {
	if !isEscapedURL(h.urlLink) {
		h.urlLink = xmlwriter.EscapeURL(h.urlLink)
	}

	// Internal link targets are sheet/cell locations, not URLs.
	if h.linkType != hyperlinkInternal && !isEscapedURL(h.relLink) {
		h.relLink = xmlwriter.EscapeURL(h.relLink)
	}

	// Excel additionally escapes # in file path targets.
	if h.linkType == hyperlinkFile {
		h.relLink = strings.ReplaceAll(h.relLink, "#", "%23")
	}
}

// needsRelationship reports whether the link is stored as a worksheet
// relationship. Internal links live entirely in the hyperlink element.
func (h *hyperlink) needsRelationship() bool {
	return h.linkType == hyperlinkURL || h.linkType == hyperlinkFile
}

// target returns the relationship target for the link.
func (h *hyperlink) target() string {
	if h.linkType == hyperlinkInternal {
		return strings.Replace(h.relLink, "internal:", "#", 1)
	}
	return h.relLink
}

// targetMode returns the relationship TargetMode attribute value, empty
// for internal links.
func (h *hyperlink) targetMode() string {
	if h.linkType == hyperlinkInternal {
		return ""
	}
	return "External"
}

// relativePath reports whether a file path is relative, as opposed to a
// Windows drive path like "C:\temp\file.xlsx" or a network share like
// "\\share\file.xlsx".
func relativePath(path string) bool {
	if strings.HasPrefix(path, `\\`) {
		return false
	}

	if strings.IndexByte(path, ':') == 1 && path[0] < utf8.RuneSelf {
		return false
	}

	return true
}

// isEscapedURL reports whether the string already contains one of the
// escape sequences EscapeURL produces, which means the caller escaped the
// link themselves.
func isEscapedURL(s string) bool {
	if !strings.Contains(s, "%") {
		return false
	}

	for i := 0; i+3 <= len(s); i++ {
		switch s[i : i+3] {
		case "%25", "%22", "%20", "%3c", "%3e", "%5b", "%5d", "%5e", "%60", "%7b", "%7d":
			return true
		}
	}

	return false
}
