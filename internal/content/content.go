// Package content validates and sanitizes product description content
// across the supported kinds (HTML, Markdown, plain text).
package content

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"tienda/internal/models"
)

// Plain text descriptions are stored wrapped in a single paragraph.
const (
	paragraphOpen  = "<p>"
	paragraphClose = "</p>"
)

// simpleText is a conservative allow-list: inline emphasis only, no
// attributes. Everything else is stripped, script and style bodies
// included.
var simpleText = bluemonday.NewPolicy().AllowElements("b", "em", "i", "strong", "u")

var markdown = goldmark.New()

// Valid reports whether description content is acceptable for its
// declared kind. Blank content is invalid regardless of kind, and so is
// an unknown kind.
//
// HTML is valid when parsing yields at least one non-blank text node
// (script and style bodies do not count). Markdown is valid when the
// parsed document has at least one node. Plain text is valid only when
// it is already wrapped in a single paragraph marker; this is a
// structural string check, not parsing.
func Valid(content string, kind models.ContentType) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	switch kind {
	case models.ContentHTML:
		return validHTML(content)
	case models.ContentMarkdown:
		return validMarkdown(content)
	case models.ContentPlainText:
		return strings.HasPrefix(content, paragraphOpen) && strings.HasSuffix(content, paragraphClose)
	default:
		return false
	}
}

// Normalize prepares valid description content for storage. HTML runs
// through the simple-text allow-list sanitizer, Markdown passes through
// unchanged, plain text is wrapped once in a paragraph marker.
//
// Precondition: Valid returned true for the same content and kind.
// Normalize does not re-validate.
func Normalize(content string, kind models.ContentType) string {
	switch kind {
	case models.ContentHTML:
		return simpleText.Sanitize(content)
	case models.ContentMarkdown:
		return content
	case models.ContentPlainText:
		return paragraphOpen + content + paragraphClose
	default:
		return content
	}
}

func validHTML(content string) bool {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		// Treat an unparsable document as invalid, not as a failure.
		return false
	}
	return hasText(doc)
}

// hasText walks the parsed tree looking for a non-blank text node.
// Script and style subtrees are skipped: their bodies are code, not
// description text.
func hasText(n *html.Node) bool {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return false
	}
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasText(c) {
			return true
		}
	}
	return false
}

func validMarkdown(content string) bool {
	doc := markdown.Parser().Parse(text.NewReader([]byte(content)))
	return doc.HasChildren()
}
