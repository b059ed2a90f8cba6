package html

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts article text from HTML pages.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Preferred over the plaintext fallback
}

// chromeSelector matches page furniture that never carries article text.
const chromeSelector = "script, style, noscript, svg, iframe, form, nav, header, footer, aside"

// blockSelector matches the elements article text actually lives in.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, td, figcaption"

var multiSpaces = regexp.MustCompile(`[ \t]+`)

// Normalise parses the HTML and extracts the readable article text,
// dropping navigation chrome and comment sections.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawArticle) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	title := raw.Title
	if title == "" {
		title = extractTitle(doc, raw.URI)
	}

	doc.Find(chromeSelector).Remove()
	removeCommentSections(doc)

	article := domain.Article{
		Identity:  raw.Identity,
		Title:     title,
		Text:      extractText(doc),
		FetchedAt: time.Now(),
	}
	if strings.HasPrefix(raw.URI, "http://") || strings.HasPrefix(raw.URI, "https://") {
		article.URL = raw.URI
	} else {
		article.FilePath = raw.URI
	}

	return &driven.NormaliseResult{Article: article}, nil
}

// extractTitle prefers og:title, then the <title> tag, then the URI.
func extractTitle(doc *goquery.Document, uri string) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// removeCommentSections drops elements whose id or class mentions
// "comment". Reader comments routinely dwarf the article itself and
// would poison both generation and similarity matching.
func removeCommentSections(doc *goquery.Document) {
	doc.Find("[id], [class]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		if strings.Contains(strings.ToLower(id), "comment") ||
			strings.Contains(strings.ToLower(class), "comment") {
			sel.Remove()
		}
	})
}

// extractText collects text from block-level elements, one line per
// element. Falls back to the whole body for pages with no block markup.
func extractText(doc *goquery.Document) string {
	var lines []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Skip containers whose text is already covered by a nested
		// block element (e.g. a blockquote wrapping paragraphs).
		if sel.ChildrenFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := cleanLine(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		if body := cleanLine(doc.Find("body").Text()); body != "" {
			return body
		}
		return ""
	}
	return strings.Join(lines, "\n")
}

// cleanLine collapses runs of whitespace within one extracted line.
func cleanLine(s string) string {
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }), " ")
	return strings.TrimSpace(multiSpaces.ReplaceAllString(s, " "))
}
