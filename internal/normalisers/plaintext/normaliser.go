package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text articles.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/html",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise passes the raw bytes through as article text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawArticle) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	title := raw.Title
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	article := domain.Article{
		Identity:  raw.Identity,
		Title:     title,
		Text:      strings.TrimSpace(string(raw.Content)),
		FetchedAt: time.Now(),
	}
	setOrigin(&article, raw.URI)

	return &driven.NormaliseResult{Article: article}, nil
}

// setOrigin records the source location as URL or file path.
func setOrigin(article *domain.Article, uri string) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		article.URL = uri
	} else {
		article.FilePath = uri
	}
}

// titleFromURI extracts a human-readable title from a URI.
func titleFromURI(uri string) string {
	filename := filepath.Base(uri)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
