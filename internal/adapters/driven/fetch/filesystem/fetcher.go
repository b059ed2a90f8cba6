// Package filesystem reads article content from local files.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// mimeByExtension maps supported file extensions to MIME types. The
// pipeline's normaliser registry decides whether a type is actually
// processable; unknown extensions are rejected here.
var mimeByExtension = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Fetcher reads local article files.
type Fetcher struct{}

// NewFetcher creates a filesystem fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// SupportedFile reports whether path has an extension this fetcher
// recognises. Used when scanning the articles directory.
func SupportedFile(path string) bool {
	_, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Fetch reads the file at path. The identity is derived from the file
// content, so renamed or moved files keep their ledger history.
func (f *Fetcher) Fetch(_ context.Context, path string) (*domain.RawArticle, error) {
	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &domain.RawArticle{
		Identity: domain.IdentityFromContent(content),
		URI:      path,
		MIMEType: mimeType,
		Title:    title,
		Content:  content,
	}, nil
}
