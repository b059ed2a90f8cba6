package normalisers

import (
	"fmt"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/normalisers/docx"
	"github.com/JapanColorado/article-to-anki/internal/normalisers/html"
	"github.com/JapanColorado/article-to-anki/internal/normalisers/markdown"
	"github.com/JapanColorado/article-to-anki/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps MIME types to normalisers.
// When several normalisers claim the same MIME type the one with the
// highest Priority wins.
type Registry struct {
	byMIME map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string]driven.Normaliser),
	}
}

// Register adds a normaliser for each MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	for _, mimeType := range n.SupportedMIMETypes() {
		existing, ok := r.byMIME[mimeType]
		if ok && existing.Priority() >= n.Priority() {
			continue
		}
		r.byMIME[mimeType] = n
	}
}

// Find returns the normaliser for the given MIME type.
// Returns ErrUnsupportedType if no normaliser handles it.
func (r *Registry) Find(mimeType string) (driven.Normaliser, error) {
	n, ok := r.byMIME[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, mimeType)
	}
	return n, nil
}

// Defaults returns a registry with the built-in normalisers registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	return r
}
