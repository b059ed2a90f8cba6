package driven

import (
	"context"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// Normaliser extracts article text from raw fetched content.
// Each normaliser handles specific MIME types (e.g., HTML, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the article text and title from raw content.
	Normalise(ctx context.Context, raw *domain.RawArticle) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Article is the normalised article with Text and Title populated.
	Article domain.Article
}

// NormaliserRegistry selects the appropriate normaliser for a MIME type.
type NormaliserRegistry interface {
	// Find returns the highest-priority normaliser for the MIME type.
	// Returns domain.ErrUnsupportedType if none is registered.
	Find(mimeType string) (Normaliser, error)
}
