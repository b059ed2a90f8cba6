package driven

import (
	"context"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// Fetcher retrieves raw article content from a location.
//
// Implementations include an HTTP fetcher for URLs (with an optional
// local content cache) and a filesystem fetcher for local files.
type Fetcher interface {
	// Fetch retrieves the raw article at the given location.
	// Returns domain.ErrFetchFailed (wrapped) when the content cannot
	// be retrieved, and domain.ErrUnsupportedType for file types no
	// normaliser handles.
	Fetch(ctx context.Context, location string) (*domain.RawArticle, error)
}
