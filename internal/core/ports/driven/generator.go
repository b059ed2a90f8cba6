package driven

import (
	"context"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// CardGenerator produces candidate flashcards from article text.
// The core treats generation as opaque: output is not retried or
// validated beyond checking for non-empty field content.
type CardGenerator interface {
	// Generate produces cloze and basic cards for the article.
	// customPrompt, when non-empty, is appended to the generation
	// instructions.
	Generate(ctx context.Context, article *domain.Article, customPrompt string) ([]domain.Card, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
