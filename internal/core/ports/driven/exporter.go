package driven

import (
	"context"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// ExportFailure records one card that could not be delivered.
type ExportFailure struct {
	// CardID identifies the failed card.
	CardID string

	// Reason is the sink's error message.
	Reason string
}

// ExportReport summarises one export call.
type ExportReport struct {
	// Exported is the number of cards delivered successfully.
	Exported int

	// Failures lists cards the sink rejected. A non-empty list is not a
	// pipeline error; failures are surfaced to the operator.
	Failures []ExportFailure
}

// CardExporter delivers accepted cards to a flashcard sink.
//
// Implementations include a networked flashcard application (one request
// per card, per-card success/failure) and a flat-file sink.
type CardExporter interface {
	// Prepare performs one-time sink setup (e.g. ensuring note models
	// exist in the flashcard application). Called once per run.
	Prepare(ctx context.Context) error

	// Export delivers the cards to the named deck, tagged with the
	// article title.
	Export(ctx context.Context, cards []domain.Card, title, deck string) (*ExportReport, error)
}
