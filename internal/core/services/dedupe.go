package services

import (
	"context"
	"sync"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// Decision is the outcome of duplicate detection for one card.
type Decision struct {
	// Accepted is true when the card is novel enough to keep.
	Accepted bool

	// Match is the best-scoring existing entry when the card was
	// rejected, for diagnostics and audit. Nil on acceptance.
	Match *domain.AcceptedEntry

	// Similarity is the score against Match, 0 on acceptance.
	Similarity float64
}

// DedupeEngine decides whether each new card is novel enough to keep,
// consulting and growing the similarity index.
//
// The lookup/insert pair is a check-then-act and runs under one lock,
// so two near-duplicate cards can never both be accepted even if
// callers overlap.
type DedupeEngine struct {
	mu              sync.Mutex
	index           *SimilarityIndex
	threshold       float64
	allowDuplicates bool
}

// NewDedupeEngine creates a decision engine over the given index.
// threshold is the rejection threshold in [0,1]; allowDuplicates
// suppresses rejection while still growing the index.
func NewDedupeEngine(index *SimilarityIndex, threshold float64, allowDuplicates bool) *DedupeEngine {
	return &DedupeEngine{
		index:           index,
		threshold:       threshold,
		allowDuplicates: allowDuplicates,
	}
}

// Decide evaluates one card.
//
// A zero signature (empty card text) is always accepted and never
// inserted: degenerate inputs must not collide with each other, and a
// mass rejection of empty cards would be a false positive. This is
// logged as an anomaly, not an error.
//
// With allowDuplicates set, the index is not consulted but the card is
// still inserted, so later cards are deduplicated against everything
// accepted before them.
func (e *DedupeEngine) Decide(ctx context.Context, card *domain.Card, sig domain.Signature) (Decision, error) {
	if sig.IsZero() {
		logger.Warn("card %s has a degenerate signature (empty text); accepting without comparison", card.ID)
		return Decision{Accepted: true}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry := domain.AcceptedEntry{Card: *card, Signature: sig}

	if e.allowDuplicates {
		if err := e.index.Insert(ctx, entry); err != nil {
			return Decision{}, err
		}
		return Decision{Accepted: true}, nil
	}

	match, similarity, err := e.index.Nearest(sig, e.threshold)
	if err != nil {
		return Decision{}, err
	}
	if match != nil {
		return Decision{Match: match, Similarity: similarity}, nil
	}

	if err := e.index.Insert(ctx, entry); err != nil {
		return Decision{}, err
	}
	return Decision{Accepted: true}, nil
}

// Threshold returns the configured rejection threshold.
func (e *DedupeEngine) Threshold() float64 {
	return e.threshold
}
