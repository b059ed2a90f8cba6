package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// SignatureBuilder derives comparable signatures from card text.
//
// The backend is chosen once at construction via explicit capability
// detection and never changes afterwards, so every signature in a run
// carries the same tag and all comparisons stay meaningful.
type SignatureBuilder struct {
	backend  domain.SignatureBackend
	embedder driven.EmbeddingService
}

// NewSignatureBuilder probes backends in preference order and returns a
// builder bound to the first one available.
//
// Under BackendAuto the semantic backend is tried first (requires a
// reachable embedding service); failure degrades to lexical with a
// single consolidated warning. Forcing BackendForceSemantic turns that
// failure into a startup error instead.
func NewSignatureBuilder(
	ctx context.Context,
	selection domain.BackendSelection,
	embedder driven.EmbeddingService,
) (*SignatureBuilder, error) {
	switch selection {
	case domain.BackendForceLexical:
		logger.Debug("Signature backend: lexical (forced)")
		return &SignatureBuilder{backend: domain.BackendLexical}, nil

	case domain.BackendForceSemantic:
		if err := probeSemantic(ctx, embedder); err != nil {
			return nil, fmt.Errorf("semantic backend forced but unavailable: %w", err)
		}
		logger.Debug("Signature backend: semantic (forced, model %s)", embedder.ModelName())
		return &SignatureBuilder{backend: domain.BackendSemantic, embedder: embedder}, nil

	case domain.BackendAuto:
		// Ordered probe: first success wins, failures are collected
		// into one consolidated warning.
		if err := probeSemantic(ctx, embedder); err != nil {
			logger.WarnOnce("backend-degraded",
				"semantic signatures unavailable (%v); falling back to lexical term matching - duplicate recall may be lower",
				err)
			return &SignatureBuilder{backend: domain.BackendLexical}, nil
		}
		logger.Debug("Signature backend: semantic (model %s)", embedder.ModelName())
		return &SignatureBuilder{backend: domain.BackendSemantic, embedder: embedder}, nil

	default:
		return nil, fmt.Errorf("%w: unknown backend selection %q", domain.ErrInvalidInput, selection)
	}
}

// probeSemantic checks the embedding service is usable.
func probeSemantic(ctx context.Context, embedder driven.EmbeddingService) error {
	if embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Backend returns the backend this builder was bound to.
func (b *SignatureBuilder) Backend() domain.SignatureBackend {
	return b.backend
}

// Build derives the signature for a card's text.
//
// The result is a pure function of the card text: identical text yields
// an identical signature on every call. Empty or whitespace-only text
// yields a zero signature, which the decision engine always accepts.
func (b *SignatureBuilder) Build(ctx context.Context, card *domain.Card) (domain.Signature, error) {
	text := NormalizeText(card.Text())

	switch b.backend {
	case domain.BackendSemantic:
		if text == "" {
			return domain.Signature{Backend: domain.BackendSemantic}, nil
		}
		vector, err := b.embedder.Embed(ctx, text)
		if err != nil {
			return domain.Signature{}, fmt.Errorf("embed card text: %w", err)
		}
		return domain.Signature{Backend: domain.BackendSemantic, Vector: vector}, nil

	case domain.BackendLexical:
		tokens := strings.Fields(text)
		if len(tokens) == 0 {
			return domain.Signature{Backend: domain.BackendLexical}, nil
		}
		terms := make(map[string]float64, len(tokens))
		for _, tok := range tokens {
			terms[tok]++
		}
		return domain.Signature{Backend: domain.BackendLexical, Terms: terms}, nil

	default:
		return domain.Signature{}, errors.New("signature builder has no backend")
	}
}
