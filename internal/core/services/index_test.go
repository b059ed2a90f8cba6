package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/storage/memory"
	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func semanticEntry(id string, vector []float32) domain.AcceptedEntry {
	return domain.AcceptedEntry{
		Card:      basicCard(id, ""),
		Signature: domain.Signature{Backend: domain.BackendSemantic, Vector: vector},
	}
}

func lexicalSig(text string) domain.Signature {
	terms := make(map[string]float64)
	for _, tok := range Tokenize(text) {
		terms[tok]++
	}
	return domain.Signature{Backend: domain.BackendLexical, Terms: terms}
}

func TestSimilarityIndex_InsertAndNearest(t *testing.T) {
	ix := NewSimilarityIndex(domain.BackendSemantic, nil)
	ctx := context.Background()

	require.NoError(t, ix.Insert(ctx, semanticEntry("a", []float32{1, 0})))
	assert.Equal(t, 1, ix.Len())

	// Nearly parallel vector is well above threshold.
	match, sim, err := ix.Nearest(
		domain.Signature{Backend: domain.BackendSemantic, Vector: []float32{0.99, 0.05}}, 0.85)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "a", match.Card.ID)
	assert.Greater(t, sim, 0.95)

	// Orthogonal vector finds nothing.
	match, _, err = ix.Nearest(
		domain.Signature{Backend: domain.BackendSemantic, Vector: []float32{0, 1}}, 0.85)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestSimilarityIndex_BestMatchWins(t *testing.T) {
	ix := NewSimilarityIndex(domain.BackendSemantic, nil)
	ctx := context.Background()

	require.NoError(t, ix.Insert(ctx, semanticEntry("close", []float32{0.9, 0.1})))
	require.NoError(t, ix.Insert(ctx, semanticEntry("closer", []float32{1, 0.01})))

	match, _, err := ix.Nearest(
		domain.Signature{Backend: domain.BackendSemantic, Vector: []float32{1, 0}}, 0.85)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "closer", match.Card.ID)
}

func TestSimilarityIndex_BackendMismatchFailsLoudly(t *testing.T) {
	ix := NewSimilarityIndex(domain.BackendSemantic, nil)

	_, _, err := ix.Nearest(lexicalSig("some text"), 0.85)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendMismatch)

	err = ix.Insert(context.Background(), domain.AcceptedEntry{
		Card:      basicCard("x", ""),
		Signature: lexicalSig("some text"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendMismatch)
}

func TestSimilarityIndex_LexicalIdenticalTextScoresOne(t *testing.T) {
	ix := NewSimilarityIndex(domain.BackendLexical, nil)
	ctx := context.Background()

	require.NoError(t, ix.Insert(ctx, domain.AcceptedEntry{
		Card:      basicCard("a", ""),
		Signature: lexicalSig("the quick brown fox"),
	}))

	match, sim, err := ix.Nearest(lexicalSig("The quick brown fox!"), 0.99)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestSimilarityIndex_LexicalDisjointTextScoresZero(t *testing.T) {
	ix := NewSimilarityIndex(domain.BackendLexical, nil)
	ctx := context.Background()

	require.NoError(t, ix.Insert(ctx, domain.AcceptedEntry{
		Card:      basicCard("a", ""),
		Signature: lexicalSig("alpha beta gamma"),
	}))

	match, _, err := ix.Nearest(lexicalSig("delta epsilon zeta"), 0.01)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestSimilarityIndex_PersistsAndPreSeeds(t *testing.T) {
	store := memory.NewAcceptedCardStore()
	ctx := context.Background()

	first := NewSimilarityIndex(domain.BackendSemantic, store)
	require.NoError(t, first.Insert(ctx, semanticEntry("a", []float32{1, 0})))
	assert.Equal(t, 1, store.Len())

	// A fresh index pre-seeded from the store sees the prior entry.
	second := NewSimilarityIndex(domain.BackendSemantic, store)
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, 1, second.Len())

	// A lexical index loads nothing from a semantic corpus.
	third := NewSimilarityIndex(domain.BackendLexical, store)
	require.NoError(t, third.Load(ctx))
	assert.Equal(t, 0, third.Len())
}
