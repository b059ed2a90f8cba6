package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// SimilarityIndex is the append-only collection of accepted entries'
// signatures, supporting nearest-match lookup against a new signature.
//
// Lookups are a linear scan: per-run card counts are bounded by
// generation volume, so scan cost stays negligible. An entry inserted
// earlier in a run is visible to every later lookup in the same run.
//
// All entries share one backend tag, fixed at construction. Comparing a
// signature from a different backend is a contract violation and fails
// loudly with domain.ErrBackendMismatch.
type SimilarityIndex struct {
	mu      sync.Mutex
	backend domain.SignatureBackend
	entries []domain.AcceptedEntry

	// df holds per-term document frequencies for the lexical backend.
	// IDF weighting is applied at comparison time so stored signatures
	// stay pure functions of card text.
	df map[string]int

	// store, when non-nil, persists inserted entries so later runs can
	// pre-seed the index.
	store driven.AcceptedCardStore
}

// NewSimilarityIndex creates an empty index bound to one backend.
// store may be nil, in which case the index is run-scoped only.
func NewSimilarityIndex(backend domain.SignatureBackend, store driven.AcceptedCardStore) *SimilarityIndex {
	return &SimilarityIndex{
		backend: backend,
		df:      make(map[string]int),
		store:   store,
	}
}

// Backend returns the backend tag all entries must carry.
func (ix *SimilarityIndex) Backend() domain.SignatureBackend {
	return ix.backend
}

// Len returns the number of indexed entries.
func (ix *SimilarityIndex) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.entries)
}

// Load pre-seeds the index from the persisted accepted-card store.
// Only entries produced by this index's backend are loaded; entries
// from other backends are not comparable and stay untouched.
func (ix *SimilarityIndex) Load(ctx context.Context) error {
	if ix.store == nil {
		return nil
	}
	entries, err := ix.store.ListEntries(ctx, ix.backend)
	if err != nil {
		return fmt.Errorf("load accepted entries: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, e := range entries {
		if e.Signature.Backend != ix.backend || e.Signature.IsZero() {
			continue
		}
		ix.add(e)
	}
	logger.Debug("Similarity index pre-seeded with %d entries", len(ix.entries))
	return nil
}

// Insert registers an accepted entry. The entry becomes visible to all
// subsequent lookups immediately.
func (ix *SimilarityIndex) Insert(ctx context.Context, entry domain.AcceptedEntry) error {
	if entry.Signature.Backend != ix.backend {
		return fmt.Errorf("%w: index holds %s, entry is %s",
			domain.ErrBackendMismatch, ix.backend, entry.Signature.Backend)
	}

	ix.mu.Lock()
	ix.add(entry)
	ix.mu.Unlock()

	if ix.store != nil {
		// Persistence is best-effort: a failed save only narrows
		// cross-run deduplication, never the current run.
		if err := ix.store.SaveEntry(ctx, entry); err != nil {
			logger.Warn("failed to persist accepted card %s: %v", entry.Card.ID, err)
		}
	}
	return nil
}

// add registers the entry. Caller must hold the lock.
func (ix *SimilarityIndex) add(entry domain.AcceptedEntry) {
	ix.entries = append(ix.entries, entry)
	for term := range entry.Signature.Terms {
		ix.df[term]++
	}
}

// Nearest returns the indexed entry most similar to sig, provided its
// similarity meets the threshold. Returns (nil, 0, nil) when nothing
// qualifies. When several entries exceed the threshold, the highest
// scoring one wins.
func (ix *SimilarityIndex) Nearest(sig domain.Signature, threshold float64) (*domain.AcceptedEntry, float64, error) {
	if sig.Backend != ix.backend {
		return nil, 0, fmt.Errorf("%w: index holds %s, query is %s",
			domain.ErrBackendMismatch, ix.backend, sig.Backend)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	var best *domain.AcceptedEntry
	var bestSim float64
	for i := range ix.entries {
		sim := ix.similarity(sig, ix.entries[i].Signature)
		if sim >= threshold && sim > bestSim {
			bestSim = sim
			best = &ix.entries[i]
		}
	}
	return best, bestSim, nil
}

// similarity scores two same-backend signatures. Caller must hold the
// lock (lexical scoring reads the document-frequency table).
func (ix *SimilarityIndex) similarity(a, b domain.Signature) float64 {
	if ix.backend == domain.BackendSemantic {
		return cosineDense(a.Vector, b.Vector)
	}
	return ix.cosineSparse(a.Terms, b.Terms)
}

// cosineDense computes cosine similarity between two dense vectors.
// Mismatched or zero-length vectors score 0.
func cosineDense(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// cosineSparse computes cosine similarity between two term-frequency
// maps, weighting each term by smoothed inverse document frequency over
// the entries accepted so far.
func (ix *SimilarityIndex) cosineSparse(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, tfA := range a {
		wA := tfA * ix.idf(term)
		normA += wA * wA
		if tfB, ok := b[term]; ok {
			dot += wA * tfB * ix.idf(term)
		}
	}
	for term, tfB := range b {
		wB := tfB * ix.idf(term)
		normB += wB * wB
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// idf returns the smoothed inverse document frequency for a term over
// the indexed corpus. The +1 smoothing keeps unseen terms finite and
// every weight positive.
func (ix *SimilarityIndex) idf(term string) float64 {
	n := len(ix.entries)
	return math.Log(float64(n+1)/float64(ix.df[term]+1)) + 1
}
