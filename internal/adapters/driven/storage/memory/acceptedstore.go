package memory

import (
	"context"
	"sync"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure AcceptedCardStore implements the interface.
var _ driven.AcceptedCardStore = (*AcceptedCardStore)(nil)

// AcceptedCardStore is an in-memory implementation of
// driven.AcceptedCardStore.
type AcceptedCardStore struct {
	mu      sync.RWMutex
	entries []domain.AcceptedEntry
}

// NewAcceptedCardStore creates a new in-memory accepted-card store.
func NewAcceptedCardStore() *AcceptedCardStore {
	return &AcceptedCardStore{}
}

// SaveEntry persists an accepted entry.
func (s *AcceptedCardStore) SaveEntry(_ context.Context, entry domain.AcceptedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// ListEntries returns entries produced by the given backend.
func (s *AcceptedCardStore) ListEntries(_ context.Context, backend domain.SignatureBackend) ([]domain.AcceptedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AcceptedEntry
	for _, e := range s.entries {
		if e.Signature.Backend == backend {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len returns the number of stored entries across all backends.
func (s *AcceptedCardStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
