// Package memory provides in-memory storage adapters, used as test
// doubles and as fallbacks when no durable store is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory implementation of driven.LedgerStore.
// It does not survive process restarts; production runs use the sqlite
// adapter.
type LedgerStore struct {
	mu      sync.RWMutex
	records map[string]domain.LedgerRecord
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		records: make(map[string]domain.LedgerRecord),
	}
}

// HasProcessed reports whether the identity is recorded as processed.
func (s *LedgerStore) HasProcessed(_ context.Context, identity string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[identity]
	return ok, nil
}

// Get retrieves the record for an identity.
func (s *LedgerStore) Get(_ context.Context, identity string) (*domain.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[identity]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// MarkProcessed records (or overwrites) the processing outcome.
func (s *LedgerStore) MarkProcessed(_ context.Context, record domain.LedgerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Identity] = record
	return nil
}

// List returns all records, most recently processed first.
func (s *LedgerStore) List(_ context.Context) ([]domain.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.LedgerRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ProcessedAt.After(records[j].ProcessedAt)
	})
	return records, nil
}

// Delete removes a record.
func (s *LedgerStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[identity]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, identity)
	return nil
}
