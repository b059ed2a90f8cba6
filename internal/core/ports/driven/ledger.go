package driven

import (
	"context"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// LedgerStore is the durable record of which articles have been fully
// processed. It is the sole gate for skip-vs-process decisions and must
// survive process restarts.
//
// MarkProcessed must be atomic per identity and flushed before it
// returns, so a crash mid-run never loses the fact that an article was
// already attempted.
type LedgerStore interface {
	// HasProcessed reports whether the identity is recorded as processed.
	HasProcessed(ctx context.Context, identity string) (bool, error)

	// Get retrieves the full record for an identity.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, identity string) (*domain.LedgerRecord, error)

	// MarkProcessed records (or overwrites) the processing outcome.
	MarkProcessed(ctx context.Context, record domain.LedgerRecord) error

	// List returns all records, most recently processed first.
	List(ctx context.Context) ([]domain.LedgerRecord, error)

	// Delete removes a record so the article is reprocessed next run.
	// Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, identity string) error
}

// AcceptedCardStore persists accepted cards and their signatures so the
// similarity index can be pre-seeded on later runs. Optional - when nil,
// deduplication is run-scoped only.
type AcceptedCardStore interface {
	// SaveEntry persists an accepted entry.
	SaveEntry(ctx context.Context, entry domain.AcceptedEntry) error

	// ListEntries returns persisted entries produced by the given
	// backend. Entries from other backends are not comparable and are
	// never returned.
	ListEntries(ctx context.Context, backend domain.SignatureBackend) ([]domain.AcceptedEntry, error)
}
