package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides the ledger and
// accepted-card store through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.articles-to-anki/data/articles.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".articles-to-anki", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "articles.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LedgerStore returns a LedgerStore interface backed by this store.
func (s *Store) LedgerStore() driven.LedgerStore {
	return &ledgerStore{store: s}
}

// AcceptedCardStore returns an AcceptedCardStore interface backed by this store.
func (s *Store) AcceptedCardStore() driven.AcceptedCardStore {
	return &acceptedCardStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Ledger Store ====================

// ledgerStore implements driven.LedgerStore.
type ledgerStore struct {
	store *Store
}

var _ driven.LedgerStore = (*ledgerStore)(nil)

// HasProcessed reports whether the identity is recorded as processed.
func (s *ledgerStore) HasProcessed(ctx context.Context, identity string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM processed_articles WHERE identity = ?", identity).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking processed: %w", err)
	}
	return count > 0, nil
}

// Get retrieves the full record for an identity.
func (s *ledgerStore) Get(ctx context.Context, identity string) (*domain.LedgerRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT identity, origin, title, deck, outcome, cards_accepted, cards_rejected, processed_at
		FROM processed_articles WHERE identity = ?
	`, identity)

	var record domain.LedgerRecord
	var outcome string
	var processedAt sql.NullTime
	if err := row.Scan(&record.Identity, &record.Origin, &record.Title, &record.Deck,
		&outcome, &record.CardsAccepted, &record.CardsRejected, &processedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning ledger record: %w", err)
	}

	record.Outcome = domain.LedgerOutcome(outcome)
	if processedAt.Valid {
		record.ProcessedAt = processedAt.Time
	}

	return &record, nil
}

// MarkProcessed records (or overwrites) the processing outcome. The
// upsert is a single statement, so the write is atomic per identity.
func (s *ledgerStore) MarkProcessed(ctx context.Context, record domain.LedgerRecord) error {
	if record.Identity == "" {
		return domain.ErrInvalidInput
	}
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO processed_articles
			(identity, origin, title, deck, outcome, cards_accepted, cards_rejected, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			origin = excluded.origin,
			title = excluded.title,
			deck = excluded.deck,
			outcome = excluded.outcome,
			cards_accepted = excluded.cards_accepted,
			cards_rejected = excluded.cards_rejected,
			processed_at = excluded.processed_at
	`, record.Identity, record.Origin, record.Title, record.Deck,
		string(record.Outcome), record.CardsAccepted, record.CardsRejected, record.ProcessedAt)

	if err != nil {
		return fmt.Errorf("marking processed: %w", err)
	}
	return nil
}

// List returns all records, most recently processed first.
func (s *ledgerStore) List(ctx context.Context) ([]domain.LedgerRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT identity, origin, title, deck, outcome, cards_accepted, cards_rejected, processed_at
		FROM processed_articles
		ORDER BY processed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var records []domain.LedgerRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var record domain.LedgerRecord
		var outcome string
		var processedAt sql.NullTime
		if err := rows.Scan(&record.Identity, &record.Origin, &record.Title, &record.Deck,
			&outcome, &record.CardsAccepted, &record.CardsRejected, &processedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger record: %w", err)
		}
		record.Outcome = domain.LedgerOutcome(outcome)
		if processedAt.Valid {
			record.ProcessedAt = processedAt.Time
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger: %w", err)
	}

	return records, nil
}

// Delete removes a record so the article is reprocessed next run.
func (s *ledgerStore) Delete(ctx context.Context, identity string) error {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM processed_articles WHERE identity = ?", identity)
	if err != nil {
		return fmt.Errorf("deleting ledger record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Accepted Card Store ====================

// acceptedCardStore implements driven.AcceptedCardStore.
type acceptedCardStore struct {
	store *Store
}

var _ driven.AcceptedCardStore = (*acceptedCardStore)(nil)

// SaveEntry persists an accepted entry.
func (s *acceptedCardStore) SaveEntry(ctx context.Context, entry domain.AcceptedEntry) error {
	if entry.Card.ID == "" {
		return domain.ErrInvalidInput
	}

	fieldsJSON, err := json.Marshal(entry.Card.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}

	var termsJSON sql.NullString
	if entry.Signature.Terms != nil {
		data, err := json.Marshal(entry.Signature.Terms)
		if err != nil {
			return fmt.Errorf("marshalling terms: %w", err)
		}
		termsJSON = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := entry.Card.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO accepted_cards
			(card_id, article_identity, kind, fields, backend, terms, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(card_id) DO UPDATE SET
			article_identity = excluded.article_identity,
			kind = excluded.kind,
			fields = excluded.fields,
			backend = excluded.backend,
			terms = excluded.terms,
			vector = excluded.vector,
			created_at = excluded.created_at
	`, entry.Card.ID, entry.Card.ArticleIdentity, string(entry.Card.Kind), string(fieldsJSON),
		string(entry.Signature.Backend), termsJSON,
		float32SliceToBytes(entry.Signature.Vector), createdAt)

	if err != nil {
		return fmt.Errorf("saving accepted card: %w", err)
	}
	return nil
}

// ListEntries returns persisted entries produced by the given backend.
func (s *acceptedCardStore) ListEntries(ctx context.Context, backend domain.SignatureBackend) ([]domain.AcceptedEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT card_id, article_identity, kind, fields, backend, terms, vector, created_at
		FROM accepted_cards WHERE backend = ?
		ORDER BY created_at
	`, string(backend))
	if err != nil {
		return nil, fmt.Errorf("querying accepted cards: %w", err)
	}
	defer rows.Close()

	var entries []domain.AcceptedEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.AcceptedEntry
		var kind, sigBackend, fieldsJSON string
		var termsJSON sql.NullString
		var vectorBlob []byte
		var createdAt sql.NullTime

		if err := rows.Scan(&entry.Card.ID, &entry.Card.ArticleIdentity, &kind, &fieldsJSON,
			&sigBackend, &termsJSON, &vectorBlob, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning accepted card: %w", err)
		}

		entry.Card.Kind = domain.CardKind(kind)
		if err := json.Unmarshal([]byte(fieldsJSON), &entry.Card.Fields); err != nil {
			return nil, fmt.Errorf("unmarshalling fields: %w", err)
		}
		if createdAt.Valid {
			entry.Card.CreatedAt = createdAt.Time
		}

		entry.Signature.Backend = domain.SignatureBackend(sigBackend)
		if termsJSON.Valid {
			if err := json.Unmarshal([]byte(termsJSON.String), &entry.Signature.Terms); err != nil {
				return nil, fmt.Errorf("unmarshalling terms: %w", err)
			}
		}
		entry.Signature.Vector = bytesToFloat32Slice(vectorBlob)

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accepted cards: %w", err)
	}

	return entries, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
