package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an article file type with no normaliser.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBackendMismatch indicates an attempt to compare signatures from
	// two different backends. This breaks the one-backend-per-run
	// invariant and is a programming error, never recovered from.
	ErrBackendMismatch = errors.New("signature backend mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. The signature builder degrades to the
	// lexical backend when the backend selection is automatic.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGeneratorUnavailable indicates the card generation service is
	// not configured. The pipeline cannot run without it.
	ErrGeneratorUnavailable = errors.New("card generator unavailable")

	// ErrLedgerWrite indicates the processed-article ledger could not be
	// written. Fatal for the current article (it must not be treated as
	// processed) but not for the run.
	ErrLedgerWrite = errors.New("ledger write failed")

	// ErrFetchFailed indicates article content could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrExportFailed indicates a card could not be delivered to the sink.
	ErrExportFailed = errors.New("export failed")
)
