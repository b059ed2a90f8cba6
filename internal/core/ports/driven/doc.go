// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - Fetcher: Retrieves raw article content from a location
//   - Normaliser: Extracts article text per content type
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - CardGenerator: Produces candidate flashcards from article text
//   - CardExporter: Delivers accepted cards to a sink
//   - LedgerStore: Durable record of processed articles
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates dense vectors for semantic signatures.
//     Without it, duplicate detection uses the lexical backend.
//   - AcceptedCardStore: Persists accepted signatures so later runs can
//     deduplicate against them. Without it, the index is run-scoped.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
