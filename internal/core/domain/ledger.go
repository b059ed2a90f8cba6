package domain

import "time"

// LedgerOutcome records how processing of an article concluded.
type LedgerOutcome string

// Available ledger outcomes.
const (
	// OutcomeExported means at least one card was accepted and exported.
	OutcomeExported LedgerOutcome = "exported"

	// OutcomeNoCards means generation produced no cards.
	OutcomeNoCards LedgerOutcome = "no_cards"

	// OutcomeAllDuplicates means every generated card was rejected.
	OutcomeAllDuplicates LedgerOutcome = "all_duplicates"
)

// IsValid returns true if the outcome is recognised.
func (o LedgerOutcome) IsValid() bool {
	switch o {
	case OutcomeExported, OutcomeNoCards, OutcomeAllDuplicates:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (o LedgerOutcome) String() string {
	return string(o)
}

// LedgerRecord is the durable fact that an article has been fully
// processed: generation was attempted and every resulting card was
// evaluated, whether or not any survived.
//
// An article identity appears in the ledger if and only if processing
// completed in some prior run; the ledger alone gates skip-vs-process
// decisions.
type LedgerRecord struct {
	// Identity is the article's content identity.
	Identity string

	// Origin is the URL or file path, kept for diagnostics.
	Origin string

	// Title is the article title at processing time.
	Title string

	// Deck is the deck the accepted cards were exported to.
	Deck string

	// Outcome is how processing concluded.
	Outcome LedgerOutcome

	// CardsAccepted is the number of cards that passed deduplication.
	CardsAccepted int

	// CardsRejected is the number of cards rejected as duplicates.
	CardsRejected int

	// ProcessedAt is when processing completed.
	ProcessedAt time.Time
}
