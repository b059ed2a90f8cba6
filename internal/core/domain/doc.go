// Package domain contains the core entities and business rules for
// turning source articles into flashcards: articles, cards, signatures,
// ledger records, and the settings that govern duplicate detection.
//
// Domain types are plain data with no infrastructure dependencies.
// Articles and cards are immutable once created; any edit to a card's
// text requires deriving a fresh signature.
package domain
