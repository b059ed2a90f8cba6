package domain

// SignatureBackend identifies which strategy produced a signature.
// Signatures from different backends are never comparable.
type SignatureBackend string

// Available signature backends.
const (
	// BackendLexical is a term-frequency vector over normalised tokens.
	BackendLexical SignatureBackend = "lexical"

	// BackendSemantic is a dense embedding vector from an encoder.
	BackendSemantic SignatureBackend = "semantic"
)

// IsValid returns true if the backend is recognised.
func (b SignatureBackend) IsValid() bool {
	return b == BackendLexical || b == BackendSemantic
}

// String returns the string representation.
func (b SignatureBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b SignatureBackend) Description() string {
	switch b {
	case BackendLexical:
		return "Lexical (term frequency)"
	case BackendSemantic:
		return "Semantic (embedding)"
	default:
		return "Unknown"
	}
}

// Signature is the comparable representation of a card's text.
// Exactly one of Terms or Vector is populated, according to Backend.
// A signature is derived deterministically from the card text and is
// never mutated.
type Signature struct {
	// Backend tags which strategy produced this signature.
	Backend SignatureBackend

	// Terms holds raw term frequencies for lexical signatures.
	// IDF weighting is applied at comparison time by the index, so the
	// signature itself stays a pure function of the card text.
	Terms map[string]float64

	// Vector holds the dense embedding for semantic signatures.
	Vector []float32
}

// IsZero reports whether the signature carries no information
// (empty or whitespace-only card text, or a degenerate zero vector).
// Zero signatures are never matched against anything.
func (s Signature) IsZero() bool {
	switch s.Backend {
	case BackendLexical:
		return len(s.Terms) == 0
	case BackendSemantic:
		for _, v := range s.Vector {
			if v != 0 {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// AcceptedEntry is a card that passed duplicate detection, paired with
// the signature it was admitted under. Owned by the similarity index.
type AcceptedEntry struct {
	Card      Card
	Signature Signature
}
