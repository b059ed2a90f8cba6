package domain

import "fmt"

// BackendSelection is the operator's signature backend choice.
type BackendSelection string

// Available backend selections.
const (
	// BackendAuto probes for an embedding service and falls back to lexical.
	BackendAuto BackendSelection = "auto"

	// BackendForceLexical always uses the lexical backend.
	BackendForceLexical BackendSelection = "lexical"

	// BackendForceSemantic requires the embedding service; startup fails
	// if it is unavailable.
	BackendForceSemantic BackendSelection = "semantic"
)

// IsValid returns true if the selection is recognised.
func (b BackendSelection) IsValid() bool {
	switch b {
	case BackendAuto, BackendForceLexical, BackendForceSemantic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b BackendSelection) String() string {
	return string(b)
}

// Default configuration values.
const (
	// DefaultSimilarityThreshold favours precision: only near-certain
	// duplicates are rejected.
	DefaultSimilarityThreshold = 0.85

	// DefaultDeck is the deck cards are exported to when none is named.
	DefaultDeck = "Default"

	// DefaultArticleDir holds local article files and the URL list.
	DefaultArticleDir = "articles"

	// DefaultURLsFile lists article URLs, one per line.
	DefaultURLsFile = "articles/urls.txt"
)

// Settings holds the run configuration consumed by the pipeline core.
type Settings struct {
	// Deck is the target deck or category for exported cards.
	Deck string

	// ToFile exports cards to files instead of the flashcard application.
	ToFile bool

	// CustomPrompt is appended to the generation instructions.
	CustomPrompt string

	// UseCache reuses locally cached article content for URLs.
	UseCache bool

	// AllowDuplicates suppresses rejection; every card is accepted but
	// still inserted into the index.
	AllowDuplicates bool

	// ProcessAll regenerates articles the ledger already marks processed.
	ProcessAll bool

	// SimilarityThreshold is the duplicate rejection threshold in [0,1].
	SimilarityThreshold float64

	// Backend selects the signature backend.
	Backend BackendSelection

	// ArticleDir holds local article files.
	ArticleDir string

	// URLsFile lists article URLs.
	URLsFile string

	// ExtraURLFiles are additional URL list files to read.
	ExtraURLFiles []string
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		Deck:                DefaultDeck,
		SimilarityThreshold: DefaultSimilarityThreshold,
		Backend:             BackendAuto,
		ArticleDir:          DefaultArticleDir,
		URLsFile:            DefaultURLsFile,
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold %v outside [0,1]",
			ErrInvalidInput, s.SimilarityThreshold)
	}
	if !s.Backend.IsValid() {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidInput, s.Backend)
	}
	if s.Deck == "" {
		return fmt.Errorf("%w: deck must not be empty", ErrInvalidInput)
	}
	return nil
}
