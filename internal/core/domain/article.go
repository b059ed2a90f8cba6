package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Article represents a source document after fetching and normalisation.
// It is created once per ingestion and never mutated afterwards.
type Article struct {
	// Identity is the stable content identity: sha256 of the canonical
	// URL for web articles, or of the file content for local articles.
	Identity string

	// URL is the original web location, empty for local articles.
	URL string

	// FilePath is the local file location, empty for web articles.
	FilePath string

	// Title is the human-readable title.
	Title string

	// Text is the extracted article text after normalisation.
	Text string

	// FetchedAt is when the article content was obtained.
	FetchedAt time.Time
}

// Origin returns the article's source location for display.
func (a *Article) Origin() string {
	if a.URL != "" {
		return a.URL
	}
	return a.FilePath
}

// DisplayTitle returns the title, falling back to the origin.
func (a *Article) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Origin()
}

// IdentityFromURL derives the content identity for a web article.
// The URL is canonicalised (trimmed, fragment stripped) before hashing
// so trivially different spellings map to the same identity.
func IdentityFromURL(url string) string {
	canonical := strings.TrimSpace(url)
	if i := strings.IndexByte(canonical, '#'); i >= 0 {
		canonical = canonical[:i]
	}
	canonical = strings.TrimRight(canonical, "/")
	return hashHex([]byte(canonical))
}

// IdentityFromContent derives the content identity for a local article.
// Hashing the bytes rather than the path means a renamed or moved file
// is still recognised as already processed.
func IdentityFromContent(content []byte) string {
	return hashHex(content)
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
