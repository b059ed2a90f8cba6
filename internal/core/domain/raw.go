package domain

// RawArticle represents opaque bytes fetched from a source location.
// It is the fetcher's output before normalisation.
type RawArticle struct {
	// Identity is the content identity derived by the fetcher.
	Identity string

	// URI is the original location (URL or file path).
	URI string

	// MIMEType is the content type (e.g. "text/html").
	MIMEType string

	// Title is a title hint from the source, if any.
	Title string

	// Content is the raw bytes.
	Content []byte

	// FromCache is true when the content came from the local fetch cache.
	FromCache bool
}
