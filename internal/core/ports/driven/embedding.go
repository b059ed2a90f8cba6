package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil or unreachable, the signature
// builder falls back to the lexical backend.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used once at startup to decide the signature backend.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
