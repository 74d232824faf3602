package domain

import "context"

// Chunker splits documents into chunks suitable for retrieval.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations wrap an external provider; calls are bounded by ctx.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStore persists chunk vectors and supports similarity search
// scoped to a single document.
type VectorStore interface {
	Init(dimension int) error
	Upsert(chunks []Chunk, vectors [][]float64) error
	Search(vector []float64, topK int, documentID string) ([]ScoredChunk, error)
	Remove(documentID string) error
	Clear() error
}

// Retriever is the engine boundary the surrounding application calls.
type Retriever interface {
	Ingest(ctx context.Context, documentID, filename, raw string) ([]Chunk, error)
	Retrieve(ctx context.Context, documentID, query string, topK int) (RetrievalResult, error)
}
