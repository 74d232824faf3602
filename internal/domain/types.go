package domain

import "time"

// Document is a single uploaded text held in memory for the session.
// Text is the normalized form; the raw extracted text is not retained.
type Document struct {
	ID        string
	Filename  string
	Text      string
	CreatedAt time.Time
}

// Chunk is a contiguous, bounded segment of a document used as the unit
// of retrieval. Start and End are byte offsets into the normalized
// document text, so a chunk can always be traced back to its source span.
// Chunks are immutable once ingestion completes.
type Chunk struct {
	DocumentID string
	ID         string
	Index      int
	Text       string
	Start      int
	End        int
	Embedding  []float64
}

// ScoringMethod identifies which similarity path produced a score.
type ScoringMethod string

const (
	MethodVector  ScoringMethod = "vector"
	MethodLexical ScoringMethod = "lexical"
	MethodNone    ScoringMethod = "none"
)

// DocumentType is the advisory category detected from chunk content.
type DocumentType string

const (
	TypeResearch  DocumentType = "research"
	TypeLegal     DocumentType = "legal"
	TypeBusiness  DocumentType = "business"
	TypeTechnical DocumentType = "technical"
	TypeGeneral   DocumentType = "general"
)

// ScoredChunk is a chunk paired with a similarity score for one query.
// It is ephemeral and never persisted beyond a single retrieval call.
type ScoredChunk struct {
	Chunk  Chunk
	Score  float64
	Method ScoringMethod
}

// RetrievalResult is the ranked outcome of a single Retrieve call:
// chunks ordered by descending score with ties broken by ascending chunk
// index, the advisory document type, and the scoring method actually used.
type RetrievalResult struct {
	Chunks       []ScoredChunk
	DocumentType DocumentType
	Method       ScoringMethod
}
