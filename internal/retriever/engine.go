// Package retriever implements the hybrid retrieval engine: document
// ingestion into immutable chunk sets and query-time ranking that prefers
// the vector backend but falls back silently to lexical scoring.
package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"docqa/internal/classifier"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/lexical"
	"docqa/internal/logger"
	"docqa/internal/normalizer"
)

// DefaultTopK is the default number of chunks returned by Retrieve.
const DefaultTopK = 5

// DefaultVectorTimeout bounds a single vector-backend call. On timeout
// the engine falls back to lexical scoring instead of waiting further.
const DefaultVectorTimeout = 3 * time.Second

// Options assembles an Engine. Embedder and Store are optional as a pair;
// without them every retrieval uses the lexical path.
type Options struct {
	Chunker       domain.Chunker
	Scorer        *lexical.Scorer
	Classifier    *classifier.Classifier
	Embedder      domain.Embedder
	Store         domain.VectorStore
	TopK          int
	VectorTimeout time.Duration
}

// session is the per-document state held for the lifetime of the session.
// The chunk set is immutable after Ingest returns.
type session struct {
	doc      domain.Document
	chunks   []domain.Chunk
	docType  domain.DocumentType
	embedded bool
	dim      int
}

// Engine holds the session registry and implements domain.Retriever.
// Retrieval calls are stateless with respect to each other, so concurrent
// calls only contend on the registry lock.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*session

	chunker       domain.Chunker
	scorer        *lexical.Scorer
	classifier    *classifier.Classifier
	embedder      domain.Embedder
	store         domain.VectorStore
	topK          int
	vectorTimeout time.Duration
}

var _ domain.Retriever = (*Engine)(nil)

// New creates an engine from the given options.
func New(opts Options) *Engine {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	timeout := opts.VectorTimeout
	if timeout <= 0 {
		timeout = DefaultVectorTimeout
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = lexical.NewScorer(lexical.DefaultWeights())
	}
	cls := opts.Classifier
	if cls == nil {
		cls = classifier.New(classifier.DefaultPrefixChunks)
	}
	return &Engine{
		sessions:      make(map[string]*session),
		chunker:       opts.Chunker,
		scorer:        scorer,
		classifier:    cls,
		embedder:      opts.Embedder,
		store:         opts.Store,
		topK:          topK,
		vectorTimeout: timeout,
	}
}

// Ingest normalizes and chunks raw document text, classifies it, and
// indexes chunk vectors on a best-effort basis. A document with no
// extractable text fails with domain.ErrEmptyDocument. Ingesting an ID
// again replaces the previous document.
func (e *Engine) Ingest(ctx context.Context, documentID, filename, raw string) ([]domain.Chunk, error) {
	text := normalizer.Normalize(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, filename)
	}
	doc := domain.Document{
		ID:        documentID,
		Filename:  filename,
		Text:      text,
		CreatedAt: time.Now(),
	}
	chunks, err := e.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", filename, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, filename)
	}

	sess := &session{
		doc:     doc,
		chunks:  chunks,
		docType: e.classifier.Classify(chunks),
	}

	// removal is keyed by document ID, so stale vectors from a prior
	// ingest of this ID must go before the new ones are upserted
	e.mu.RLock()
	_, existed := e.sessions[documentID]
	e.mu.RUnlock()
	if existed && e.store != nil {
		_ = e.store.Remove(documentID)
	}
	sess.embedded, sess.dim = e.indexChunks(ctx, chunks)

	e.mu.Lock()
	e.sessions[documentID] = sess
	e.mu.Unlock()

	logger.Debug("ingested %s: %d chunks, type=%s, vectors=%t",
		filename, len(chunks), sess.docType, sess.embedded)
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// indexChunks embeds and stores chunk vectors. Any failure just disables
// the vector path for this document; it is never surfaced to the caller.
func (e *Engine) indexChunks(ctx context.Context, chunks []domain.Chunk) (bool, int) {
	if e.embedder == nil || e.store == nil {
		return false, 0
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("chunk embedding failed, vector path disabled for %s: %v", chunks[0].DocumentID, err)
		return false, 0
	}
	dim := 0
	for i, vec := range vectors {
		if !embedding.WellFormed(vec, dim) {
			logger.Warn("malformed embedding for chunk %d, vector path disabled", i)
			return false, 0
		}
		dim = len(vec)
		vectors[i] = l2Normalize(vec)
	}
	if err := e.store.Init(dim); err != nil {
		logger.Warn("vector store init failed: %v", err)
		return false, 0
	}
	if err := e.store.Upsert(chunks, vectors); err != nil {
		logger.Warn("vector store upsert failed: %v", err)
		return false, 0
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return true, dim
}

// Retrieve ranks the document's chunks against the query. The vector
// backend is attempted fresh on every call; any failure falls back to
// lexical scoring with no observable difference beyond the method tag.
func (e *Engine) Retrieve(ctx context.Context, documentID, query string, topK int) (domain.RetrievalResult, error) {
	e.mu.RLock()
	sess, ok := e.sessions[documentID]
	e.mu.RUnlock()
	if !ok {
		return domain.RetrievalResult{}, fmt.Errorf("%w: %s", domain.ErrNotFound, documentID)
	}
	if topK <= 0 {
		topK = e.topK
	}

	result := domain.RetrievalResult{
		DocumentType: sess.docType,
		Method:       domain.MethodNone,
	}
	if len(sess.chunks) == 0 {
		return result, nil
	}

	hits, err := e.vectorSearch(ctx, sess, query, topK)
	if err == nil {
		result.Method = domain.MethodVector
		result.Chunks = hits
		return result, nil
	}
	logger.Warn("falling back to lexical scoring for %s: %v", documentID, err)

	result.Method = domain.MethodLexical
	result.Chunks = e.lexicalSearch(sess, query, topK)
	return result, nil
}

// vectorSearch runs the vector path under a bounded timeout. Every
// returned error carries domain.ErrBackendUnavailable semantics and stays
// internal to the engine.
func (e *Engine) vectorSearch(ctx context.Context, sess *session, query string, topK int) ([]domain.ScoredChunk, error) {
	if e.embedder == nil || e.store == nil {
		return nil, fmt.Errorf("%w: no backend configured", domain.ErrBackendUnavailable)
	}
	if !sess.embedded {
		return nil, fmt.Errorf("%w: document has no chunk vectors", domain.ErrBackendUnavailable)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrBackendUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, e.vectorTimeout)
	defer cancel()

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query embedding: %v", domain.ErrBackendUnavailable, err)
	}
	if !embedding.WellFormed(vec, sess.dim) {
		return nil, fmt.Errorf("%w: malformed query vector", domain.ErrBackendUnavailable)
	}
	hits, err := e.store.Search(l2Normalize(vec), topK, sess.doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrBackendUnavailable, err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: no vector results", domain.ErrBackendUnavailable)
	}
	for i := range hits {
		hits[i].Method = domain.MethodVector
	}
	sortRanked(hits)
	return hits, nil
}

// lexicalSearch scores every chunk of the document with the lexical
// scorer. Malformed queries degrade to all-zero scores, never errors.
func (e *Engine) lexicalSearch(sess *session, query string, topK int) []domain.ScoredChunk {
	scored := make([]domain.ScoredChunk, len(sess.chunks))
	for i, ch := range sess.chunks {
		scored[i] = domain.ScoredChunk{
			Chunk:  ch,
			Score:  e.scorer.Score(query, ch.Text),
			Method: domain.MethodLexical,
		}
	}
	sortRanked(scored)
	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK]
}

// sortRanked orders by descending score, ties broken by ascending chunk
// index so identical queries always rank identically.
func sortRanked(hits []domain.ScoredChunk) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Index < hits[j].Chunk.Index
	})
}

func l2Normalize(vec []float64) []float64 {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
