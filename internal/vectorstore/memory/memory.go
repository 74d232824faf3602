// Package memory is an in-memory vector store using brute-force cosine
// similarity over L2-normalized vectors.
package memory

import (
	"errors"
	"sort"
	"sync"

	"docqa/internal/domain"
)

// Storage holds chunk vectors for the lifetime of the session.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension != 0 && s.dimension != dimension {
		return errors.New("dimension mismatch with existing index")
	}
	s.dimension = dimension
	return nil
}

func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the top-k chunks of the given document by cosine
// similarity, ties broken by ascending chunk index.
func (s *Storage) Search(vector []float64, topK int, documentID string) ([]domain.ScoredChunk, error) {
	// the caller owns the top-k default; a non-positive value here is a bug
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []domain.ScoredChunk
	for i := range s.vectors {
		if s.chunks[i].DocumentID != documentID {
			continue
		}
		hits = append(hits, domain.ScoredChunk{
			Chunk: s.chunks[i],
			Score: dot(s.vectors[i], vector),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Index < hits[j].Chunk.Index
	})
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

// Remove drops all vectors belonging to a document.
func (s *Storage) Remove(documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := s.chunks[:0]
	vectors := s.vectors[:0]
	for i := range s.chunks {
		if s.chunks[i].DocumentID == documentID {
			continue
		}
		chunks = append(chunks, s.chunks[i])
		vectors = append(vectors, s.vectors[i])
	}
	s.chunks = chunks
	s.vectors = vectors
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
