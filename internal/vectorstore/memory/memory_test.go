package memory

import (
	"testing"

	"docqa/internal/domain"
)

func chunk(docID string, idx int) domain.Chunk {
	return domain.Chunk{DocumentID: docID, ID: docID + ":" + string(rune('0'+idx)), Index: idx}
}

func TestSearchRanksByCosine(t *testing.T) {
	s := NewStorage()
	if err := s.Init(2); err != nil {
		t.Fatalf("init: %v", err)
	}
	chunks := []domain.Chunk{chunk("d", 0), chunk("d", 1), chunk("d", 2)}
	vectors := [][]float64{{1, 0}, {0, 1}, {0.707, 0.707}}
	if err := s.Upsert(chunks, vectors); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := s.Search([]float64{1, 0}, 3, "d")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Chunk.Index != 0 {
		t.Fatalf("expected chunk 0 on top, got %d", hits[0].Chunk.Index)
	}
	if hits[0].Score <= hits[1].Score || hits[1].Score <= hits[2].Score {
		t.Fatalf("scores not descending: %v %v %v", hits[0].Score, hits[1].Score, hits[2].Score)
	}
}

func TestSearchFiltersByDocument(t *testing.T) {
	s := NewStorage()
	if err := s.Init(2); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Upsert(
		[]domain.Chunk{chunk("a", 0), chunk("b", 0)},
		[][]float64{{1, 0}, {1, 0}},
	); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	hits, err := s.Search([]float64{1, 0}, 5, "a")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Chunk.DocumentID != "a" {
		t.Fatalf("expected only document a, got %+v", hits)
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	s := NewStorage()
	if err := s.Init(1); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Upsert(
		[]domain.Chunk{chunk("d", 0), chunk("d", 1), chunk("d", 2)},
		[][]float64{{0.9}, {0.5}, {0.1}},
	); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	hits, err := s.Search([]float64{1}, 2, "d")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
}

func TestSearchRejectsNonPositiveTopK(t *testing.T) {
	s := NewStorage()
	if err := s.Init(1); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.Search([]float64{1}, 0, "d"); err == nil {
		t.Fatal("expected error for non-positive topK")
	}
	if _, err := s.Search([]float64{1}, -3, "d"); err == nil {
		t.Fatal("expected error for negative topK")
	}
}

func TestInitRejectsDimensionChange(t *testing.T) {
	s := NewStorage()
	if err := s.Init(3); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Init(4); err == nil {
		t.Fatal("expected error on dimension change")
	}
	if err := s.Init(3); err != nil {
		t.Fatalf("re-init with same dimension should work: %v", err)
	}
}

func TestUpsertRejectsMismatchedVectors(t *testing.T) {
	s := NewStorage()
	if err := s.Init(2); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Upsert([]domain.Chunk{chunk("d", 0)}, [][]float64{{1, 0, 0}}); err == nil {
		t.Fatal("expected error for wrong vector dimension")
	}
	if err := s.Upsert([]domain.Chunk{chunk("d", 0), chunk("d", 1)}, [][]float64{{1, 0}}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRemoveDropsDocumentVectors(t *testing.T) {
	s := NewStorage()
	if err := s.Init(1); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Upsert(
		[]domain.Chunk{chunk("a", 0), chunk("b", 0)},
		[][]float64{{1}, {1}},
	); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	hits, err := s.Search([]float64{1}, 5, "a")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits for removed document, got %d", len(hits))
	}
	hits, err = s.Search([]float64{1}, 5, "b")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected document b untouched, got %d hits", len(hits))
	}
}
