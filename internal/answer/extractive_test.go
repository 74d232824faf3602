package answer

import (
	"context"
	"strings"
	"testing"

	"docqa/internal/domain"
)

func resultWith(texts ...string) domain.RetrievalResult {
	r := domain.RetrievalResult{Method: domain.MethodLexical}
	for i, t := range texts {
		r.Chunks = append(r.Chunks, domain.ScoredChunk{
			Chunk: domain.Chunk{Index: i, Text: t},
			Score: 1.0 / float64(i+1),
		})
	}
	return r
}

func TestExtractiveNoChunks(t *testing.T) {
	g := NewExtractive(3)
	got, err := g.Generate(context.Background(), "anything", "doc.txt", domain.RetrievalResult{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "No relevant passages") {
		t.Fatalf("expected a no-results message, got %q", got)
	}
}

func TestExtractivePrefersQuerySentences(t *testing.T) {
	g := NewExtractive(1)
	result := resultWith(
		"The weather was mild all week. Quarterly revenue increased by twelve percent. Nobody commented on the cafeteria.",
	)
	got, err := g.Generate(context.Background(), "revenue increase", "report.txt", result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "revenue increased") {
		t.Fatalf("expected the revenue sentence, got %q", got)
	}
	if strings.Contains(got, "cafeteria") {
		t.Fatalf("unrelated sentence should not be selected, got %q", got)
	}
}

func TestExtractiveKeepsReadingOrder(t *testing.T) {
	g := NewExtractive(2)
	result := resultWith(
		"Alpha systems failed early. Filler text with nothing at all. Alpha systems recovered later.",
	)
	got, err := g.Generate(context.Background(), "alpha systems", "log.txt", result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	early := strings.Index(got, "failed early")
	later := strings.Index(got, "recovered later")
	if early == -1 || later == -1 {
		t.Fatalf("expected both alpha sentences, got %q", got)
	}
	if early > later {
		t.Fatalf("sentences out of reading order: %q", got)
	}
}

func TestExtractiveNamesTheFile(t *testing.T) {
	g := NewExtractive(3)
	got, err := g.Generate(context.Background(), "anything", "report.pdf", resultWith("A short sentence."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "report.pdf") {
		t.Fatalf("expected the filename in the answer, got %q", got)
	}
}

func TestBuildContextAnnotatesRelevance(t *testing.T) {
	ctxBlock := BuildContext("doc.txt", resultWith("First passage.", "Second passage."))
	if !strings.Contains(ctxBlock, "[From doc.txt - Relevance: 1.000]") {
		t.Fatalf("expected relevance annotation, got %q", ctxBlock)
	}
	if !strings.Contains(ctxBlock, "\n---\n") {
		t.Fatalf("expected passage separator, got %q", ctxBlock)
	}
	if BuildContext("doc.txt", domain.RetrievalResult{}) != "" {
		t.Fatal("expected empty context for no chunks")
	}
}
