// Package answer turns ranked passages into a response for the user.
// It is the downstream collaborator of the retrieval engine: an
// OpenAI-backed generator when a chat model is configured, and an
// extractive offline mode otherwise.
package answer

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/domain"
)

// Generator produces an answer from ranked passages.
type Generator interface {
	Name() string
	Generate(ctx context.Context, query, filename string, result domain.RetrievalResult) (string, error)
}

// BuildContext renders the retrieved passages into the context block fed
// to a generator, annotated with source and relevance for traceability.
func BuildContext(filename string, result domain.RetrievalResult) string {
	if len(result.Chunks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(result.Chunks))
	for _, sc := range result.Chunks {
		parts = append(parts, fmt.Sprintf("[From %s - Relevance: %.3f]\n%s\n", filename, sc.Score, sc.Chunk.Text))
	}
	return strings.Join(parts, "\n---\n")
}
