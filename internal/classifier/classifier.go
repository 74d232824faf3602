// Package classifier detects an advisory document type from chunk content
// so the downstream answer generator can specialize its prompting.
package classifier

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

// DefaultPrefixChunks bounds how many leading chunks are inspected.
const DefaultPrefixChunks = 5

// keyword carries a cue term and its weight toward a category.
type keyword struct {
	term   string
	weight int
}

// Cue tables per category. Strong discriminators weigh 2, weaker ones 1.
var cues = map[domain.DocumentType][]keyword{
	domain.TypeResearch: {
		{"methodology", 2}, {"hypothesis", 2}, {"abstract", 2},
		{"study", 1}, {"research", 1}, {"findings", 1}, {"experiment", 1},
		{"literature", 1}, {"et al", 1},
	},
	domain.TypeLegal: {
		{"whereas", 2}, {"indemnify", 2}, {"liability", 2},
		{"herein", 2}, {"pursuant", 2}, {"agreement", 1}, {"clause", 1},
		{"contract", 1}, {"jurisdiction", 1},
	},
	domain.TypeBusiness: {
		{"revenue", 2}, {"kpi", 2}, {"earnings", 2},
		{"quarter", 1}, {"quarterly", 1}, {"profit", 1}, {"fiscal", 1},
		{"stakeholder", 1}, {"market share", 1},
	},
	domain.TypeTechnical: {
		{"installation", 2}, {"troubleshooting", 2}, {"configuration", 1},
		{"manual", 1}, {"procedure", 1}, {"instructions", 1}, {"api", 1},
		{"specification", 1},
	},
}

// priority is the fixed tie-break order; earlier wins.
var priority = []domain.DocumentType{
	domain.TypeResearch,
	domain.TypeLegal,
	domain.TypeBusiness,
	domain.TypeTechnical,
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Classifier scans a bounded prefix of a document's chunks for weighted
// keyword hits per category.
type Classifier struct {
	prefixChunks int
}

// New creates a classifier inspecting the first prefixChunks chunks.
func New(prefixChunks int) *Classifier {
	if prefixChunks <= 0 {
		prefixChunks = DefaultPrefixChunks
	}
	return &Classifier{prefixChunks: prefixChunks}
}

// Classify returns the category with the highest weighted hit count over
// the chunk prefix. Ties go to the higher-priority category; zero hits in
// every category yields TypeGeneral. Classification is advisory metadata
// and never blocks retrieval.
func (c *Classifier) Classify(chunks []domain.Chunk) domain.DocumentType {
	limit := c.prefixChunks
	if limit > len(chunks) {
		limit = len(chunks)
	}
	var b strings.Builder
	for i := 0; i < limit; i++ {
		b.WriteString(chunks[i].Text)
		b.WriteByte(' ')
	}
	// normalize to single-space-separated lower-case words so multi-word
	// cues match across punctuation
	text := " " + nonWord.ReplaceAllString(strings.ToLower(b.String()), " ") + " "

	best := domain.TypeGeneral
	bestScore := 0
	for _, cat := range priority {
		score := 0
		for _, kw := range cues[cat] {
			score += kw.weight * strings.Count(text, " "+kw.term+" ")
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}
