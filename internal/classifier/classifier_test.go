package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docqa/internal/domain"
)

func chunksOf(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{Index: i, Text: t}
	}
	return chunks
}

func TestClassifyResearch(t *testing.T) {
	c := New(DefaultPrefixChunks)
	got := c.Classify(chunksOf(
		"Abstract. This study tests the hypothesis that retrieval quality depends on chunking.",
		"Our methodology follows prior research; findings are reported below.",
	))
	assert.Equal(t, domain.TypeResearch, got)
}

func TestClassifyLegal(t *testing.T) {
	c := New(DefaultPrefixChunks)
	got := c.Classify(chunksOf(
		"WHEREAS the parties have entered into this agreement, each party shall indemnify the other.",
		"Liability is limited as set forth herein, pursuant to the governing jurisdiction.",
	))
	assert.Equal(t, domain.TypeLegal, got)
}

func TestClassifyBusiness(t *testing.T) {
	c := New(DefaultPrefixChunks)
	got := c.Classify(chunksOf(
		"Revenue for the quarter exceeded expectations and earnings per share rose.",
		"Each KPI improved; market share grew across all fiscal segments.",
	))
	assert.Equal(t, domain.TypeBusiness, got)
}

func TestClassifyTechnical(t *testing.T) {
	c := New(DefaultPrefixChunks)
	got := c.Classify(chunksOf(
		"Installation instructions: follow the procedure in this manual.",
		"See the troubleshooting section if the configuration fails.",
	))
	assert.Equal(t, domain.TypeTechnical, got)
}

func TestClassifyNoCuesIsGeneral(t *testing.T) {
	c := New(DefaultPrefixChunks)
	got := c.Classify(chunksOf("Once upon a time there was a quiet village by the sea."))
	assert.Equal(t, domain.TypeGeneral, got)
}

func TestClassifyTieBreakPrefersResearch(t *testing.T) {
	c := New(DefaultPrefixChunks)
	// one strong cue each, equal weight: the higher-priority category wins
	got := c.Classify(chunksOf("The methodology section discusses liability."))
	assert.Equal(t, domain.TypeResearch, got)
}

func TestClassifyScansOnlyThePrefix(t *testing.T) {
	c := New(1)
	got := c.Classify(chunksOf(
		"A plain introductory passage with no special vocabulary at all.",
		"Revenue, earnings, KPI, quarterly profit and fiscal results everywhere.",
	))
	assert.Equal(t, domain.TypeGeneral, got)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := New(DefaultPrefixChunks)
	got := c.Classify(chunksOf("REVENUE and EARNINGS were up this QUARTER."))
	assert.Equal(t, domain.TypeBusiness, got)
}

func TestClassifyEmptyChunksIsGeneral(t *testing.T) {
	c := New(DefaultPrefixChunks)
	assert.Equal(t, domain.TypeGeneral, c.Classify(nil))
}
