package answer

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/domain"
)

// Extractive is the offline answer mode: it ranks sentences of the
// retrieved passages by stopword-filtered token frequency and returns the
// best ones in reading order. It requires no external provider and never
// fails, so the host can always produce a response.
type Extractive struct {
	maxSentences int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewExtractive creates the offline generator returning at most
// maxSentences sentences.
func NewExtractive(maxSentences int) *Extractive {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return &Extractive{
		maxSentences: maxSentences,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this generator.
func (g *Extractive) Name() string { return "extractive" }

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Generate returns the most query-relevant sentences of the retrieved
// passages, prefixed with a note that this is an extract, not a
// generated answer.
func (g *Extractive) Generate(_ context.Context, query, filename string, result domain.RetrievalResult) (string, error) {
	if len(result.Chunks) == 0 {
		return "No relevant passages were found in " + filename + " for this question.", nil
	}
	var b strings.Builder
	for _, sc := range result.Chunks {
		b.WriteString(sc.Chunk.Text)
		b.WriteString(" ")
	}
	text := b.String()

	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}

	// Token frequencies over the passages, boosted for query terms so the
	// extract leans toward what was asked.
	queryTokens := make(map[string]struct{})
	for _, tok := range g.tokens(query) {
		queryTokens[tok] = struct{}{}
	}
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range g.tokens(sent) {
			if _, ok := g.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
			if _, ok := queryTokens[tok]; ok {
				freq[tok] += 2
			}
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		s := 0.0
		toks := g.tokens(sent)
		for _, tok := range toks {
			if v, ok := freq[tok]; ok {
				s += v
			}
		}
		if l := float64(len(toks)); l > 0 {
			// dampen the long-sentence bias
			s /= math.Sqrt(l)
		}
		scores[i] = ranked{i, s}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := g.maxSentences
	if n > len(scores) {
		n = len(scores)
	}
	selected := make([]int, n)
	for i := 0; i < n; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	var out []string
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return "Most relevant passages from " + filename + ":\n\n" + strings.Join(out, " "), nil
}

func (g *Extractive) tokens(text string) []string {
	return g.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
