// Package lexical scores query/chunk similarity from token and keyword
// overlap, independent of any embedding backend.
package lexical

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"docqa/internal/domain"
)

// Weights combines the three sub-scores. They are configuration, not
// constants baked into the scoring logic.
type Weights struct {
	Jaccard   float64
	Substring float64
	WordMatch float64
}

// DefaultWeights returns the default 0.4/0.3/0.3 blend.
func DefaultWeights() Weights {
	return Weights{Jaccard: 0.4, Substring: 0.3, WordMatch: 0.3}
}

// Validate rejects negative weights and weights not summing to 1
// within tolerance.
func (w Weights) Validate() error {
	if w.Jaccard < 0 || w.Substring < 0 || w.WordMatch < 0 {
		return fmt.Errorf("%w: lexical weights must be non-negative", domain.ErrInvalidConfiguration)
	}
	if sum := w.Jaccard + w.Substring + w.WordMatch; math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: lexical weights sum to %g, want 1.0", domain.ErrInvalidConfiguration, sum)
	}
	return nil
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

// Scorer computes a weighted blend of Jaccard similarity, verbatim
// substring match, and word-match ratio. Scoring is case-insensitive and
// never fails: malformed or empty queries degrade to 0.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights. Callers validate
// weights at configuration time.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score returns a similarity in [0,1] between query and chunk text.
func (s *Scorer) Score(query, text string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	t := strings.ToLower(text)

	qset := tokenSet(q)
	tset := tokenSet(t)

	var jaccard float64
	if len(qset) > 0 && len(tset) > 0 {
		inter := 0
		union := len(tset)
		for tok := range qset {
			if _, ok := tset[tok]; ok {
				inter++
			} else {
				union++
			}
		}
		jaccard = float64(inter) / float64(union)
	}

	var substring float64
	if strings.Contains(t, q) {
		substring = 1.0
	}

	var wordMatch float64
	if len(qset) > 0 {
		hits := 0
		for tok := range qset {
			if _, ok := tset[tok]; ok {
				hits++
			}
		}
		wordMatch = float64(hits) / float64(len(qset))
	}

	score := s.weights.Jaccard*jaccard + s.weights.Substring*substring + s.weights.WordMatch*wordMatch
	return clamp01(score)
}

func tokenSet(lower string) map[string]struct{} {
	tokens := tokenPattern.FindAllString(lower, -1)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
