package lexical

import (
	"errors"
	"testing"

	"docqa/internal/domain"
)

func TestScoreIdenticalTextIsOne(t *testing.T) {
	s := NewScorer(DefaultWeights())
	got := s.Score("machine learning systems", "machine learning systems")
	if got != 1.0 {
		t.Fatalf("expected 1.0, got %g", got)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	s := NewScorer(DefaultWeights())
	a := s.Score("Revenue Growth", "the revenue growth was strong")
	b := s.Score("revenue growth", "the revenue growth was strong")
	if a != b {
		t.Fatalf("case should not matter: %g vs %g", a, b)
	}
}

func TestScoreEmptyQueryIsZero(t *testing.T) {
	s := NewScorer(DefaultWeights())
	if got := s.Score("   ", "some text"); got != 0 {
		t.Fatalf("expected 0 for blank query, got %g", got)
	}
}

func TestScoreVerbatimPhraseOutranksScatteredTokens(t *testing.T) {
	s := NewScorer(DefaultWeights())
	query := "revenue growth"
	verbatim := "The company reported strong revenue growth this quarter."
	scattered := "Growth in expenses offset revenue declines across several segments."
	if sv, ss := s.Score(query, verbatim), s.Score(query, scattered); sv <= ss {
		t.Fatalf("verbatim match %g should outrank scattered tokens %g", sv, ss)
	}
}

func TestScoreNoOverlapIsZero(t *testing.T) {
	s := NewScorer(DefaultWeights())
	if got := s.Score("quantum physics", "annual shareholder meeting minutes"); got != 0 {
		t.Fatalf("expected 0 with no overlap, got %g", got)
	}
}

func TestScoreWithinBounds(t *testing.T) {
	s := NewScorer(DefaultWeights())
	queries := []string{"a", "the quick brown fox", "revenue", "growth growth growth"}
	text := "The quick brown fox jumps over the lazy dog. Revenue growth was modest."
	for _, q := range queries {
		if got := s.Score(q, text); got < 0 || got > 1 {
			t.Fatalf("score %g for query %q out of [0,1]", got, q)
		}
	}
}

func TestWeightsValidate(t *testing.T) {
	cases := []struct {
		name    string
		weights Weights
		ok      bool
	}{
		{"defaults", DefaultWeights(), true},
		{"custom", Weights{Jaccard: 0.5, Substring: 0.25, WordMatch: 0.25}, true},
		{"negative", Weights{Jaccard: -0.1, Substring: 0.6, WordMatch: 0.5}, false},
		{"sum below one", Weights{Jaccard: 0.2, Substring: 0.2, WordMatch: 0.2}, false},
		{"sum above one", Weights{Jaccard: 0.5, Substring: 0.5, WordMatch: 0.5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.weights.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if !errors.Is(err, domain.ErrInvalidConfiguration) {
					t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
				}
			}
		})
	}
}
