package embedding

import (
	"math"
	"testing"
)

func TestWellFormed(t *testing.T) {
	cases := []struct {
		name string
		vec  []float64
		dim  int
		want bool
	}{
		{"ok without expected dim", []float64{0.1, 0.2}, 0, true},
		{"ok with matching dim", []float64{0.1, 0.2}, 2, true},
		{"empty", nil, 0, false},
		{"wrong dim", []float64{0.1}, 2, false},
		{"nan component", []float64{0.1, math.NaN()}, 2, false},
		{"inf component", []float64{math.Inf(1), 0.2}, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WellFormed(tc.vec, tc.dim); got != tc.want {
				t.Fatalf("WellFormed(%v, %d) = %v, want %v", tc.vec, tc.dim, got, tc.want)
			}
		})
	}
}
