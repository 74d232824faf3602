// Package embedding holds vector hygiene shared by the embedding
// providers and the retrieval engine. The provider port itself lives in
// the domain package.
package embedding

import "math"

// WellFormed reports whether a vector is usable for similarity search:
// non-empty, the expected dimensionality (when dim > 0), and free of
// NaN/Inf components. Any malformed vector makes the backend count as
// unavailable for that call.
func WellFormed(vec []float64, dim int) bool {
	if len(vec) == 0 {
		return false
	}
	if dim > 0 && len(vec) != dim {
		return false
	}
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
