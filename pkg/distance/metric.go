// Package distance provides dissimilarity measures between feature vectors.
package distance

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"parknn/pkg/core"
)

// Metric computes a non-negative dissimilarity between two vectors of equal
// length. Implementations are pure and symmetric. The built-in metrics panic
// on vectors of different lengths; use Between for a checked call.
type Metric func(a, b []float64) float64

// Name enumerates the supported metrics.
type Name string

const (
	NameEuclidean Name = "euclidean"
	NameManhattan Name = "manhattan"
	NameChebyshev Name = "chebyshev"
)

// Euclidean is the square root of the sum of squared differences.
func Euclidean(a, b []float64) float64 { return floats.Distance(a, b, 2) }

// Manhattan is the sum of absolute differences.
func Manhattan(a, b []float64) float64 { return floats.Distance(a, b, 1) }

// Chebyshev is the largest absolute difference.
func Chebyshev(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }

// Between applies m after checking that a and b have the same length.
func Between(m Metric, a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, core.Errorf("distance.Between", core.ErrDimensionMismatch, "%d vs %d", len(a), len(b))
	}
	return m(a, b), nil
}

// Function resolves a metric by name.
func (n Name) Function() (Metric, error) {
	switch Name(strings.ToLower(string(n))) {
	case NameEuclidean, "":
		return Euclidean, nil
	case NameManhattan:
		return Manhattan, nil
	case NameChebyshev:
		return Chebyshev, nil
	default:
		return nil, fmt.Errorf("distance: unknown metric %q", string(n))
	}
}
