package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parknn/pkg/core"
)

func TestEuclidean(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2), Euclidean([]float64{0, 0}, []float64{1, 1}), 1e-12)
	assert.InDelta(t, math.Sqrt(162), Euclidean([]float64{10, 10}, []float64{1, 1}), 1e-12)
	assert.InDelta(t, 5.0, Euclidean([]float64{0, 0}, []float64{3, 4}), 1e-12)
}

func TestMetrics_SymmetricAndZeroOnSelf(t *testing.T) {
	vectors := [][]float64{
		{0, 0, 0},
		{1, -2, 3.5},
		{-7.25, 0.5, 1e3},
		{1e-9, 2, -4},
	}
	for _, name := range []Name{NameEuclidean, NameManhattan, NameChebyshev} {
		m, err := name.Function()
		require.NoError(t, err)
		for _, a := range vectors {
			assert.Equal(t, 0.0, m(a, a), "%s(a, a)", name)
			for _, b := range vectors {
				assert.Equal(t, m(a, b), m(b, a), "%s symmetry", name)
				assert.GreaterOrEqual(t, m(a, b), 0.0)
			}
		}
	}
}

func TestManhattanAndChebyshev(t *testing.T) {
	a, b := []float64{1, 5, -2}, []float64{4, 1, -2}
	assert.Equal(t, 7.0, Manhattan(a, b))
	assert.Equal(t, 4.0, Chebyshev(a, b))
}

func TestBetween_DimensionMismatch(t *testing.T) {
	_, err := Between(Euclidean, []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	d, err := Between(Euclidean, []float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)
}

func TestMetrics_UncheckedLengths(t *testing.T) {
	a, b := []float64{1, 2, 3}, []float64{1, 2}
	for _, m := range []Metric{Euclidean, Manhattan, Chebyshev} {
		assert.Panics(t, func() { m(a, b) })
		_, err := Between(m, a, b)
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	}
}

func TestFunction(t *testing.T) {
	m, err := Name("").Function()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, m([]float64{0, 0}, []float64{3, 4}), 1e-12)

	_, err = Name("EUCLIDEAN").Function()
	assert.NoError(t, err)

	_, err = Name("cosine").Function()
	assert.Error(t, err)
}
