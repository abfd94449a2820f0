package analyze_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/floats"

	"solxs/pkg/analyze"
	"solxs/pkg/curve"
)

// scatteringCurve builds a Guinier-shaped curve over [0.01, 1.0].
func scatteringCurve(i0, rg float64, n int) *curve.Curve {
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = 0.01 + (1.0-0.01)*float64(i)/float64(n-1)
	}
	c := curve.New(grid)
	for i, q := range grid {
		c.Intensity[i] = i0 * math.Exp(-q*q*rg*rg/3)
		c.Err[i] = 0.01 * c.Intensity[i]
	}
	return c
}

// TestPairDistanceNormalized: the distribution always sums to 1.
func TestPairDistanceNormalized(t *testing.T) {
	c := scatteringCurve(5000, 20, 200)

	pr, err := analyze.PairDistance(c, 5000, 20, 1.2, 100)
	require.NoError(t, err)
	require.Len(t, pr, 100)
	require.InDelta(t, 1.0, floats.Sum(pr), 1e-9)
	for i, v := range pr {
		require.False(t, math.IsNaN(v), "P(r) is NaN at r=%d", i)
	}
}

// TestPairDistancePeak: for a Guinier-shaped curve of Rg 20 the distribution
// must vanish at r=0 and peak near 2·Rg/sqrt(3) ≈ 23 Å.
func TestPairDistancePeak(t *testing.T) {
	c := scatteringCurve(5000, 20, 200)

	pr, err := analyze.PairDistance(c, 5000, 20, 1.2, 100)
	require.NoError(t, err)
	require.Zero(t, pr[0])

	peak := floats.MaxIdx(pr)
	require.Greater(t, peak, 15)
	require.Less(t, peak, 32)
}

// TestPairDistanceCutoffClamped: a cutoff beyond the measured range is
// clamped to the curve's maximum rather than extrapolated.
func TestPairDistanceCutoffClamped(t *testing.T) {
	c := scatteringCurve(5000, 20, 100)

	pr, err := analyze.PairDistance(c, 5000, 20, 10, 50)
	require.NoError(t, err)
	require.InDelta(t, 1.0, floats.Sum(pr), 1e-9)
}

func TestPairDistanceDegenerate(t *testing.T) {
	c := scatteringCurve(5000, 20, 100)

	_, err := analyze.PairDistance(c, 5000, 20, 1.2, 0)
	require.Error(t, err)

	short := curve.New([]float64{0.1})
	_, err = analyze.PairDistance(short, 5000, 20, 1.2, 50)
	require.Error(t, err)
}
