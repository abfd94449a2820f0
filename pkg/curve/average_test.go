package curve_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"solxs/pkg/curve"
)

// TestAverageSingle: averaging with no additional curves is the identity.
func TestAverageSingle(t *testing.T) {
	a := testCurve("run1", 30, 500, 18)
	a.Trans = 2.5
	wantI := append([]float64(nil), a.Intensity...)
	wantE := append([]float64(nil), a.Err...)

	require.NoError(t, a.Average(nil))
	require.Equal(t, 2.5, a.Trans)
	require.Equal(t, wantI, a.Intensity)
	require.Equal(t, wantE, a.Err)
}

// TestAveragePair: intensities and transmissions average arithmetically;
// the summed uncertainty is divided by sqrt(n).
func TestAveragePair(t *testing.T) {
	grid := []float64{0.1, 0.2, 0.3}
	a := curve.New(grid)
	a.Intensity = []float64{1, 1, 1}
	a.Err = []float64{0.2, 0.2, 0.2}
	a.Trans = 2
	a.Label = "lys_r1"

	b := curve.New(grid)
	b.Intensity = []float64{3, 3, 3}
	b.Err = []float64{0.4, 0.4, 0.4}
	b.Trans = 4
	b.Label = "lys_r2"

	require.NoError(t, a.Average([]*curve.Curve{b}))
	require.Equal(t, 3.0, a.Trans)
	require.InDeltaSlice(t, []float64{2, 2, 2}, a.Intensity, 1e-12)
	for _, e := range a.Err {
		require.InDelta(t, 0.6/math.Sqrt(2), e, 1e-12)
	}
	require.Equal(t, "lys_r", a.Label)
}

func TestAverageNestsProvenance(t *testing.T) {
	grid := []float64{0.1, 0.2}
	a := curve.New(grid)
	a.Label = "r1"
	b := curve.New(grid)
	b.Label = "r2"
	b.Comments = "# loaded from r2.tif\n"

	require.NoError(t, a.Average([]*curve.Curve{b}))
	require.Contains(t, a.Comments, "## loaded from r2.tif")
}

func TestAverageGridMismatch(t *testing.T) {
	a := testCurve("a", 30, 500, 18)
	b := testCurve("b", 31, 500, 18)

	err := a.Average([]*curve.Curve{b})
	require.Error(t, err)
	var gme *curve.GridMismatchError
	require.True(t, errors.As(err, &gme))
	require.Equal(t, "average", gme.Op)
}
