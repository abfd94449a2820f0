package curve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"solxs/pkg/curve"
)

// TestSubtractEqualTrans: with matching transmissions and no concentration
// correction the subtraction is plain pointwise, with uncertainties added
// linearly.
func TestSubtractEqualTrans(t *testing.T) {
	grid := []float64{0.1, 0.2, 0.3}
	s := curve.New(grid)
	s.Intensity = []float64{10, 9, 8}
	s.Err = []float64{1, 1, 1}
	s.Trans = 2

	b := curve.New(grid)
	b.Intensity = []float64{4, 3, 2}
	b.Err = []float64{0.5, 0.5, 0.5}
	b.Trans = 2

	require.NoError(t, s.SubtractBackground(b, 1))
	require.InDeltaSlice(t, []float64{6, 6, 6}, s.Intensity, 1e-12)
	require.InDeltaSlice(t, []float64{1.5, 1.5, 1.5}, s.Err, 1e-12)
}

// TestSubtractTransScaling: the background is scaled by the transmission
// ratio before subtraction.
func TestSubtractTransScaling(t *testing.T) {
	grid := []float64{0.1, 0.2}
	s := curve.New(grid)
	s.Intensity = []float64{10, 10}
	s.Err = []float64{1, 1}
	s.Trans = 4

	b := curve.New(grid)
	b.Intensity = []float64{2, 2}
	b.Err = []float64{0.5, 0.5}
	b.Trans = 2

	require.NoError(t, s.SubtractBackground(b, 1))
	// sc = 4/2 = 2
	require.InDeltaSlice(t, []float64{6, 6}, s.Intensity, 1e-12)
	require.InDeltaSlice(t, []float64{2, 2}, s.Err, 1e-12)
}

// TestSubtractUnsetTransFallsBack: an unassigned transmission on either
// side drops the scale to unity instead of failing.
func TestSubtractUnsetTransFallsBack(t *testing.T) {
	grid := []float64{0.1, 0.2}
	s := curve.New(grid)
	s.Intensity = []float64{10, 10}
	s.Err = []float64{1, 1}

	b := curve.New(grid)
	b.Intensity = []float64{4, 4}
	b.Err = []float64{0.5, 0.5}

	require.NoError(t, s.SubtractBackground(b, 1))
	require.InDeltaSlice(t, []float64{6, 6}, s.Intensity, 1e-12)
}

// TestSubtractConcentrationFactor: the additional scale factor multiplies
// the background contribution.
func TestSubtractConcentrationFactor(t *testing.T) {
	grid := []float64{0.1}
	s := curve.New(grid)
	s.Intensity = []float64{10}
	s.Err = []float64{1}
	s.Trans = 1

	b := curve.New(grid)
	b.Intensity = []float64{4}
	b.Err = []float64{0.5}
	b.Trans = 1

	require.NoError(t, s.SubtractBackground(b, 0.5))
	require.InDelta(t, 8.0, s.Intensity[0], 1e-12)
	require.InDelta(t, 1.25, s.Err[0], 1e-12)
}

// TestSubtractCorrectsOverlapDiagnostics: retained raw overlap arrays are
// background-corrected the same way as the merged data.
func TestSubtractCorrectsOverlapDiagnostics(t *testing.T) {
	grid := []float64{0.1, 0.2}
	s := curve.New(grid)
	s.Intensity = []float64{10, 10}
	s.Err = []float64{1, 1}
	s.Trans = 1
	s.Overlap = &curve.Overlap{
		Q:        []float64{0.15},
		RawSelf:  []float64{10},
		RawOther: []float64{11},
	}

	b := curve.New(grid)
	b.Intensity = []float64{4, 4}
	b.Err = []float64{0.5, 0.5}
	b.Trans = 1
	b.Overlap = &curve.Overlap{
		Q:        []float64{0.15},
		RawSelf:  []float64{4},
		RawOther: []float64{5},
	}

	require.NoError(t, s.SubtractBackground(b, 1))
	require.InDelta(t, 6.0, s.Overlap.RawSelf[0], 1e-12)
	require.InDelta(t, 6.0, s.Overlap.RawOther[0], 1e-12)
}

func TestSubtractGridMismatch(t *testing.T) {
	s := testCurve("s", 20, 100, 15)
	b := testCurve("b", 21, 100, 15)

	err := s.SubtractBackground(b, 1)
	require.Error(t, err)
	var gme *curve.GridMismatchError
	require.True(t, errors.As(err, &gme))
	require.Equal(t, "subtract", gme.Op)
}
