package plotobs_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"solxs/pkg/analyze"
	"solxs/pkg/curve"
	"solxs/pkg/plotobs"
)

func sampleCurve(label string) *curve.Curve {
	grid := make([]float64, 50)
	for i := range grid {
		grid[i] = 0.01 + 0.005*float64(i)
	}
	c := curve.New(grid)
	for i, q := range grid {
		c.Intensity[i] = 1000 * math.Exp(-q*q*400/3)
		c.Err[i] = 0.01 * c.Intensity[i]
	}
	c.Label = label
	return c
}

func requirePNG(t *testing.T, dir, name string) {
	t.Helper()
	fi, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err, "expected %s to be written", name)
	require.Greater(t, fi.Size(), int64(0))
}

func TestPlotterWritesFiles(t *testing.T) {
	dir := t.TempDir()
	p := plotobs.New(dir)
	require.Equal(t, 1.5, p.Offset)

	merged := sampleCurve("lys_c1")
	merged.Overlap = &curve.Overlap{
		Q:        merged.Grid[10:20],
		RawSelf:  merged.Intensity[10:20],
		RawOther: merged.Intensity[10:20],
	}
	p.Merged(merged)
	requirePNG(t, dir, "lys_c1_merged.png")

	avg := sampleCurve("lys_r")
	p.Averaged(avg, []*curve.Curve{sampleCurve("lys_r1"), sampleCurve("lys_r2")})
	requirePNG(t, dir, "lys_r_averaged.png")

	p.Subtracted(sampleCurve("lys"), sampleCurve("buf"), 0.996)
	requirePNG(t, dir, "lys_subtracted.png")

	fit := analyze.GuinierResult{I0: 1000, Rg: 20, QS: 0.01, QE: 0.05, NPoints: 9}
	p.GuinierFitted(sampleCurve("lys"), fit)
	requirePNG(t, dir, "lys_guinier.png")

	r := make([]float64, 80)
	pr := make([]float64, 80)
	for i := range r {
		r[i] = float64(i)
		pr[i] = math.Exp(-math.Pow(float64(i)-25, 2) / 200)
	}
	p.PairDistanceComputed(r, pr)
	requirePNG(t, dir, "pair_distance.png")
}

// TestPlotterSanitizesNames: path separators in a label must not escape Dir.
func TestPlotterSanitizesNames(t *testing.T) {
	dir := t.TempDir()
	p := plotobs.New(dir)

	c := sampleCurve("run 1/lys")
	p.Averaged(c, nil)
	requirePNG(t, dir, "run_1_lys_averaged.png")
}
