package pipeline

import (
	"solxs/pkg/analyze"
	"solxs/pkg/curve"
)

// Observer receives diagnostic callbacks at fixed points of the pipeline:
// after a merge, after replicate averaging, after background subtraction,
// after the Guinier fit and after the pair-distance transform. It exists
// for plotting and inspection only; implementations must not mutate the
// curves they are handed. A nil observer is always accepted.
type Observer interface {
	Merged(c *curve.Curve)
	Averaged(avg *curve.Curve, inputs []*curve.Curve)
	Subtracted(sample, background *curve.Curve, scFactor float64)
	GuinierFitted(c *curve.Curve, fit analyze.GuinierResult)
	PairDistanceComputed(r, pr []float64)
}

// NopObserver implements Observer with no-ops. Embed it to implement only
// the hooks of interest.
type NopObserver struct{}

func (NopObserver) Merged(*curve.Curve) {}

func (NopObserver) Averaged(*curve.Curve, []*curve.Curve) {}

func (NopObserver) Subtracted(*curve.Curve, *curve.Curve, float64) {}

func (NopObserver) GuinierFitted(*curve.Curve, analyze.GuinierResult) {}

func (NopObserver) PairDistanceComputed([]float64, []float64) {}
