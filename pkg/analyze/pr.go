package analyze

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"solxs/pkg/curve"
)

// PairDistance computes the pair-distance distribution P(r) implied by a
// reduced, background-corrected curve, for an isotropic scatterer.
//
// The curve is resampled onto a uniform grid of len(c.Grid) points spanning
// [0, qmax) (qmax clamped to the measured maximum). The inaccessible
// low-angle gap, q·Rg < 1, is filled with the Guinier model I0·exp(-(q·Rg)²/3);
// a raised-cosine (Hann) taper suppresses ringing from the finite-angle
// truncation. P(r) is then the discrete sum over the grid of
//
//	r²·sinc(q·r) · I(q) · q²
//
// for each r in {0, 1, ..., dmax-1}, normalized to unit sum.
func PairDistance(c *curve.Curve, i0, rg, qmax float64, dmax int) ([]float64, error) {
	n := len(c.Grid)
	if n < 2 {
		return nil, fmt.Errorf("pair distance: curve has %d points", n)
	}
	if dmax < 1 {
		return nil, fmt.Errorf("pair distance: dmax %d is not positive", dmax)
	}
	if c.Grid[n-1] < qmax {
		qmax = c.Grid[n-1]
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(c.Grid, c.Intensity); err != nil {
		return nil, fmt.Errorf("pair distance: %w", err)
	}

	step := qmax / float64(n)
	tq := make([]float64, n)
	ti := make([]float64, n)
	for i := range tq {
		q := float64(i) * step
		tq[i] = q
		if q*rg < 1 {
			ti[i] = i0 * math.Exp(-(q*rg)*(q*rg)/3)
		} else {
			ti[i] = pl.Predict(q)
		}
	}

	// Second half of a symmetric Hann window of length 2n+1: tapers from 1
	// at q=0 to nearly 0 at the truncation point.
	w := make([]float64, 2*n+1)
	for i := range w {
		w[i] = 1
	}
	window.Hann(w)
	for i := range ti {
		ti[i] *= w[n+i]
	}

	pr := make([]float64, dmax)
	for r := range pr {
		rr := float64(r)
		var s float64
		for i, q := range tq {
			s += rr * rr * sinc(q*rr) * ti[i] * q * q
		}
		pr[r] = s
	}
	if sum := floats.Sum(pr); sum != 0 {
		floats.Scale(1/sum, pr)
	}
	return pr, nil
}

// sinc is the unnormalized sinc, sin(x)/x with sinc(0) = 1.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}
