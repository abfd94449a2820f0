// Package analyze derives structural parameters from reduced scattering
// curves: the iterative Guinier fit for I0 and Rg, and the pair-distance
// distribution transform.
package analyze

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"solxs/pkg/curve"
)

// GuinierResult reports the outcome of a Guinier fit together with the fit
// window it settled on.
type GuinierResult struct {
	I0 float64 // forward scattering intensity
	Rg float64 // radius of gyration

	QS, QE  float64 // final fit window
	NPoints int     // points inside the final window
}

// Guinier estimates I0 and Rg from the low-angle region of c, where
// ln I(q) ≈ ln I0 - (Rg²/3)·q². The approximation only holds for
// q·Rg ≲ 1.3, so unless fixQE is set, the upper bound qe is tightened to
// 1/Rg as the estimate improves. qs is clamped up to the first grid point
// with positive intensity; rg0 seeds the tightening rule (15 is a
// reasonable default for proteins).
//
// The fit runs a fixed ten iterations of ordinary least squares of ln I
// against q²; there is no convergence check. A window with fewer than two
// points or an intensity that does not decrease with q² is an error.
func Guinier(c *curve.Curve, qs, qe float64, fixQE bool, rg0 float64) (GuinierResult, error) {
	for i, v := range c.Intensity {
		if v > 0 {
			if qs < c.Grid[i] {
				qs = c.Grid[i]
			}
			break
		}
	}

	var res GuinierResult
	rg := rg0
	for iter := 0; iter < 10; iter++ {
		if !fixQE && qe > 1/rg && 1/rg > qs+0.004 {
			qe = 1 / rg
		}

		var q2, logI []float64
		for i, q := range c.Grid {
			if q >= qs && q <= qe {
				q2 = append(q2, q*q)
				logI = append(logI, math.Log(c.Intensity[i]))
			}
		}
		if len(q2) < 2 {
			return res, fmt.Errorf("guinier fit: %d points in window [%f, %f]", len(q2), qs, qe)
		}

		alpha, beta := stat.LinearRegression(q2, logI, nil, false)
		res = GuinierResult{
			I0:      math.Exp(alpha),
			Rg:      math.Sqrt(-3 * beta),
			QS:      qs,
			QE:      qe,
			NPoints: len(q2),
		}
		rg = res.Rg
	}

	if math.IsNaN(res.Rg) {
		return res, fmt.Errorf("guinier fit: intensity does not decrease with q², no valid Rg")
	}
	return res, nil
}
