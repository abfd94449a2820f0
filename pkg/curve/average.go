package curve

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Average folds the given replicate curves into c. Transmission and
// intensity are accumulated by summation and divided by the curve count;
// uncertainties are summed and divided by sqrt(n). Replicates are
// independent exposures, so their variances add; this sqrt(n) reduction is
// the established convention for this pipeline and is kept exactly.
//
// The label becomes the common leading substring of all input labels. With
// no additional curves the call is the identity.
func (c *Curve) Average(others []*Curve) error {
	for _, d := range others {
		if !sameGrid(c.Grid, d.Grid) {
			return &GridMismatchError{Op: "average", A: c.Label, B: d.Label}
		}
	}

	log.Printf("averaging data with %s:", c.Label)
	n := 1
	for _, d := range others {
		c.Trans += d.Trans
		floats.Add(c.Intensity, d.Intensity)
		floats.Add(c.Err, d.Err)
		c.Comments += fmt.Sprintf("# averaged with \n%s", nest(d.Comments))
		c.Label = commonName(c.Label, d.Label)
		n++
	}

	c.Trans /= float64(n)
	floats.Scale(1/float64(n), c.Intensity)
	floats.Scale(1/math.Sqrt(float64(n)), c.Err)
	log.Printf("averaged set re-named to %s.", c.Label)
	return nil
}
