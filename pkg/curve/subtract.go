package curve

import (
	"fmt"
	"log"
)

// SubtractBackground subtracts a transmission-scaled background (buffer)
// curve from c. The scale is the ratio of the two transmissions when both
// are positive; otherwise unity, with a warning, on the assumption that the
// intensities were already normalized. scFactor carries any additional
// correction, e.g. the concentration-derived buffer volume fraction.
//
// The background uncertainty is added linearly rather than in quadrature.
// This mirrors the established reduction convention for this pipeline and
// is intentional; do not "fix" it.
//
// Retained overlap diagnostics on both curves are corrected identically so
// raw and subtracted views stay consistent.
func (c *Curve) SubtractBackground(bkg *Curve, scFactor float64) error {
	log.Printf("background subtraction: %s - %s", c.Label, bkg.Label)
	if !sameGrid(c.Grid, bkg.Grid) {
		return &GridMismatchError{Op: "subtract", A: c.Label, B: bkg.Label}
	}

	sc := 1.0
	if c.Trans > 0 && bkg.Trans > 0 {
		sc = c.Trans / bkg.Trans
	} else {
		log.Printf("WARNING: trans value not assigned to data or background, assuming normalized intensity.")
	}
	log.Printf("using scaling factor of %f", sc*scFactor)

	if c.Overlap != nil && bkg.Overlap != nil {
		m := len(c.Overlap.RawSelf)
		if len(bkg.Overlap.RawSelf) < m {
			m = len(bkg.Overlap.RawSelf)
		}
		for i := 0; i < m; i++ {
			c.Overlap.RawSelf[i] -= bkg.Overlap.RawSelf[i] * sc * scFactor
			c.Overlap.RawOther[i] -= bkg.Overlap.RawOther[i] * sc * scFactor
		}
	}

	for i := range c.Intensity {
		c.Intensity[i] -= bkg.Intensity[i] * sc * scFactor
		c.Err[i] += bkg.Err[i] * sc * scFactor
	}

	c.Comments += fmt.Sprintf("# background subtraction using the following set, scaled by %f (trans):\n", sc)
	if scFactor != 1 {
		c.Comments += fmt.Sprintf("# with additional scaling factor of %f\n", scFactor)
	}
	c.Comments += nest(bkg.Comments)
	return nil
}
