package curve

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Merge combines other into c. The two curves must share one grid and are
// expected to cover overlapping or adjacent angular ranges, e.g. a SAXS and
// a WAXS detector. other's intensity is brought onto c's scale, the overlap
// window is averaged pointwise, and everything at or beyond the window's
// upper bound is taken from other; points below the window keep c's values.
//
// qmin and qmax bound the overlap window; negative values mean "unbounded",
// in which case the bound is taken from the data (the extent of the region
// where both curves carry positive signal). fixScale, when positive,
// bypasses the least-squares scale determination: for a fixed instrument
// geometry the inter-detector intensity ratio is a device constant,
// calibrated once from a high-quality overlap and then reused.
//
// other is left untouched except for being divided by the scale factor.
// The raw intensities inside the window are retained on c.Overlap for
// diagnostics.
func (c *Curve) Merge(other *Curve, qmin, qmax, fixScale float64) error {
	log.Printf("merging data: %s and %s ...", c.Label, other.Label)
	if !sameGrid(c.Grid, other.Grid) {
		return &GridMismatchError{Op: "merge", A: c.Label, B: other.Label}
	}

	// The overlap region: where both curves carry usable signal.
	window := make([]bool, len(c.Grid))
	n := 0
	for i := range c.Grid {
		if c.Intensity[i] > 0 && other.Intensity[i] > 0 {
			window[i] = true
			n++
		}
	}

	var ov *Overlap
	if n > 0 {
		// Tighten the caller bounds to the data-implied overlap extent.
		qmin0, qmax0 := math.Inf(1), math.Inf(-1)
		for i, in := range window {
			if !in {
				continue
			}
			if c.Grid[i] < qmin0 {
				qmin0 = c.Grid[i]
			}
			if c.Grid[i] > qmax0 {
				qmax0 = c.Grid[i]
			}
		}
		if qmin < 0 || qmin0 > qmin {
			qmin = qmin0
		}
		if qmax < 0 || qmax0 < qmax {
			qmax = qmax0
		}

		ov = &Overlap{}
		n = 0
		for i := range c.Grid {
			window[i] = c.Grid[i] > qmin && c.Grid[i] < qmax
			if window[i] {
				ov.Q = append(ov.Q, c.Grid[i])
				ov.RawSelf = append(ov.RawSelf, c.Intensity[i])
				ov.RawOther = append(ov.RawOther, other.Intensity[i])
				n++
			}
		}
		c.Overlap = ov
	} else {
		// No usable overlap anywhere: stack other beyond c's last point
		// with signal, no blending.
		last := c.Grid[len(c.Grid)-1]
		for i := range c.Grid {
			if c.Intensity[i] > 0 {
				last = c.Grid[i]
			}
		}
		qmin, qmax = last, last
	}

	switch {
	case n < 2:
		log.Printf("data sets are not overlapping in the given q range.")
		if fixScale <= 0 {
			fixScale = 1
			log.Printf("forcing fix_scale=1.")
		}
	case n < 10:
		log.Printf("too few overlapping points: %d", n)
	}

	var sc float64
	if fixScale > 0 {
		sc = fixScale
	} else {
		// Scale-only least squares over the window, no offset term:
		// sc minimizing ||c·sc - other||, i.e. <c,other>/<c,c>.
		sc = floats.Dot(ov.RawSelf, ov.RawOther) / floats.Dot(ov.RawSelf, ov.RawSelf)
	}

	for i := range other.Intensity {
		other.Intensity[i] /= sc
		other.Err[i] /= sc
	}
	if ov != nil {
		for i := range ov.RawOther {
			ov.RawOther[i] /= sc
		}
	}

	c.Label = commonName(c.Label, other.Label)
	log.Printf("set2 scaled by 1/%f", sc)
	log.Printf("merged set re-named %s.", c.Label)

	for i := range c.Grid {
		if window[i] {
			c.Intensity[i] = (c.Intensity[i] + other.Intensity[i]) / 2
			c.Err[i] = (c.Err[i] + other.Err[i]) / 2
		}
		if c.Grid[i] >= qmax {
			c.Intensity[i] = other.Intensity[i]
			c.Err[i] = other.Err[i]
		}
	}

	c.Comments += fmt.Sprintf("# merged with the following set by matching intensity within (%.4f, %.4f),", qmin, qmax)
	c.Comments += fmt.Sprintf(" scaled by %f\n", sc)
	c.Comments += nest(other.Comments)
	return nil
}
