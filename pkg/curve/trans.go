package curve

import (
	"fmt"
	"log"
)

// Angular window over the water scattering peak, used when the transmission
// is derived from WAXS intensity.
const (
	waxsWindowMin = 1.45
	waxsWindowMax = 3.45
)

// SetTrans determines the curve's transmission according to cfg.TransMode
// and, when refTrans is positive, rescales intensity and uncertainty so the
// transmission matches refTrans. The rescaling is applied identically to
// any retained overlap diagnostics so raw and merged views stay consistent.
//
// trans is only consulted in TransExternal mode, where a non-positive value
// is an InvalidTransmissionError. Call after merging: SAXS and WAXS share
// one transmission, and the WAXS-derived value needs the high-angle data.
func (c *Curve) SetTrans(cfg Config, trans, refTrans float64) error {
	switch cfg.TransMode {
	case TransFromBeamCenter:
		c.Trans = c.ROI
		c.Comments += "# transmitted beam intensity from beam center"
	case TransFromWAXS:
		c.transFromWAXS(cfg)
	case TransExternal:
		if trans <= 0 {
			return &InvalidTransmissionError{Value: trans}
		}
		c.Trans = trans
		c.Comments += "# transmitted beam intensity is defined externally"
	default:
		return &InvalidConfigurationError{Field: "TransMode", Value: cfg.TransMode}
	}
	c.Comments += fmt.Sprintf(": %f \n", c.Trans)
	log.Printf("trans for %s set to %f", c.Label, c.Trans)

	if refTrans > 0 {
		sc := refTrans / c.Trans
		for i := range c.Intensity {
			c.Intensity[i] *= sc
			c.Err[i] *= sc
		}
		if c.Overlap != nil {
			for i := range c.Overlap.RawSelf {
				c.Overlap.RawSelf[i] *= sc
				c.Overlap.RawOther[i] *= sc
			}
		}
		c.Trans = refTrans
		c.Comments += fmt.Sprintf("# scattering intensity normalized to ref_trans = %f \n", refTrans)
		log.Printf("normalized to %f", refTrans)
	}
	return nil
}

// transFromWAXS sums the intensity over the water peak window. When the
// grid barely reaches the window (fewer than five points), the last ten
// positive-intensity samples short of the grid edge stand in, with a
// warning if any of them fall below the configured threshold.
func (c *Curve) transFromWAXS(cfg Config) {
	var sum, qsum float64
	n := 0
	for i, q := range c.Grid {
		if q > waxsWindowMin && q < waxsWindowMax {
			sum += c.Intensity[i]
			qsum += c.Grid[i]
			n++
		}
	}

	if n < 5 {
		var pos []int
		for i, v := range c.Intensity {
			if v > 0 {
				pos = append(pos, i)
			}
		}
		lo := len(pos) - 12
		if lo < 0 {
			lo = 0
		}
		hi := len(pos) - 2
		if hi < lo {
			hi = lo
		}
		pos = pos[lo:hi]

		sum, qsum = 0, 0
		below := false
		for _, i := range pos {
			if c.Intensity[i] < cfg.WAXSThresh {
				below = true
			}
			sum += c.Intensity[i]
			qsum += c.Grid[i]
		}
		n = len(pos)
		if below {
			log.Printf("the data points for trans calculation are below the WAXS threshold %f", cfg.WAXSThresh)
		}
		log.Printf("using data near the high q end (q~%f)", qsum/float64(n))
	} else {
		log.Printf("using data near water peak (q~%f)", qsum/float64(n))
	}

	c.Trans = sum
	c.Comments += fmt.Sprintf("# transmitted beam intensity from WAXS (q~%.2f)", qsum/float64(n))
}
