package detector

import (
	"fmt"
	"log"

	"solxs/pkg/curve"
)

// Source loads one detector's contribution to a measurement. Ext is the
// per-detector filename suffix appended to the shared measurement prefix
// (e.g. "_SAXS" and "_WAXS" exposures of the same shot).
type Source struct {
	Ext      string
	Dark     *DarkRef
	Flat     *DarkRef // optional flat-field reference
	Dezinger float64  // zinger suppression tolerance; <= 0 disables
	Integ    Integrator
	Cfg      curve.Config
}

// Extension returns the per-detector filename suffix.
func (s *Source) Extension() string { return s.Ext }

// Grid returns the angular grid curves from this source are sampled on.
func (s *Source) Grid() []float64 { return s.Dark.Grid }

// Load reduces the exposure at prefix+Ext into a curve on the dark
// reference's grid: shape check, whole-frame dark subtraction, beam-center
// ROI capture, optional flat-field correction, zinger suppression, then
// azimuthal integration. The dark reduction's uncertainty is added to the
// result's.
func (s *Source) Load(prefix string) (*curve.Curve, error) {
	fn := prefix + s.Ext
	log.Printf("loading data from %s ...", fn)

	f, err := ReadFrame(fn)
	if err != nil {
		return nil, err
	}
	fr, fc := f.Dims()
	dr, dc := s.Dark.Frame.Dims()
	if fr != dr || fc != dc {
		return nil, &ShapeMismatchError{GotRows: fr, GotCols: fc, WantRows: dr, WantCols: dc}
	}

	// Subtracting the whole frame, not just the integrated region, keeps
	// the beam-center ROI counts honest.
	f.Sub(s.Dark.Frame)
	roi := f.ROISum(s.Dark.Geom.BeamCtrX, s.Dark.Geom.BeamCtrY, s.Cfg.BeamSizeHW, s.Cfg.BeamSizeHH)

	if s.Flat != nil {
		f.FlatCorrect(s.Flat.Frame, s.Dark.Mask)
	}
	if s.Dezinger > 0 {
		Dezinger(f, s.Dezinger)
	}

	intensity, sigma, err := s.Integ.Integrate(f, s.Dark.Geom, s.Dark.Mask, s.Dark.Grid)
	if err != nil {
		return nil, fmt.Errorf("integrate %s: %w", fn, err)
	}
	for i := range sigma {
		sigma[i] += s.Dark.Curve.Err[i]
	}

	c := curve.New(s.Dark.Grid)
	c.Intensity = intensity
	c.Err = sigma
	c.ROI = roi
	c.Label = fn
	c.Comments = fmt.Sprintf("# loaded from %s\n", fn)
	return c, nil
}
