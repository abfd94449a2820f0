package detector

import "fmt"

// Geometry describes the experimental geometry of one detector. The
// reduction here only reads the beam center; the rest is passed through to
// the integrator untouched.
type Geometry struct {
	BeamCtrX   float64 // beam center, pixels
	BeamCtrY   float64
	Wavelength float64 // incident wavelength, Å
	Distance   float64 // sample-detector distance, mm
	PixelSize  float64 // pixel pitch, mm
}

// Integrator converts a corrected 2D frame into intensity and uncertainty
// sampled on a fixed angular grid (azimuthal integration, including any
// geometric and polarization corrections). Implementations live outside
// this module; run curve.ModQGrid over the grid before handing it to one.
type Integrator interface {
	Integrate(f *Frame, g Geometry, m *Mask, grid []float64) (intensity, sigma []float64, err error)
}

// ShapeMismatchError reports a 2D frame whose pixel grid disagrees with its
// dark reference.
type ShapeMismatchError struct {
	GotRows, GotCols   int
	WantRows, WantCols int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch between the 2D data and the dark image: (%d, %d) and (%d, %d)",
		e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}
