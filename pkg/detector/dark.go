package detector

import (
	"fmt"
	"log"
	"math"

	"solxs/pkg/curve"
)

// DarkRef is the averaged dark-current reference for one detector. It keeps
// both the averaged 2D frame, subtracted from every sample frame before
// integration, and its 1D reduction, whose uncertainty carries into every
// curve loaded against this reference.
type DarkRef struct {
	Grid  []float64
	Curve *curve.Curve
	Frame *Frame
	Mask  *Mask
	Geom  Geometry
}

// LoadDark builds a dark reference by averaging the given exposures and
// integrating the average. The 1D uncertainty is divided by sqrt(n) since
// the frames are averaged together. All frames must share one shape.
func LoadDark(files []string, geom Geometry, m *Mask, grid []float64, integ Integrator, dezinger float64) (*DarkRef, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("load dark: no images")
	}
	log.Printf("building dark current data from %v", files)

	var sum *Frame
	comments := ""
	for i, fn := range files {
		f, err := ReadFrame(fn)
		if err != nil {
			return nil, err
		}
		if dezinger > 0 {
			Dezinger(f, dezinger)
		}
		if i == 0 {
			sum = f
			comments += fmt.Sprintf("# loaded from %s", fn)
			continue
		}
		r0, c0 := sum.Dims()
		r1, c1 := f.Dims()
		if r0 != r1 || c0 != c1 {
			return nil, &ShapeMismatchError{GotRows: r1, GotCols: c1, WantRows: r0, WantCols: c0}
		}
		sum.Add(f)
		comments += fmt.Sprintf(" , %s", fn)
	}
	comments += "\n"

	n := float64(len(files))
	sum.Scale(1 / n)

	intensity, sigma, err := integ.Integrate(sum, geom, m, grid)
	if err != nil {
		return nil, fmt.Errorf("integrate dark: %w", err)
	}
	// error bar is reduced because the images are averaged together
	for i := range sigma {
		sigma[i] /= math.Sqrt(n)
	}

	c := curve.New(grid)
	c.Intensity = intensity
	c.Err = sigma
	c.Comments = comments
	c.Label = files[0]

	return &DarkRef{Grid: grid, Curve: c, Frame: sum, Mask: m, Geom: geom}, nil
}
