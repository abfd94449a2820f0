// Package detector loads per-detector 2D exposures and reduces them to 1D
// curves through an injected azimuthal integrator. It owns dark and flat
// references, beam-center ROI capture, frame arithmetic and zinger
// suppression; the integration itself is an external collaborator behind
// the Integrator interface.
package detector

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Frame is a single 2D detector exposure, pixel values as float64.
type Frame struct {
	Data *mat.Dense
}

// NewFrame returns a zeroed frame of the given shape.
func NewFrame(rows, cols int) *Frame {
	return &Frame{Data: mat.NewDense(rows, cols, nil)}
}

// Dims returns the frame shape as (rows, cols).
func (f *Frame) Dims() (int, int) { return f.Data.Dims() }

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame { return &Frame{Data: mat.DenseCopyOf(f.Data)} }

// Add accumulates g into f. The shapes must agree.
func (f *Frame) Add(g *Frame) { f.Data.Add(f.Data, g.Data) }

// Sub subtracts g from f in place. The shapes must agree.
func (f *Frame) Sub(g *Frame) { f.Data.Sub(f.Data, g.Data) }

// Scale multiplies every pixel by sc.
func (f *Frame) Scale(sc float64) { f.Data.Scale(sc, f.Data) }

// ROISum returns the beam-center region-of-interest statistic: the mean
// pixel value inside the (2hw+1)x(2hh+1) box around (cx, cy), scaled by the
// (2hw-1)(2hh-1) effective beam-stop area. Pixels outside the frame are
// skipped.
func (f *Frame) ROISum(cx, cy float64, hw, hh int) float64 {
	rows, cols := f.Data.Dims()
	x0 := int(math.Round(cx))
	y0 := int(math.Round(cy))

	var sum float64
	n := 0
	for y := y0 - hh; y <= y0+hh; y++ {
		for x := x0 - hw; x <= x0+hw; x++ {
			if y < 0 || y >= rows || x < 0 || x >= cols {
				continue
			}
			sum += f.Data.At(y, x)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) * float64((2*hw-1)*(2*hh-1))
}

// FlatCorrect divides f by the flat-field frame normalized to its unmasked
// positive mean, so the correction evens out the response without changing
// the overall intensity scale. Pixels where the flat is non-positive or
// masked are left unchanged.
func (f *Frame) FlatCorrect(flat *Frame, m *Mask) {
	rows, cols := f.Data.Dims()

	var mean float64
	n := 0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if m != nil && m.Excluded(x, y) {
				continue
			}
			if v := flat.Data.At(y, x); v > 0 {
				mean += v
				n++
			}
		}
	}
	if n == 0 {
		return
	}
	mean /= float64(n)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if m != nil && m.Excluded(x, y) {
				continue
			}
			v := flat.Data.At(y, x)
			if v <= 0 {
				continue
			}
			f.Data.Set(y, x, f.Data.At(y, x)*mean/v)
		}
	}
}

// Mask marks detector pixels excluded from reduction (beam stop shadow,
// module gaps, bad pixels). Mask file parsing lives outside this package;
// callers build the bitmap directly.
type Mask struct {
	Rows, Cols int
	bits       []bool
}

// NewMask returns an all-clear mask of the given shape.
func NewMask(rows, cols int) *Mask {
	return &Mask{Rows: rows, Cols: cols, bits: make([]bool, rows*cols)}
}

// Exclude marks the pixel at (x, y) as excluded.
func (m *Mask) Exclude(x, y int) { m.bits[y*m.Cols+x] = true }

// Excluded reports whether the pixel at (x, y) is excluded.
func (m *Mask) Excluded(x, y int) bool { return m.bits[y*m.Cols+x] }
