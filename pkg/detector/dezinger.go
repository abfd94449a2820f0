package detector

import (
	"gocv.io/x/gocv"
)

// Dezinger suppresses zingers (isolated cosmic-ray spikes) in a frame by
// comparing each pixel against its 3x3 median. A pixel exceeding the local
// median by more than tol times the median (floored at one count) is
// replaced by the median. tol <= 0 disables the pass.
func Dezinger(f *Frame, tol float64) {
	if tol <= 0 {
		return
	}
	rows, cols := f.Data.Dims()

	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer m.Close()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetFloatAt(y, x, float32(f.Data.At(y, x)))
		}
	}

	med := gocv.NewMat()
	defer med.Close()
	gocv.MedianBlur(m, &med, 3)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			mv := float64(med.GetFloatAt(y, x))
			floor := mv
			if floor < 1 {
				floor = 1
			}
			if f.Data.At(y, x)-mv > tol*floor {
				f.Data.Set(y, x, mv)
			}
		}
	}
}
