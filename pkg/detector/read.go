package detector

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// ReadFrame decodes a detector image file into a Frame. 16-bit grayscale
// TIFF is the common beamline format; anything image.Decode understands
// works, with non-grayscale images reduced to their gray value.
func ReadFrame(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	b := img.Bounds()
	f := NewFrame(b.Dy(), b.Dx())
	switch im := img.(type) {
	case *image.Gray16:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				f.Data.Set(y, x, float64(im.Gray16At(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				f.Data.Set(y, x, float64(im.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				f.Data.Set(y, x, float64(g.Y))
			}
		}
	}
	return f, nil
}
