// Package imgio loads image files and converts them to the flat greyscale
// sample buffers the ssim package consumes. Decoding lives here, outside
// the core computation, so the metric itself stays a pure function over
// raw samples.
package imgio

import (
	"fmt"
	"image"
	"image/color"
	"os"

	_ "image/jpeg"
	_ "image/png"
)

// Load decodes the image at path and returns its greyscale samples as a
// flat row-major buffer in the 8-bit range, together with the image
// dimensions.
func Load(path string) ([]uint16, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	pix, w, h := FromImage(img)
	return pix, w, h, nil
}

// FromImage converts any image to a flat row-major greyscale buffer using
// the standard luma weights (via color.GrayModel). Gray images pass
// through without a colour conversion.
func FromImage(img image.Image) ([]uint16, int, int) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	pix := make([]uint16, w*h)

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			row := gray.Pix[y*gray.Stride:]
			for x := 0; x < w; x++ {
				pix[y*w+x] = uint16(row[x])
			}
		}
		return pix, w, h
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			pix[y*w+x] = uint16(c.Y)
		}
	}
	return pix, w, h
}
