package ssim

import (
	"errors"
	"fmt"
)

// Default configuration matching the canonical SSIM parameters from
// Wang et al. (2004): an 11x11 uniform window and stability constants
// k1=0.01, k2=0.03 over an 8-bit dynamic range.
const (
	DefaultWindowSize = 11
	DefaultK1         = 0.01
	DefaultK2         = 0.03
	DefaultBitDepth   = 8
)

// Input-shape errors. All are reported synchronously before any table
// construction begins, so a failed call never does partial work.
var (
	// ErrInvalidDimensions indicates a non-positive width or height, a
	// buffer whose length disagrees with width*height, or two buffers of
	// different lengths.
	ErrInvalidDimensions = errors.New("ssim: invalid dimensions")

	// ErrInvalidWindowSize indicates a window size below 1. Note that a
	// window larger than the image is NOT an error; see Compute.
	ErrInvalidWindowSize = errors.New("ssim: invalid window size")

	// ErrInvalidStabilityConstant indicates k1 or k2 <= 0. Positive
	// constants are what keep the per-window denominator strictly
	// positive.
	ErrInvalidStabilityConstant = errors.New("ssim: invalid stability constant")

	// ErrInvalidBitDepth indicates a bit depth outside [1, 16].
	ErrInvalidBitDepth = errors.New("ssim: invalid bit depth")
)

// Options configures a single MSSIM computation. The zero value of any
// field means "use the default"; a nil *Options means all defaults.
type Options struct {
	// WindowSize is the side length of the square sliding window.
	WindowSize int

	// K1 and K2 are the SSIM stability constants. The dynamic range L
	// scales them into c1 = (K1*L)^2 and c2 = (K2*L)^2.
	K1 float64
	K2 float64

	// BitDepth defines the dynamic range L = 2^BitDepth - 1 of the input
	// samples. Samples are uint16, so depths from 1 to 16 are supported.
	BitDepth int
}

// withDefaults resolves zero-valued fields to their defaults. It never
// validates; validation happens after resolution so explicit bad values
// are reported rather than silently replaced.
func (o *Options) withDefaults() Options {
	out := Options{
		WindowSize: DefaultWindowSize,
		K1:         DefaultK1,
		K2:         DefaultK2,
		BitDepth:   DefaultBitDepth,
	}
	if o == nil {
		return out
	}
	if o.WindowSize != 0 {
		out.WindowSize = o.WindowSize
	}
	if o.K1 != 0 {
		out.K1 = o.K1
	}
	if o.K2 != 0 {
		out.K2 = o.K2
	}
	if o.BitDepth != 0 {
		out.BitDepth = o.BitDepth
	}
	return out
}

// validate checks the resolved options and the input buffers against the
// error taxonomy. The "image smaller than window" condition is deliberately
// absent here: it is a defined degenerate result, not a failure.
func validate(img1, img2 []uint16, width, height int, o Options) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d height=%d", ErrInvalidDimensions, width, height)
	}
	if n := width * height; len(img1) != n || len(img2) != n {
		return fmt.Errorf("%w: need %d samples, got %d and %d",
			ErrInvalidDimensions, n, len(img1), len(img2))
	}
	if o.WindowSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, o.WindowSize)
	}
	if o.K1 <= 0 || o.K2 <= 0 {
		return fmt.Errorf("%w: k1=%g k2=%g", ErrInvalidStabilityConstant, o.K1, o.K2)
	}
	if o.BitDepth < 1 || o.BitDepth > 16 {
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, o.BitDepth)
	}
	return nil
}
