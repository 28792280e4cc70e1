// Package ssim computes the Mean Structural Similarity Index (MSSIM)
// between two equally-sized greyscale sample buffers.
//
// The implementation uses a uniform sliding window and summed-area tables,
// so the cost is linear in pixel count regardless of window size: one pass
// builds five prefix-sum tables, then every window's mean, variance and
// covariance come from four O(1) table lookups each.
//
// The computation is a pure function: no I/O, no shared mutable state, and
// calls are safe to run concurrently on disjoint inputs.
package ssim

import "math"

// constants derives the SSIM stability constants from the resolved
// options: L = 2^bitDepth - 1, c1 = (k1*L)^2, c2 = (k2*L)^2.
func constants(o Options) (c1, c2 float64) {
	l := math.Pow(2, float64(o.BitDepth)) - 1
	c1 = (o.K1 * l) * (o.K1 * l)
	c2 = (o.K2 * l) * (o.K2 * l)
	return
}

// Compute returns the mean SSIM of two same-sized greyscale images given
// as flat row-major sample buffers of length width*height. A nil opts
// selects the defaults (11x11 window, k1=0.01, k2=0.03, 8-bit range).
//
// The score is nominally in [-1, 1]; 1.0 means structurally identical.
// Images smaller than the window in either dimension are not an error:
// with no comparable window the result is defined as 1.0.
//
// Window traversal is row-major and the mean is accumulated incrementally
// in that order, so results are deterministic bit for bit across calls
// with identical inputs.
func Compute(img1, img2 []uint16, width, height int, opts *Options) (float64, error) {
	o := opts.withDefaults()
	if err := validate(img1, img2, width, height, o); err != nil {
		return 0, err
	}

	ws := o.WindowSize
	winW := width - ws + 1
	winH := height - ws + 1
	if winW <= 0 || winH <= 0 {
		return 1.0, nil
	}

	t := buildTables(img1, img2, width, height)
	c1, c2 := constants(o)

	area := float64(ws * ws)
	var mssim float64
	var count int

	for wy := 0; wy < winH; wy++ {
		for wx := 0; wx < winW; wx++ {
			val := windowSSIM(t, wx, wy, ws, area, c1, c2)
			count++
			mssim += (val - mssim) / float64(count)
		}
	}

	return mssim, nil
}

// windowSSIM evaluates the SSIM formula over one window from the five
// rectangle sums. Variance and covariance are the biased estimators
// E[q^2] - E[q]^2 and E[xy] - E[x]E[y].
//
// With c1, c2 > 0 both numerator and denominator are strictly positive
// whenever the means are finite, so the division is always well defined:
// den >= (meanX^2 + meanY^2 + c1) * c2 >= c1*c2 > 0.
func windowSSIM(t *satTables, wx, wy, ws int, area, c1, c2 float64) float64 {
	sx, sy, sxx, syy, sxy := t.windowSums(wx, wy, ws)

	meanX := sx / area
	meanY := sy / area
	varX := sxx/area - meanX*meanX
	varY := syy/area - meanY*meanY
	covXY := sxy/area - meanX*meanY

	num := (2*meanX*meanY + c1) * (2*covXY + c2)
	den := (meanX*meanX + meanY*meanY + c1) * (varX + varY + c2)
	return num / den
}
