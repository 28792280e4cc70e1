package ssim

// Summed-area tables (integral images) for windowed statistics.
//
// Five tables are built in a single row-major pass over the two input
// buffers: sum of x, sum of y, sum of x^2, sum of y^2 and sum of x*y.
// Each table is (height+1) x (width+1) with an explicit zero border on
// the top row and left column, so every window lookup is four reads with
// no edge special-casing. Tables live only for the duration of one
// computation and are never shared between calls.

// satTables holds the five prefix-sum tables as flat row-major slices
// with stride w+1. sat[y*(w+1)+x] is the sum over the rectangle with
// corners (0,0) and (x-1,y-1) of the tracked quantity.
type satTables struct {
	w, h   int
	stride int
	sumX   []float64
	sumY   []float64
	sumXX  []float64
	sumYY  []float64
	sumXY  []float64
}

// buildTables constructs the five tables from two same-sized buffers.
// The 2D prefix recurrence
//
//	sat[y+1][x+1] = v(x,y) + sat[y][x+1] + sat[y+1][x] - sat[y][x]
//
// depends on the row above and the column to the left, so the loop runs
// row-major with the row accumulated left to right. Per-pixel products
// are formed in float64: samples are at most 2^16-1, so x*x, y*y and x*y
// stay below 2^32 and are exactly representable.
func buildTables(img1, img2 []uint16, width, height int) *satTables {
	stride := width + 1
	n := (height + 1) * stride
	t := &satTables{
		w:      width,
		h:      height,
		stride: stride,
		sumX:   make([]float64, n),
		sumY:   make([]float64, n),
		sumXX:  make([]float64, n),
		sumYY:  make([]float64, n),
		sumXY:  make([]float64, n),
	}

	for y := 0; y < height; y++ {
		rowIn := y * width
		above := y * stride       // sat row y (row above the one being written)
		cur := (y + 1) * stride   // sat row y+1
		for x := 0; x < width; x++ {
			fx := float64(img1[rowIn+x])
			fy := float64(img2[rowIn+x])

			// Shared corner offsets for all five tables.
			tl := above + x
			tr := above + x + 1
			bl := cur + x
			br := cur + x + 1

			t.sumX[br] = fx + t.sumX[tr] + t.sumX[bl] - t.sumX[tl]
			t.sumY[br] = fy + t.sumY[tr] + t.sumY[bl] - t.sumY[tl]
			t.sumXX[br] = fx*fx + t.sumXX[tr] + t.sumXX[bl] - t.sumXX[tl]
			t.sumYY[br] = fy*fy + t.sumYY[tr] + t.sumYY[bl] - t.sumYY[tl]
			t.sumXY[br] = fx*fy + t.sumXY[tr] + t.sumXY[bl] - t.sumXY[tl]
		}
	}

	return t
}

// windowSums returns the five rectangle sums for the ws x ws window whose
// top-left pixel is (wx, wy). Each sum is the usual four-corner lookup
// br - bl - tr + tl, O(1) regardless of window size.
func (t *satTables) windowSums(wx, wy, ws int) (sx, sy, sxx, syy, sxy float64) {
	tl := wy*t.stride + wx
	tr := wy*t.stride + wx + ws
	bl := (wy+ws)*t.stride + wx
	br := (wy+ws)*t.stride + wx + ws

	sx = t.sumX[br] - t.sumX[bl] - t.sumX[tr] + t.sumX[tl]
	sy = t.sumY[br] - t.sumY[bl] - t.sumY[tr] + t.sumY[tl]
	sxx = t.sumXX[br] - t.sumXX[bl] - t.sumXX[tr] + t.sumXX[tl]
	syy = t.sumYY[br] - t.sumYY[bl] - t.sumYY[tr] + t.sumYY[tl]
	sxy = t.sumXY[br] - t.sumXY[bl] - t.sumXY[tr] + t.sumXY[tl]
	return
}
