package ssim

import (
	"math"
	"math/rand"
	"testing"
)

// bruteRectSum sums v(x,y) directly over the rectangle [0,x) x [0,y).
func bruteRectSum(img1, img2 []uint16, width int, x, y int, quantity func(a, b float64) float64) float64 {
	var sum float64
	for yy := 0; yy < y; yy++ {
		for xx := 0; xx < x; xx++ {
			a := float64(img1[yy*width+xx])
			b := float64(img2[yy*width+xx])
			sum += quantity(a, b)
		}
	}
	return sum
}

func randomPair(rng *rand.Rand, width, height int) ([]uint16, []uint16) {
	a := make([]uint16, width*height)
	b := make([]uint16, width*height)
	for i := range a {
		a[i] = uint16(rng.Intn(256))
		b[i] = uint16(rng.Intn(256))
	}
	return a, b
}

func TestBuildTablesMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const width, height = 7, 5
	img1, img2 := randomPair(rng, width, height)

	tab := buildTables(img1, img2, width, height)

	quantities := []struct {
		name string
		sat  []float64
		fn   func(a, b float64) float64
	}{
		{"sumX", tab.sumX, func(a, b float64) float64 { return a }},
		{"sumY", tab.sumY, func(a, b float64) float64 { return b }},
		{"sumXX", tab.sumXX, func(a, b float64) float64 { return a * a }},
		{"sumYY", tab.sumYY, func(a, b float64) float64 { return b * b }},
		{"sumXY", tab.sumXY, func(a, b float64) float64 { return a * b }},
	}

	for _, q := range quantities {
		for y := 0; y <= height; y++ {
			for x := 0; x <= width; x++ {
				got := q.sat[y*tab.stride+x]
				want := bruteRectSum(img1, img2, width, x, y, q.fn)
				// 8-bit sums are exact integers in float64.
				if got != want {
					t.Errorf("%s[%d][%d] = %v, want %v", q.name, y, x, got, want)
				}
			}
		}
	}
}

func TestTablesZeroBorder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	img1, img2 := randomPair(rng, 4, 3)
	tab := buildTables(img1, img2, 4, 3)

	for x := 0; x <= 4; x++ {
		if tab.sumXY[x] != 0 {
			t.Errorf("top border at x=%d is %v, want 0", x, tab.sumXY[x])
		}
	}
	for y := 0; y <= 3; y++ {
		if tab.sumXY[y*tab.stride] != 0 {
			t.Errorf("left border at y=%d is %v, want 0", y, tab.sumXY[y*tab.stride])
		}
	}
}

// Sums of non-negative samples must be finite and non-decreasing along
// both axes.
func TestTablesMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	const width, height = 16, 12
	img1, img2 := randomPair(rng, width, height)
	tab := buildTables(img1, img2, width, height)

	for _, sat := range [][]float64{tab.sumX, tab.sumY, tab.sumXX, tab.sumYY, tab.sumXY} {
		for y := 0; y <= height; y++ {
			for x := 0; x <= width; x++ {
				v := sat[y*tab.stride+x]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite table value at (%d,%d): %v", x, y, v)
				}
				if x > 0 && v < sat[y*tab.stride+x-1] {
					t.Fatalf("table decreases in x at (%d,%d)", x, y)
				}
				if y > 0 && v < sat[(y-1)*tab.stride+x] {
					t.Fatalf("table decreases in y at (%d,%d)", x, y)
				}
			}
		}
	}
}

// Correctness contract: variance and covariance derived from table
// differences must equal the statistics computed directly over the raw
// window pixels, up to floating-point rounding.
func TestWindowStatsMatchDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	const width, height, ws = 24, 20, 8
	img1, img2 := randomPair(rng, width, height)
	tab := buildTables(img1, img2, width, height)
	area := float64(ws * ws)

	for wy := 0; wy <= height-ws; wy++ {
		for wx := 0; wx <= width-ws; wx++ {
			sx, sy, sxx, syy, sxy := tab.windowSums(wx, wy, ws)
			meanX := sx / area
			meanY := sy / area
			varX := sxx/area - meanX*meanX
			varY := syy/area - meanY*meanY
			covXY := sxy/area - meanX*meanY

			// Direct two-pass statistics over the raw pixels.
			var dMeanX, dMeanY float64
			for y := wy; y < wy+ws; y++ {
				for x := wx; x < wx+ws; x++ {
					dMeanX += float64(img1[y*width+x])
					dMeanY += float64(img2[y*width+x])
				}
			}
			dMeanX /= area
			dMeanY /= area

			var dVarX, dVarY, dCovXY float64
			for y := wy; y < wy+ws; y++ {
				for x := wx; x < wx+ws; x++ {
					dx := float64(img1[y*width+x]) - dMeanX
					dy := float64(img2[y*width+x]) - dMeanY
					dVarX += dx * dx
					dVarY += dy * dy
					dCovXY += dx * dy
				}
			}
			dVarX /= area
			dVarY /= area
			dCovXY /= area

			const tol = 1e-6
			if math.Abs(meanX-dMeanX) > tol || math.Abs(meanY-dMeanY) > tol {
				t.Fatalf("window (%d,%d): means (%v,%v) differ from direct (%v,%v)",
					wx, wy, meanX, meanY, dMeanX, dMeanY)
			}
			if math.Abs(varX-dVarX) > tol || math.Abs(varY-dVarY) > tol {
				t.Fatalf("window (%d,%d): variances (%v,%v) differ from direct (%v,%v)",
					wx, wy, varX, varY, dVarX, dVarY)
			}
			if math.Abs(covXY-dCovXY) > tol {
				t.Fatalf("window (%d,%d): covariance %v differs from direct %v",
					wx, wy, covXY, dCovXY)
			}
		}
	}
}
