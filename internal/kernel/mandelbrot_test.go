package kernel

import (
	"math"
	"testing"

	"github.com/agbru/parbench/internal/partition"
)

var testBox = BoundingBox{X0: -2, Y0: -1, X1: 1, Y1: 1}

func TestMapPixel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		px, py         int
		wantCx, wantCy float64
	}{
		{"origin pixel maps to lower-left corner", 0, 0, -2, -1},
		{"first column", 0, 50, -2, -1 + 2.0/99*50},
		{"first row", 33, 0, -2 + 3.0/99*33, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cx, cy := MapPixel(tt.px, tt.py, testBox, 100, 100)
			if math.Abs(cx-tt.wantCx) > 1e-12 || math.Abs(cy-tt.wantCy) > 1e-12 {
				t.Errorf("MapPixel(%d, %d) = (%v, %v), want (%v, %v)", tt.px, tt.py, cx, cy, tt.wantCx, tt.wantCy)
			}
		})
	}

	cx, cy := MapPixel(99, 99, testBox, 100, 100)
	if math.Abs(cx-1) > 1e-12 || math.Abs(cy-1) > 1e-12 {
		t.Errorf("last pixel maps to (%v, %v), want (1, 1)", cx, cy)
	}
}

func TestEscapeCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cx, cy   float64
		maxIters int
		check    func(int) bool
		desc     string
	}{
		{"origin never escapes", 0, 0, 100, func(n int) bool { return n == 100 }, "== 100"},
		{"origin with larger bound", 0, 0, 1000, func(n int) bool { return n == 1000 }, "== 1000"},
		{"far point escapes fast", 5, 5, 100, func(n int) bool { return n >= 1 && n <= 5 }, "in [1,5]"},
		{"far point escapes on first step", 5, 5, 100, func(n int) bool { return n == 1 }, "== 1"},
		{"c = -1 is periodic", -1, 0, 500, func(n int) bool { return n == 500 }, "== 500"},
		{"c = 1 escapes on second step", 1, 0, 500, func(n int) bool { return n == 2 }, "== 2"},
		{"single iteration bound", 0, 0, 1, func(n int) bool { return n == 1 }, "== 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EscapeCount(tt.cx, tt.cy, tt.maxIters); !tt.check(got) {
				t.Errorf("EscapeCount(%v, %v, %d) = %d, want %s", tt.cx, tt.cy, tt.maxIters, got, tt.desc)
			}
		})
	}
}

func TestMandelPixelIsLogOfCount(t *testing.T) {
	t.Parallel()
	// Pixel (2, 1) of a 5x3 grid over testBox is c = (-0.5, 0), inside the set.
	got := MandelPixel(2, 1, testBox, 100, 5, 3)
	if want := math.Log(100); got != want {
		t.Errorf("MandelPixel = %v, want ln(100) = %v", got, want)
	}
	if got := MandelPixel(0, 0, BoundingBox{5, 5, 6, 6}, 100, 2, 2); got != 0 {
		t.Errorf("immediate escape should give ln(1) = 0, got %v", got)
	}
}

func TestGridSize(t *testing.T) {
	t.Parallel()
	w, h := GridSize(BoundingBox{-2.5, -1.5, 1.5, 1.5}, 250)
	if w != 1000 || h != 750 {
		t.Errorf("GridSize = %dx%d, want 1000x750", w, h)
	}
	w, h = GridSize(BoundingBox{0, 0, 0.5, 0.25}, 9)
	if w != 4 || h != 2 {
		t.Errorf("GridSize truncation = %dx%d, want 4x2", w, h)
	}
}

// renderReference builds the grid pixel by pixel with the plain Go functions.
func renderReference(box BoundingBox, width, height, maxIters int) *PixelGrid {
	g := NewPixelGrid(width, height)
	vals := g.Values()
	for py := range height {
		for px := range width {
			vals[py*width+px] = MandelPixel(px, py, box, maxIters, width, height)
		}
	}
	return g
}

func TestMandelbrotFormsAreBitIdentical(t *testing.T) {
	t.Parallel()
	const width, height, maxIters = 48, 32, 300
	box := BoundingBox{-2.5, -1.5, 1.5, 1.5}
	k, err := NewMandelbrot(box, width, height, maxIters)
	if err != nil {
		t.Fatal(err)
	}
	want := renderReference(box, width, height, maxIters)

	for _, form := range []Form{Interpreted, Compiled} {
		for _, w := range []int{1, 3, 8} {
			ranges, err := partition.Partition(k.Size(), w)
			if err != nil {
				t.Fatal(err)
			}
			fn := k.Program(form)
			partials := make([]Partial, len(ranges))
			for i, r := range ranges {
				partials[i] = Execute(fn, r, 0, i)
			}
			res, err := Reduce(k.NewAccumulator(), partials)
			if err != nil {
				t.Fatalf("%s/%d: %v", form, w, err)
			}
			got := res.(*PixelGrid)
			if !got.Equal(want) {
				t.Errorf("%s with %d ranges differs from reference", form, w)
			}
			for i, v := range got.Values() {
				if math.Float64bits(v) != math.Float64bits(want.Values()[i]) {
					t.Fatalf("%s with %d ranges: cell %d = %v, want %v", form, w, i, v, want.Values()[i])
				}
			}
		}
	}
}

func TestGridAccumulatorRejectsBadPartials(t *testing.T) {
	t.Parallel()
	k, err := NewMandelbrot(testBox, 4, 4, 10)
	if err != nil {
		t.Fatal(err)
	}

	if err := k.NewAccumulator().Add(Partial{Range: partition.WorkRange{Start: 0, Count: 4}, Values: make([]float64, 3)}); err == nil {
		t.Error("expected error for short values")
	}
	if err := k.NewAccumulator().Add(Partial{Range: partition.WorkRange{Start: 14, Count: 4}, Values: make([]float64, 4)}); err == nil {
		t.Error("expected error for range past the grid")
	}

	acc := k.NewAccumulator()
	if err := acc.Add(Partial{Range: partition.WorkRange{Start: 0, Count: 8}, Values: make([]float64, 8)}); err != nil {
		t.Fatal(err)
	}
	if _, err := acc.Result(); err == nil {
		t.Error("expected error for half-covered grid")
	}
}

func TestPixelGrid(t *testing.T) {
	t.Parallel()
	g := NewPixelGrid(3, 2)
	g.Values()[1*3+2] = 7
	if got := g.At(2, 1); got != 7 {
		t.Errorf("At(2, 1) = %v, want 7", got)
	}
	r, c := g.Matrix().Dims()
	if r != 2 || c != 3 {
		t.Errorf("Dims() = %d, %d, want 2, 3", r, c)
	}

	other := NewPixelGrid(3, 2)
	if g.Equal(other) {
		t.Error("grids with different cells should not be equal")
	}
	other.Values()[5] = 7
	if !g.Equal(other) {
		t.Error("grids with identical cells should be equal")
	}
	if g.Equal(NewPixelGrid(2, 3)) {
		t.Error("grids of different shape should not be equal")
	}
	var nilGrid *PixelGrid
	if g.Equal(nilGrid) || !nilGrid.Equal(nil) {
		t.Error("nil handling of Equal is wrong")
	}
	if got, want := g.Summary(), "mandelbrot 3x2, mean escape metric 1.166667"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
