package kernel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PixelGrid is the Height×Width matrix of escape metrics produced by the
// Mandelbrot kernel. Cell (py, px) holds work unit py·Width + px.
type PixelGrid struct {
	Width  int
	Height int
	data   *mat.Dense
}

// NewPixelGrid allocates a zeroed grid.
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{Width: width, Height: height, data: mat.NewDense(height, width, nil)}
}

// At returns the value of pixel (px, py).
func (g *PixelGrid) At(px, py int) float64 { return g.data.At(py, px) }

// Values returns the backing row-major slice. Callers must not retain it
// across writes.
func (g *PixelGrid) Values() []float64 { return g.data.RawMatrix().Data }

// Matrix exposes the grid as a read-only gonum matrix.
func (g *PixelGrid) Matrix() mat.Matrix { return g.data }

// Equal reports whether both grids have the same size and identical cells.
func (g *PixelGrid) Equal(other *PixelGrid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Width == other.Width && g.Height == other.Height && mat.Equal(g.data, other.data)
}

// Summary describes the grid size and its mean escape metric.
func (g *PixelGrid) Summary() string {
	return fmt.Sprintf("mandelbrot %dx%d, mean escape metric %.6f", g.Width, g.Height, stat.Mean(g.Values(), nil))
}
