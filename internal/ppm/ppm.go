// Package ppm writes escape-metric grids as binary PPM (P6) images.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/agbru/parbench/internal/kernel"
)

// Color maps an escape metric ln(count) to an RGB triplet. The hue is the
// metric normalised by ln(maxIters+1); saturation and value are 1. Channels
// are truncated, not rounded, to 8 bits.
func Color(value float64, maxIters int) (r, g, b uint8) {
	h := value / math.Log(float64(maxIters)+1)
	c := colorful.Hsv(h*360, 1, 1)
	return channel(c.R), channel(c.G), channel(c.B)
}

func channel(v float64) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v * 255)
}

// Encode writes grid to w as "P6\n<w> <h>\n255\n" followed by one RGB
// triplet per pixel in row-major order.
func Encode(w io.Writer, grid *kernel.PixelGrid, maxIters int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", grid.Width, grid.Height); err != nil {
		return err
	}
	var px [3]byte
	for _, v := range grid.Values() {
		px[0], px[1], px[2] = Color(v, maxIters)
		if _, err := bw.Write(px[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile encodes grid into the file at path, replacing it.
func WriteFile(path string, grid *kernel.PixelGrid, maxIters int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close image: %w", cerr)
		}
	}()
	if err := Encode(f, grid, maxIters); err != nil {
		return fmt.Errorf("write image %s: %w", path, err)
	}
	return nil
}
