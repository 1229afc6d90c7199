package kernel

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/expr"
	"github.com/agbru/parbench/internal/partition"
)

// Registers of the escape-time iteration.
var mandelVars = []string{"zr", "zi", "cr", "ci"}

var (
	mandelRe      = expr.MustParse("zr*zr - zi*zi + cr", mandelVars...)
	mandelIm      = expr.MustParse("2*zr*zi + ci", mandelVars...)
	mandelEscaped = expr.MustParse("zr*zr + zi*zi >= 4", mandelVars...)
)

// iteration is one form of z ← z² + c followed by the escape test.
type iteration struct {
	re, im, escaped expr.Func
}

// GridSize returns the image size for box at resolution pixels per unit,
// truncating toward zero.
func GridSize(box BoundingBox, resolution float64) (width, height int) {
	return int((box.X1 - box.X0) * resolution), int((box.Y1 - box.Y0) * resolution)
}

// MapPixel maps pixel (px, py) of a width×height grid to the point c of the
// complex plane. Pixel (0, 0) maps to (X0, Y0) and pixel (width-1, height-1)
// to (X1, Y1).
func MapPixel(px, py int, box BoundingBox, width, height int) (cx, cy float64) {
	dx := float64((box.X1 - box.X0) / float64(width-1))
	dy := float64((box.Y1 - box.Y0) / float64(height-1))
	return float64(dx*float64(px)) + box.X0, float64(dy*float64(py)) + box.Y0
}

// EscapeCount iterates z ← z² + c from z = 0 and returns the number of
// iterations performed, counting the one after which |z|² ≥ 4. The result is
// in [1, maxIters] for maxIters ≥ 1.
func EscapeCount(cx, cy float64, maxIters int) int {
	zr, zi := 0.0, 0.0
	count := 0
	for count < maxIters {
		zr, zi = float64(float64(zr*zr)-float64(zi*zi))+cx, float64(float64(2*zr)*zi)+cy
		count++
		if float64(zr*zr)+float64(zi*zi) >= 4 {
			break
		}
	}
	return count
}

// MandelPixel returns ln(EscapeCount) for pixel (px, py).
func MandelPixel(px, py int, box BoundingBox, maxIters, width, height int) float64 {
	cx, cy := MapPixel(px, py, box, width, height)
	return math.Log(float64(EscapeCount(cx, cy, maxIters)))
}

type mandelKernel struct {
	box           BoundingBox
	width, height int
	maxIters      int

	compileOnce sync.Once
	compiled    iteration
}

// NewMandelbrot returns the escape-time kernel over a width×height grid. Both
// dimensions must be at least 2 for the pixel mapping to be defined.
func NewMandelbrot(box BoundingBox, width, height, maxIters int) (Kernel, error) {
	if width < 2 || height < 2 {
		return nil, apperrors.ValidationError{Field: "grid", Message: fmt.Sprintf("needs at least 2x2 pixels, got %dx%d", width, height)}
	}
	if maxIters < 1 {
		return nil, apperrors.ValidationError{Field: "max_iters", Message: fmt.Sprintf("must be positive, got %d", maxIters)}
	}
	return &mandelKernel{box: box, width: width, height: height, maxIters: maxIters}, nil
}

func (k *mandelKernel) Name() string { return string(KindMandelbrot) }
func (k *mandelKernel) Size() int    { return k.width * k.height }

func (k *mandelKernel) Spec() Spec {
	return Spec{Kind: KindMandelbrot, Box: k.box, Width: k.width, Height: k.height, MaxIters: k.maxIters}
}

func (k *mandelKernel) iteration(form Form) iteration {
	if form == Interpreted {
		return iteration{
			re:      expr.Interpret(mandelRe),
			im:      expr.Interpret(mandelIm),
			escaped: expr.Interpret(mandelEscaped),
		}
	}
	k.compileOnce.Do(func() {
		k.compiled = iteration{
			re:      expr.Compile(mandelRe),
			im:      expr.Compile(mandelIm),
			escaped: expr.Compile(mandelEscaped),
		}
	})
	return k.compiled
}

func (k *mandelKernel) Program(form Form) RangeFunc {
	it := k.iteration(form)
	return func(r partition.WorkRange, _ *rand.Rand) Partial {
		values := make([]float64, r.Count)
		env := make([]float64, len(mandelVars))
		for i := range values {
			u := r.Start + i
			cx, cy := MapPixel(u%k.width, u/k.width, k.box, k.width, k.height)
			values[i] = math.Log(float64(it.escape(env, cx, cy, k.maxIters)))
		}
		return Partial{Range: r, Values: values}
	}
}

func (it iteration) escape(env []float64, cx, cy float64, maxIters int) int {
	env[0], env[1], env[2], env[3] = 0, 0, cx, cy
	count := 0
	for count < maxIters {
		re, im := it.re(env), it.im(env)
		env[0], env[1] = re, im
		count++
		if it.escaped(env) != 0 {
			break
		}
	}
	return count
}

func (k *mandelKernel) Warmup(form Form) { warmup(k, form) }

func (k *mandelKernel) NewAccumulator() Accumulator {
	return &gridAccumulator{grid: NewPixelGrid(k.width, k.height), cov: coverage{n: k.Size()}}
}
