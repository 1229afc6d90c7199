package kernel

import (
	"fmt"
	"math/rand/v2"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/partition"
)

// Kind identifies a kernel.
type Kind string

const (
	KindPi         Kind = "pi"
	KindMandelbrot Kind = "mandelbrot"
)

// Form selects how a kernel's inner arithmetic is executed.
type Form uint8

const (
	// Interpreted walks the expression tree for every evaluation.
	Interpreted Form = iota
	// Compiled runs closures generated once by expr.Compile.
	Compiled
)

// String returns the lower-case name of the form.
func (f Form) String() string {
	switch f {
	case Interpreted:
		return "interpreted"
	case Compiled:
		return "compiled"
	}
	return fmt.Sprintf("Form(%d)", uint8(f))
}

// BoundingBox is the region of the complex plane rendered by the Mandelbrot
// kernel. It is not validated: a zero-area box simply renders a flat image.
type BoundingBox struct {
	X0, Y0, X1, Y1 float64
}

// Spec fully describes a kernel instance. It holds only plain values so it can
// be sent to a worker process, which rebuilds the kernel with New.
type Spec struct {
	Kind Kind
	// Samples is the number of Monte-Carlo samples (pi only).
	Samples int
	// Box, Width, Height and MaxIters configure the Mandelbrot kernel.
	Box      BoundingBox
	Width    int
	Height   int
	MaxIters int
}

// Partial is the result of running a kernel over one WorkRange.
type Partial struct {
	Range partition.WorkRange
	// Hits is the number of samples inside the unit circle (pi only).
	Hits int64
	// Values holds one escape metric per pixel of Range (Mandelbrot only).
	Values []float64
}

// RangeFunc computes the partial result for r. rng is the private random
// stream of the execution context; kernels that need no randomness ignore it.
// A RangeFunc holds no mutable state and may be called concurrently.
type RangeFunc func(r partition.WorkRange, rng *rand.Rand) Partial

// Result is the aggregated output of a kernel run.
type Result interface {
	// Summary is a one-line description of the result.
	Summary() string
}

// Accumulator combines partial results. The final result does not depend on
// the order in which partials are added. It is not safe for concurrent use.
type Accumulator interface {
	Add(p Partial) error
	Result() (Result, error)
}

// Kernel is a unit of embarrassingly parallel work over Size() independent
// units (samples or pixels).
type Kernel interface {
	// Name is the kernel kind as a string.
	Name() string
	// Spec returns the serialisable description of the kernel.
	Spec() Spec
	// Size is the number of independent work units.
	Size() int
	// Program returns the range function for form. The compiled form is
	// generated on first request and reused afterwards.
	Program(form Form) RangeFunc
	// Warmup prepares form and runs it over a trivial range, so that any
	// one-off cost is paid before a timed run.
	Warmup(form Form)
	// NewAccumulator returns an empty accumulator for this kernel.
	NewAccumulator() Accumulator
}

// warmupUnits is the size of the trivial range used by Warmup.
const warmupUnits = 10

// New builds a kernel from spec, validating the parameters the kernel needs.
//
// Parameters:
//   - spec: The kernel description.
//
// Returns:
//   - Kernel: The kernel instance.
//   - error: An apperrors.ValidationError for invalid parameters.
func New(spec Spec) (Kernel, error) {
	switch spec.Kind {
	case KindPi:
		return NewPi(spec.Samples)
	case KindMandelbrot:
		return NewMandelbrot(spec.Box, spec.Width, spec.Height, spec.MaxIters)
	}
	return nil, apperrors.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kernel %q", spec.Kind)}
}

// Execute runs fn over r using the random stream derived from seed and the
// partition index.
func Execute(fn RangeFunc, r partition.WorkRange, seed uint64, index int) Partial {
	return fn(r, NewStream(seed, index))
}

// Reduce adds every partial to acc and returns the aggregated result.
func Reduce(acc Accumulator, partials []Partial) (Result, error) {
	for _, p := range partials {
		if err := acc.Add(p); err != nil {
			return nil, err
		}
	}
	return acc.Result()
}

func warmup(k Kernel, form Form) {
	n := min(warmupUnits, k.Size())
	k.Program(form)(partition.WorkRange{Start: 0, Count: n}, NewStream(0, 0))
}
