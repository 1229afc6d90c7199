package kernel

import (
	"fmt"
	"math/rand/v2"
	"sync"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/expr"
	"github.com/agbru/parbench/internal/partition"
)

// piInside tests whether the sample (x, y) lies inside the unit circle.
var piInside = expr.MustParse("x*x + y*y < 1", "x", "y")

// PiEstimate is the aggregated result of the Monte-Carlo π kernel.
type PiEstimate struct {
	Hits     int64
	N        int
	Estimate float64
}

// NewPiEstimate computes 4·hits/n after checking 0 ≤ hits ≤ n.
func NewPiEstimate(hits int64, n int) (PiEstimate, error) {
	if n <= 0 {
		return PiEstimate{}, apperrors.ValidationError{Field: "samples", Message: "must be positive"}
	}
	if hits < 0 || hits > int64(n) {
		return PiEstimate{}, fmt.Errorf("kernel: %d hits out of range for %d samples", hits, n)
	}
	return PiEstimate{Hits: hits, N: n, Estimate: 4 * float64(hits) / float64(n)}, nil
}

// Summary formats the estimate with nine decimals.
func (p PiEstimate) Summary() string {
	return fmt.Sprintf("pi ≈ %.9f", p.Estimate)
}

// PiSample draws count points uniformly in [0,1)² from rng and returns how
// many fall strictly inside the unit circle. It is the reference the
// expression forms are checked against.
func PiSample(count int, rng *rand.Rand) int64 {
	var hits int64
	for range count {
		x := rng.Float64()
		y := rng.Float64()
		if float64(x*x)+float64(y*y) < 1 {
			hits++
		}
	}
	return hits
}

type piKernel struct {
	samples int

	compileOnce sync.Once
	compiled    expr.Func
}

// NewPi returns the Monte-Carlo π kernel over samples points.
func NewPi(samples int) (Kernel, error) {
	if samples <= 0 {
		return nil, apperrors.ValidationError{Field: "samples", Message: fmt.Sprintf("must be positive, got %d", samples)}
	}
	return &piKernel{samples: samples}, nil
}

func (k *piKernel) Name() string { return string(KindPi) }
func (k *piKernel) Size() int    { return k.samples }
func (k *piKernel) Spec() Spec   { return Spec{Kind: KindPi, Samples: k.samples} }

func (k *piKernel) inside(form Form) expr.Func {
	if form == Interpreted {
		return expr.Interpret(piInside)
	}
	k.compileOnce.Do(func() { k.compiled = expr.Compile(piInside) })
	return k.compiled
}

func (k *piKernel) Program(form Form) RangeFunc {
	inside := k.inside(form)
	return func(r partition.WorkRange, rng *rand.Rand) Partial {
		env := make([]float64, 2)
		var hits int64
		for range r.Count {
			env[0] = rng.Float64()
			env[1] = rng.Float64()
			if inside(env) != 0 {
				hits++
			}
		}
		return Partial{Range: r, Hits: hits}
	}
}

func (k *piKernel) Warmup(form Form) { warmup(k, form) }

func (k *piKernel) NewAccumulator() Accumulator {
	return &piAccumulator{n: k.samples, cov: coverage{n: k.samples}}
}
