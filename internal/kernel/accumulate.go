package kernel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agbru/parbench/internal/partition"
)

// ErrIncomplete is returned by Result when the added partials do not cover
// every work unit exactly once.
var ErrIncomplete = errors.New("kernel: partial results do not cover the work exactly once")

// coverage tracks which ranges were added.
type coverage struct {
	n      int
	ranges []partition.WorkRange
}

func (c *coverage) add(r partition.WorkRange) error {
	if r.Count <= 0 || r.Start < 0 || r.End() > c.n {
		return fmt.Errorf("kernel: range %v outside [0,%d)", r, c.n)
	}
	c.ranges = append(c.ranges, r)
	return nil
}

func (c *coverage) check() error {
	ranges := slices.Clone(c.ranges)
	slices.SortFunc(ranges, func(a, b partition.WorkRange) int { return a.Start - b.Start })
	if err := partition.Validate(ranges, c.n); err != nil {
		return fmt.Errorf("%w: %v", ErrIncomplete, err)
	}
	return nil
}

type piAccumulator struct {
	n    int
	hits int64
	cov  coverage
}

func (a *piAccumulator) Add(p Partial) error {
	if p.Hits < 0 || p.Hits > int64(p.Range.Count) {
		return fmt.Errorf("kernel: %d hits for range %v", p.Hits, p.Range)
	}
	if err := a.cov.add(p.Range); err != nil {
		return err
	}
	a.hits += p.Hits
	return nil
}

func (a *piAccumulator) Result() (Result, error) {
	if err := a.cov.check(); err != nil {
		return nil, err
	}
	return NewPiEstimate(a.hits, a.n)
}

type gridAccumulator struct {
	grid *PixelGrid
	cov  coverage
}

func (a *gridAccumulator) Add(p Partial) error {
	if len(p.Values) != p.Range.Count {
		return fmt.Errorf("kernel: %d values for range %v", len(p.Values), p.Range)
	}
	if err := a.cov.add(p.Range); err != nil {
		return err
	}
	copy(a.grid.Values()[p.Range.Start:p.Range.End()], p.Values)
	return nil
}

func (a *gridAccumulator) Result() (Result, error) {
	if err := a.cov.check(); err != nil {
		return nil, err
	}
	return a.grid, nil
}
