package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkers is returned when fewer than one worker is requested.
	ErrInvalidWorkers = errors.New("partition: worker count must be at least 1")
	// ErrNegativeSize is returned for a negative amount of work.
	ErrNegativeSize = errors.New("partition: work size must not be negative")
)

// WorkRange is a half-open interval [Start, Start+Count) of work units.
type WorkRange struct {
	Start int
	Count int
}

// End returns the first unit after the range.
func (r WorkRange) End() int { return r.Start + r.Count }

// String formats the range as a half-open interval.
func (r WorkRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End())
}

// Partition splits n units of work into at most w contiguous ranges.
//
// The ranges are ordered, disjoint, and cover [0, n) exactly. Sizes differ by
// at most one: the leading n mod w ranges receive ⌈n/w⌉ units and the rest
// receive ⌊n/w⌋. Empty ranges are never emitted, so when n < w only n ranges
// of one unit are returned. For n == 0 the result is empty.
//
// Parameters:
//   - n: The total number of work units.
//   - w: The desired number of ranges (workers).
//
// Returns:
//   - []WorkRange: The ranges in ascending Start order.
//   - error: ErrInvalidWorkers if w < 1, ErrNegativeSize if n < 0.
func Partition(n, w int) ([]WorkRange, error) {
	if w < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, w)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeSize, n)
	}
	if n == 0 {
		return []WorkRange{}, nil
	}

	k := min(n, w)
	base, extra := n/k, n%k
	ranges := make([]WorkRange, k)
	start := 0
	for i := range ranges {
		count := base
		if i < extra {
			count++
		}
		ranges[i] = WorkRange{Start: start, Count: count}
		start += count
	}
	return ranges, nil
}

// Sum returns the total number of units covered by ranges.
func Sum(ranges []WorkRange) int {
	total := 0
	for _, r := range ranges {
		total += r.Count
	}
	return total
}

// Validate checks that ranges are ordered, contiguous, non-empty and cover
// [0, n) exactly.
func Validate(ranges []WorkRange, n int) error {
	next := 0
	for i, r := range ranges {
		if r.Count <= 0 {
			return fmt.Errorf("partition: range %d %v is empty", i, r)
		}
		if r.Start != next {
			return fmt.Errorf("partition: range %d %v starts at %d, want %d", i, r, r.Start, next)
		}
		next = r.End()
	}
	if next != n {
		return fmt.Errorf("partition: ranges cover %d units, want %d", next, n)
	}
	return nil
}
