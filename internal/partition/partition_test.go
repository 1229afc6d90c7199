package partition

import (
	"errors"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPartition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		n, w int
		want []WorkRange
	}{
		{"remainder goes to leading ranges", 6, 4, []WorkRange{{0, 2}, {2, 2}, {4, 1}, {5, 1}}},
		{"even split", 8, 4, []WorkRange{{0, 2}, {2, 2}, {4, 2}, {6, 2}}},
		{"single worker", 7, 1, []WorkRange{{0, 7}}},
		{"fewer units than workers", 3, 8, []WorkRange{{0, 1}, {1, 1}, {2, 1}}},
		{"zero units", 0, 4, []WorkRange{}},
		{"one unit", 1, 1, []WorkRange{{0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Partition(tt.n, tt.w)
			if err != nil {
				t.Fatalf("Partition(%d, %d) unexpected error: %v", tt.n, tt.w, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition(%d, %d) = %v, want %v", tt.n, tt.w, got, tt.want)
			}
		})
	}
}

func TestPartitionErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		n, w int
		want error
	}{
		{"zero workers", 10, 0, ErrInvalidWorkers},
		{"negative workers", 10, -3, ErrInvalidWorkers},
		{"negative size", -1, 2, ErrNegativeSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Partition(tt.n, tt.w)
			if !errors.Is(err, tt.want) {
				t.Errorf("Partition(%d, %d) error = %v, want %v", tt.n, tt.w, err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		ranges  []WorkRange
		n       int
		wantErr bool
	}{
		{"valid", []WorkRange{{0, 3}, {3, 2}}, 5, false},
		{"empty covers zero", nil, 0, false},
		{"gap", []WorkRange{{0, 2}, {3, 2}}, 5, true},
		{"overlap", []WorkRange{{0, 3}, {2, 3}}, 5, true},
		{"short", []WorkRange{{0, 2}}, 5, true},
		{"empty range", []WorkRange{{0, 0}, {0, 5}}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.ranges, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v, %d) error = %v, wantErr %v", tt.ranges, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestWorkRangeString(t *testing.T) {
	t.Parallel()
	if got := (WorkRange{Start: 4, Count: 2}).String(); got != "[4,6)" {
		t.Errorf("String() = %q, want %q", got, "[4,6)")
	}
}

// TestPartition_PropertyBased checks the coverage and balance invariants for
// arbitrary sizes and worker counts.
func TestPartition_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("ranges cover [0, n) exactly", prop.ForAll(
		func(n, w int) bool {
			ranges, err := Partition(n, w)
			if err != nil {
				return false
			}
			return Validate(ranges, n) == nil && Sum(ranges) == n
		},
		gen.IntRange(0, 100000),
		gen.IntRange(1, 256),
	))

	properties.Property("range count is min(n, w)", prop.ForAll(
		func(n, w int) bool {
			ranges, err := Partition(n, w)
			if err != nil {
				return false
			}
			return len(ranges) == min(n, w)
		},
		gen.IntRange(0, 100000),
		gen.IntRange(1, 256),
	))

	properties.Property("sizes are non-increasing and differ by at most one", prop.ForAll(
		func(n, w int) bool {
			ranges, err := Partition(n, w)
			if err != nil {
				return false
			}
			for i := 1; i < len(ranges); i++ {
				if ranges[i].Count > ranges[i-1].Count {
					return false
				}
			}
			if len(ranges) > 0 && ranges[0].Count-ranges[len(ranges)-1].Count > 1 {
				return false
			}
			return true
		},
		gen.IntRange(1, 100000),
		gen.IntRange(1, 256),
	))

	properties.TestingRun(t)
}
