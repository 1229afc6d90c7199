package orchestration

import (
	"io"
	"time"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/strategy"
)

// StrategyResult encapsulates the outcome of one strategy run.
// It serves as the shared domain type between orchestration and presentation layers.
type StrategyResult struct {
	// Name is the human readable strategy description.
	Name string
	// Kind identifies the strategy.
	Kind strategy.Kind
	// Result is the kernel result. It is nil if an error occurred.
	Result kernel.Result
	// Setup is the untimed preparation cost (pool start-up, worker spawn).
	Setup time.Duration
	// Duration is the timed run.
	Duration time.Duration
	// Err contains any error that occurred while preparing or running.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Kernel    string
	Workers   int
	Tolerance float64
	Verbose   bool
	Details   bool
}

// ProgressReporter shows that a strategy is running. The orchestration layer
// calls Start before a timed run and Stop when it finishes; Stop may be
// called more than once.
type ProgressReporter interface {
	Start(name string)
	Stop()
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// Start does nothing.
func (NullProgressReporter) Start(string) {}

// Stop does nothing.
func (NullProgressReporter) Stop() {}

// ResultPresenter defines the interface for presenting strategy results.
// This interface decouples the orchestration layer from presentation concerns.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []StrategyResult, out io.Writer)

	// PresentResult displays the final result.
	PresentResult(result StrategyResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles strategy errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}
