package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/parbench/internal/orchestration"
)

// SpinnerRefreshRate defines the animation frequency of the spinner.
const SpinnerRefreshRate = 100 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This decouples the progress reporter from a specific spinner
// implementation, facilitating easier testing.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner showing which strategy is running.
type CLIProgressReporter struct {
	out io.Writer

	mu      sync.Mutex
	current Spinner
}

// NewCLIProgressReporter returns a reporter drawing its spinner on out.
func NewCLIProgressReporter(out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{out: out}
}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = (*CLIProgressReporter)(nil)

// Start shows the spinner for the named strategy.
func (r *CLIProgressReporter) Start(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Stop()
	}
	s := newSpinner(spinner.WithWriter(r.out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(" Running " + name + "...")
	s.Start()
	r.current = s
}

// Stop removes the spinner. It is a no-op when no spinner is shown.
func (r *CLIProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Stop()
		r.current = nil
	}
}
