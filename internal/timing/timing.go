//go:generate mockgen -source=timing.go -destination=mocks/mock_reporter.go -package=mocks

package timing

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Record is the outcome of one timed scope.
type Record struct {
	// Label names the scope. An empty label marks a silent scope.
	Label string
	// Elapsed is the wall-clock duration, never negative.
	Elapsed time.Duration
}

// Seconds returns Elapsed as fractional seconds.
func (r Record) Seconds() float64 { return r.Elapsed.Seconds() }

// Reporter receives finished records of labelled scopes.
type Reporter interface {
	Report(rec Record)
}

// ReporterFunc is a function adapter that implements Reporter.
type ReporterFunc func(rec Record)

// Report calls the underlying function.
func (f ReporterFunc) Report(rec Record) { f(rec) }

// NullReporter discards every record.
type NullReporter struct{}

// Report does nothing.
func (NullReporter) Report(Record) {}

// MultiReporter forwards each record to every reporter in order.
type MultiReporter []Reporter

// Report forwards rec.
func (m MultiReporter) Report(rec Record) {
	for _, r := range m {
		if r != nil {
			r.Report(rec)
		}
	}
}

// WriterReporter prints "Elapsed: %7.3f seconds [label]" lines.
type WriterReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterReporter returns a reporter printing to out.
func NewWriterReporter(out io.Writer) *WriterReporter {
	return &WriterReporter{out: out}
}

// Report prints rec.
func (w *WriterReporter) Report(rec Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "Elapsed: %7.3f seconds [%s]\n", rec.Seconds(), rec.Label)
}

var (
	_ Reporter = ReporterFunc(nil)
	_ Reporter = NullReporter{}
	_ Reporter = MultiReporter(nil)
	_ Reporter = (*WriterReporter)(nil)
)

// Timer measures one scope. Stop finalises it exactly once.
type Timer struct {
	label    string
	reporter Reporter
	start    time.Time

	once   sync.Once
	record Record
}

// Start begins timing a scope. A nil reporter or an empty label makes the
// scope silent: it is still measured but never reported.
func Start(label string, reporter Reporter) *Timer {
	return &Timer{label: label, reporter: reporter, start: time.Now()}
}

// Elapsed returns the time since Start.
func (t *Timer) Elapsed() time.Duration {
	return clamp(time.Since(t.start))
}

// Stop finalises the scope and reports it. Only the first call has an effect;
// later calls return the same record.
func (t *Timer) Stop() Record {
	t.once.Do(func() {
		t.record = Record{Label: t.label, Elapsed: clamp(time.Since(t.start))}
		if t.label != "" && t.reporter != nil {
			t.reporter.Report(t.record)
		}
	})
	return t.record
}

// Measure runs fn inside a timed scope. The scope is finalised and reported
// whether fn returns normally, fails or panics; a panic is re-raised after
// reporting.
//
// Parameters:
//   - label: The scope label, empty for a silent scope.
//   - reporter: The reporter for the record.
//   - fn: The work to time.
//
// Returns:
//   - Record: The finished record.
//   - error: The error returned by fn.
func Measure(label string, reporter Reporter, fn func() error) (rec Record, err error) {
	t := Start(label, reporter)
	defer func() { rec = t.Stop() }()
	err = fn()
	return rec, err
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
