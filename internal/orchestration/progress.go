package orchestration

import (
	"sync"

	"github.com/agbru/parbench/internal/timing"
)

// stopOnReport returns a reporter that stops p before forwarding a record,
// so progress output never interleaves with the timing line.
func stopOnReport(p ProgressReporter, next timing.Reporter) timing.Reporter {
	return timing.ReporterFunc(func(rec timing.Record) {
		p.Stop()
		if next != nil {
			next.Report(rec)
		}
	})
}

// onceProgress makes Stop idempotent for reporters that are not.
type onceProgress struct {
	inner ProgressReporter
	mu    sync.Mutex
	on    bool
}

func (o *onceProgress) Start(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.on {
		o.on = true
		o.inner.Start(name)
	}
}

func (o *onceProgress) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.on {
		o.on = false
		o.inner.Stop()
	}
}
