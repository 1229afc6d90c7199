package worker

import (
	"fmt"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/partition"
)

// Op is the operation requested from a worker process.
type Op uint8

const (
	// OpWarm rebuilds the kernel from its Spec and warms up the form.
	OpWarm Op = iota + 1
	// OpRun computes the partial result of one range.
	OpRun
)

func (o Op) String() string {
	switch o {
	case OpWarm:
		return "warm"
	case OpRun:
		return "run"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Request is one gob-encoded message from the parent to a worker. Only
// plain values cross the process boundary; the worker rebuilds the kernel
// from Spec.
type Request struct {
	ID    uint64
	Op    Op
	Spec  kernel.Spec
	Form  kernel.Form
	Range partition.WorkRange
	Seed  uint64
	// Stream is the partition index the random stream is derived from.
	Stream int
}

// Response answers the Request with the same ID. Err is non-empty when the
// worker could not serve the request.
type Response struct {
	ID      uint64
	Partial kernel.Partial
	Err     string
}
