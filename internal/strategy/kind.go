package strategy

import (
	"fmt"
	"strings"

	"github.com/agbru/parbench/internal/kernel"
)

// Kind identifies an execution strategy.
type Kind uint8

const (
	// Serial runs the interpreted form over one range on the caller.
	Serial Kind = iota
	// Compiled runs the compiled form over one range on the caller.
	Compiled
	// DataParallel runs the compiled form with one goroutine per range.
	DataParallel
	// ThreadPool runs the interpreted form on a persistent goroutine pool.
	ThreadPool
	// ProcessPool runs the interpreted form on persistent worker processes.
	ProcessPool
	// ThreadPoolCompiled runs the compiled form on a goroutine pool.
	ThreadPoolCompiled
	// ProcessPoolCompiled runs the compiled form on worker processes.
	ProcessPoolCompiled

	numKinds
)

var kindNames = [numKinds]string{
	Serial:              "serial",
	Compiled:            "compiled",
	DataParallel:        "parallel",
	ThreadPool:          "threadpool",
	ProcessPool:         "processpool",
	ThreadPoolCompiled:  "threadpool-compiled",
	ProcessPoolCompiled: "processpool-compiled",
}

// aliases maps the historical mode names onto kinds.
var aliases = map[string]Kind{
	"jit":            Compiled,
	"threadpooljit":  ThreadPoolCompiled,
	"processpooljit": ProcessPoolCompiled,
	"data-parallel":  DataParallel,
}

// String returns the canonical mode name, also used as the timing label.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Form returns the kernel form the strategy executes.
func (k Kind) Form() kernel.Form {
	switch k {
	case Serial, ThreadPool, ProcessPool:
		return kernel.Interpreted
	}
	return kernel.Compiled
}

// InProcess reports whether the kind runs its kernel inside this process.
// Process-pool workers build and compile their own copy.
func (k Kind) InProcess() bool {
	return k != ProcessPool && k != ProcessPoolCompiled
}

// ParseKind resolves a mode name, case-insensitively, including the
// historical aliases.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// AllKinds returns every kind in canonical order.
func AllKinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}
