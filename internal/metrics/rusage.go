package metrics

import (
	"errors"
	"time"
)

// ErrRusageUnsupported is returned where resource usage cannot be read.
var ErrRusageUnsupported = errors.New("metrics: resource usage not supported on this platform")

// CPUTime is the processor time consumed by this process and by its
// terminated, waited-for children (the worker processes).
type CPUTime struct {
	SelfUser       time.Duration
	SelfSystem     time.Duration
	ChildrenUser   time.Duration
	ChildrenSystem time.Duration
}

// Total is the sum of every component.
func (c CPUTime) Total() time.Duration {
	return c.SelfUser + c.SelfSystem + c.ChildrenUser + c.ChildrenSystem
}

// Sub returns c - before, component-wise.
func (c CPUTime) Sub(before CPUTime) CPUTime {
	return CPUTime{
		SelfUser:       c.SelfUser - before.SelfUser,
		SelfSystem:     c.SelfSystem - before.SelfSystem,
		ChildrenUser:   c.ChildrenUser - before.ChildrenUser,
		ChildrenSystem: c.ChildrenSystem - before.ChildrenSystem,
	}
}
