//go:build unix

package metrics

import (
	"time"

	"golang.org/x/sys/unix"
)

// ReadCPUTime reads the resource usage of this process and its children.
func ReadCPUTime() (CPUTime, error) {
	var self, children unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &self); err != nil {
		return CPUTime{}, err
	}
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &children); err != nil {
		return CPUTime{}, err
	}
	return CPUTime{
		SelfUser:       timeval(self.Utime),
		SelfSystem:     timeval(self.Stime),
		ChildrenUser:   timeval(children.Utime),
		ChildrenSystem: timeval(children.Stime),
	}, nil
}

func timeval(tv unix.Timeval) time.Duration {
	return time.Duration(tv.Nano())
}
