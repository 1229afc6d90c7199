//go:build !unix

package metrics

// ReadCPUTime is not available on this platform.
func ReadCPUTime() (CPUTime, error) {
	return CPUTime{}, ErrRusageUnsupported
}
