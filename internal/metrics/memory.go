package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading of this process.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	TotalAlloc   uint64 // cumulative bytes allocated
}

// MemoryDelta is the change between two snapshots taken around a run.
type MemoryDelta struct {
	Allocated uint64
	GCCycles  uint32
	GCPause   time.Duration
	PeakSys   uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		TotalAlloc:   m.TotalAlloc,
	}
}

// Since returns the change from before to s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Allocated: s.TotalAlloc - before.TotalAlloc,
		GCCycles:  s.NumGC - before.NumGC,
		GCPause:   time.Duration(s.PauseTotalNs - before.PauseTotalNs),
		PeakSys:   max(s.Sys, before.Sys),
	}
}
