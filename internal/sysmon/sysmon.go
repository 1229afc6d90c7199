// Package sysmon samples host-wide CPU and memory usage for the details
// report.
package sysmon

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of host resource usage.
type Stats struct {
	CPUPercent  float64 // 0.0 .. 100.0
	MemPercent  float64 // 0.0 .. 100.0
	LogicalCPUs int
	PhysicalCPU int
	TotalMemory uint64 // bytes
}

// Sample collects a host snapshot. CPU usage is the delta since the previous
// call (interval 0). Fields that cannot be read are left zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.LogicalCPUs = n
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		s.PhysicalCPU = n
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.TotalMemory = vmem.Total
	}
	return s
}

// String renders the snapshot on one line.
func (s Stats) String() string {
	return fmt.Sprintf("cpu %.1f%% of %d logical (%d physical), mem %.1f%% of %.1f GiB",
		s.CPUPercent, s.LogicalCPUs, s.PhysicalCPU, s.MemPercent, float64(s.TotalMemory)/(1<<30))
}
