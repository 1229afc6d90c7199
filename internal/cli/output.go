// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayDetails].
//
//   - Format* functions return a formatted string without performing I/O.
//     Example: [FormatQuietResult].
//
//   - Print* functions write the run banner.
//     Examples: [PrintExecutionConfig], [PrintExecutionMode].

package cli

import (
	"fmt"
	"io"

	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/metrics"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/sysmon"
	"github.com/agbru/parbench/internal/ui"
)

// FormatQuietResult returns the bare result line.
func FormatQuietResult(result orchestration.StrategyResult) string {
	if result.Result == nil {
		return ""
	}
	return result.Result.Summary()
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
func DisplayQuietResult(result orchestration.StrategyResult, out io.Writer) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResult prints the result line, and in verbose mode the kernel
// specific breakdown.
func DisplayResult(result orchestration.StrategyResult, opts orchestration.PresentationOptions, out io.Writer) {
	if result.Result == nil {
		return
	}
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorBold(), result.Result.Summary(), ui.ColorReset())
	if !opts.Verbose {
		return
	}
	fmt.Fprintf(out, "Strategy: %s%s%s (%s), run %s, setup %s.\n",
		ui.ColorGreen(), result.Name, ui.ColorReset(), result.Kind,
		format.FormatExecutionDuration(result.Duration), format.FormatExecutionDuration(result.Setup))
	switch v := result.Result.(type) {
	case kernel.PiEstimate:
		fmt.Fprintf(out, "Samples: %d, inside the unit circle: %d.\n", v.N, v.Hits)
	case *kernel.PixelGrid:
		fmt.Fprintf(out, "Image: %dx%d pixels.\n", v.Width, v.Height)
	}
}

// Details is the resource report shown with -details.
type Details struct {
	Memory metrics.MemoryDelta
	CPU    metrics.CPUTime
	// CPUErr is set when processor time could not be read.
	CPUErr error
	Host   sysmon.Stats
}

// DisplayDetails shows memory, processor and host statistics of the run.
func DisplayDetails(d Details, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak system:     %s\n", format.FormatBytes(d.Memory.PeakSys))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(d.Memory.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", d.Memory.GCCycles)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(d.Memory.GCPause.Microseconds())/1e3)

	fmt.Fprintf(out, "\nCPU Time:\n")
	if d.CPUErr != nil {
		fmt.Fprintf(out, "  unavailable: %v\n", d.CPUErr)
	} else {
		fmt.Fprintf(out, "  This process:    %s user, %s system\n",
			format.FormatSeconds(d.CPU.SelfUser), format.FormatSeconds(d.CPU.SelfSystem))
		fmt.Fprintf(out, "  Worker children: %s user, %s system\n",
			format.FormatSeconds(d.CPU.ChildrenUser), format.FormatSeconds(d.CPU.ChildrenSystem))
	}

	fmt.Fprintf(out, "\nHost: %s\n", d.Host)
}
