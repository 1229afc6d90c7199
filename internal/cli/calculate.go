package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/parbench/internal/config"
	"github.com/agbru/parbench/internal/strategy"
	"github.com/agbru/parbench/internal/ui"
)

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the kernel parameters, the worker count and environment details.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	if cfg.IsMandel() {
		w, h := cfg.GridSize()
		fmt.Fprintf(out, "Rendering %sMandelbrot %dx%d%s over %s, at most %s%d%s iterations, into %s.\n",
			ui.ColorMagenta(), w, h, ui.ColorReset(), config.FormatBox(cfg.Box),
			ui.ColorYellow(), cfg.MaxIters, ui.ColorReset(), cfg.OutputFile)
	} else {
		fmt.Fprintf(out, "Estimating %spi%s from %s%d%s samples, seed %d.\n",
			ui.ColorMagenta(), ui.ColorReset(), ui.ColorYellow(), cfg.N, ui.ColorReset(), cfg.Seed)
	}
	fmt.Fprintf(out, "Environment: %s%d%s workers, %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(),
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// PrintExecutionMode displays the execution mode (single strategy vs comparison).
//
// Parameters:
//   - strategies: The strategies that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(strategies []strategy.Strategy, out io.Writer) {
	var modeDesc string
	if len(strategies) > 1 {
		modeDesc = fmt.Sprintf("Sequential comparison of %d strategies", len(strategies))
	} else if len(strategies) == 1 {
		modeDesc = fmt.Sprintf("Single run with the %s%s%s strategy",
			ui.ColorGreen(), strategies[0].Name(), ui.ColorReset())
	} else {
		modeDesc = "No strategy selected"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
