package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/parbench/internal/cli"
	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/metrics"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/ppm"
	"github.com/agbru/parbench/internal/sysmon"
	"github.com/agbru/parbench/internal/timing"
	"github.com/agbru/parbench/internal/ui"
	"github.com/agbru/parbench/internal/worker"
)

// runBenchmark orchestrates one invocation: build the kernel, run the
// selected strategies in turn, analyze them and write the outputs.
func (a *Application) runBenchmark(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	cfg := a.Config
	presenter := cli.CLIResultPresenter{}

	strategies, err := orchestration.GetStrategiesToRun(cfg.Mode, a.Factory)
	if err != nil {
		return presenter.HandleError(apperrors.NewConfigError("%v", err), a.ErrWriter)
	}
	k, err := kernel.New(cfg.KernelSpec())
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, out)
		cli.PrintExecutionMode(strategies, out)
	}

	recorder := metrics.NewRecorder(k.Name())
	recorder.SetWorkers(cfg.Workers)
	reporter := timing.MultiReporter{recorder}
	var progress orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	if !cfg.Quiet {
		reporter = append(reporter, timing.NewWriterReporter(out))
		progress = cli.NewCLIProgressReporter(a.ErrWriter)
	}

	opts := cfg.StrategyOptions()
	opts.Launcher = a.Launcher
	if opts.Launcher == nil {
		opts.Launcher = worker.NewSelfLauncher(worker.LogSettings{
			Level: cfg.LogLevel, Format: cfg.LogFormat, NoColor: cfg.NoColor,
		})
	}
	opts.Logger = a.Logger

	collector := metrics.NewMemoryCollector()
	memBefore := collector.Snapshot()
	cpuBefore, cpuErr := metrics.ReadCPUTime()
	if cfg.Details {
		// Primes the interval-0 CPU percentage so the later sample covers the run.
		sysmon.Sample(ctx)
	}

	a.Logger.Debug("starting run", logging.String("kernel", k.Name()),
		logging.Int("strategies", len(strategies)), logging.Int("workers", cfg.Workers),
		logging.Uint64("seed", cfg.Seed))
	results := orchestration.ExecuteStrategies(ctx, k, strategies,
		orchestration.RunOptions{Strategy: opts, Verbose: cfg.Verbose}, reporter, progress)
	for _, r := range results {
		recorder.ObserveResult(r.Kind.String(), r.Result, r.Err)
	}

	presOpts := orchestration.PresentationOptions{
		Kernel:    k.Name(),
		Workers:   cfg.Workers,
		Tolerance: cfg.Tolerance,
		Verbose:   cfg.Verbose,
		Details:   cfg.Details,
	}
	var resultPresenter orchestration.ResultPresenter = presenter
	if cfg.Quiet {
		resultPresenter = cli.QuietPresenter{}
	}

	var exitCode int
	if len(results) == 1 {
		exitCode = orchestration.AnalyzeSingleResult(results[0], presOpts, resultPresenter, presenter, out)
	} else {
		exitCode = orchestration.AnalyzeComparisonResults(results, presOpts, resultPresenter, presenter, out)
	}

	if cfg.IsMandel() && exitCode == apperrors.ExitSuccess {
		exitCode = a.saveImage(results, reporter, out)
	}

	if cfg.Details && !cfg.Quiet {
		d := cli.Details{Memory: collector.Snapshot().Since(memBefore), Host: sysmon.Sample(ctx)}
		if cpuErr == nil {
			var after metrics.CPUTime
			after, cpuErr = metrics.ReadCPUTime()
			d.CPU = after.Sub(cpuBefore)
		}
		d.CPUErr = cpuErr
		cli.DisplayDetails(d, out)
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			a.Logger.Error("writing metrics failed", err, logging.String("path", cfg.MetricsFile))
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		}
	}
	return exitCode
}

// saveImage encodes the grid of the fastest successful run. Every successful
// grid is identical once the analysis has passed.
func (a *Application) saveImage(results []orchestration.StrategyResult, reporter timing.Reporter, out io.Writer) int {
	best := findBestResult(results)
	if best == nil {
		return apperrors.ExitSuccess
	}
	grid, ok := best.Result.(*kernel.PixelGrid)
	if !ok {
		return apperrors.ExitSuccess
	}

	label := ""
	if a.Config.Verbose {
		label = "I/O"
	}
	_, err := timing.Measure(label, reporter, func() error {
		return ppm.WriteFile(a.Config.OutputFile, grid, a.Config.MaxIters)
	})
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "%sError saving image: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Image saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

func findBestResult(results []orchestration.StrategyResult) *orchestration.StrategyResult {
	var bestResult *orchestration.StrategyResult
	for i := range results {
		if results[i].Err == nil && results[i].Result != nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}
