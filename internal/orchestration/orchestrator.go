package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/strategy"
	"github.com/agbru/parbench/internal/timing"
)

const tracerName = "github.com/agbru/parbench/internal/orchestration"

// ErrInconsistent is returned when successful strategies disagree.
var ErrInconsistent = errors.New("strategy results are inconsistent")

// RunOptions configures ExecuteStrategies.
type RunOptions struct {
	Strategy strategy.Options
	// Verbose reports the compile and setup phases as well as the runs.
	Verbose bool
}

// GetStrategiesToRun determines which strategies should be executed for a
// mode. "all" selects every registered strategy in canonical order.
//
// Parameters:
//   - mode: A mode name, an alias, or "all".
//   - factory: The strategy factory to retrieve implementations from.
//
// Returns:
//   - []strategy.Strategy: The strategies to execute.
//   - error: strategy.ErrUnknownStrategy for an unknown mode.
func GetStrategiesToRun(mode string, factory strategy.Factory) ([]strategy.Strategy, error) {
	if mode == "all" {
		return factory.GetAll(), nil
	}
	s, err := factory.Get(mode)
	if err != nil {
		return nil, err
	}
	return []strategy.Strategy{s}, nil
}

// ExecuteStrategies runs each strategy over k in turn. Runs never overlap, so
// their timings are comparable.
//
// Before the first in-process compiled strategy the compiled kernel form is
// warmed up once (label "compile: <kernel>"); process-pool workers warm their
// own kernel during setup. For each strategy the execution is prepared
// (label "setup: <kind>"), and the run is timed under the strategy's kind. The compile and setup
// phases are only reported when opts.Verbose is set. The context is
// consulted between phases; a strategy is never interrupted mid-run.
//
// Parameters:
//   - ctx: The context for cancellation between phases.
//   - k: The kernel to run.
//   - strategies: The strategies, in execution order.
//   - opts: Strategy options and verbosity.
//   - reporter: Receives the timing records.
//   - progress: Shows activity while a strategy runs.
//
// Returns:
//   - []StrategyResult: One result per strategy, in input order.
func ExecuteStrategies(ctx context.Context, k kernel.Kernel, strategies []strategy.Strategy, opts RunOptions, reporter timing.Reporter, progress ProgressReporter) []StrategyResult {
	if progress == nil {
		progress = NullProgressReporter{}
	}
	logger := opts.Strategy.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	tracer := otel.Tracer(tracerName)
	warmed := false

	results := make([]StrategyResult, len(strategies))
	for i, s := range strategies {
		results[i] = StrategyResult{Name: s.Name(), Kind: s.Kind()}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		if s.Kind().Form() == kernel.Compiled && s.Kind().InProcess() && !warmed {
			timing.Measure(verboseLabel(opts.Verbose, "compile: "+k.Name()), reporter, func() error {
				k.Warmup(kernel.Compiled)
				return nil
			})
			warmed = true
		}
		runOne(ctx, tracer, k, s, opts, reporter, &onceProgress{inner: progress}, &results[i])
		if err := results[i].Err; err != nil {
			logger.Error("strategy failed", err, logging.String("strategy", s.Kind().String()))
		} else {
			logger.Debug("strategy finished", logging.String("strategy", s.Kind().String()),
				logging.Float64("seconds", results[i].Duration.Seconds()))
		}
	}
	return results
}

func runOne(ctx context.Context, tracer trace.Tracer, k kernel.Kernel, s strategy.Strategy, opts RunOptions, reporter timing.Reporter, progress ProgressReporter, res *StrategyResult) {
	kind := s.Kind().String()
	ctx, span := tracer.Start(ctx, "strategy "+kind, trace.WithAttributes(
		attribute.String("kernel", k.Name()),
		attribute.String("strategy", kind),
		attribute.Int("workers", opts.Strategy.Workers),
		attribute.Int("units", k.Size()),
	))
	defer func() {
		if r := recover(); r != nil {
			progress.Stop()
			res.Result = nil
			res.Err = apperrors.StrategyError{Strategy: kind, Phase: "run", Cause: fmt.Errorf("panic: %v", r)}
		}
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
		span.End()
	}()

	var exec strategy.Execution
	setup, err := timing.Measure(verboseLabel(opts.Verbose, "setup: "+kind), reporter, func() error {
		var err error
		exec, err = s.Prepare(ctx, k, opts.Strategy)
		return err
	})
	res.Setup = setup.Elapsed
	if err != nil {
		res.Err = apperrors.StrategyError{Strategy: kind, Phase: "setup", Cause: err}
		return
	}
	defer func() {
		if err := exec.Close(); err != nil && res.Err == nil {
			res.Err = apperrors.StrategyError{Strategy: kind, Phase: "close", Cause: err}
		}
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}

	progress.Start(s.Name())
	var result kernel.Result
	run, err := timing.Measure(kind, stopOnReport(progress, reporter), func() error {
		var err error
		result, err = exec.Run(ctx)
		return err
	})
	progress.Stop()
	res.Duration = run.Elapsed
	if err != nil {
		res.Err = apperrors.StrategyError{Strategy: kind, Phase: "run", Cause: err}
		return
	}
	res.Result = result
	span.SetAttributes(attribute.String("result", result.Summary()))
}

func verboseLabel(verbose bool, label string) string {
	if verbose {
		return label
	}
	return ""
}

// CheckConsistency verifies that every successful result agrees. π estimates
// must each lie within tolerance of the mean estimate; grids must be
// identical cell for cell.
func CheckConsistency(results []StrategyResult, tolerance float64) error {
	var estimates []float64
	var grid *kernel.PixelGrid
	var gridFrom string
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			continue
		}
		switch v := r.Result.(type) {
		case kernel.PiEstimate:
			estimates = append(estimates, v.Estimate)
		case *kernel.PixelGrid:
			if grid == nil {
				grid, gridFrom = v, r.Kind.String()
			} else if !grid.Equal(v) {
				return fmt.Errorf("%w: %s grid differs from %s", ErrInconsistent, r.Kind, gridFrom)
			}
		default:
			return fmt.Errorf("%w: unexpected result type %T from %s", ErrInconsistent, v, r.Kind)
		}
	}
	if len(estimates) > 0 && grid != nil {
		return fmt.Errorf("%w: mixed kernel results", ErrInconsistent)
	}
	if len(estimates) > 1 {
		mean := stat.Mean(estimates, nil)
		for i, e := range estimates {
			if math.Abs(e-mean) > tolerance {
				return fmt.Errorf("%w: estimate %d (%.9f) is %.3g from the mean %.9f, tolerance %g",
					ErrInconsistent, i, e, math.Abs(e-mean), mean, tolerance)
			}
		}
	}
	return nil
}

// AnalyzeComparisonResults processes the results from multiple strategies and
// generates a summary report.
//
// It sorts the results by execution time, validates consistency across
// successful runs, and displays a comparative table. All strategies failing
// is reported through errHandler; a partial failure still presents the
// consistent result but returns the first failure's exit code.
//
// Parameters:
//   - results: The slice of strategy results to analyze.
//   - opts: Presentation options, including the π tolerance.
//   - presenter: The result presenter for display formatting.
//   - errHandler: Maps errors to exit codes.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []StrategyResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *StrategyResult
	var firstError error
	successCount := 0
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the run.\n")
		return errHandler.HandleError(firstError, out)
	}

	if err := CheckConsistency(results, opts.Tolerance); err != nil {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the strategies: %v\n", err)
		return apperrors.ExitErrorMismatch
	}

	if firstError != nil {
		fmt.Fprintf(out, "\nGlobal Status: Partial failure. %d of %d strategies failed; the others are consistent.\n",
			len(results)-successCount, len(results))
		presenter.PresentResult(*firstValidResult, opts, out)
		return errHandler.HandleError(firstError, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValidResult, opts, out)
	return apperrors.ExitSuccess
}

// AnalyzeSingleResult reports the outcome of a single-strategy run.
func AnalyzeSingleResult(result StrategyResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	if result.Err != nil {
		return errHandler.HandleError(result.Err, out)
	}
	presenter.PresentResult(result, opts, out)
	return apperrors.ExitSuccess
}
