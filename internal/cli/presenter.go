package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/strategy"
	"github.com/agbru/parbench/internal/ui"
)

// CLIColorProvider adapts the ui theme to apperrors.ColorProvider.
type CLIColorProvider struct{}

// Red returns the error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset clears formatting.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
	_ apperrors.ColorProvider         = CLIColorProvider{}
)

// speedups returns each result's speed-up relative to the serial run, or
// nil when serial did not succeed.
func speedups(results []orchestration.StrategyResult) map[strategy.Kind]float64 {
	var base time.Duration
	for _, r := range results {
		if r.Kind == strategy.Serial && r.Err == nil {
			base = r.Duration
		}
	}
	if base <= 0 {
		return nil
	}
	out := make(map[strategy.Kind]float64, len(results))
	for _, r := range results {
		if r.Err == nil && r.Duration > 0 {
			out[r.Kind] = float64(base) / float64(r.Duration)
		}
	}
	return out
}

// PresentComparisonTable displays the comparison summary table with strategy
// names, setup and run durations, speed-up against serial, and status.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.StrategyResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	speedup := speedups(results)
	theme := ui.GetCurrentTableTheme()
	failed := make(map[int]bool)
	rows := make([][]string, 0, len(results))
	for i, res := range results {
		ratio := "-"
		if s, ok := speedup[res.Kind]; ok {
			ratio = format.FormatSpeedup(s)
		}
		status := "✅ Success"
		result := "-"
		if res.Err != nil {
			status = fmt.Sprintf("❌ Failure (%v)", res.Err)
			failed[i] = true
		} else if res.Result != nil {
			result = res.Result.Summary()
		}
		rows = append(rows, []string{
			res.Kind.String(),
			format.FormatExecutionDuration(res.Setup),
			format.FormatExecutionDuration(res.Duration),
			ratio,
			result,
			status,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Border).
		Headers("Strategy", "Setup", "Duration", "Speed-up", "Result", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.Header
			case col == 5 && failed[row]:
				return theme.Failure
			case col == 5:
				return theme.Success
			}
			return theme.Cell
		})
	fmt.Fprintln(out, t.Render())
}

// PresentResult displays the final result.
func (CLIResultPresenter) PresentResult(result orchestration.StrategyResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// FormatDuration formats a duration for display.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError prints err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	return apperrors.HandleStrategyError(err, out, CLIColorProvider{})
}

// QuietPresenter prints only the result line.
type QuietPresenter struct{ CLIResultPresenter }

// PresentComparisonTable prints nothing.
func (QuietPresenter) PresentComparisonTable([]orchestration.StrategyResult, io.Writer) {}

// PresentResult prints the summary line only.
func (QuietPresenter) PresentResult(result orchestration.StrategyResult, _ orchestration.PresentationOptions, out io.Writer) {
	DisplayQuietResult(result, out)
}
