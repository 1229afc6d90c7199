package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/strategy"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PARBENCH_"

// Commands selecting the kernel.
const (
	CommandPi     = "pi"
	CommandMandel = "mandel"
)

// ModeAll runs every strategy and compares them.
const ModeAll = "all"

// Defaults.
const (
	DefaultSamples    = 100_000_000
	DefaultMode       = "serial"
	DefaultResolution = 250
	DefaultMaxIters   = 1000
	DefaultTolerance  = 0.01
	DefaultOutput     = "mandel.ppm"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "json"
)

// DefaultBox is the rendered region of the complex plane.
var DefaultBox = kernel.BoundingBox{X0: -2.5, Y0: -1.5, X1: 1.5, Y1: 1.5}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Command is CommandPi or CommandMandel.
	Command string
	// N is the number of Monte-Carlo samples.
	N int
	// Mode is a canonical strategy name or ModeAll.
	Mode string
	// Resolution is the number of pixels per unit of the complex plane.
	Resolution int
	Box        kernel.BoundingBox
	MaxIters   int
	// Workers is the width of the parallel strategies; 0 selects one per CPU.
	Workers int
	// Seed is the base random seed.
	Seed uint64
	// Tolerance bounds the disagreement between π estimates in ModeAll.
	Tolerance float64
	// OutputFile is the path of the Mandelbrot image.
	OutputFile string

	Verbose     bool
	Details     bool
	Quiet       bool
	LogLevel    string
	LogFormat   string
	MetricsFile string
	NoColor     bool
	ShowVersion bool
}

// IsMandel reports whether the Mandelbrot kernel is selected.
func (c AppConfig) IsMandel() bool { return c.Command == CommandMandel }

// GridSize returns the image dimensions derived from Box and Resolution.
func (c AppConfig) GridSize() (width, height int) {
	return kernel.GridSize(c.Box, float64(c.Resolution))
}

// KernelSpec describes the selected kernel.
func (c AppConfig) KernelSpec() kernel.Spec {
	if !c.IsMandel() {
		return kernel.Spec{Kind: kernel.KindPi, Samples: c.N}
	}
	w, h := c.GridSize()
	return kernel.Spec{Kind: kernel.KindMandelbrot, Box: c.Box, Width: w, Height: h, MaxIters: c.MaxIters}
}

// StrategyOptions returns the strategy options without logger or launcher.
func (c AppConfig) StrategyOptions() strategy.Options {
	return strategy.Options{Workers: c.Workers, Seed: c.Seed}
}

// boxValue parses "x0,y0,x1,y1" into a bounding box.
type boxValue struct{ box *kernel.BoundingBox }

func (b boxValue) String() string {
	if b.box == nil {
		return ""
	}
	return FormatBox(*b.box)
}

func (b boxValue) Set(s string) error {
	box, err := ParseBox(s)
	if err != nil {
		return err
	}
	*b.box = box
	return nil
}

// ParseBox parses four comma separated numbers.
func ParseBox(s string) (kernel.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return kernel.BoundingBox{}, fmt.Errorf("box %q: want x0,y0,x1,y1", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return kernel.BoundingBox{}, fmt.Errorf("box %q: %w", s, err)
		}
		v[i] = f
	}
	return kernel.BoundingBox{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, nil
}

// FormatBox is the inverse of ParseBox.
func FormatBox(b kernel.BoundingBox) string {
	return fmt.Sprintf("%g,%g,%g,%g", b.X0, b.Y0, b.X1, b.Y1)
}

// ParseConfig parses the command line, applies environment overrides and
// validates the result.
//
// The first argument may name the kernel ("pi" or "mandel"); pi is the
// default. For mandel a single positional argument is the output file.
//
// Parameters:
//   - programName: The name shown in usage messages.
//   - args: The arguments without the program name.
//   - errorWriter: Receives usage and parse errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when help was requested, otherwise a
//     apperrors.ConfigError describing the invalid input.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Command:    CommandPi,
		N:          DefaultSamples,
		Mode:       DefaultMode,
		Resolution: DefaultResolution,
		Box:        DefaultBox,
		MaxIters:   DefaultMaxIters,
		Seed:       uint64(time.Now().UnixNano()),
		Tolerance:  DefaultTolerance,
		OutputFile: DefaultOutput,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch strings.ToLower(args[0]) {
		case CommandPi:
			cfg.Command = CommandPi
			args = args[1:]
		case CommandMandel, "mandelbrot":
			cfg.Command = CommandMandel
			args = args[1:]
		}
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [pi|mandel] [options] [OUTFILE]\n\n", programName)
		fmt.Fprintf(errorWriter, "Modes: %s, %s\n\nOptions:\n", strings.Join(strategy.NewDefaultFactory().List(), ", "), ModeAll)
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.N, "n", cfg.N, "Number of Monte-Carlo samples (shorthand).")
	fs.IntVar(&cfg.N, "niters", cfg.N, "Number of Monte-Carlo samples.")
	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "Execution mode (shorthand).")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Execution mode, or 'all' to compare every strategy.")
	fs.IntVar(&cfg.Resolution, "r", cfg.Resolution, "Pixels per unit (shorthand).")
	fs.IntVar(&cfg.Resolution, "resolution", cfg.Resolution, "Pixels per unit of the complex plane.")
	fs.Var(boxValue{&cfg.Box}, "b", "Bounding box x0,y0,x1,y1 (shorthand).")
	fs.Var(boxValue{&cfg.Box}, "box", "Bounding box x0,y0,x1,y1.")
	fs.IntVar(&cfg.MaxIters, "i", cfg.MaxIters, "Maximum iterations per pixel (shorthand).")
	fs.IntVar(&cfg.MaxIters, "max-iters", cfg.MaxIters, "Maximum iterations per pixel.")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Worker count (shorthand).")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker count of parallel strategies (0 = one per CPU).")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Base random seed (default: time based).")
	fs.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "Maximum deviation of a pi estimate from the mean in 'all' mode.")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Output image (shorthand).")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Output PPM image for mandel.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Report compile, setup and I/O timings (shorthand).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Report compile, setup and I/O timings.")
	fs.BoolVar(&cfg.Details, "d", false, "Show memory, CPU time and host details (shorthand).")
	fs.BoolVar(&cfg.Details, "details", false, "Show memory, CPU time and host details.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Print only results (shorthand).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only results.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or console.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write prometheus metrics of the run to this file.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print the version and exit.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}

	rest := fs.Args()
	if len(rest) > 0 {
		if !cfg.IsMandel() || len(rest) > 1 {
			return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(rest, " "))
		}
		if !isFlagSetAny(fs, "o", "output") {
			cfg.OutputFile = rest[0]
		}
	}

	applyEnvOverrides(&cfg, fs)
	if !cfg.NoColor {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			cfg.NoColor = true
		}
	}
	cfg = ApplyAdaptiveWorkers(cfg)

	if cfg.ShowVersion {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration and canonicalises Mode.
func (c *AppConfig) Validate() error {
	if c.Mode != ModeAll {
		kind, err := strategy.ParseKind(c.Mode)
		if err != nil {
			return apperrors.NewConfigError("unknown mode %q, valid modes: %s, %s",
				c.Mode, strings.Join(strategy.NewDefaultFactory().List(), ", "), ModeAll)
		}
		c.Mode = kind.String()
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return apperrors.NewConfigError("log format must be json or console, got %q", c.LogFormat)
	}

	if !c.IsMandel() {
		if c.N <= 0 {
			return apperrors.NewConfigError("number of samples must be positive, got %d", c.N)
		}
		if c.Tolerance < 0 {
			return apperrors.NewConfigError("tolerance must not be negative, got %g", c.Tolerance)
		}
		return nil
	}

	if c.Resolution <= 0 {
		return apperrors.NewConfigError("resolution must be positive, got %d", c.Resolution)
	}
	if c.MaxIters < 1 {
		return apperrors.NewConfigError("max iterations must be at least 1, got %d", c.MaxIters)
	}
	if w, h := c.GridSize(); w < 2 || h < 2 {
		return apperrors.NewConfigError("box %s at resolution %d gives a %dx%d image, need at least 2x2",
			FormatBox(c.Box), c.Resolution, w, h)
	}
	if c.OutputFile == "" {
		return apperrors.NewConfigError("output file must not be empty")
	}
	return nil
}
