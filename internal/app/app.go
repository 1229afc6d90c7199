package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/agbru/parbench/internal/config"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/strategy"
	"github.com/agbru/parbench/internal/ui"
	"github.com/agbru/parbench/internal/worker"
)

// Application represents the parbench application instance.
type Application struct {
	Config    config.AppConfig
	Factory   strategy.Factory
	Launcher  worker.Launcher
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom strategy factory for the application.
func WithFactory(f strategy.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLauncher sets how process-pool workers are started.
func WithLauncher(l worker.Launcher) AppOption {
	return func(a *Application) { a.Launcher = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = strategy.NewDefaultFactory()
	}

	programName := "parbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	app.Logger = logging.New(errWriter, "parbench", cfg.LogFormat, cfg.LogLevel, cfg.NoColor)
	return app, nil
}

// Run executes the configured benchmark and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return 0
	}
	ui.InitTheme(a.Config.NoColor)
	return a.runBenchmark(ctx, out)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "parbench %s (commit %s, built %s)\n", Version, Commit, BuildDate)
}

// Build information, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
