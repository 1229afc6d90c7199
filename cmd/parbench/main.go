package main

import (
	"context"
	"os"

	"github.com/agbru/parbench/internal/app"
	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/worker"
)

func main() {
	// Process-pool workers are this same binary; they never parse flags.
	if worker.IsWorkerProcess() {
		os.Exit(worker.Main())
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
