package apperrors

import (
	"errors"
	"fmt"
	"io"
)

// ColorProvider supplies the escape codes used when printing an error. It
// keeps this package free of any dependency on the ui package.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleStrategyError prints err in a user-facing form and maps it to an exit
// code. A nil error maps to ExitSuccess without printing anything.
//
// Parameters:
//   - err: The error returned by a strategy or the orchestrator.
//   - out: The writer receiving the message.
//   - colors: The color provider for the message.
//
// Returns:
//   - int: The exit code matching the error class.
func HandleStrategyError(err error, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	var configErr ConfigError
	var validationErr ValidationError
	switch {
	case IsContextError(err):
		fmt.Fprintf(out, "%sRun canceled: %v%s\n", colors.Yellow(), err, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		fmt.Fprintf(out, "%sInvalid input: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	}

	fmt.Fprintf(out, "%sError: %v%s\n", colors.Red(), err, colors.Reset())
	return ExitErrorGeneric
}
