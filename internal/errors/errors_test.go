// Package apperrors provides tests for application error types.
package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 0, "--niters"),
			expected: "invalid value 0 for flag --niters",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestStrategyError(t *testing.T) {
	t.Parallel()
	cause := errors.New("worker exited")
	err := StrategyError{Strategy: "processpool", Phase: "run", Cause: cause}

	if got, want := err.Error(), "processpool run failed: worker exited"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	wrapped := fmt.Errorf("outer: %w", StrategyError{Strategy: "serial", Phase: "setup", Cause: context.Canceled})
	var se StrategyError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As should find StrategyError")
	}
	if se.Phase != "setup" {
		t.Errorf("Phase = %q, want setup", se.Phase)
	}
	if !errors.Is(wrapped, context.Canceled) {
		t.Error("errors.Is should see through both layers")
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "samples", Message: "must be positive"}
	if got, want := err.Error(), `validation error for "samples": must be positive`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
	base := errors.New("base")
	err := WrapError(base, "loading %s", "spec")
	if got, want := err.Error(), "loading spec: base"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should match base")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped canceled", fmt.Errorf("run: %w", context.Canceled), true},
		{"other", errors.New("x"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

func TestHandleStrategyError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"nil", nil, ExitSuccess, ""},
		{"canceled", StrategyError{Strategy: "serial", Phase: "run", Cause: context.Canceled}, ExitErrorCanceled, "Run canceled"},
		{"validation", ValidationError{Field: "samples", Message: "must be positive"}, ExitErrorConfig, "Invalid input"},
		{"config", NewConfigError("bad mode"), ExitErrorConfig, "bad mode"},
		{"generic", StrategyError{Strategy: "processpool", Phase: "run", Cause: errors.New("boom")}, ExitErrorGeneric, "Error: processpool run failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleStrategyError(tt.err, &buf, plainColors{})
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantOut) {
				t.Errorf("output %q should contain %q", buf.String(), tt.wantOut)
			}
			if tt.err == nil && buf.Len() != 0 {
				t.Errorf("nil error should print nothing, got %q", buf.String())
			}
		})
	}
}
