package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
)

// Logger is the logging interface used across the application.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is a structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err creates a field holding an error under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ─────────────────────────────────────────────────────────────────────────────
// zerolog backend
// ─────────────────────────────────────────────────────────────────────────────

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

var _ Logger = (*ZerologAdapter)(nil)

// NewZerologAdapter wraps an existing zerolog logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a JSON logger writing to w, tagged with a component field.
func NewLogger(w io.Writer, component string) Logger {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// NewDefaultLogger creates a logger writing to stderr.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, "parbench")
}

// Info logs at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	z.applyFields(z.logger.Info(), fields).Msg(msg)
}

// Error logs at error level with err attached.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	z.applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Debug logs at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	z.applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

// Println logs its arguments separated by spaces at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (z *ZerologAdapter) applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

// ─────────────────────────────────────────────────────────────────────────────
// slog + tint console backend
// ─────────────────────────────────────────────────────────────────────────────

// SlogAdapter implements Logger on top of log/slog.
type SlogAdapter struct {
	logger *slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

// NewSlogAdapter wraps an existing slog logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// NewConsoleLogger creates a human-readable colored logger writing to w.
func NewConsoleLogger(w io.Writer, component string, level slog.Level, noColor bool) Logger {
	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})
	return NewSlogAdapter(slog.New(h).With("component", component))
}

// Info logs at info level.
func (s *SlogAdapter) Info(msg string, fields ...Field) {
	s.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs(fields)...)
}

// Error logs at error level with err attached.
func (s *SlogAdapter) Error(msg string, err error, fields ...Field) {
	a := attrs(fields)
	if err != nil {
		a = append(a, tint.Err(err))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelError, msg, a...)
}

// Debug logs at debug level.
func (s *SlogAdapter) Debug(msg string, fields ...Field) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs(fields)...)
}

// Printf logs a formatted message at info level.
func (s *SlogAdapter) Printf(format string, args ...any) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

// Println logs its arguments separated by spaces at info level.
func (s *SlogAdapter) Println(args ...any) {
	s.logger.Info(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func attrs(fields []Field) []slog.Attr {
	out := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction from configuration
// ─────────────────────────────────────────────────────────────────────────────

// New builds a logger from textual settings as found in the configuration.
// format is "json" (zerolog) or "console" (tint); level is a zerolog level
// name. Unknown levels fall back to warn.
func New(w io.Writer, component, format, level string, noColor bool) Logger {
	zl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		zl = zerolog.WarnLevel
	}
	if format == "console" {
		return NewConsoleLogger(w, component, slogLevel(zl), noColor)
	}
	z := zerolog.New(w).Level(zl).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(z)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewZerologAdapter(zerolog.Nop())
}

func slogLevel(l zerolog.Level) slog.Level {
	switch l {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return slog.LevelDebug
	case zerolog.InfoLevel:
		return slog.LevelInfo
	case zerolog.WarnLevel:
		return slog.LevelWarn
	case zerolog.Disabled:
		return slog.LevelError + 4
	}
	return slog.LevelError
}
