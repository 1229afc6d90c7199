// Package logging provides a unified logging interface for the benchmark
// harness. It abstracts the underlying logging implementation, allowing
// consistent logging across components (including worker processes) while
// supporting a JSON zerolog backend and a colored slog console backend.
package logging
