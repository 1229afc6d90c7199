// Package cli renders a benchmark run on the terminal: the configuration
// banner, a spinner while each strategy runs, the comparison table and the
// final result.
package cli
