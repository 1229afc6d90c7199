// Package app wires configuration, strategies, presentation and metrics into
// a single command invocation.
package app
