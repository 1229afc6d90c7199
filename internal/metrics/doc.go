// Package metrics collects per-run measurements: runtime memory statistics,
// processor time including worker processes, and a prometheus registry fed
// by the timing harness.
package metrics
