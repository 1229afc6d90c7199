// Package worker runs kernel ranges in isolated child processes.
//
// The parent binary re-executes itself with PARBENCH_WORKER=1; the child
// serves gob-encoded requests on stdin and answers on stdout until stdin is
// closed. Nothing but a kernel.Spec, a range, and the seeding crosses the
// process boundary, so every worker rebuilds and compiles its own kernel.
package worker
