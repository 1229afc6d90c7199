// Package pool provides a fixed-size pool of persistent worker goroutines
// fed from a shared task queue, with typed futures for collecting results.
//
// Unlike spawning one goroutine per task, the workers are started once and
// reused, which is the in-process counterpart of a persistent worker process
// pool.
package pool
