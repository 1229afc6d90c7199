// Package strategy implements the ways a kernel's work can be mapped onto
// execution contexts: inline on the caller, one goroutine per range, a
// persistent goroutine pool, or persistent worker processes, each with the
// interpreted or compiled kernel form.
//
// Every strategy partitions the work with partition.Partition, gives each
// range its own random stream, and reduces the partials with the kernel's
// accumulator, so all strategies agree on the result for a given seed.
package strategy
