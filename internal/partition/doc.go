// Package partition splits a number of independent work units into disjoint,
// contiguous ranges, one per execution context.
package partition
