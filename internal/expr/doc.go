// Package expr provides the two execution forms of a kernel's inner
// arithmetic: a tree-walking interpreter (Eval, Interpret) and a compiler
// that turns the tree into specialised closures ahead of use (Compile).
//
// Both forms produce bit-identical float64 results for the same input.
package expr
