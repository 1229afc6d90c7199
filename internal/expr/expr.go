package expr

import (
	"fmt"
	"strconv"
)

// Op is a binary operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpLess
	OpGreaterEq
)

var opSymbols = [...]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpLess:      "<",
	OpGreaterEq: ">=",
}

// String returns the operator symbol.
func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Node is an expression tree node. Comparison operators yield 1 for true and
// 0 for false.
type Node interface {
	fmt.Stringer
	node()
}

// Const is a literal value.
type Const struct {
	Value float64
}

// Var reads the register at Index from the environment.
type Var struct {
	Name  string
	Index int
}

// Binary applies Op to the values of Left and Right.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (Const) node()  {}
func (Var) node()    {}
func (Binary) node() {}

func (c Const) String() string { return strconv.FormatFloat(c.Value, 'g', -1, 64) }
func (v Var) String() string   { return v.Name }
func (b Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// apply evaluates a single operator. Every arithmetic result is rounded to
// float64 on its own so a product is never fused into a following add.
func apply(op Op, a, b float64) float64 {
	switch op {
	case OpAdd:
		return float64(a + b)
	case OpSub:
		return float64(a - b)
	case OpMul:
		return float64(a * b)
	case OpLess:
		if a < b {
			return 1
		}
		return 0
	case OpGreaterEq:
		if a >= b {
			return 1
		}
		return 0
	}
	panic(fmt.Sprintf("expr: unknown operator %v", op))
}

// Eval interprets n against env by walking the tree.
func Eval(n Node, env []float64) float64 {
	switch n := n.(type) {
	case Const:
		return n.Value
	case Var:
		return env[n.Index]
	case Binary:
		return apply(n.Op, Eval(n.Left, env), Eval(n.Right, env))
	}
	panic(fmt.Sprintf("expr: unknown node %T", n))
}

// Vars returns the number of registers n reads, i.e. the highest Var index
// plus one.
func Vars(n Node) int {
	switch n := n.(type) {
	case Var:
		return n.Index + 1
	case Binary:
		return max(Vars(n.Left), Vars(n.Right))
	}
	return 0
}
