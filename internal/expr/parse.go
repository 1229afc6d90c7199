package expr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// Parse reads an arithmetic expression written in Go syntax. Identifiers must
// be listed in vars; the position in vars becomes the register index.
//
// Supported: float and integer literals, parentheses, unary minus on
// literals, and the binary operators + - * < >=.
func Parse(src string, vars ...string) (Node, error) {
	e, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("expr: parse %q: %w", src, err)
	}
	index := make(map[string]int, len(vars))
	for i, v := range vars {
		index[v] = i
	}
	n, err := convert(e, index)
	if err != nil {
		return nil, fmt.Errorf("expr: %q: %w", src, err)
	}
	return n, nil
}

// MustParse is like Parse but panics on error. It is meant for package-level
// kernel definitions.
func MustParse(src string, vars ...string) Node {
	n, err := Parse(src, vars...)
	if err != nil {
		panic(err)
	}
	return n
}

var binaryOps = map[token.Token]Op{
	token.ADD: OpAdd,
	token.SUB: OpSub,
	token.MUL: OpMul,
	token.LSS: OpLess,
	token.GEQ: OpGreaterEq,
}

func convert(e ast.Expr, index map[string]int) (Node, error) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return convert(e.X, index)
	case *ast.BasicLit:
		return literal(e.Value, e.Kind)
	case *ast.Ident:
		i, ok := index[e.Name]
		if !ok {
			return nil, fmt.Errorf("unknown variable %q", e.Name)
		}
		return Var{Name: e.Name, Index: i}, nil
	case *ast.UnaryExpr:
		lit, ok := e.X.(*ast.BasicLit)
		if e.Op != token.SUB || !ok {
			return nil, fmt.Errorf("unsupported unary %s", e.Op)
		}
		return literal("-"+lit.Value, lit.Kind)
	case *ast.BinaryExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %s", e.Op)
		}
		l, err := convert(e.X, index)
		if err != nil {
			return nil, err
		}
		r, err := convert(e.Y, index)
		if err != nil {
			return nil, err
		}
		return Binary{Op: op, Left: l, Right: r}, nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

func literal(s string, kind token.Token) (Node, error) {
	if kind != token.INT && kind != token.FLOAT {
		return nil, fmt.Errorf("unsupported literal %s", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return Const{Value: v}, nil
}
