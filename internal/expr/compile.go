package expr

// Func evaluates an expression against a register environment.
type Func func(env []float64) float64

// Interpret returns a Func that walks n on every call.
func Interpret(n Node) Func {
	return func(env []float64) float64 { return Eval(n, env) }
}

// Compile translates n into a tree of closures once, so later calls skip the
// node dispatch. Constant subtrees are folded and the common leaf shapes
// (register op register, register op constant) get dedicated closures.
//
// The compiled Func returns exactly the value Eval would for every env.
func Compile(n Node) Func {
	switch n := fold(n).(type) {
	case Const:
		v := n.Value
		return func([]float64) float64 { return v }
	case Var:
		i := n.Index
		return func(env []float64) float64 { return env[i] }
	case Binary:
		return compileBinary(n)
	}
	return Interpret(n)
}

// fold replaces every Binary whose operands are both constants.
func fold(n Node) Node {
	b, ok := n.(Binary)
	if !ok {
		return n
	}
	l, r := fold(b.Left), fold(b.Right)
	lc, lok := l.(Const)
	rc, rok := r.(Const)
	if lok && rok {
		return Const{Value: apply(b.Op, lc.Value, rc.Value)}
	}
	return Binary{Op: b.Op, Left: l, Right: r}
}

func compileBinary(b Binary) Func {
	lv, lVar := b.Left.(Var)
	rv, rVar := b.Right.(Var)
	rc, rConst := b.Right.(Const)
	lc, lConst := b.Left.(Const)

	switch {
	case lVar && rVar:
		return varVar(b.Op, lv.Index, rv.Index)
	case lVar && rConst:
		return varConst(b.Op, lv.Index, rc.Value)
	case lConst && rVar:
		return constVar(b.Op, lc.Value, rv.Index)
	}
	return funcFunc(b.Op, Compile(b.Left), Compile(b.Right))
}

func varVar(op Op, i, j int) Func {
	switch op {
	case OpAdd:
		return func(env []float64) float64 { return float64(env[i] + env[j]) }
	case OpSub:
		return func(env []float64) float64 { return float64(env[i] - env[j]) }
	case OpMul:
		return func(env []float64) float64 { return float64(env[i] * env[j]) }
	}
	return func(env []float64) float64 { return apply(op, env[i], env[j]) }
}

func varConst(op Op, i int, c float64) Func {
	switch op {
	case OpAdd:
		return func(env []float64) float64 { return float64(env[i] + c) }
	case OpSub:
		return func(env []float64) float64 { return float64(env[i] - c) }
	case OpMul:
		return func(env []float64) float64 { return float64(env[i] * c) }
	case OpLess:
		return func(env []float64) float64 {
			if env[i] < c {
				return 1
			}
			return 0
		}
	case OpGreaterEq:
		return func(env []float64) float64 {
			if env[i] >= c {
				return 1
			}
			return 0
		}
	}
	return func(env []float64) float64 { return apply(op, env[i], c) }
}

func constVar(op Op, c float64, j int) Func {
	switch op {
	case OpAdd:
		return func(env []float64) float64 { return float64(c + env[j]) }
	case OpSub:
		return func(env []float64) float64 { return float64(c - env[j]) }
	case OpMul:
		return func(env []float64) float64 { return float64(c * env[j]) }
	}
	return func(env []float64) float64 { return apply(op, c, env[j]) }
}

func funcFunc(op Op, l, r Func) Func {
	switch op {
	case OpAdd:
		return func(env []float64) float64 { return float64(l(env) + r(env)) }
	case OpSub:
		return func(env []float64) float64 { return float64(l(env) - r(env)) }
	case OpMul:
		return func(env []float64) float64 { return float64(l(env) * r(env)) }
	case OpLess:
		return func(env []float64) float64 {
			if l(env) < r(env) {
				return 1
			}
			return 0
		}
	case OpGreaterEq:
		return func(env []float64) float64 {
			if l(env) >= r(env) {
				return 1
			}
			return 0
		}
	}
	return func(env []float64) float64 { return apply(op, l(env), r(env)) }
}
