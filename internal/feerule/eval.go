package feerule

import (
	"math"
)

func (n *literalNode) eval(Env) (Value, error) {
	return n.value, nil
}

func (n *pathNode) eval(env Env) (Value, error) {
	if env == nil {
		return Null, &UndefinedError{Path: n.path()}
	}
	v, ok := env.Lookup(n.path())
	if !ok {
		return Null, &UndefinedError{Path: n.path()}
	}
	return v, nil
}

func (n *unaryNode) eval(env Env) (Value, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return Null, err
	}
	switch n.op {
	case tokNot:
		return Bool(!v.Truthy()), nil
	case tokMinus:
		return Number(-v.toNumber()), nil
	default:
		return Number(v.toNumber()), nil
	}
}

func (n *logicalNode) eval(env Env) (Value, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return Null, err
	}
	// the operand value is returned, not a coerced bool
	if n.op == tokAnd && !left.Truthy() {
		return left, nil
	}
	if n.op == tokOr && left.Truthy() {
		return left, nil
	}
	return n.right.eval(env)
}

func (n *binaryNode) eval(env Env) (Value, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return Null, err
	}
	right, err := n.right.eval(env)
	if err != nil {
		return Null, err
	}

	switch n.op {
	case tokStrictEq:
		return Bool(strictEqual(left, right)), nil
	case tokStrictNotEq:
		return Bool(!strictEqual(left, right)), nil
	case tokEq:
		return Bool(looseEqual(left, right)), nil
	case tokNotEq:
		return Bool(!looseEqual(left, right)), nil
	case tokLess, tokLessEq, tokGreater, tokGreaterEq:
		return compare(n.op, left, right), nil
	case tokPlus:
		if left.Kind == KindString || right.Kind == KindString {
			return String(left.String() + right.String()), nil
		}
		return arithmetic(n.op, left.toNumber(), right.toNumber())
	default:
		return arithmetic(n.op, left.toNumber(), right.toNumber())
	}
}

func compare(op TokenKind, left, right Value) Value {
	if left.Kind == KindString && right.Kind == KindString {
		switch op {
		case tokLess:
			return Bool(left.Str < right.Str)
		case tokLessEq:
			return Bool(left.Str <= right.Str)
		case tokGreater:
			return Bool(left.Str > right.Str)
		default:
			return Bool(left.Str >= right.Str)
		}
	}

	// comparisons involving NaN are always false
	l, r := left.toNumber(), right.toNumber()
	switch op {
	case tokLess:
		return Bool(l < r)
	case tokLessEq:
		return Bool(l <= r)
	case tokGreater:
		return Bool(l > r)
	default:
		return Bool(l >= r)
	}
}

func arithmetic(op TokenKind, l, r float64) (Value, error) {
	switch op {
	case tokPlus:
		return Number(l + r), nil
	case tokMinus:
		return Number(l - r), nil
	case tokStar:
		return Number(l * r), nil
	case tokSlash:
		if r == 0 {
			return Null, &EvalError{Msg: "division by zero"}
		}
		return Number(l / r), nil
	case tokPercent:
		if r == 0 {
			return Null, &EvalError{Msg: "modulo by zero"}
		}
		return Number(math.Mod(l, r)), nil
	}
	return Null, &EvalError{Msg: "unsupported operator " + op.String()}
}
