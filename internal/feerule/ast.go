package feerule

import "strings"

type node interface {
	eval(env Env) (Value, error)
}

type literalNode struct {
	value Value
}

type pathNode struct {
	parts []string
}

func (n *pathNode) path() string {
	return strings.Join(n.parts, ".")
}

type unaryNode struct {
	op      TokenKind
	operand node
}

type binaryNode struct {
	op    TokenKind
	left  node
	right node
}

// logicalNode is kept apart from binaryNode because && and || short-circuit
type logicalNode struct {
	op    TokenKind
	left  node
	right node
}
