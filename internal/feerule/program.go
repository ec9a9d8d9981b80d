// Package feerule compiles and evaluates admin-authored fee rule conditions.
//
// Conditions are small boolean expressions such as
//
//	bookingDetails.distanceMiles > 50 && bookingDetails.carSeats >= 1
//
// They are parsed into a tree and interpreted against an Env that exposes
// only whitelisted fields. There is no way to call functions, assign values
// or reach anything outside the Env.
package feerule

import "strings"

// Env resolves dotted field paths such as "bookingDetails.hours"
type Env interface {
	Lookup(path string) (Value, bool)
}

// MapEnv is an Env backed by a flat map keyed by the full dotted path
type MapEnv map[string]Value

// Lookup implements Env
func (m MapEnv) Lookup(path string) (Value, bool) {
	v, ok := m[path]
	return v, ok
}

// Program is a compiled condition. It is immutable and safe for concurrent use.
type Program struct {
	source string
	root   node
	paths  []string
}

// Compile parses a condition
func Compile(src string) (*Program, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Program{
		source: strings.TrimSpace(src),
		root:   root,
		paths:  collectPaths(root, nil),
	}, nil
}

// Source returns the trimmed condition text
func (p *Program) Source() string {
	return p.source
}

// References lists every field path the condition reads, in source order
func (p *Program) References() []string {
	out := make([]string, len(p.paths))
	copy(out, p.paths)
	return out
}

// Eval evaluates the condition and returns its raw value
func (p *Program) Eval(env Env) (Value, error) {
	return p.root.eval(env)
}

// Match evaluates the condition and reports whether it is truthy
func (p *Program) Match(env Env) (bool, error) {
	v, err := p.Eval(env)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// CheckReferences returns an UndefinedError for the first path the env
// cannot resolve. Used to reject rules at save time.
func (p *Program) CheckReferences(env Env) error {
	for _, path := range p.paths {
		if _, ok := env.Lookup(path); !ok {
			return &UndefinedError{Path: path}
		}
	}
	return nil
}

func collectPaths(n node, acc []string) []string {
	switch t := n.(type) {
	case *pathNode:
		acc = append(acc, t.path())
	case *unaryNode:
		acc = collectPaths(t.operand, acc)
	case *binaryNode:
		acc = collectPaths(t.left, acc)
		acc = collectPaths(t.right, acc)
	case *logicalNode:
		acc = collectPaths(t.left, acc)
		acc = collectPaths(t.right, acc)
	}
	return acc
}
