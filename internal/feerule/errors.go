package feerule

import "fmt"

// SyntaxError is returned by Compile when a condition cannot be parsed
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// EvalError is returned when a compiled condition fails at evaluation time
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return "evaluation error: " + e.Msg
}

// UndefinedError reports a reference to a field outside the allowed scope
type UndefinedError struct {
	Path string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined reference %q", e.Path)
}
