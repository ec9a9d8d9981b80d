package feerule

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind identifies the lexical class of a token
type TokenKind int

const (
	tokEOF TokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokTrue
	tokFalse
	tokNull
	tokDot
	tokLParen
	tokRParen
	tokNot
	tokAnd
	tokOr
	tokEq
	tokNotEq
	tokStrictEq
	tokStrictNotEq
	tokLess
	tokLessEq
	tokGreater
	tokGreaterEq
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
)

var tokenNames = map[TokenKind]string{
	tokEOF:         "end of expression",
	tokNumber:      "number",
	tokString:      "string",
	tokIdent:       "identifier",
	tokTrue:        "true",
	tokFalse:       "false",
	tokNull:        "null",
	tokDot:         ".",
	tokLParen:      "(",
	tokRParen:      ")",
	tokNot:         "!",
	tokAnd:         "&&",
	tokOr:          "||",
	tokEq:          "==",
	tokNotEq:       "!=",
	tokStrictEq:    "===",
	tokStrictNotEq: "!==",
	tokLess:        "<",
	tokLessEq:      "<=",
	tokGreater:     ">",
	tokGreaterEq:   ">=",
	tokPlus:        "+",
	tokMinus:       "-",
	tokStar:        "*",
	tokSlash:       "/",
	tokPercent:     "%",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a single lexeme with its byte offset in the source
type Token struct {
	Kind TokenKind
	Text string
	Num  float64
	Pos  int
}

// maxConditionLength bounds the work done on an admin-entered condition.
const maxConditionLength = 4096

// tokenize splits a condition into tokens. It never panics on malformed input.
func tokenize(src string) ([]Token, error) {
	if len(src) > maxConditionLength {
		return nil, &SyntaxError{Pos: maxConditionLength, Msg: "condition too long"}
	}

	var tokens []Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			// exponent part, e.g. 1e3 or 2.5E-2
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					i = j
					for i < len(src) && isDigit(src[i]) {
						i++
					}
				}
			}
			text := src[start:i]
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
			}
			tokens = append(tokens, Token{Kind: tokNumber, Text: text, Num: n, Pos: start})
		case c == '"' || c == '\'':
			s, next, err := readString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: tokString, Text: s, Pos: i})
			i = next
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			word := src[start:i]
			kind := tokIdent
			switch word {
			case "true":
				kind = tokTrue
			case "false":
				kind = tokFalse
			case "null":
				kind = tokNull
			}
			tokens = append(tokens, Token{Kind: kind, Text: word, Pos: start})
		default:
			kind, width := operator(src[i:])
			if width == 0 {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
			}
			tokens = append(tokens, Token{Kind: kind, Text: src[i : i+width], Pos: i})
			i += width
		}
	}
	tokens = append(tokens, Token{Kind: tokEOF, Pos: len(src)})
	return tokens, nil
}

func operator(s string) (TokenKind, int) {
	three := []struct {
		text string
		kind TokenKind
	}{
		{"===", tokStrictEq},
		{"!==", tokStrictNotEq},
	}
	for _, op := range three {
		if strings.HasPrefix(s, op.text) {
			return op.kind, 3
		}
	}

	two := []struct {
		text string
		kind TokenKind
	}{
		{"==", tokEq},
		{"!=", tokNotEq},
		{"<=", tokLessEq},
		{">=", tokGreaterEq},
		{"&&", tokAnd},
		{"||", tokOr},
	}
	for _, op := range two {
		if strings.HasPrefix(s, op.text) {
			return op.kind, 2
		}
	}

	switch s[0] {
	case '.':
		return tokDot, 1
	case '(':
		return tokLParen, 1
	case ')':
		return tokRParen, 1
	case '!':
		return tokNot, 1
	case '<':
		return tokLess, 1
	case '>':
		return tokGreater, 1
	case '+':
		return tokPlus, 1
	case '-':
		return tokMinus, 1
	case '*':
		return tokStar, 1
	case '/':
		return tokSlash, 1
	case '%':
		return tokPercent, 1
	}
	return tokEOF, 0
}

func readString(src string, start int) (string, int, error) {
	quote := src[start]
	var b strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(src):
			i++
			switch src[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(src[i])
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, &SyntaxError{Pos: start, Msg: "unterminated string"}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
