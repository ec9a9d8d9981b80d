package feerule

import "fmt"

// maxDepth limits nesting so a hostile condition cannot exhaust the stack.
const maxDepth = 64

type parser struct {
	tokens []Token
	pos    int
	depth  int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) match(kinds ...TokenKind) (Token, bool) {
	tok := p.peek()
	for _, k := range kinds {
		if tok.Kind == k {
			p.next()
			return tok, true
		}
	}
	return tok, false
}

func (p *parser) parse() (node, error) {
	if p.peek().Kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty condition"}
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != tokEOF {
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %s", describe(tok))}
	}
	return n, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(tokOr)
		if !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: tok.Kind, left: left, right: right}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(tokAnd)
		if !ok {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: tok.Kind, left: left, right: right}
	}
}

func (p *parser) parseEquality() (node, error) {
	return p.parseBinary(p.parseComparison, tokEq, tokNotEq, tokStrictEq, tokStrictNotEq)
}

func (p *parser) parseComparison() (node, error) {
	return p.parseBinary(p.parseAdditive, tokLess, tokLessEq, tokGreater, tokGreaterEq)
}

func (p *parser) parseAdditive() (node, error) {
	return p.parseBinary(p.parseMultiplicative, tokPlus, tokMinus)
}

func (p *parser) parseMultiplicative() (node, error) {
	return p.parseBinary(p.parseUnary, tokStar, tokSlash, tokPercent)
}

func (p *parser) parseBinary(operand func() (node, error), ops ...TokenKind) (node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(ops...)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.Kind, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if tok, ok := p.match(tokNot, tokMinus, tokPlus); ok {
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok.Kind, operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.Kind {
	case tokNumber:
		return &literalNode{value: Number(tok.Num)}, nil
	case tokString:
		return &literalNode{value: String(tok.Text)}, nil
	case tokTrue:
		return &literalNode{value: Bool(true)}, nil
	case tokFalse:
		return &literalNode{value: Bool(false)}, nil
	case tokNull:
		return &literalNode{value: Null}, nil
	case tokIdent:
		parts := []string{tok.Text}
		for {
			if _, ok := p.match(tokDot); !ok {
				break
			}
			field := p.next()
			// keywords are valid property names after a dot
			if field.Kind != tokIdent && field.Kind != tokTrue && field.Kind != tokFalse && field.Kind != tokNull {
				return nil, &SyntaxError{Pos: field.Pos, Msg: fmt.Sprintf("expected field name after '.', got %s", describe(field))}
			}
			parts = append(parts, field.Text)
		}
		if p.peek().Kind == tokLParen {
			return nil, &SyntaxError{Pos: p.peek().Pos, Msg: "function calls are not allowed"}
		}
		return &pathNode{parts: parts}, nil
	case tokLParen:
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.match(tokRParen); !ok {
			return nil, &SyntaxError{Pos: closing.Pos, Msg: fmt.Sprintf("expected ')', got %s", describe(closing))}
		}
		return inner, nil
	default:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %s", describe(tok))}
	}
}

func (p *parser) enter(tok Token) error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Pos: tok.Pos, Msg: "expression nested too deeply"}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func describe(tok Token) string {
	switch tok.Kind {
	case tokEOF:
		return tokEOF.String()
	case tokIdent, tokNumber:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	case tokString:
		return fmt.Sprintf("string %q", tok.Text)
	default:
		return fmt.Sprintf("%q", tok.Kind.String())
	}
}
