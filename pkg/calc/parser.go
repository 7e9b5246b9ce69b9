package calc

import (
	"fmt"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// Parse builds an expression tree from a candidate using conventional precedence:
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/' | '//' | '%') factor)*
//	factor := ('+' | '-') factor | power
//	power  := atom ('**' factor)?
//	atom   := NUMBER | '(' expr ')'
//
// Power is right-associative and binds tighter than a unary sign on its left,
// so -2**2 is -(2**2). Any syntax error is reported as domain.ErrNotMath.
func Parse(candidate string) (*Expression, error) {
	tokens, err := lex(candidate)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok)
	}
	return &Expression{Body: body}, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(tok token) error {
	return fmt.Errorf("%w: unexpected %s at offset %d", domain.ErrNotMath, tok.kind, tok.pos)
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peek().kind {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peek().kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		case tokFloorDiv:
			op = OpFloorDiv
		case tokPercent:
			op = OpMod
		default:
			return left, nil
		}
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) factor() (Node, error) {
	var op UnaryOperator
	switch p.peek().kind {
	case tokPlus:
		op = OpPos
	case tokMinus:
		op = OpNeg
	default:
		return p.power()
	}
	p.next()
	operand, err := p.factor()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: op, Operand: operand}, nil
}

func (p *parser) power() (Node, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()
	exp, err := p.factor()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: OpPow, Left: base, Right: exp}, nil
}

func (p *parser) atom() (Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &NumberLiteral{Raw: tok.text}, nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.unexpected(closing)
		}
		return inner, nil
	}
	return nil, p.unexpected(tok)
}
