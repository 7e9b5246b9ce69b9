package calc

import (
	"fmt"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokPow
	tokSlash
	tokFloorDiv
	tokPercent
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokPow:
		return "'**'"
	case tokSlash:
		return "'/'"
	case tokFloorDiv:
		return "'//'"
	case tokPercent:
		return "'%'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a candidate into tokens. It is independent of Gate and rejects
// anything outside the arithmetic alphabet on its own.
// A line break is only allowed inside parentheses.
func lex(src string) ([]token, error) {
	var tokens []token
	depth := 0
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			i++
			continue
		case c == '\n' || c == '\r':
			if depth == 0 {
				return nil, fmt.Errorf("%w: line break at offset %d", domain.ErrNotMath, i)
			}
			i++
			continue
		case c >= '0' && c <= '9' || c == '.':
			text, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, pos: i})
			i += len(text)
			continue
		}

		kind, width := tokEOF, 1
		switch c {
		case '+':
			kind = tokPlus
		case '-':
			kind = tokMinus
		case '*':
			kind = tokStar
			if i+1 < len(src) && src[i+1] == '*' {
				kind, width = tokPow, 2
			}
		case '/':
			kind = tokSlash
			if i+1 < len(src) && src[i+1] == '/' {
				kind, width = tokFloorDiv, 2
			}
		case '%':
			kind = tokPercent
		case '(':
			kind = tokLParen
			depth++
		case ')':
			kind = tokRParen
			depth--
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", domain.ErrNotMath, c, i)
		}
		tokens = append(tokens, token{kind: kind, text: src[i : i+width], pos: i})
		i += width
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

// scanNumber reads a literal: digits with at most one '.', and at least one digit.
// An integer literal with a leading zero must consist of zeros only.
func scanNumber(src string, start int) (string, error) {
	i := start
	digits, dots := 0, 0
	for i < len(src) {
		c := src[i]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' {
			dots++
		} else {
			break
		}
		i++
	}
	text := src[start:i]
	if digits == 0 || dots > 1 {
		return "", fmt.Errorf("%w: malformed number %q at offset %d", domain.ErrNotMath, text, start)
	}
	if dots == 0 && len(text) > 1 && text[0] == '0' {
		for j := 1; j < len(text); j++ {
			if text[j] != '0' {
				return "", fmt.Errorf("%w: leading zeros in integer %q at offset %d", domain.ErrNotMath, text, start)
			}
		}
	}
	return text, nil
}
