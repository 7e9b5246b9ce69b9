package calc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// MaxExpressionLength is the largest candidate the gatekeeper accepts, in characters.
const MaxExpressionLength = 1000

// Normalize turns friendly user syntax into a candidate expression:
// it lowercases and trims the input, rewrites "^" as "**", and rewrites an
// "x" sitting between two digits (whitespace around it allowed) as "*".
func Normalize(raw string) string {
	candidate := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "^", "**")
	return replaceTimes(candidate)
}

// replaceTimes rewrites "3x4" and "3 x 4" as "3*4", consuming the surrounding
// whitespace. Every qualifying "x" is rewritten, so "2x3x4" becomes "2*3*4".
func replaceTimes(s string) string {
	if !strings.ContainsRune(s, 'x') {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	last := 0 // runes[last:] not yet written
	for i, r := range runes {
		if r != 'x' || i < last {
			continue
		}
		start := i
		for start > last && unicode.IsSpace(runes[start-1]) {
			start--
		}
		if start == 0 || !isDigit(runes[start-1]) {
			continue
		}
		end := i + 1
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		if end == len(runes) || !isDigit(runes[end]) {
			continue
		}
		b.WriteString(string(runes[last:start]))
		b.WriteByte('*')
		last = end
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

// Gate is the primary safety boundary: it rejects any candidate that is not made
// exclusively of digits, ".", whitespace and the characters + - * / % ( ).
// The "**" operator is collapsed to a single "*" before the length is measured.
func Gate(candidate string) error {
	collapsed := strings.ReplaceAll(candidate, "**", "*")
	n := utf8.RuneCountInString(collapsed)
	if n == 0 || n > MaxExpressionLength {
		return fmt.Errorf("%w: length %d outside 1..%d", domain.ErrNotMath, n, MaxExpressionLength)
	}
	for i, r := range collapsed {
		if !allowed(r) {
			return fmt.Errorf("%w: character %q at offset %d", domain.ErrNotMath, r, i)
		}
	}
	return nil
}

func allowed(r rune) bool {
	if isDigit(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', '+', '-', '*', '/', '%', '(', ')':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
