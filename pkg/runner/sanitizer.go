package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input size limits. A positive value in EnvMaxInputSize beats any configured limit.
var (
	DefaultMaxInputSize = 4096
	EnvMaxInputSize     = "CODMETRIC_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput cleans user input with the limit from the environment or the default.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, ResolveMaxInputSize(0))
}

// SanitizeInputLimit rejects input over limit bytes or with broken UTF-8, and drops
// control characters such as ESC, NUL and BEL. Line breaks and tabs are kept.
// Oversized input is never truncated: a cut expression can change meaning.
func SanitizeInputLimit(input string, limit int) (string, error) {
	switch {
	case len(input) > limit:
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	case !utf8.ValidString(input):
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, strippedControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if strippedControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func strippedControl(r rune) bool {
	switch r {
	case '\n', '\t', '\r':
		return false
	}
	return unicode.IsControl(r)
}

// ResolveMaxInputSize returns the effective limit for a configured value,
// falling back to DefaultMaxInputSize when neither the environment nor
// configured sets a positive one.
func ResolveMaxInputSize(configured int) int {
	if size, err := strconv.Atoi(os.Getenv(EnvMaxInputSize)); err == nil && size > 0 {
		return size
	}
	if configured > 0 {
		return configured
	}
	return DefaultMaxInputSize
}
