package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/codmetric/codmetricbot/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// EmailPattern matches e-mail addresses.
const EmailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

type redactionMiddleware struct {
	next     ports.TranscriptStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks text matching any of
// the patterns before a transcript is saved. The live conversation is untouched.
func NewRedactionMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.TranscriptStore) ports.TranscriptStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, name string, content string) error {
	for _, p := range m.patterns {
		content = p.ReplaceAllLiteralString(content, Mask)
	}
	return m.next.Save(ctx, name, content)
}

func (m *redactionMiddleware) Load(ctx context.Context, name string) (string, error) {
	return m.next.Load(ctx, name)
}

func (m *redactionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
