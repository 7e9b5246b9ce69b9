package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeInput(strings.Repeat("1", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "2+3*4", "2+3*4"},
		{"Safe Controls", "(1\n+2)\t", "(1\n+2)\t"},
		{"ANSI Code", "\x1b[31mhi\x1b[0m", "[31mhi[0m"},
		{"Null Byte", "1\x00+1", "1+1"},
		{"Bell", "bye\x07", "bye"},
		{"Vertical Tab", "1\v+2", "1+2"},
		{"Emoji Kept", "thanks 🙌", "thanks 🙌"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345")
	assert.NoError(t, err)
}

func TestResolveMaxInputSize(t *testing.T) {
	assert.Equal(t, DefaultMaxInputSize, ResolveMaxInputSize(0))
	assert.Equal(t, 100, ResolveMaxInputSize(100))

	t.Setenv(EnvMaxInputSize, "not-a-number")
	assert.Equal(t, 100, ResolveMaxInputSize(100))

	t.Setenv(EnvMaxInputSize, "20")
	assert.Equal(t, 20, ResolveMaxInputSize(100), "environment wins over configuration")
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
