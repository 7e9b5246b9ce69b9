package runner

import (
	"context"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a bot reply.
	Output(ctx context.Context, reply domain.Reply) error

	// Input reads the next user message.
	// Returns io.EOF when the user has nothing more to say.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message, e.g. the outcome of a save.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms reply text before it is printed.
// This allows terminal rendering (markdown to ANSI) without coupling the core packages.
type ContentRenderer func(string) (string, error)
