package ports

import "context"

// TranscriptSink executes the side effects a reply Signal asks for.
// It is implemented by whatever owns the visible conversation (REPL, HTTP session).
type TranscriptSink interface {
	// Clear empties the visible transcript.
	Clear(ctx context.Context) error

	// Persist saves the visible transcript and returns the name it was stored under.
	// Returns domain.ErrEmptyTranscript when there is nothing to save.
	Persist(ctx context.Context) (string, error)

	// Terminate ends the conversation.
	Terminate(ctx context.Context) error
}
