package ports

import "context"

// TranscriptStore defines the interface for persisting saved chat transcripts.
// Transcripts are addressed by name (e.g. "chatlog_20260102_150405.txt").
type TranscriptStore interface {
	// Save persists the transcript content under the given name, replacing any previous content.
	Save(ctx context.Context, name string, content string) error

	// Load retrieves a transcript by name.
	// Returns domain.ErrTranscriptNotFound if it does not exist.
	Load(ctx context.Context, name string) (string, error)

	// Delete removes a transcript. Deleting a missing transcript is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored transcripts.
	List(ctx context.Context) ([]string, error)
}
