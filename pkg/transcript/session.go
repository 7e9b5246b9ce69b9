package transcript

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/ports"
)

// Session binds a Log to a store so reply signals can act on it.
// It implements ports.TranscriptSink.
type Session struct {
	Log *Log

	store  ports.TranscriptStore
	clock  ports.Clock
	closed atomic.Bool
}

// NewSession creates a session writing saved transcripts to store.
// A nil clock uses the system clock.
func NewSession(store ports.TranscriptStore, clock ports.Clock) *Session {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &Session{
		Log:   &Log{},
		store: store,
		clock: clock,
	}
}

// Clear empties the visible transcript.
func (s *Session) Clear(ctx context.Context) error {
	s.Log.Clear()
	return nil
}

// Persist saves the transcript under a timestamped name.
func (s *Session) Persist(ctx context.Context) (string, error) {
	content := s.Log.Content()
	if content == "" {
		return "", domain.ErrEmptyTranscript
	}

	name := Filename(s.clock.Now())
	if err := s.store.Save(ctx, name, content); err != nil {
		return "", fmt.Errorf("failed to save transcript %s: %w", name, err)
	}
	return name, nil
}

// Terminate marks the session closed.
func (s *Session) Terminate(ctx context.Context) error {
	s.closed.Store(true)
	return nil
}

// Closed reports whether Terminate was called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}
