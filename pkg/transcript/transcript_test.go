package transcript_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/codmetric/codmetricbot/pkg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 15, 14, 5, 9, 0, time.UTC)

func TestFilename(t *testing.T) {
	assert.Equal(t, "chatlog_20261015_140509.txt", transcript.Filename(fixedNow))
}

func TestLog_Content(t *testing.T) {
	var l transcript.Log
	assert.Empty(t, l.Content())

	l.User("hi")
	l.Bot("Hey! What can I do for you?")
	l.User("2+2")
	l.Bot("Result = 4")

	assert.Equal(t,
		"You: hi\nCodmetricBot: Hey! What can I do for you?\n\nYou: 2+2\nCodmetricBot: Result = 4",
		l.Content())
	assert.Len(t, l.Lines(), 6)

	l.Clear()
	assert.Empty(t, l.Content())
	assert.Empty(t, l.Lines())
}

func TestLog_Restore(t *testing.T) {
	var l transcript.Log
	l.User("stale")

	lines := []string{"You: hi", "CodmetricBot: Hello!", ""}
	l.Restore(lines)
	lines[0] = "mutated"

	assert.Equal(t, "You: hi\nCodmetricBot: Hello!", l.Content())
	l.User("2+2")
	assert.Len(t, l.Lines(), 4)
}

func TestSession_Persist(t *testing.T) {
	store := memory.NewStore()
	s := transcript.NewSession(store, ports.ClockFunc(func() time.Time { return fixedNow }))
	ctx := context.Background()

	_, err := s.Persist(ctx)
	assert.ErrorIs(t, err, domain.ErrEmptyTranscript)

	s.Log.User("hello")
	s.Log.Bot("Hi there! Ready when you are.")

	name, err := s.Persist(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chatlog_20261015_140509.txt", name)

	saved, err := store.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "You: hello\nCodmetricBot: Hi there! Ready when you are.", saved)
}

func TestSession_ClearThenPersist(t *testing.T) {
	s := transcript.NewSession(memory.NewStore(), nil)
	ctx := context.Background()

	s.Log.User("hello")
	require.NoError(t, s.Clear(ctx))

	_, err := s.Persist(ctx)
	assert.ErrorIs(t, err, domain.ErrEmptyTranscript)
}

type brokenStore struct{ ports.TranscriptStore }

func (brokenStore) Save(context.Context, string, string) error { return errors.New("disk full") }

func TestSession_PersistFailure(t *testing.T) {
	s := transcript.NewSession(brokenStore{}, nil)
	s.Log.User("hello")

	_, err := s.Persist(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSession_Terminate(t *testing.T) {
	s := transcript.NewSession(memory.NewStore(), nil)
	assert.False(t, s.Closed())
	require.NoError(t, s.Terminate(context.Background()))
	assert.True(t, s.Closed())
}
