package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/codmetric/codmetricbot/pkg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 15, 14, 5, 0, 0, time.UTC)

func fixedClock() ports.Clock {
	return ports.ClockFunc(func() time.Time { return fixedNow })
}

func newTextRunner(t *testing.T, input string, opts ...Option) (*Runner, *bytes.Buffer, *memory.Store) {
	t.Helper()
	out := &bytes.Buffer{}
	store := memory.NewStore()
	base := []Option{
		WithResponder(intent.New(intent.WithClock(fixedClock()))),
		WithSession(transcript.NewSession(store, fixedClock())),
		WithInputHandler(NewTextHandler(strings.NewReader(input), out)),
	}
	return NewRunner(append(base, opts...)...), out, store
}

func TestRunner_Conversation(t *testing.T) {
	r, out, _ := newTextRunner(t, "hi\n\n   \n2^10\nwhat time is it\nbye\nthis is never read\n")

	require.NoError(t, r.Run(context.Background()))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "CodmetricBot: Hello! 👋 Type /help to see what I can do.\n\n"))
	assert.Contains(t, got, "CodmetricBot: Result = 1024\n")
	assert.Contains(t, got, "CodmetricBot: The current time is ⏰ 02:05 PM\n")
	assert.Contains(t, got, "CodmetricBot: Goodbye! 👋 Have a great day.\n")
	assert.NotContains(t, got, "never read")
	assert.True(t, r.Session().Closed())

	lines := r.Session().Log.Lines()
	assert.Equal(t, "You: hi", lines[2], "blank lines are skipped")
	assert.Equal(t, "You: 2^10", lines[5])
}

func TestRunner_EndOfInput(t *testing.T) {
	r, out, _ := newTextRunner(t, "hello")

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), "CodmetricBot: "))
	assert.False(t, r.Session().Closed())
}

func TestRunner_SaveAndClear(t *testing.T) {
	var results []string
	r, out, store := newTextRunner(t, "2+2\nsave\nclear\n/save\n",
		WithSaveObserver(func(res string) { results = append(results, res) }),
		WithoutWelcome(),
	)

	require.NoError(t, r.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "[System] Saved as chatlog_20261015_140500.txt\n")
	assert.Contains(t, got, "CodmetricBot: Chat cleared ✅\n")
	assert.Equal(t, []string{"saved", "saved"}, results)

	saved, err := store.Load(context.Background(), "chatlog_20261015_140500.txt")
	require.NoError(t, err)
	assert.Equal(t, "You: clear\nCodmetricBot: Chat cleared ✅", saved, "the second save overwrites the first")
}

func TestRunner_NothingToSave(t *testing.T) {
	var results []string
	r, out, _ := newTextRunner(t, "save\n",
		WithoutWelcome(),
		WithSaveObserver(func(res string) { results = append(results, res) }),
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "[System] Nothing to save yet.\n")
	assert.Equal(t, []string{"empty"}, results)
}

type readOnlyStore struct{ *memory.Store }

func (readOnlyStore) Save(context.Context, string, string) error {
	return errors.New("permission denied")
}

func TestRunner_SaveFailure(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRunner(
		WithSession(transcript.NewSession(readOnlyStore{memory.NewStore()}, nil)),
		WithInputHandler(NewTextHandler(strings.NewReader("save\n"), out)),
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "[System] Could not save file: ")
	assert.Contains(t, out.String(), "permission denied")
}

func TestRunner_ContextCancellation(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	h := NewTextHandler(pr, io.Discard)
	r := NewRunner(WithInputHandler(h))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}

	// Unblock the pump's pending read so it can observe Close.
	_ = pw.Close()
}

func TestRunner_JSONMode(t *testing.T) {
	in := strings.Join([]string{
		`{"message": "2+3*4"}`,
		`"who are you"`,
		`plain text`,
		`{"message": "   "}`,
		`{"message": "exit"}`,
	}, "\n")
	out := &bytes.Buffer{}

	r := NewRunner(
		WithResponder(intent.New()),
		WithInputHandler(NewJSONHandler(strings.NewReader(in), out)),
		WithoutWelcome(),
	)
	require.NoError(t, r.Run(context.Background()))

	var events []JSONEvent
	dec := json.NewDecoder(out)
	for dec.More() {
		var ev JSONEvent
		require.NoError(t, dec.Decode(&ev))
		events = append(events, ev)
	}

	require.Len(t, events, 4)
	assert.Equal(t, JSONEvent{Response: "Result = 14", Rule: "math"}, events[0])
	assert.Equal(t, "identity", events[1].Rule)
	assert.Equal(t, "fallback", events[2].Rule)
	assert.Equal(t, "terminate_session", string(events[3].Signal))
}
