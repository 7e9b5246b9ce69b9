package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/transcript"
)

// Responder answers a single message.
type Responder interface {
	Handle(ctx context.Context, raw string) domain.Reply
}

// Outcome is what one exchange produced.
type Outcome struct {
	Reply domain.Reply

	// SavedAs is the transcript name when the reply asked to persist.
	SavedAs string

	// Notice is a system message for the user about the signal's side effect,
	// e.g. "Saved as chatlog_20260102_150405.txt".
	Notice string

	// SaveErr is why a requested save did not happen.
	SaveErr error
}

// Exchange answers msg, honors the reply's signal and then records both lines.
// Signals act on the conversation as it stood before msg, so "clear" leaves
// only its own exchange behind and "save" does not save itself.
// A failed save is reported through Notice and does not fail the exchange.
func Exchange(ctx context.Context, r Responder, s *transcript.Session, msg string) (Outcome, error) {
	reply := r.Handle(ctx, msg)
	out := Outcome{Reply: reply}

	name, err := intent.Apply(ctx, reply, s)
	switch {
	case err == nil:
		if name != "" {
			out.SavedAs = name
			out.Notice = "Saved as " + name
		}
	case reply.Signal != domain.SignalPersistTranscript:
		return out, err
	case errors.Is(err, domain.ErrEmptyTranscript):
		out.SaveErr = err
		out.Notice = "Nothing to save yet."
	default:
		out.SaveErr = err
		out.Notice = fmt.Sprintf("Could not save file: %v", err)
	}

	s.Log.User(msg)
	s.Log.Bot(reply.Response)
	return out, nil
}
