package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/session"
	"github.com/codmetric/codmetricbot/pkg/transcript"
)

// Runner drives a single conversation: read a message, answer it, honor its
// signal, repeat until the user says goodbye or input ends.
type Runner struct {
	handler     IOHandler
	responder   session.Responder
	session     *transcript.Session
	logger      *slog.Logger
	onSave      func(string)
	skipWelcome bool
}

// NewRunner creates a Runner. Unset collaborators default to a fresh
// dispatcher, an in-memory transcript store and text IO on stdin/stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.responder == nil {
		r.responder = intent.New(intent.WithLogger(r.logger))
	}
	if r.session == nil {
		r.session = transcript.NewSession(memory.NewStore(), nil)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(nil, nil)
	}
	return r
}

// Session returns the conversation being recorded.
func (r *Runner) Session() *transcript.Session {
	return r.session
}

// Run executes the loop until termination, end of input or ctx cancellation.
// End of input is a normal exit; cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	if c, ok := r.handler.(io.Closer); ok {
		defer c.Close()
	}

	if !r.skipWelcome {
		r.session.Log.Bot(intent.Welcome)
		if err := r.handler.Output(ctx, domain.Reply{Response: intent.Welcome, Rule: "welcome"}); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	for {
		msg, err := r.handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.logger.Debug("input closed")
				return nil
			}
			return err
		}

		out, err := session.Exchange(ctx, r.responder, r.session, msg)
		if err != nil {
			return fmt.Errorf("exchange error: %w", err)
		}
		r.logger.Debug("reply", "rule", out.Reply.Rule, "signal", string(out.Reply.Signal))

		if err := r.handler.Output(ctx, out.Reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if out.Reply.Signal == domain.SignalPersistTranscript {
			r.observeSave(out)
		}
		if out.Notice != "" {
			if err := r.handler.SystemOutput(ctx, out.Notice); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}

		if r.session.Closed() {
			return nil
		}
	}
}

func (r *Runner) observeSave(out session.Outcome) {
	result := "failed"
	switch {
	case out.SavedAs != "":
		result = "saved"
		r.logger.Info("transcript saved", "name", out.SavedAs)
	case errors.Is(out.SaveErr, domain.ErrEmptyTranscript):
		result = "empty"
	default:
		r.logger.Warn("transcript save failed", "err", out.SaveErr)
	}
	if r.onSave != nil {
		r.onSave(result)
	}
}
