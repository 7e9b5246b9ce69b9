package runner

import (
	"log/slog"

	"github.com/codmetric/codmetricbot/pkg/session"
	"github.com/codmetric/codmetricbot/pkg/transcript"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithResponder configures who answers messages (usually an *intent.Dispatcher).
func WithResponder(r session.Responder) Option {
	return func(rn *Runner) {
		rn.responder = r
	}
}

// WithSession configures the conversation the runner records into.
func WithSession(s *transcript.Session) Option {
	return func(r *Runner) {
		r.session = s
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.handler = handler
	}
}

// WithSaveObserver is called with "saved", "empty" or "failed" after every save attempt.
func WithSaveObserver(fn func(result string)) Option {
	return func(r *Runner) {
		r.onSave = fn
	}
}

// WithoutWelcome skips the greeting line printed when Run starts.
func WithoutWelcome() Option {
	return func(r *Runner) {
		r.skipWelcome = true
	}
}
