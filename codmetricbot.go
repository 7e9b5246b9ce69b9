package codmetricbot

import (
	"context"
	"log/slog"

	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/codmetric/codmetricbot/pkg/session"
	"github.com/codmetric/codmetricbot/pkg/transcript"
)

// Bot is the high-level entry point: one conversation with its transcript.
// A Bot is not meant for concurrent use; use session.Manager for that.
type Bot struct {
	dispatcher *intent.Dispatcher
	session    *transcript.Session

	store   ports.TranscriptStore
	clock   ports.Clock
	rng     ports.RandomSource
	hooks   domain.Hooks
	logger  *slog.Logger
	welcome bool
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithStore sets where "save" writes transcripts (default: in memory).
func WithStore(s ports.TranscriptStore) Option {
	return func(b *Bot) {
		b.store = s
	}
}

// WithClock sets the time source for time and date replies and transcript names.
func WithClock(c ports.Clock) Option {
	return func(b *Bot) {
		b.clock = c
	}
}

// WithRandom sets the source used to pick among canned replies.
func WithRandom(r ports.RandomSource) Option {
	return func(b *Bot) {
		b.rng = r
	}
}

// WithHooks registers observability hooks.
func WithHooks(h domain.Hooks) Option {
	return func(b *Bot) {
		b.hooks = b.hooks.Merge(h)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithWelcome starts the transcript with the welcome line.
func WithWelcome() Option {
	return func(b *Bot) {
		b.welcome = true
	}
}

// New creates a Bot.
func New(opts ...Option) *Bot {
	b := &Bot{
		clock:  ports.SystemClock,
		rng:    ports.GlobalRandom,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.store == nil {
		b.store = memory.NewStore()
	}

	b.dispatcher = intent.New(
		intent.WithClock(b.clock),
		intent.WithRandom(b.rng),
		intent.WithHooks(b.hooks),
		intent.WithLogger(b.logger),
	)
	b.session = transcript.NewSession(b.store, b.clock)
	if b.welcome {
		b.session.Log.Bot(intent.Welcome)
	}
	return b
}

// Send answers msg and honors the reply's signal.
// After a farewell Closed reports true; stopping is up to the caller.
func (b *Bot) Send(ctx context.Context, msg string) (session.Outcome, error) {
	return session.Exchange(ctx, b.dispatcher, b.session, msg)
}

// Reply answers msg without touching the conversation.
func (b *Bot) Reply(ctx context.Context, msg string) domain.Reply {
	return b.dispatcher.Handle(ctx, msg)
}

// Transcript returns the conversation lines so far.
func (b *Bot) Transcript() []string {
	return b.session.Log.Lines()
}

// Closed reports whether the user said goodbye.
func (b *Bot) Closed() bool {
	return b.session.Closed()
}
