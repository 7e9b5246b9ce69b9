package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/codmetric/codmetricbot/internal/config"
	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/codmetric/codmetricbot/pkg/adapters/file"
	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/adapters/redis"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/observability"
	"github.com/codmetric/codmetricbot/pkg/persistence/middleware"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/codmetric/codmetricbot/pkg/session"
)

// LivePrefix namespaces conversations in progress under the Redis key prefix.
const LivePrefix = "live:"

// App bundles the collaborators every command needs, built from one Config.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	Metrics    *observability.Metrics
	Dispatcher *intent.Dispatcher
	Store      ports.TranscriptStore
	Live       ports.TranscriptStore // conversations in progress
	Locker     ports.DistributedLocker
	Clock      ports.Clock

	closers []io.Closer
}

// AppOptions tweaks how NewApp wires things.
type AppOptions struct {
	// Debug forces debug logging to Stderr regardless of log_level.
	Debug bool

	// LogOutput overrides Stderr, e.g. in tests.
	LogOutput io.Writer

	// Clock overrides the system clock.
	Clock ports.Clock
}

// NewApp creates the dispatcher, transcript store and metrics described by cfg.
func NewApp(cfg config.Config, opts AppOptions) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	if opts.Debug {
		level = slog.LevelDebug
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock
	}

	a := &App{
		Config:  cfg,
		Logger:  logging.NewTo(out, level),
		Metrics: observability.NewMetrics(),
		Clock:   clock,
	}

	hooks := a.Metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(observability.LogHooks(a.Logger))
	}
	a.Dispatcher = intent.New(
		intent.WithClock(clock),
		intent.WithLogger(a.Logger),
		intent.WithHooks(hooks),
	)

	switch cfg.Transcript.Backend {
	case config.BackendMemory:
		a.Store = memory.NewStore()
		a.Live = memory.NewStore()
	case config.BackendRedis:
		rc := cfg.Transcript.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
			redis.WithClock(clock),
		)
		a.Store = store
		a.Live = redis.NewFromClient(store.Client(),
			redis.WithPrefix(rc.Prefix+LivePrefix),
			redis.WithTTL(rc.TTL),
			redis.WithClock(clock),
		)
		a.Locker = redis.NewLocker(store.Client(), rc.Prefix)
		a.closers = append(a.closers, store)
	default:
		a.Store = file.New(cfg.Transcript.Dir)
		a.Live = memory.NewStore()
	}

	redact, encrypt, err := storeMiddleware(cfg.Transcript)
	if err != nil {
		return nil, err
	}
	a.Store = middleware.Chain(a.Store, append(redact, encrypt...)...)
	// Conversations in progress are encrypted but not redacted; masking
	// happens once, when a transcript is saved.
	a.Live = middleware.Chain(a.Live, encrypt...)

	a.Logger.Debug("app initialized",
		"backend", cfg.Transcript.Backend,
		"encrypted", cfg.Transcript.Encryption.Key != "",
		"redact_patterns", len(cfg.Transcript.Redact),
	)
	return a, nil
}

// storeMiddleware builds the redaction and encryption decorators described by t.
// Redaction must run before encryption.
func storeMiddleware(t config.Transcript) (redact, encrypt []middleware.Middleware, err error) {
	if len(t.Redact) > 0 {
		mw, err := middleware.NewRedactionMiddleware(t.Redact)
		if err != nil {
			return nil, nil, err
		}
		redact = append(redact, mw)
	}

	enc, err := t.EncryptionConfig()
	if err != nil {
		return nil, nil, err
	}
	if enc != nil {
		mw, err := middleware.NewEncryptionMiddleware(*enc)
		if err != nil {
			return nil, nil, err
		}
		encrypt = append(encrypt, mw)
	}
	return redact, encrypt, nil
}

// Sessions returns a session manager over the app's stores. With the redis
// backend, conversations live in Redis behind a distributed lock, so several
// replicas can serve one session.
func (a *App) Sessions() *session.Manager {
	opts := []session.Option{
		session.WithLogger(a.Logger),
		session.WithWelcome(intent.Welcome),
		session.WithClock(a.Clock),
		session.WithLiveStore(a.Live),
	}
	if a.Locker != nil {
		opts = append(opts, session.WithLocker(a.Locker))
	}
	return session.NewManager(a.Store, opts...)
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadApp reads the config at path (see config.Load) and builds the App.
func LoadApp(path string, opts AppOptions) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	return app, nil
}
