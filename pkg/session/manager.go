package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/codmetric/codmetricbot/pkg/transcript"
	"github.com/google/uuid"
)

// lockTTL bounds how long a crashed replica can hold a distributed session lock.
const lockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the live conversations of a multi-session front-end (HTTP, MCP)
// and serializes access to each of them.
// Conversations are kept in a live store and loaded, advanced and written back
// under the session lock, so replicas sharing that store and a DistributedLocker
// can serve the same conversation.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.TranscriptStore // saved transcripts
	live  ports.TranscriptStore // conversations in progress, keyed by session ID

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active per-session locks

	locker  ports.DistributedLocker
	clock   ports.Clock
	welcome string
	logger  *slog.Logger
}

// conversation is the stored form of a live conversation.
type conversation struct {
	Lines []string `json:"lines"`
}

// Option configures the Manager.
type Option func(*Manager)

// WithLiveStore keeps conversations in progress in store instead of process memory.
func WithLiveStore(store ports.TranscriptStore) Option {
	return func(m *Manager) {
		m.live = store
	}
}

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock sets the clock used to name saved transcripts.
func WithClock(c ports.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithWelcome seeds every new conversation with a bot line.
func WithWelcome(msg string) Option {
	return func(m *Manager) {
		m.welcome = msg
	}
}

// NewManager creates a new session Manager saving transcripts to store.
func NewManager(store ports.TranscriptStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		clock:  ports.SystemClock,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.live == nil {
		m.live = memory.NewStore()
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Open makes sure the conversation for sessionID exists and returns its ID.
// An empty sessionID allocates a fresh random ID.
func (m *Manager) Open(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.loadOrStart(ctx, sessionID)
		return err
	})
	return sessionID, err
}

// Transcript returns the lines of an existing conversation.
func (m *Manager) Transcript(ctx context.Context, sessionID string) ([]string, error) {
	var lines []string
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		lines = s.Log.Lines()
		return nil
	})
	return lines, err
}

// Delete forgets a conversation. Saved transcripts are kept.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.live.Delete(ctx, sessionID)
	})
}

// List returns the IDs of live conversations, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	ids, err := m.live.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Store returns the underlying transcript store.
func (m *Manager) Store() ports.TranscriptStore {
	return m.store
}

// Chat runs one exchange on the given conversation while holding its lock.
// An empty sessionID starts a new conversation.
// A conversation that ends with a farewell is deleted.
func (m *Manager) Chat(ctx context.Context, r Responder, sessionID, msg string) (string, Outcome, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var out Outcome
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}

		out, err = Exchange(ctx, r, s, msg)
		if err != nil {
			return err
		}

		if s.Closed() {
			m.logger.Debug("session closed", "session_id", sessionID)
			return m.live.Delete(ctx, sessionID)
		}
		return m.save(ctx, sessionID, s)
	})
	return sessionID, out, err
}

// loadOrStart loads a conversation, creating and storing it if it does not exist.
// The caller must hold the session lock.
func (m *Manager) loadOrStart(ctx context.Context, sessionID string) (*transcript.Session, error) {
	s, err := m.load(ctx, sessionID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}

	s = transcript.NewSession(m.store, m.clock)
	if m.welcome != "" {
		s.Log.Bot(m.welcome)
	}
	if err := m.save(ctx, sessionID, s); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("session opened", "session_id", sessionID)
	return s, nil
}

func (m *Manager) load(ctx context.Context, sessionID string) (*transcript.Session, error) {
	raw, err := m.live.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrTranscriptNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var c conversation
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	s := transcript.NewSession(m.store, m.clock)
	s.Log.Restore(c.Lines)
	return s, nil
}

func (m *Manager) save(ctx context.Context, sessionID string, s *transcript.Session) error {
	raw, err := json.Marshal(conversation{Lines: s.Log.Lines()})
	if err != nil {
		return err
	}
	return m.live.Save(ctx, sessionID, string(raw))
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
