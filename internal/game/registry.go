package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-board/internal/locale"
)

// ErrSessionNotFound is returned for ids with neither a live store nor a stored state.
var ErrSessionNotFound = errors.New("game session not found")

// RegistryOptions configures a Registry. Fetcher and Generator may be nil.
type RegistryOptions struct {
	Storage         Storage
	KeyPrefix       string
	Fetcher         Fetcher
	Generator       Generator
	Bank            *Bank
	DefaultLanguage locale.Language
	FetchTimeout    time.Duration

	// IdleTimeout is how long a store with no requests and no watchers stays
	// live. Evicted sessions are restored from Storage on the next Get. Zero
	// keeps stores until Close.
	IdleTimeout time.Duration

	// OnCommit observes every committed state of every session. It runs under the
	// session lock and must not block.
	OnCommit func(sessionID string, state State)
}

// Registry owns the live stores of hosted sessions.
type Registry struct {
	opts   RegistryOptions
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	store    *Store
	lastUsed time.Time
	holds    int
}

func NewRegistry(opts RegistryOptions, logger zerolog.Logger) *Registry {
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "jeopardyGameState"
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = locale.Default
	}
	return &Registry{
		opts:     opts,
		logger:   logger.With().Str("component", "game_registry").Logger(),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create starts a new session on the landing screen.
func (r *Registry) Create(ctx context.Context, lang locale.Language) (string, *Store) {
	if lang == "" {
		lang = r.opts.DefaultLanguage
	}
	id := uuid.NewString()
	store := r.open(ctx, id, lang)

	r.mu.Lock()
	r.sessions[id] = &session{store: store, lastUsed: r.now()}
	r.mu.Unlock()

	r.logger.Info().Str("session_id", id).Str("lang", string(lang)).Msg("game session created")
	return id, store
}

// Get returns the live store for id, restoring it from storage after a restart
// or an eviction.
func (r *Registry) Get(ctx context.Context, id string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, err := r.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.store, nil
}

// Acquire is Get for callers that keep using the store: it is not evicted
// until release is called.
func (r *Registry) Acquire(ctx context.Context, id string) (*Store, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, err := r.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	sess.holds++

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			sess.holds--
			sess.lastUsed = r.now()
			r.mu.Unlock()
		})
	}
	return sess.store, release, nil
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(ctx context.Context, id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	if sess, ok := r.sessions[id]; ok {
		sess.lastUsed = r.now()
		return sess, nil
	}

	data, err := r.opts.Storage.Load(ctx, StorageKey(r.opts.KeyPrefix, id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSessionNotFound
	}

	sess := &session{store: r.open(ctx, id, r.opts.DefaultLanguage), lastUsed: r.now()}
	r.sessions[id] = sess
	r.logger.Info().Str("session_id", id).Msg("game session restored")
	return sess, nil
}

// Live reports how many stores are in memory.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle closes stores that are not held and were last used more than
// IdleTimeout ago, and returns how many were evicted.
func (r *Registry) EvictIdle(ctx context.Context) int {
	if r.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.opts.IdleTimeout)

	r.mu.Lock()
	idle := make(map[string]*Store)
	for id, sess := range r.sessions {
		if sess.holds == 0 && sess.lastUsed.Before(cutoff) {
			idle[id] = sess.store
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for id, store := range idle {
		if err := store.Close(ctx); err != nil {
			r.logger.Warn().Err(err).Str("session_id", id).Msg("close idle game session failed")
			continue
		}
		r.logger.Debug().Str("session_id", id).Msg("idle game session evicted")
	}
	return len(idle)
}

// RunEvictor sweeps idle stores until ctx is done.
func (r *Registry) RunEvictor(ctx context.Context) error {
	if r.opts.IdleTimeout <= 0 {
		return nil
	}
	interval := r.opts.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.EvictIdle(ctx); n > 0 {
				r.logger.Info().Int("evicted", n).Int("live", r.Live()).Msg("idle game sessions evicted")
			}
		}
	}
}

// Close flushes and stops every live store.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	var errs []error
	for id, sess := range sessions {
		if err := sess.store.Close(ctx); err != nil {
			r.logger.Warn().Err(err).Str("session_id", id).Msg("close game session failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) open(ctx context.Context, id string, lang locale.Language) *Store {
	key := StorageKey(r.opts.KeyPrefix, id)
	logger := r.logger.With().Str("session_id", id).Logger()
	store := NewStore(ctx, StoreDeps{
		Persister:    NewPersister(r.opts.Storage, key, logger),
		Fetcher:      r.opts.Fetcher,
		Generator:    r.opts.Generator,
		Bank:         r.opts.Bank,
		Rand:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Language:     lang,
		FetchTimeout: r.opts.FetchTimeout,
		Logger:       logger,
	})
	if r.opts.OnCommit != nil {
		store.Subscribe(func(s State) { r.opts.OnCommit(id, s) })
	}
	return store
}
