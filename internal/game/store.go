package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-board/internal/locale"
	"github.com/gokatarajesh/quiz-board/internal/quiz"
)

// Fetcher returns a random board from the quiz pool.
type Fetcher interface {
	RandomQuiz(ctx context.Context, lang locale.Language) (quiz.Quiz, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, lang locale.Language) (quiz.Quiz, error)

func (f FetcherFunc) RandomQuiz(ctx context.Context, lang locale.Language) (quiz.Quiz, error) {
	return f(ctx, lang)
}

// Generator produces a quiz for user-chosen topics.
type Generator interface {
	Generate(ctx context.Context, req quiz.GenerateRequest) quiz.Quiz
}

// Listener observes committed states. It runs while the store is locked, so it
// must not block or call back into the store.
type Listener func(State)

// StoreDeps wires a Store. Fetcher and Generator may be nil.
type StoreDeps struct {
	Persister    *Persister
	Fetcher      Fetcher
	Generator    Generator
	Bank         *Bank
	Rand         *rand.Rand
	Language     locale.Language
	FetchTimeout time.Duration
	Logger       zerolog.Logger
}

// Store is the single authority over one game's State. Dispatches are
// serialized; every committed state is persisted and published to listeners.
type Store struct {
	mu         sync.Mutex
	state      State
	generation uint64
	listeners  map[int]Listener
	nextID     int

	rngMu sync.Mutex
	rng   *rand.Rand

	lang         locale.Language
	bank         *Bank
	persister    *Persister
	fetcher      Fetcher
	generator    Generator
	fetchTimeout time.Duration
	logger       zerolog.Logger
}

// NewStore restores the persisted state or starts from the landing screen.
func NewStore(ctx context.Context, deps StoreDeps) *Store {
	if deps.Bank == nil {
		deps.Bank = DefaultBank()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Language == "" {
		deps.Language = locale.Default
	}
	if deps.FetchTimeout <= 0 {
		deps.FetchTimeout = 45 * time.Second
	}

	s := &Store{
		listeners:    make(map[int]Listener),
		rng:          deps.Rand,
		lang:         deps.Language,
		bank:         deps.Bank,
		persister:    deps.Persister,
		fetcher:      deps.Fetcher,
		generator:    deps.Generator,
		fetchTimeout: deps.FetchTimeout,
		logger:       deps.Logger.With().Str("component", "game_store").Logger(),
	}

	if restored, ok := s.persister.Load(ctx); ok {
		if restored.Language != "" {
			s.lang = restored.Language
		}
		s.state = restored
		return s
	}

	s.state = s.initial()
	s.persister.Schedule(s.state)
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Language is the content language of this game.
func (s *Store) Language() locale.Language {
	return s.lang
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch applies e and returns the resulting state.
func (s *Store) Dispatch(ctx context.Context, e Event) State {
	next, _ := s.commit(ctx, e, 0, false)
	return next
}

// StartGame fetches a random board, falling back to the built-in bank on any
// failure. The result is dropped if another navigation committed meanwhile.
func (s *Store) StartGame(ctx context.Context) (State, bool) {
	gen := s.currentGeneration()
	categories := s.fetchBoard(ctx)
	return s.commit(ctx, StartGame{Categories: categories}, gen, true)
}

// GenerateAIGame asks the generator for topics and installs the mapped board.
// The result is dropped if another navigation committed meanwhile.
func (s *Store) GenerateAIGame(ctx context.Context, topics []string) (State, bool) {
	gen := s.currentGeneration()

	var generated *quiz.Quiz
	if s.generator != nil {
		genCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		q := s.generator.Generate(genCtx, quiz.GenerateRequest{Categories: topics, Language: s.lang})
		cancel()
		generated = &q
	}

	event := CreateAIGame{Categories: CategoriesFromQuiz(topics, generated, s.lang)}
	if generated != nil {
		event.QuizID = generated.QuizID
	}
	return s.commit(ctx, event, gen, true)
}

// ResetGame draws a fresh default board and default teams, then purges storage
// before persisting the new state.
func (s *Store) ResetGame(ctx context.Context) State {
	return s.Dispatch(ctx, ResetGame{Categories: s.draw(), Teams: DefaultTeams(s.lang)})
}

// CreateNewGame installs a blank board in edit mode.
func (s *Store) CreateNewGame(ctx context.Context) State {
	return s.Dispatch(ctx, CreateNewGame{Categories: PlaceholderCategories(s.lang)})
}

// BackToLanding resets to a fresh initial state and purges storage. The landing
// state itself is not persisted; the next mutation is.
func (s *Store) BackToLanding(ctx context.Context) State {
	return s.Dispatch(ctx, BackToLanding{Initial: s.initial()})
}

// Flush waits for pending persistence.
func (s *Store) Flush(ctx context.Context) error {
	return s.persister.Flush(ctx)
}

// Close flushes and stops persistence.
func (s *Store) Close(ctx context.Context) error {
	return s.persister.Close(ctx)
}

func (s *Store) commit(ctx context.Context, e Event, gen uint64, guarded bool) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if guarded && gen != s.generation {
		s.logger.Info().Str("event", e.Name()).Msg("dropping stale async result")
		return cloneState(s.state), false
	}

	next := Reduce(s.state, e)
	if next.Language == "" {
		next.Language = s.lang
	}
	s.state = next
	if navigates(e) {
		s.generation++
	}

	switch e.(type) {
	case BackToLanding:
		s.purge(ctx)
	case ResetGame:
		s.purge(ctx)
		s.persister.Schedule(next)
	default:
		s.persister.Schedule(next)
	}

	gameEvents.WithLabelValues(e.Name()).Inc()
	for _, l := range s.listeners {
		l(cloneState(next))
	}
	return cloneState(next), true
}

func (s *Store) purge(ctx context.Context) {
	if err := s.persister.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("purge game state failed")
	}
}

func (s *Store) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Store) fetchBoard(ctx context.Context) []Category {
	if s.fetcher == nil {
		return s.draw()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	q, err := s.fetcher.RandomQuiz(fetchCtx, s.lang)
	if err != nil || len(q.Categories) == 0 {
		s.logger.Warn().Err(err).Msg("random board unavailable, using built-in categories")
		return s.draw()
	}
	return boardFromFetched(q, s.lang)
}

func (s *Store) draw() []Category {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.bank.Draw(s.lang, s.rng)
}

func (s *Store) initial() State {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return InitialState(s.bank, s.lang, s.rng)
}
