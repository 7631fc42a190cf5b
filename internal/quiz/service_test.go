package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-board/internal/db/repository"
	"github.com/gokatarajesh/quiz-board/internal/locale"
)

type scriptedCompleter struct {
	mu      sync.Mutex
	keys    []string
	replies []func() (string, error)
}

func (c *scriptedCompleter) Complete(_ context.Context, apiKey string, _ []ChatMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, apiKey)
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	next := c.replies[0]
	c.replies = c.replies[1:]
	return next()
}

func reply(s string) func() (string, error) { return func() (string, error) { return s, nil } }
func fail(err error) func() (string, error) { return func() (string, error) { return "", err } }

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, q repository.NewQuiz) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

func (m *mockStore) CategoryPool(ctx context.Context) ([]repository.PoolCategory, error) {
	args := m.Called(ctx)
	pool, _ := args.Get(0).([]repository.PoolCategory)
	return pool, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id string) (repository.Quiz, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.Quiz), args.Error(1)
}

func (m *mockStore) Categories(ctx context.Context, quizID string) ([]repository.CategoryRef, error) {
	args := m.Called(ctx, quizID)
	refs, _ := args.Get(0).([]repository.CategoryRef)
	return refs, args.Error(1)
}

func (m *mockStore) ListRecent(ctx context.Context, limit int) ([]repository.Quiz, error) {
	args := m.Called(ctx, limit)
	quizzes, _ := args.Get(0).([]repository.Quiz)
	return quizzes, args.Error(1)
}

func newTestGenerator(keys []string, c Completer, store Store) (*Generator, *KeyPool) {
	pool := NewKeyPool(keys)
	return NewGenerator(pool, c, store, 0, zerolog.Nop()), pool
}

func TestGenerateAllCredentialsRejected(t *testing.T) {
	c := &scriptedCompleter{replies: []func() (string, error){
		fail(ErrUnauthorized), fail(ErrUnauthorized), fail(ErrUnauthorized),
	}}
	gen, pool := newTestGenerator([]string{"k1", "k2", "k3"}, c, nil)

	quiz := gen.Generate(context.Background(), GenerateRequest{Categories: []string{"Art", "Music"}, Language: locale.English})

	assert.Equal(t, []string{"k1", "k2", "k3"}, c.keys)
	assert.Equal(t, []bool{false, false, false}, pool.Health())
	require.Len(t, quiz.Categories, 2)
	assert.Equal(t, "Art", quiz.Categories[0].Title)
	assert.Equal(t, "Music", quiz.Categories[1].Title)
	assert.Equal(t, "Sample question for Art worth 100 points", quiz.Categories[0].Questions[0].Text)
	assert.Empty(t, quiz.QuizID)
}

func TestGenerateRotatesPastRejectedKey(t *testing.T) {
	c := &scriptedCompleter{replies: []func() (string, error){
		fail(ErrUnauthorized), reply("```json\n" + sampleQuizJSON + "\n```"),
	}}
	gen, pool := newTestGenerator([]string{"k1", "k2"}, c, nil)

	quiz := gen.Generate(context.Background(), GenerateRequest{Categories: []string{"Space"}, Language: locale.English})

	assert.Equal(t, []string{"k1", "k2"}, c.keys)
	assert.Equal(t, []bool{false, true}, pool.Health())
	assert.Equal(t, "Space", quiz.Categories[0].Title)
	assert.Equal(t, "Mars", quiz.Categories[0].Questions[0].Answer)
}

func TestGenerateNonAuthFailureKeepsCredentialHealthy(t *testing.T) {
	c := &scriptedCompleter{replies: []func() (string, error){
		reply("no json here"), fail(errors.New("timeout")),
	}}
	gen, pool := newTestGenerator([]string{"k1", "k2"}, c, nil)

	quiz := gen.Generate(context.Background(), GenerateRequest{Categories: []string{"Storia"}, Language: locale.Italian})

	assert.Len(t, c.keys, 2)
	assert.Equal(t, []bool{true, true}, pool.Health())
	assert.Equal(t, "Domanda di esempio per Storia da 100 punti", quiz.Categories[0].Questions[0].Text)
}

func TestGenerateWithoutCredentials(t *testing.T) {
	c := &scriptedCompleter{}
	gen, _ := newTestGenerator(nil, c, nil)

	quiz := gen.Generate(context.Background(), GenerateRequest{Categories: []string{"A", "B", "C"}, Language: locale.English})

	assert.Empty(t, c.keys)
	assert.Len(t, quiz.Categories, 3)
}

func TestGeneratePersistsAndAttachesQuizID(t *testing.T) {
	c := &scriptedCompleter{replies: []func() (string, error){reply(sampleQuizJSON)}}
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.MatchedBy(func(q repository.NewQuiz) bool {
		return q.Title == "Quiz generated with categories: Space" && len(q.Categories) == 1 && q.Categories[0].Title == "Space"
	})).Return("quiz-123", nil)
	gen, _ := newTestGenerator([]string{"k1"}, c, store)

	quiz := gen.Generate(context.Background(), GenerateRequest{Categories: []string{"Space"}, Language: locale.English})

	assert.Equal(t, "quiz-123", quiz.QuizID)
	store.AssertExpectations(t)
}

func TestGeneratePersistenceFailureIsSwallowed(t *testing.T) {
	c := &scriptedCompleter{replies: []func() (string, error){reply(sampleQuizJSON)}}
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything).Return("", errors.New("db down"))
	gen, _ := newTestGenerator([]string{"k1"}, c, store)

	quiz := gen.Generate(context.Background(), GenerateRequest{Categories: []string{"Space"}, Language: locale.Italian})

	assert.Empty(t, quiz.QuizID)
	assert.Equal(t, "Space", quiz.Categories[0].Title)
}
