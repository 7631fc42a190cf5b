package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-board/internal/db/repository"
	"github.com/gokatarajesh/quiz-board/internal/locale"
)

type memoryPoolCache struct {
	mu   sync.Mutex
	pool []Category
	sets int
}

func (c *memoryPoolCache) Get(context.Context) ([]Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pool, nil
}

func (c *memoryPoolCache) Set(_ context.Context, pool []Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool = pool
	c.sets++
	return nil
}

func storedCategory(title string, tiers ...int) repository.PoolCategory {
	cat := repository.PoolCategory{ID: "id-" + title, Title: title}
	// reverse order to exercise sorting
	for i := len(tiers) - 1; i >= 0; i-- {
		cat.Questions = append(cat.Questions, repository.PoolQuestion{
			Points: tiers[i],
			Text:   fmt.Sprintf("%s %d?", title, tiers[i]),
			Answer: title,
		})
	}
	return cat
}

func fullTiers() []int { return PointTiers[:] }

func newRandomQuizzer(store Store, cache PoolCache) *RandomQuizzer {
	pool := NewCategoryPool(store, cache, zerolog.Nop())
	return NewRandomQuizzer(pool, rand.New(rand.NewPCG(1, 2)), zerolog.Nop())
}

func TestRandomQuizFromStore(t *testing.T) {
	store := new(mockStore)
	store.On("CategoryPool", mock.Anything).Return([]repository.PoolCategory{
		storedCategory("Art", fullTiers()...),
		storedCategory("Music", fullTiers()...),
		storedCategory("Film", fullTiers()...),
		storedCategory("Sport", fullTiers()...),
		storedCategory("Food", fullTiers()...),
		storedCategory("Partial", 100, 200, 300),
	}, nil)

	quiz := newRandomQuizzer(store, nil).RandomQuiz(context.Background(), locale.English)

	require.Len(t, quiz.Categories, 5)
	seen := map[string]bool{}
	for _, cat := range quiz.Categories[:4] {
		assert.NotEqual(t, "Partial", cat.Title)
		assert.False(t, seen[cat.Title], "duplicate category %s", cat.Title)
		seen[cat.Title] = true
		require.Len(t, cat.Questions, 5)
		for i, q := range cat.Questions {
			assert.Equal(t, PointTiers[i], q.Points)
		}
	}

	mystery := quiz.Categories[4]
	assert.Equal(t, MysteryCategoryID, mystery.ID)
	assert.Equal(t, MysteryCategoryTitle, mystery.Title)
	require.Len(t, mystery.Questions, 5)
	for i, q := range mystery.Questions {
		assert.Equal(t, PointTiers[i], q.Points)
		assert.NotEmpty(t, q.CategoryTitle)
		assert.NotEqual(t, "Partial", q.CategoryTitle)
	}
}

func TestRandomQuizTooFewValidFallsBack(t *testing.T) {
	store := new(mockStore)
	store.On("CategoryPool", mock.Anything).Return([]repository.PoolCategory{
		storedCategory("Art", fullTiers()...),
		storedCategory("Music", fullTiers()...),
		storedCategory("Film", fullTiers()...),
		storedCategory("Sport", fullTiers()...),
		storedCategory("Broken", 100, 200, 300, 400),
	}, nil)

	quiz := newRandomQuizzer(store, nil).RandomQuiz(context.Background(), locale.English)

	require.Len(t, quiz.Categories, 5)
	assert.Equal(t, "General", quiz.Categories[0].Title)
}

func TestBoardReportsSmallPool(t *testing.T) {
	store := new(mockStore)
	store.On("CategoryPool", mock.Anything).Return([]repository.PoolCategory{
		storedCategory("Art", fullTiers()...),
		storedCategory("Music", fullTiers()...),
	}, nil)

	_, err := newRandomQuizzer(store, nil).Board(context.Background(), locale.English)

	assert.ErrorIs(t, err, ErrPoolTooSmall)
}

func TestBoardWithoutStore(t *testing.T) {
	_, err := newRandomQuizzer(nil, nil).Board(context.Background(), locale.English)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestRandomQuizStoreErrorFallsBack(t *testing.T) {
	store := new(mockStore)
	store.On("CategoryPool", mock.Anything).Return(nil, errors.New("connection refused"))

	quiz := newRandomQuizzer(store, nil).RandomQuiz(context.Background(), locale.Italian)

	assert.Equal(t, "Generale", quiz.Categories[0].Title)
}

func TestRandomQuizWithoutStoreFallsBack(t *testing.T) {
	quiz := newRandomQuizzer(nil, nil).RandomQuiz(context.Background(), locale.Italian)
	assert.Equal(t, "Cinema", quiz.Categories[4].Title)
}

func TestRandomQuizUsesCache(t *testing.T) {
	store := new(mockStore)
	store.On("CategoryPool", mock.Anything).Return([]repository.PoolCategory{
		storedCategory("A", fullTiers()...),
		storedCategory("B", fullTiers()...),
		storedCategory("C", fullTiers()...),
		storedCategory("D", fullTiers()...),
		storedCategory("E", fullTiers()...),
	}, nil).Once()
	cache := &memoryPoolCache{}
	quizzer := newRandomQuizzer(store, cache)

	first := quizzer.RandomQuiz(context.Background(), locale.English)
	second := quizzer.RandomQuiz(context.Background(), locale.English)

	assert.Len(t, first.Categories, 5)
	assert.Len(t, second.Categories, 5)
	assert.Equal(t, 1, cache.sets)
	store.AssertExpectations(t)
}

func TestMysteryMissingTierUsesPlaceholder(t *testing.T) {
	quizzer := newRandomQuizzer(nil, nil)
	valid := []Category{{Title: "Odd", Questions: []Question{
		{Points: 100, Text: "a"}, {Points: 100, Text: "b"}, {Points: 200, Text: "c"}, {Points: 300, Text: "d"}, {Points: 400, Text: "e"},
	}}}

	mystery := quizzer.mystery(valid, locale.English)

	require.Len(t, mystery.Questions, 5)
	assert.Equal(t, 500, mystery.Questions[4].Points)
	assert.Equal(t, "Sample question for ??? worth 500 points", mystery.Questions[4].Text)
}

func TestPoolWarmerRefreshesCache(t *testing.T) {
	store := new(mockStore)
	store.On("CategoryPool", mock.Anything).Return([]repository.PoolCategory{storedCategory("A", fullTiers()...)}, nil)
	cache := &memoryPoolCache{}
	pool := NewCategoryPool(store, cache, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPoolWarmer(pool, 0, zerolog.Nop()).Run(ctx) }()

	assert.Eventually(t, func() bool {
		cached, _ := cache.Get(context.Background())
		return len(cached) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
