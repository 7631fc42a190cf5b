package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-board/internal/locale"
)

const regularCategoryCount = 4

// RandomQuizzer assembles a board of four stored categories plus a mystery category.
type RandomQuizzer struct {
	pool   *CategoryPool
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

func NewRandomQuizzer(pool *CategoryPool, rng *rand.Rand, logger zerolog.Logger) *RandomQuizzer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomQuizzer{
		pool:   pool,
		rng:    rng,
		logger: logger.With().Str("component", "random_quiz").Logger(),
	}
}

// ErrPoolTooSmall is returned by Board when fewer than five categories are playable.
var ErrPoolTooSmall = errors.New("not enough complete categories")

// RandomQuiz never fails: any storage problem, or fewer than five playable
// categories, yields the localized fallback quiz.
func (r *RandomQuizzer) RandomQuiz(ctx context.Context, lang locale.Language) Quiz {
	board, err := r.Board(ctx, lang)
	if err != nil {
		r.logger.Warn().Err(err).Msg("random board unavailable, serving fallback")
		randomRequests.WithLabelValues("fallback").Inc()
		return DefaultFallbackQuiz(lang)
	}
	return board
}

// Board assembles a random board from the stored pool or reports why it cannot.
func (r *RandomQuizzer) Board(ctx context.Context, lang locale.Language) (Quiz, error) {
	valid, cached, err := r.pool.Valid(ctx)
	if err != nil {
		return Quiz{}, fmt.Errorf("load category pool: %w", err)
	}
	if len(valid) < len(PointTiers) {
		return Quiz{}, fmt.Errorf("%w: %d", ErrPoolTooSmall, len(valid))
	}

	source := "store"
	if cached {
		source = "cache"
	}
	randomRequests.WithLabelValues(source).Inc()
	return r.assemble(valid, lang), nil
}

func (r *RandomQuizzer) assemble(valid []Category, lang locale.Language) Quiz {
	r.mu.Lock()
	defer r.mu.Unlock()

	shuffled := append([]Category(nil), valid...)
	r.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	categories := make([]Category, 0, regularCategoryCount+1)
	for _, cat := range shuffled[:regularCategoryCount] {
		questions := append([]Question(nil), cat.Questions...)
		sort.SliceStable(questions, func(i, j int) bool { return questions[i].Points < questions[j].Points })
		categories = append(categories, Category{ID: cat.ID, Title: cat.Title, Questions: questions})
	}
	categories = append(categories, r.mystery(valid, lang))
	return Quiz{Categories: categories}
}

// mystery draws one question per tier from all playable categories. The same
// source category may supply several tiers.
func (r *RandomQuizzer) mystery(valid []Category, lang locale.Language) Category {
	byTier := make(map[int][]Question, len(PointTiers))
	for _, cat := range valid {
		for _, q := range cat.Questions {
			q.CategoryTitle = cat.Title
			byTier[q.Points] = append(byTier[q.Points], q)
		}
	}

	questions := make([]Question, 0, len(PointTiers))
	for _, points := range PointTiers {
		candidates := byTier[points]
		if len(candidates) == 0 {
			questions = append(questions, fallbackQuestion(MysteryCategoryTitle, points, lang))
			continue
		}
		questions = append(questions, candidates[r.rng.IntN(len(candidates))])
	}
	return Category{ID: MysteryCategoryID, Title: MysteryCategoryTitle, Questions: questions}
}
