package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrNotFound is returned when a quiz does not exist or the id is malformed.
	ErrNotFound = errors.New("quiz not found")
	// ErrEmptyQuiz rejects inserts without a title or categories.
	ErrEmptyQuiz = errors.New("quiz must have a title and at least one category")
)

// MaxRecentQuizzes caps ListRecent.
const MaxRecentQuizzes = 1000

type quizStore interface {
	InsertQuiz(ctx context.Context, arg InsertQuizParams) error
	GetCategoryPool(ctx context.Context) ([]PoolRow, error)
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	GetQuizCategories(ctx context.Context, quizID string) ([]CategoryRef, error)
	ListRecentQuizzes(ctx context.Context, limit int32) ([]Quiz, error)
}

// QuizRepository exposes typed quiz storage operations.
type QuizRepository struct {
	store quizStore
}

func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

// Create assigns ids and positions, stores the quiz atomically and returns its id.
func (r *QuizRepository) Create(ctx context.Context, quiz NewQuiz) (string, error) {
	if strings.TrimSpace(quiz.Title) == "" || len(quiz.Categories) == 0 {
		return "", ErrEmptyQuiz
	}

	params := InsertQuizParams{
		ID:         uuid.NewString(),
		Title:      quiz.Title,
		CreatedBy:  quiz.CreatedBy,
		Categories: make([]InsertCategoryParams, 0, len(quiz.Categories)),
	}
	for i, cat := range quiz.Categories {
		c := InsertCategoryParams{
			ID:        uuid.NewString(),
			Title:     cat.Title,
			Position:  i,
			Questions: make([]InsertQuestionParams, 0, len(cat.Questions)),
		}
		for _, q := range cat.Questions {
			c.Questions = append(c.Questions, InsertQuestionParams{
				ID:     uuid.NewString(),
				Points: q.Points,
				Text:   q.Text,
				Answer: q.Answer,
			})
		}
		params.Categories = append(params.Categories, c)
	}

	if err := r.store.InsertQuiz(ctx, params); err != nil {
		return "", err
	}
	return params.ID, nil
}

// CategoryPool returns every stored category with its questions ordered by points.
func (r *QuizRepository) CategoryPool(ctx context.Context) ([]PoolCategory, error) {
	rows, err := r.store.GetCategoryPool(ctx)
	if err != nil {
		return nil, err
	}

	var out []PoolCategory
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.CategoryID]
		if !ok {
			i = len(out)
			index[row.CategoryID] = i
			out = append(out, PoolCategory{ID: row.CategoryID, Title: row.CategoryTitle})
		}
		out[i].Questions = append(out[i].Questions, PoolQuestion{Points: row.Points, Text: row.Text, Answer: row.Answer})
	}
	return out, nil
}

// Get fetches a quiz header by id.
func (r *QuizRepository) Get(ctx context.Context, id string) (Quiz, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Quiz{}, ErrNotFound
	}
	quiz, err := r.store.GetQuiz(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	return quiz, err
}

// Categories lists a quiz's categories by position.
func (r *QuizRepository) Categories(ctx context.Context, quizID string) ([]CategoryRef, error) {
	if _, err := uuid.Parse(quizID); err != nil {
		return nil, ErrNotFound
	}
	return r.store.GetQuizCategories(ctx, quizID)
}

// ListRecent returns the newest quizzes, at most MaxRecentQuizzes.
func (r *QuizRepository) ListRecent(ctx context.Context, limit int) ([]Quiz, error) {
	if limit <= 0 || limit > MaxRecentQuizzes {
		limit = MaxRecentQuizzes
	}
	return r.store.ListRecentQuizzes(ctx, int32(limit))
}
