package quiz

import (
	"context"

	"github.com/gokatarajesh/quiz-board/internal/db/repository"
)

// Store is the persistent quiz storage used by generation, random selection and
// the public pages. Every consumer treats a nil Store as "no database configured".
type Store interface {
	Create(ctx context.Context, quiz repository.NewQuiz) (string, error)
	CategoryPool(ctx context.Context) ([]repository.PoolCategory, error)
	Get(ctx context.Context, id string) (repository.Quiz, error)
	Categories(ctx context.Context, quizID string) ([]repository.CategoryRef, error)
	ListRecent(ctx context.Context, limit int) ([]repository.Quiz, error)
}

var _ Store = (*repository.QuizRepository)(nil)

func toNewQuiz(title string, q Quiz) repository.NewQuiz {
	out := repository.NewQuiz{Title: title, CreatedBy: "ai", Categories: make([]repository.NewCategory, 0, len(q.Categories))}
	for _, cat := range q.Categories {
		nc := repository.NewCategory{Title: cat.Title}
		for _, qu := range cat.Questions {
			nc.Questions = append(nc.Questions, repository.PoolQuestion{Points: qu.Points, Text: qu.Text, Answer: qu.Answer})
		}
		out.Categories = append(out.Categories, nc)
	}
	return out
}

func fromPool(pool []repository.PoolCategory) []Category {
	out := make([]Category, 0, len(pool))
	for _, pc := range pool {
		cat := Category{ID: pc.ID, Title: pc.Title, Questions: make([]Question, 0, len(pc.Questions))}
		for _, q := range pc.Questions {
			cat.Questions = append(cat.Questions, Question{Points: q.Points, Text: q.Text, Answer: q.Answer})
		}
		out = append(out, cat)
	}
	return out
}
