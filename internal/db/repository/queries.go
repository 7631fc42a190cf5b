package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertQuizSQL     = `INSERT INTO quizzes (id, title, created_by) VALUES ($1::uuid, $2, NULLIF($3, ''))`
	insertCategorySQL = `INSERT INTO categories (id, quiz_id, title, position) VALUES ($1::uuid, $2::uuid, $3, $4)`
	insertQuestionSQL = `INSERT INTO questions (id, category_id, points, text, answer) VALUES ($1::uuid, $2::uuid, $3, $4, $5)`

	categoryPoolSQL = `
SELECT c.id::text, c.title, q.points, q.text, q.answer
FROM categories c
JOIN questions q ON q.category_id = c.id
ORDER BY c.created_at, c.id, q.points`

	getQuizSQL = `SELECT id::text, title, COALESCE(created_by, ''), created_at FROM quizzes WHERE id = $1::uuid`

	quizCategoriesSQL = `SELECT id::text, title, position FROM categories WHERE quiz_id = $1::uuid ORDER BY position`

	recentQuizzesSQL = `SELECT id::text, title, COALESCE(created_by, ''), created_at FROM quizzes ORDER BY created_at DESC LIMIT $1`
)

// Queries runs the quiz store statements against a pgx pool.
type Queries struct {
	pool *pgxpool.Pool
}

var _ quizStore = (*Queries)(nil)

func NewQueries(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// InsertQuiz writes the quiz, its categories and their questions in one transaction.
func (q *Queries) InsertQuiz(ctx context.Context, arg InsertQuizParams) error {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, insertQuizSQL, arg.ID, arg.Title, arg.CreatedBy); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	for _, cat := range arg.Categories {
		if _, err := tx.Exec(ctx, insertCategorySQL, cat.ID, arg.ID, cat.Title, cat.Position); err != nil {
			return fmt.Errorf("insert category %q: %w", cat.Title, err)
		}
		for _, qu := range cat.Questions {
			if _, err := tx.Exec(ctx, insertQuestionSQL, qu.ID, cat.ID, qu.Points, qu.Text, qu.Answer); err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
		}
	}
	return tx.Commit(ctx)
}

func (q *Queries) GetCategoryPool(ctx context.Context) ([]PoolRow, error) {
	rows, err := q.pool.Query(ctx, categoryPoolSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PoolRow
	for rows.Next() {
		var r PoolRow
		if err := rows.Scan(&r.CategoryID, &r.CategoryTitle, &r.Points, &r.Text, &r.Answer); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	var quiz Quiz
	err := q.pool.QueryRow(ctx, getQuizSQL, id).Scan(&quiz.ID, &quiz.Title, &quiz.CreatedBy, &quiz.CreatedAt)
	return quiz, err
}

func (q *Queries) GetQuizCategories(ctx context.Context, quizID string) ([]CategoryRef, error) {
	rows, err := q.pool.Query(ctx, quizCategoriesSQL, quizID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (CategoryRef, error) {
		var c CategoryRef
		err := row.Scan(&c.ID, &c.Title, &c.Position)
		return c, err
	})
}

func (q *Queries) ListRecentQuizzes(ctx context.Context, limit int32) ([]Quiz, error) {
	rows, err := q.pool.Query(ctx, recentQuizzesSQL, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Quiz, error) {
		var z Quiz
		err := row.Scan(&z.ID, &z.Title, &z.CreatedBy, &z.CreatedAt)
		return z, err
	})
}
