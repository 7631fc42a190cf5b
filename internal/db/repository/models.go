package repository

import "time"

// Quiz is a stored quiz header row.
type Quiz struct {
	ID        string
	Title     string
	CreatedBy string
	CreatedAt time.Time
}

// CategoryRef is a category listed under a quiz, without its questions.
type CategoryRef struct {
	ID       string
	Title    string
	Position int
}

// PoolRow is one category/question join row from the category pool query.
type PoolRow struct {
	CategoryID    string
	CategoryTitle string
	Points        int
	Text          string
	Answer        string
}

// PoolCategory is a stored category with all of its questions.
type PoolCategory struct {
	ID        string
	Title     string
	Questions []PoolQuestion
}

// PoolQuestion is a stored question.
type PoolQuestion struct {
	Points int
	Text   string
	Answer string
}

// NewQuiz describes a quiz to be inserted.
type NewQuiz struct {
	Title      string
	CreatedBy  string
	Categories []NewCategory
}

// NewCategory describes one category of a NewQuiz.
type NewCategory struct {
	Title     string
	Questions []PoolQuestion
}

// InsertQuizParams is a NewQuiz with identifiers and positions assigned.
type InsertQuizParams struct {
	ID         string
	Title      string
	CreatedBy  string
	Categories []InsertCategoryParams
}

// InsertCategoryParams is one category row plus its question rows.
type InsertCategoryParams struct {
	ID        string
	Title     string
	Position  int
	Questions []InsertQuestionParams
}

// InsertQuestionParams is one question row.
type InsertQuestionParams struct {
	ID     string
	Points int
	Text   string
	Answer string
}
