package quiz

import "github.com/gokatarajesh/quiz-board/internal/locale"

// PointTiers are the five fixed question values, easiest first.
var PointTiers = [...]int{100, 200, 300, 400, 500}

// MysteryCategoryID and MysteryCategoryTitle identify the synthesized mystery category.
const (
	MysteryCategoryID    = "mystery"
	MysteryCategoryTitle = "???"
)

// Question is a single clue as exchanged with clients and the upstream model.
type Question struct {
	Points        int    `json:"points"`
	Text          string `json:"text"`
	Answer        string `json:"answer"`
	CategoryTitle string `json:"categoryTitle,omitempty"`
}

// Category groups questions under a title.
type Category struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Quiz is the response body of both generation and random selection.
type Quiz struct {
	Categories []Category `json:"categories"`
	QuizID     string     `json:"quizId,omitempty"`
}

// GenerateRequest is a validated generation request.
type GenerateRequest struct {
	Categories []string
	Language   locale.Language
}
