package quiz

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from model output before it is stored or rendered.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// SanitizeQuiz returns a copy of q with every title, question and answer sanitized.
func SanitizeQuiz(q Quiz) Quiz {
	out := Quiz{QuizID: q.QuizID, Categories: make([]Category, 0, len(q.Categories))}
	for _, cat := range q.Categories {
		clean := Category{ID: cat.ID, Title: SanitizeText(cat.Title), Questions: make([]Question, 0, len(cat.Questions))}
		for _, qu := range cat.Questions {
			clean.Questions = append(clean.Questions, Question{
				Points:        qu.Points,
				Text:          SanitizeText(qu.Text),
				Answer:        SanitizeText(qu.Answer),
				CategoryTitle: qu.CategoryTitle,
			})
		}
		out.Categories = append(out.Categories, clean)
	}
	return out
}
