package game

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gokatarajesh/quiz-board/internal/locale"
	"github.com/gokatarajesh/quiz-board/internal/quiz"
)

var (
	questionPrefix = regexp.MustCompile(`(?i)^(domanda|question)\s*[:.\-]\s*`)
	answerPrefix   = regexp.MustCompile(`(?i)^(risposta|answer)\s*[:.\-]\s*`)
)

// CategoriesFromQuiz turns a generated quiz into a playable board: every category
// gets exactly one question per tier, texts are tidied, ids are fresh, and the
// board holds exactly BoardSize categories. Missing categories are placeholders
// named after the unused topics, then numbered.
// A nil or empty quiz yields one placeholder category per topic.
func CategoriesFromQuiz(topics []string, q *quiz.Quiz, lang locale.Language) []Category {
	out := make([]Category, 0, BoardSize)
	if q != nil {
		for _, src := range q.Categories {
			if len(out) == BoardSize {
				break
			}
			out = append(out, boardCategory(src, lang))
		}
	}
	for i := len(out); i < BoardSize; i++ {
		topic := fmt.Sprintf(lang.Pick("Category %d", "Categoria %d"), i+1)
		if i < len(topics) && strings.TrimSpace(topics[i]) != "" {
			topic = topics[i]
		}
		out = append(out, fallbackCategory(topic, lang))
	}
	return out
}

func boardCategory(src quiz.Category, lang locale.Language) Category {
	byTier := make(map[int]quiz.Question, len(PointTiers))
	for _, q := range src.Questions {
		if _, dup := byTier[q.Points]; !dup {
			byTier[q.Points] = q
		}
	}

	cat := Category{ID: uuid.NewString(), Title: src.Title, Questions: make([]Question, 0, len(PointTiers))}
	for _, points := range PointTiers {
		q, ok := byTier[points]
		if !ok {
			q = quiz.Question{
				Points: points,
				Text:   fmt.Sprintf(lang.Pick("Additional %d-point question for %s", "Domanda aggiuntiva da %d punti per %s"), points, src.Title),
				Answer: fmt.Sprintf(lang.Pick("Answer for the %d-point question", "Risposta per la domanda da %d punti"), points),
			}
		}
		cat.Questions = append(cat.Questions, boardQuestion(q, src.Title, lang))
	}
	return cat
}

func boardQuestion(q quiz.Question, title string, lang locale.Language) Question {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		text = fmt.Sprintf(lang.Pick("%d-point question for %s", "Domanda da %d punti per %s"), q.Points, title)
	}
	answer := strings.TrimSpace(q.Answer)
	if answer == "" {
		answer = lang.Pick("Missing answer", "Risposta mancante")
	}
	return Question{
		ID:     uuid.NewString(),
		Text:   capitalize(questionPrefix.ReplaceAllString(text, "")),
		Answer: capitalize(answerPrefix.ReplaceAllString(answer, "")),
		Points: q.Points,
		Type:   QuestionExact,
	}
}

func fallbackCategory(topic string, lang locale.Language) Category {
	src := quiz.FallbackCategory(topic, lang)
	cat := Category{ID: uuid.NewString(), Title: topic, Questions: make([]Question, 0, len(src.Questions))}
	for _, q := range src.Questions {
		cat.Questions = append(cat.Questions, Question{
			ID:     uuid.NewString(),
			Text:   q.Text,
			Answer: q.Answer,
			Points: q.Points,
			Type:   QuestionExact,
		})
	}
	return cat
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// boardFromFetched converts a fetched random quiz into board categories.
func boardFromFetched(q quiz.Quiz, lang locale.Language) []Category {
	titles := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		titles = append(titles, c.Title)
	}
	return CategoriesFromQuiz(titles, &q, lang)
}
