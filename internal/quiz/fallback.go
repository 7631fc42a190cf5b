package quiz

import (
	"fmt"

	"github.com/gokatarajesh/quiz-board/internal/locale"
)

var fallbackNames = map[locale.Language][]string{
	locale.English: {"General", "History", "Science", "Music", "Cinema"},
	locale.Italian: {"Generale", "Storia", "Scienza", "Musica", "Cinema"},
}

// FallbackCategory builds a placeholder category with one question per tier.
func FallbackCategory(name string, lang locale.Language) Category {
	questions := make([]Question, 0, len(PointTiers))
	for _, points := range PointTiers {
		questions = append(questions, fallbackQuestion(name, points, lang))
	}
	return Category{Title: name, Questions: questions}
}

func fallbackQuestion(name string, points int, lang locale.Language) Question {
	return Question{
		Points: points,
		Text:   fmt.Sprintf(lang.Pick("Sample question for %s worth %d points", "Domanda di esempio per %s da %d punti"), name, points),
		Answer: fmt.Sprintf(lang.Pick("Sample answer for %s", "Risposta di esempio per %s"), name),
	}
}

// FallbackQuiz returns a placeholder quiz with one category per name, in order.
func FallbackQuiz(names []string, lang locale.Language) Quiz {
	categories := make([]Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, FallbackCategory(name, lang))
	}
	return Quiz{Categories: categories}
}

// DefaultFallbackQuiz is served when no stored categories are usable.
func DefaultFallbackQuiz(lang locale.Language) Quiz {
	names, ok := fallbackNames[lang]
	if !ok {
		names = fallbackNames[locale.Default]
	}
	return FallbackQuiz(names, lang)
}
