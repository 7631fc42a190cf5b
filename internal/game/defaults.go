package game

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/quiz-board/internal/locale"
)

// BoardSize is the number of categories on a board.
const BoardSize = 5

//go:embed bank.yaml
var bankYAML []byte

type bankQuestion struct {
	Points int          `yaml:"points"`
	Text   string       `yaml:"text"`
	Answer string       `yaml:"answer"`
	Type   QuestionType `yaml:"type"`
}

type bankCategory struct {
	Title     string         `yaml:"title"`
	Questions []bankQuestion `yaml:"questions"`
}

// Bank is the built-in category pool, per language.
type Bank struct {
	categories map[locale.Language][]bankCategory
}

// LoadBank parses a YAML bank keyed by language tag. Every language needs at
// least BoardSize categories and every category one question per tier.
func LoadBank(data []byte) (*Bank, error) {
	var raw map[string][]bankCategory
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse bank: %w", err)
	}

	bank := &Bank{categories: make(map[locale.Language][]bankCategory, len(raw))}
	for tag, cats := range raw {
		lang := locale.Language(tag)
		if len(cats) < BoardSize {
			return nil, fmt.Errorf("bank %q: %d categories, need at least %d", tag, len(cats), BoardSize)
		}
		for _, c := range cats {
			if !hasAllTiers(c.Questions) {
				return nil, fmt.Errorf("bank %q: category %q must have one question per tier", tag, c.Title)
			}
		}
		bank.categories[lang] = cats
	}
	if _, ok := bank.categories[locale.Default]; !ok {
		return nil, fmt.Errorf("bank: missing default language %q", locale.Default)
	}
	return bank, nil
}

var (
	defaultBankOnce sync.Once
	defaultBank     *Bank
)

// DefaultBank returns the embedded bank.
func DefaultBank() *Bank {
	defaultBankOnce.Do(func() {
		b, err := LoadBank(bankYAML)
		if err != nil {
			panic(err)
		}
		defaultBank = b
	})
	return defaultBank
}

// Draw picks BoardSize random categories for lang with fresh ids.
func (b *Bank) Draw(lang locale.Language, rng *rand.Rand) []Category {
	pool, ok := b.categories[lang]
	if !ok {
		pool = b.categories[locale.Default]
	}

	order := rng.Perm(len(pool))
	out := make([]Category, 0, BoardSize)
	for _, i := range order[:BoardSize] {
		src := pool[i]
		cat := Category{ID: uuid.NewString(), Title: src.Title, Questions: make([]Question, 0, len(src.Questions))}
		for _, q := range src.Questions {
			typ := q.Type
			if typ == "" {
				typ = QuestionExact
			}
			cat.Questions = append(cat.Questions, Question{
				ID:     uuid.NewString(),
				Text:   q.Text,
				Answer: q.Answer,
				Points: q.Points,
				Type:   typ,
			})
		}
		sortByPoints(cat.Questions)
		out = append(out, cat)
	}
	return out
}

func hasAllTiers(questions []bankQuestion) bool {
	if len(questions) != len(PointTiers) {
		return false
	}
	seen := make(map[int]bool, len(PointTiers))
	for _, q := range questions {
		seen[q.Points] = true
	}
	for _, t := range PointTiers {
		if !seen[t] {
			return false
		}
	}
	return true
}

// DefaultTeams returns the two starting teams at zero.
func DefaultTeams(lang locale.Language) []Team {
	name := lang.Pick("Team %d", "Squadra %d")
	return []Team{
		{ID: "1", Name: fmt.Sprintf(name, 1), Color: "#ef4444"},
		{ID: "2", Name: fmt.Sprintf(name, 2), Color: "#3b82f6"},
	}
}

// PlaceholderCategories returns BoardSize blank categories for authoring a board by hand.
func PlaceholderCategories(lang locale.Language) []Category {
	out := make([]Category, 0, BoardSize)
	for i := 0; i < BoardSize; i++ {
		cat := Category{
			ID:        uuid.NewString(),
			Title:     lang.Pick("New Category", "Nuova Categoria"),
			Questions: make([]Question, 0, len(PointTiers)),
		}
		for _, points := range PointTiers {
			cat.Questions = append(cat.Questions, Question{
				ID:     uuid.NewString(),
				Text:   lang.Pick("New Question", "Nuova Domanda"),
				Answer: lang.Pick("New Answer", "Nuova Risposta"),
				Points: points,
				Type:   QuestionExact,
			})
		}
		out = append(out, cat)
	}
	return out
}

// InitialState is the landing-screen state of a fresh game.
func InitialState(bank *Bank, lang locale.Language, rng *rand.Rand) State {
	return State{
		Categories: bank.Draw(lang, rng),
		View:       ViewLanding,
		Teams:      DefaultTeams(lang),
		Language:   lang,
	}
}
