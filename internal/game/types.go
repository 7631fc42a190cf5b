// Package game holds the trivia-board state machine: board and team types, a pure
// reducer over typed events, the per-session store that serializes dispatches and
// persists snapshots, and the HTTP/websocket surface that exposes hosted sessions.
package game

import "github.com/gokatarajesh/quiz-board/internal/locale"

// QuestionType tells the host how strictly to judge an answer.
type QuestionType string

const (
	QuestionExact    QuestionType = "exact"
	QuestionOpen     QuestionType = "open"
	QuestionTolerant QuestionType = "tolerant"
)

// Question is a single board cell. IsAnswered only flips false to true on
// answer resolution and is reset only by replacing the board.
type Question struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Answer     string       `json:"answer"`
	Points     int          `json:"points"`
	IsAnswered bool         `json:"isAnswered"`
	Type       QuestionType `json:"type,omitempty"`
}

// Category is a board column ordered by points.
type Category struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Team is a scoring side. Score may go negative.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Score int    `json:"score"`
}

// View is the mutually exclusive screen the game is on.
type View string

const (
	ViewLanding   View = "landing"
	ViewAISetup   View = "ai_setup"
	ViewTeamSetup View = "team_setup"
	ViewPlaying   View = "playing"
)

// State is the whole game. SelectedQuestion and SelectedCategory are either
// both nil or both set, and CurrentTeamIndex is always a valid index into Teams.
type State struct {
	Categories       []Category `json:"categories"`
	CurrentScore     int        `json:"currentScore"`
	SelectedQuestion *Question  `json:"selectedQuestion"`
	SelectedCategory *Category  `json:"selectedCategory"`
	IsEditMode       bool       `json:"isEditMode"`
	View             View       `json:"view"`
	Teams            []Team     `json:"teams"`
	CurrentTeamIndex int        `json:"currentTeamIndex"`
	CurrentQuizID    string     `json:"currentQuizId,omitempty"`

	Language locale.Language `json:"language,omitempty"`
}

// HasSelection reports whether a question is open.
func (s State) HasSelection() bool {
	return s.SelectedQuestion != nil && s.SelectedCategory != nil
}

// CurrentTeam returns the team whose turn it is.
func (s State) CurrentTeam() (Team, bool) {
	if s.CurrentTeamIndex < 0 || s.CurrentTeamIndex >= len(s.Teams) {
		return Team{}, false
	}
	return s.Teams[s.CurrentTeamIndex], true
}

// valid reports whether a restored state satisfies the structural invariants.
func (s State) valid() bool {
	if len(s.Teams) == 0 || s.CurrentTeamIndex < 0 || s.CurrentTeamIndex >= len(s.Teams) {
		return false
	}
	if (s.SelectedQuestion == nil) != (s.SelectedCategory == nil) {
		return false
	}
	switch s.View {
	case ViewLanding, ViewAISetup, ViewTeamSetup, ViewPlaying:
	default:
		return false
	}
	return true
}
