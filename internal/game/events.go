package game

// Event is an input to Reduce. Events carry every random or external value the
// transition needs, so Reduce stays deterministic.
type Event interface {
	// Name is the stable identifier used in logs and metrics.
	Name() string
}

type (
	// StartGame installs a freshly fetched (or fallback) board and moves to team setup.
	StartGame struct{ Categories []Category }

	ShowAISetup struct{}

	// CreateAIGame installs generated categories verbatim. An empty QuizID clears the reference.
	CreateAIGame struct {
		Categories []Category
		QuizID     string
	}

	// SetTeams installs teams with zeroed scores and starts play.
	SetTeams struct{ Teams []Team }

	SelectQuestion struct {
		CategoryID string
		QuestionID string
	}

	AnswerQuestion struct{ Correct bool }

	CloseQuestion struct{}

	ToggleEditMode struct{}

	UpdateCategory struct {
		CategoryID string
		Title      string
	}

	UpdateQuestion struct {
		CategoryID string
		QuestionID string
		Patch      QuestionPatch
	}

	// ResetGame replaces board and teams with defaults supplied by the caller.
	ResetGame struct {
		Categories []Category
		Teams      []Team
	}

	ResetScore struct{}

	NextTeamTurn struct{}

	// CreateNewGame replaces the board with placeholders and enters edit mode.
	CreateNewGame struct{ Categories []Category }

	// BackToLanding replaces everything with Initial.
	BackToLanding struct{ Initial State }

	BackToTeamSetup struct{}
)

// QuestionPatch is a partial question update; nil fields are left unchanged.
// Answered state is not patchable.
type QuestionPatch struct {
	Text   *string       `json:"text,omitempty"`
	Answer *string       `json:"answer,omitempty"`
	Points *int          `json:"points,omitempty"`
	Type   *QuestionType `json:"type,omitempty"`
}

func (StartGame) Name() string       { return "start_game" }
func (ShowAISetup) Name() string     { return "show_ai_setup" }
func (CreateAIGame) Name() string    { return "create_ai_game" }
func (SetTeams) Name() string        { return "set_teams" }
func (SelectQuestion) Name() string  { return "select_question" }
func (AnswerQuestion) Name() string  { return "answer_question" }
func (CloseQuestion) Name() string   { return "close_question" }
func (ToggleEditMode) Name() string  { return "toggle_edit_mode" }
func (UpdateCategory) Name() string  { return "update_category" }
func (UpdateQuestion) Name() string  { return "update_question" }
func (ResetGame) Name() string       { return "reset_game" }
func (ResetScore) Name() string      { return "reset_score" }
func (NextTeamTurn) Name() string    { return "next_team_turn" }
func (CreateNewGame) Name() string   { return "create_new_game" }
func (BackToLanding) Name() string   { return "back_to_landing" }
func (BackToTeamSetup) Name() string { return "back_to_team_setup" }

// navigates reports whether an event replaces the board in a way that makes any
// in-flight fetch for the previous screen stale.
func navigates(e Event) bool {
	switch e.(type) {
	case StartGame, CreateAIGame, ResetGame, CreateNewGame, BackToLanding:
		return true
	}
	return false
}
