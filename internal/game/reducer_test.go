package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategory(id string, tiers ...int) Category {
	cat := Category{ID: id, Title: "Category " + id}
	for _, p := range tiers {
		cat.Questions = append(cat.Questions, Question{
			ID:     fmt.Sprintf("%s-q%d", id, p),
			Text:   fmt.Sprintf("%s question %d", id, p),
			Answer: fmt.Sprintf("%s answer %d", id, p),
			Points: p,
			Type:   QuestionExact,
		})
	}
	return cat
}

func testTeams(n int) []Team {
	teams := make([]Team, n)
	for i := range teams {
		teams[i] = Team{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Team %d", i+1), Color: "#000000"}
	}
	return teams
}

func playingState() State {
	return State{
		Categories: []Category{testCategory("c1", PointTiers[:]...), testCategory("c2", PointTiers[:]...)},
		View:       ViewPlaying,
		Teams:      testTeams(2),
	}
}

func TestAnswerCorrect(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q300"})
	require.True(t, s.HasSelection())
	assert.Equal(t, 300, s.SelectedQuestion.Points)
	assert.Equal(t, "c1", s.SelectedCategory.ID)

	s = Reduce(s, AnswerQuestion{Correct: true})

	assert.Equal(t, 300, s.Teams[0].Score)
	assert.Equal(t, 0, s.Teams[1].Score)
	assert.Equal(t, 1, s.CurrentTeamIndex)
	assert.Equal(t, 300, s.CurrentScore)
	assert.True(t, s.Categories[0].Questions[2].IsAnswered)
	assert.False(t, s.HasSelection())
	assert.Nil(t, s.SelectedCategory)
}

func TestAnswerWrongSubtractsAndKeepsCurrentScore(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c2", QuestionID: "c2-q500"})
	s = Reduce(s, AnswerQuestion{Correct: false})

	assert.Equal(t, -500, s.Teams[0].Score)
	assert.Equal(t, 0, s.CurrentScore)
	assert.Equal(t, 1, s.CurrentTeamIndex)
	assert.True(t, s.Categories[1].Questions[4].IsAnswered)
}

func TestAnsweredQuestionCannotBeSelectedAgain(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q100"})
	s = Reduce(s, AnswerQuestion{Correct: true})

	again := Reduce(s, SelectQuestion{CategoryID: "c1", QuestionID: "c1-q100"})

	assert.False(t, again.HasSelection())
	assert.Equal(t, s, again)
}

func TestAnswerWithoutSelectionIsNoop(t *testing.T) {
	s := playingState()
	assert.Equal(t, s, Reduce(s, AnswerQuestion{Correct: true}))
}

func TestIsAnsweredFlipsOncePerQuestion(t *testing.T) {
	s := playingState()
	total := 0
	for _, cat := range s.Categories {
		for _, q := range cat.Questions {
			s = Reduce(s, SelectQuestion{CategoryID: cat.ID, QuestionID: q.ID})
			s = Reduce(s, AnswerQuestion{Correct: true})
			total += q.Points
		}
	}

	for _, cat := range s.Categories {
		for _, q := range cat.Questions {
			assert.True(t, q.IsAnswered)
		}
	}
	assert.Equal(t, total, s.Teams[0].Score+s.Teams[1].Score)
	assert.Equal(t, total, s.CurrentScore)
}

func TestAnswerRotatesTurnRegardlessOfCorrectness(t *testing.T) {
	s := playingState()
	s.Teams = testTeams(3)
	s.CurrentTeamIndex = 2

	s = Reduce(s, SelectQuestion{CategoryID: "c1", QuestionID: "c1-q100"})
	s = Reduce(s, AnswerQuestion{Correct: false})
	require.Equal(t, 0, s.CurrentTeamIndex)
	assert.Equal(t, -100, s.Teams[2].Score)

	var questions [][2]string
	for _, cat := range s.Categories {
		for _, q := range cat.Questions {
			if !q.IsAnswered {
				questions = append(questions, [2]string{cat.ID, q.ID})
			}
		}
	}
	require.Len(t, questions, 9)

	for i, ids := range questions {
		before := s.CurrentTeamIndex
		s = Reduce(s, SelectQuestion{CategoryID: ids[0], QuestionID: ids[1]})
		require.True(t, s.HasSelection())
		s = Reduce(s, AnswerQuestion{Correct: i%2 == 0})

		assert.Equal(t, (before+1)%3, s.CurrentTeamIndex)
		if (i+1)%3 == 0 {
			assert.Equal(t, 0, s.CurrentTeamIndex, "turn returns to the first team every len(teams) answers")
		}

		again := Reduce(s, SelectQuestion{CategoryID: ids[0], QuestionID: ids[1]})
		assert.False(t, again.HasSelection())
	}

	answered := 0
	for _, cat := range s.Categories {
		for _, q := range cat.Questions {
			if q.IsAnswered {
				answered++
			}
		}
	}
	assert.Equal(t, 10, answered)
}

func TestEditingSelectedQuestionRefreshesSelection(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q200"})
	require.True(t, s.HasSelection())

	text := "edited"
	s = Reduce(s, UpdateQuestion{CategoryID: "c1", QuestionID: "c1-q200", Patch: QuestionPatch{Text: &text}})
	require.True(t, s.HasSelection())
	assert.Equal(t, "edited", s.Categories[0].Questions[1].Text)
	assert.Equal(t, "edited", s.SelectedQuestion.Text)
	assert.Equal(t, "edited", s.SelectedCategory.Questions[1].Text)

	s = Reduce(s, UpdateCategory{CategoryID: "c1", Title: "Renamed"})
	assert.Equal(t, "Renamed", s.SelectedCategory.Title)
	assert.Equal(t, "c1-q200", s.SelectedQuestion.ID)

	other := Reduce(s, UpdateCategory{CategoryID: "c2", Title: "Other"})
	assert.Equal(t, "Renamed", other.SelectedCategory.Title)
}

func TestCreateAIGameWithoutCategoriesIsNoop(t *testing.T) {
	s := playingState()
	s.View = ViewAISetup
	assert.Equal(t, s, Reduce(s, CreateAIGame{QuizID: "quiz-1"}))
}

func TestUnknownIdsAreNoops(t *testing.T) {
	s := playingState()

	assert.Equal(t, s, Reduce(s, SelectQuestion{CategoryID: "nope", QuestionID: "c1-q100"}))
	assert.Equal(t, s, Reduce(s, SelectQuestion{CategoryID: "c1", QuestionID: "nope"}))
	assert.Equal(t, s, Reduce(s, UpdateCategory{CategoryID: "nope", Title: "x"}))
	text := "x"
	assert.Equal(t, s, Reduce(s, UpdateQuestion{CategoryID: "c1", QuestionID: "nope", Patch: QuestionPatch{Text: &text}}))
}

func TestNextTeamTurnCycles(t *testing.T) {
	s := playingState()
	s.Teams = testTeams(3)
	s.CurrentTeamIndex = 2

	s = Reduce(s, NextTeamTurn{})
	assert.Equal(t, 0, s.CurrentTeamIndex)

	for i := 0; i < 3; i++ {
		s = Reduce(s, NextTeamTurn{})
	}
	assert.Equal(t, 0, s.CurrentTeamIndex)
}

func TestSetTeams(t *testing.T) {
	s := playingState()
	s.View = ViewTeamSetup
	s.CurrentTeamIndex = 1

	teams := testTeams(3)
	teams[2].Score = 900
	next := Reduce(s, SetTeams{Teams: teams})

	assert.Equal(t, ViewPlaying, next.View)
	assert.Equal(t, 0, next.CurrentTeamIndex)
	require.Len(t, next.Teams, 3)
	assert.Equal(t, 0, next.Teams[2].Score)
	assert.Equal(t, 900, teams[2].Score)
}

func TestSetTeamsEmptyIsNoop(t *testing.T) {
	s := playingState()
	assert.Equal(t, s, Reduce(s, SetTeams{}))
}

func TestResetScore(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q200"})
	s = Reduce(s, AnswerQuestion{Correct: true})

	s = Reduce(s, ResetScore{})

	for _, team := range s.Teams {
		assert.Equal(t, 0, team.Score)
	}
	assert.Equal(t, 0, s.CurrentScore)
	assert.True(t, s.Categories[0].Questions[1].IsAnswered)
	assert.Equal(t, 1, s.CurrentTeamIndex)
}

func TestToggleEditModeClearsSelection(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q200"})

	s = Reduce(s, ToggleEditMode{})
	assert.True(t, s.IsEditMode)
	assert.False(t, s.HasSelection())

	s = Reduce(s, ToggleEditMode{})
	assert.False(t, s.IsEditMode)
}

func TestUpdateCategoryTitle(t *testing.T) {
	s := playingState()
	next := Reduce(s, UpdateCategory{CategoryID: "c2", Title: "Renamed"})

	assert.Equal(t, "Renamed", next.Categories[1].Title)
	assert.Equal(t, "Category c2", s.Categories[1].Title)
}

func TestUpdateQuestionPatch(t *testing.T) {
	s := playingState()
	s.Categories[0] = testCategory("c1", 100, 200, 300)

	text := "New text"
	points := 500
	next := Reduce(s, UpdateQuestion{CategoryID: "c1", QuestionID: "c1-q100", Patch: QuestionPatch{Text: &text, Points: &points}})

	qs := next.Categories[0].Questions
	require.Len(t, qs, 3)
	assert.Equal(t, []int{200, 300, 500}, []int{qs[0].Points, qs[1].Points, qs[2].Points})
	assert.Equal(t, "New text", qs[2].Text)
	assert.Equal(t, "c1-q100", qs[2].ID)
	assert.Equal(t, "c1 question 100", s.Categories[0].Questions[0].Text)
}

func TestUpdateQuestionRejectsTakenOrInvalidTier(t *testing.T) {
	s := playingState()

	taken := 200
	next := Reduce(s, UpdateQuestion{CategoryID: "c1", QuestionID: "c1-q100", Patch: QuestionPatch{Points: &taken}})
	assert.Equal(t, 100, next.Categories[0].Questions[0].Points)

	invalid := 250
	next = Reduce(s, UpdateQuestion{CategoryID: "c1", QuestionID: "c1-q100", Patch: QuestionPatch{Points: &invalid}})
	assert.Equal(t, 100, next.Categories[0].Questions[0].Points)
}

func TestStartGameResetsRound(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q200"})
	s = Reduce(s, AnswerQuestion{Correct: true})
	s = Reduce(s, SelectQuestion{CategoryID: "c1", QuestionID: "c1-q300"})

	board := []Category{testCategory("n1", PointTiers[:]...)}
	next := Reduce(s, StartGame{Categories: board})

	assert.Equal(t, ViewTeamSetup, next.View)
	assert.Equal(t, board, next.Categories)
	assert.False(t, next.HasSelection())
	assert.Equal(t, 0, next.CurrentScore)
	assert.Equal(t, 0, next.CurrentTeamIndex)
	for _, team := range next.Teams {
		assert.Equal(t, 0, team.Score)
	}
}

func TestCreateAIGame(t *testing.T) {
	s := playingState()
	s.IsEditMode = true

	next := Reduce(s, CreateAIGame{Categories: []Category{testCategory("ai", PointTiers[:]...)}, QuizID: "quiz-1"})

	assert.Equal(t, ViewTeamSetup, next.View)
	assert.Equal(t, "quiz-1", next.CurrentQuizID)
	assert.False(t, next.IsEditMode)
	assert.Equal(t, "ai", next.Categories[0].ID)
}

func TestResetGameIsIdempotentAndKeepsView(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q400"})
	s = Reduce(s, AnswerQuestion{Correct: false})
	s.IsEditMode = true

	event := ResetGame{Categories: []Category{testCategory("r1", PointTiers[:]...)}, Teams: testTeams(2)}
	once := Reduce(s, event)
	twice := Reduce(once, event)

	assert.Equal(t, once, twice)
	assert.Equal(t, ViewPlaying, once.View)
	assert.False(t, once.IsEditMode)
	assert.Equal(t, 0, once.CurrentScore)
	assert.Equal(t, 0, once.Teams[0].Score)
	assert.False(t, once.Categories[0].Questions[3].IsAnswered)
}

func TestCreateNewGame(t *testing.T) {
	s := playingState()
	s.CurrentQuizID = "quiz-1"

	next := Reduce(s, CreateNewGame{Categories: []Category{testCategory("blank", PointTiers[:]...)}})

	assert.True(t, next.IsEditMode)
	assert.Empty(t, next.CurrentQuizID)
	assert.Equal(t, ViewPlaying, next.View)
	assert.Equal(t, "blank", next.Categories[0].ID)
}

func TestBackToLandingReplacesEverything(t *testing.T) {
	initial := State{Categories: []Category{testCategory("i1", PointTiers[:]...)}, View: ViewLanding, Teams: testTeams(2)}

	next := Reduce(playingState(), BackToLanding{Initial: initial})

	assert.Equal(t, initial, next)
}

func TestViewTransitions(t *testing.T) {
	s := playingState()
	s.View = ViewLanding

	s = Reduce(s, ShowAISetup{})
	assert.Equal(t, ViewAISetup, s.View)

	s.View = ViewPlaying
	s = Reduce(s, BackToTeamSetup{})
	assert.Equal(t, ViewTeamSetup, s.View)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := Reduce(playingState(), SelectQuestion{CategoryID: "c1", QuestionID: "c1-q100"})
	before := cloneState(s)

	_ = Reduce(s, AnswerQuestion{Correct: true})
	_ = Reduce(s, UpdateCategory{CategoryID: "c1", Title: "changed"})

	assert.Equal(t, before, s)
}
