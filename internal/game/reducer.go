package game

import "sort"

// PointTiers are the five question values of every category.
var PointTiers = [...]int{100, 200, 300, 400, 500}

// Reduce returns the state that follows s after e. It never mutates s and never
// fails: events that reference missing ids or arrive in the wrong screen leave
// the state unchanged.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case StartGame:
		next := s
		next.Categories = cloneCategories(ev.Categories)
		next.Teams = zeroScores(s.Teams)
		next.CurrentTeamIndex = 0
		next.CurrentScore = 0
		next = clearSelection(next)
		next.View = ViewTeamSetup
		return next

	case ShowAISetup:
		next := s
		next.View = ViewAISetup
		return next

	case CreateAIGame:
		if len(ev.Categories) == 0 {
			return s
		}
		next := s
		next.Categories = cloneCategories(ev.Categories)
		next.Teams = zeroScores(s.Teams)
		next.CurrentTeamIndex = 0
		next.CurrentScore = 0
		next = clearSelection(next)
		next.IsEditMode = false
		next.CurrentQuizID = ev.QuizID
		next.View = ViewTeamSetup
		return next

	case SetTeams:
		if len(ev.Teams) == 0 {
			return s
		}
		next := s
		next.Teams = zeroScores(ev.Teams)
		next.CurrentTeamIndex = 0
		next.View = ViewPlaying
		return next

	case SelectQuestion:
		ci, qi, ok := findQuestion(s.Categories, ev.CategoryID, ev.QuestionID)
		if !ok || s.Categories[ci].Questions[qi].IsAnswered {
			return s
		}
		cat := cloneCategory(s.Categories[ci])
		q := cat.Questions[qi]
		next := s
		next.SelectedCategory = &cat
		next.SelectedQuestion = &q
		return next

	case AnswerQuestion:
		return answer(s, ev.Correct)

	case CloseQuestion:
		return clearSelection(s)

	case ToggleEditMode:
		next := clearSelection(s)
		next.IsEditMode = !s.IsEditMode
		return next

	case UpdateCategory:
		ci := findCategory(s.Categories, ev.CategoryID)
		if ci < 0 {
			return s
		}
		next := s
		next.Categories = cloneCategories(s.Categories)
		next.Categories[ci].Title = ev.Title
		return refreshSelection(next, ci)

	case UpdateQuestion:
		ci, qi, ok := findQuestion(s.Categories, ev.CategoryID, ev.QuestionID)
		if !ok {
			return s
		}
		next := s
		next.Categories = cloneCategories(s.Categories)
		next.Categories[ci].Questions[qi] = applyPatch(next.Categories[ci], qi, ev.Patch)
		sortByPoints(next.Categories[ci].Questions)
		return refreshSelection(next, ci)

	case ResetGame:
		next := s
		next.Categories = cloneCategories(ev.Categories)
		next.Teams = zeroScores(ev.Teams)
		next.CurrentTeamIndex = 0
		next.CurrentScore = 0
		next = clearSelection(next)
		next.IsEditMode = false
		return next

	case ResetScore:
		next := s
		next.Teams = zeroScores(s.Teams)
		next.CurrentScore = 0
		return next

	case NextTeamTurn:
		next := s
		next.CurrentTeamIndex = nextTurn(s.CurrentTeamIndex, len(s.Teams))
		return next

	case CreateNewGame:
		next := s
		next.Categories = cloneCategories(ev.Categories)
		next.Teams = zeroScores(s.Teams)
		next.CurrentTeamIndex = 0
		next.CurrentScore = 0
		next = clearSelection(next)
		next.CurrentQuizID = ""
		next.IsEditMode = true
		return next

	case BackToLanding:
		return cloneState(ev.Initial)

	case BackToTeamSetup:
		next := s
		next.View = ViewTeamSetup
		return next
	}
	return s
}

func answer(s State, correct bool) State {
	if !s.HasSelection() || len(s.Teams) == 0 {
		return s
	}
	ci, qi, ok := findQuestion(s.Categories, s.SelectedCategory.ID, s.SelectedQuestion.ID)
	if !ok {
		return clearSelection(s)
	}

	points := s.Categories[ci].Questions[qi].Points
	change := -points
	if correct {
		change = points
	}

	next := s
	next.Categories = cloneCategories(s.Categories)
	next.Categories[ci].Questions[qi].IsAnswered = true

	next.Teams = append([]Team(nil), s.Teams...)
	turn := s.CurrentTeamIndex
	if turn < 0 || turn >= len(next.Teams) {
		turn = 0
	}
	next.Teams[turn].Score += change
	next.CurrentTeamIndex = nextTurn(turn, len(next.Teams))

	if correct {
		next.CurrentScore += change
	}
	return clearSelection(next)
}

func nextTurn(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 || i >= n {
		i = 0
	}
	return (i + 1) % n
}

func applyPatch(cat Category, qi int, p QuestionPatch) Question {
	q := cat.Questions[qi]
	if p.Text != nil {
		q.Text = *p.Text
	}
	if p.Answer != nil {
		q.Answer = *p.Answer
	}
	if p.Type != nil {
		q.Type = *p.Type
	}
	if p.Points != nil && tierFree(cat, qi, *p.Points) {
		q.Points = *p.Points
	}
	return q
}

// tierFree reports whether points is a valid tier not held by another question of cat.
func tierFree(cat Category, qi, points int) bool {
	valid := false
	for _, t := range PointTiers {
		if t == points {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}
	for i, q := range cat.Questions {
		if i != qi && q.Points == points {
			return false
		}
	}
	return true
}

// refreshSelection re-copies the selected category and question from the board
// after category ci was edited.
func refreshSelection(s State, ci int) State {
	if !s.HasSelection() || s.SelectedCategory.ID != s.Categories[ci].ID {
		return s
	}
	cat := cloneCategory(s.Categories[ci])
	for _, q := range cat.Questions {
		if q.ID == s.SelectedQuestion.ID {
			q := q
			s.SelectedCategory = &cat
			s.SelectedQuestion = &q
			return s
		}
	}
	return s
}

func clearSelection(s State) State {
	s.SelectedQuestion = nil
	s.SelectedCategory = nil
	return s
}

func zeroScores(teams []Team) []Team {
	out := make([]Team, len(teams))
	for i, t := range teams {
		t.Score = 0
		out[i] = t
	}
	return out
}

func findCategory(categories []Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func findQuestion(categories []Category, categoryID, questionID string) (int, int, bool) {
	ci := findCategory(categories, categoryID)
	if ci < 0 {
		return -1, -1, false
	}
	for qi, q := range categories[ci].Questions {
		if q.ID == questionID {
			return ci, qi, true
		}
	}
	return -1, -1, false
}

func sortByPoints(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Points < questions[j].Points })
}

func cloneCategory(c Category) Category {
	c.Questions = append([]Question(nil), c.Questions...)
	return c
}

func cloneCategories(categories []Category) []Category {
	if categories == nil {
		return nil
	}
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = cloneCategory(c)
	}
	return out
}

func cloneState(s State) State {
	s.Categories = cloneCategories(s.Categories)
	s.Teams = append([]Team(nil), s.Teams...)
	if s.SelectedQuestion != nil {
		q := *s.SelectedQuestion
		s.SelectedQuestion = &q
	}
	if s.SelectedCategory != nil {
		c := cloneCategory(*s.SelectedCategory)
		s.SelectedCategory = &c
	}
	return s
}
