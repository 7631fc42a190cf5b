package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuizJSON = `{"categories":[{"title":"Space","questions":[{"points":100,"text":"Which planet is red?","answer":"Mars"}]}]}`

func TestParseQuizPlainJSON(t *testing.T) {
	quiz, err := ParseQuiz(sampleQuizJSON)
	require.NoError(t, err)
	require.Len(t, quiz.Categories, 1)
	assert.Equal(t, "Space", quiz.Categories[0].Title)
	assert.Equal(t, "Mars", quiz.Categories[0].Questions[0].Answer)
}

func TestParseQuizFencedWithProse(t *testing.T) {
	text := "Sure! Here is your quiz:\n```json\n" + sampleQuizJSON + "\n```\nEnjoy."
	quiz, err := ParseQuiz(text)
	require.NoError(t, err)
	assert.Equal(t, "Space", quiz.Categories[0].Title)
}

func TestParseQuizBoxed(t *testing.T) {
	text := `\boxed{` + sampleQuizJSON + `}`
	quiz, err := ParseQuiz(text)
	require.NoError(t, err)
	assert.Equal(t, "Space", quiz.Categories[0].Title)
}

func TestParseQuizBoxedWithProseAndStrayBrace(t *testing.T) {
	inner := `{"categories": [{"title":"Space","questions":[{"points":100,"text":"Which planet is red?","answer":"Mars"}]}]}`
	for _, text := range []string{
		`Sure! \boxed{ ` + inner + ` } Done`,
		`Sure! \\boxed{ ` + inner + ` } Done`,
	} {
		quiz, err := ParseQuiz(text)
		require.NoError(t, err, text)
		require.Len(t, quiz.Categories, 1)
		assert.Equal(t, "Space", quiz.Categories[0].Title)
		assert.Equal(t, "Mars", quiz.Categories[0].Questions[0].Answer)
	}
}

func TestParseQuizBracesInsideStrings(t *testing.T) {
	text := `noise {"categories":[{"title":"Code {braces}","questions":[{"points":100,"text":"What does \"}\" close?","answer":"A block"}]}]} trailing }`
	quiz, err := ParseQuiz(text)
	require.NoError(t, err)
	assert.Equal(t, "Code {braces}", quiz.Categories[0].Title)
	assert.Equal(t, `What does "}" close?`, quiz.Categories[0].Questions[0].Text)
}

func TestParseQuizSkipsLeadingBraceNoise(t *testing.T) {
	text := "Use {placeholders} carefully. " + sampleQuizJSON
	quiz, err := ParseQuiz(text)
	require.NoError(t, err)
	assert.Equal(t, "Space", quiz.Categories[0].Title)
}

func TestParseQuizNoJSON(t *testing.T) {
	_, err := ParseQuiz("I cannot help with that.")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseQuizEmptyCategoriesIsFailure(t *testing.T) {
	_, err := ParseQuiz(`{"categories":[]}`)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseQuizDoesNotEnforceCount(t *testing.T) {
	text := `{"categories":[{"title":"A","questions":[]},{"title":"B","questions":[]}]}`
	quiz, err := ParseQuiz(text)
	require.NoError(t, err)
	assert.Len(t, quiz.Categories, 2)
}
