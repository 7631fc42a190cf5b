package quiz

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when a completion holds no usable quiz object.
var ErrNoJSON = errors.New("no JSON object found in completion")

const maxCandidates = 64

var completionNoise = strings.NewReplacer(
	`\boxed{`, "",
	"```json", "",
	"```JSON", "",
	"```", "",
)

// ParseQuiz pulls the first JSON object with at least one category out of free
// model text. Fences and \boxed{...} wrappers are ignored.
func ParseQuiz(text string) (Quiz, error) {
	cleaned := completionNoise.Replace(text)

	for _, candidate := range jsonCandidates(cleaned) {
		if quiz, ok := decodeQuiz(candidate); ok {
			return quiz, nil
		}
	}
	if quiz, ok := decodeQuiz(strings.TrimSpace(cleaned)); ok {
		return quiz, nil
	}
	return Quiz{}, ErrNoJSON
}

func decodeQuiz(raw string) (Quiz, bool) {
	var quiz Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return Quiz{}, false
	}
	if len(quiz.Categories) == 0 {
		return Quiz{}, false
	}
	return quiz, true
}

// jsonCandidates returns balanced {...} spans, one per opening brace, in the
// order they start. Braces inside JSON strings do not count.
func jsonCandidates(text string) []string {
	var out []string
	for start := strings.IndexByte(text, '{'); start >= 0 && len(out) < maxCandidates; {
		if end := matchBrace(text, start); end > start {
			out = append(out, text[start:end+1])
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return out
}

func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
