package quiz

import (
	"fmt"
	"strings"

	"github.com/gokatarajesh/quiz-board/internal/locale"
)

const (
	systemPromptEN = "You are an expert quiz writer. Produce clear Jeopardy-style questions and concise answers in English. Respond ONLY with valid JSON according to the requested schema."
	systemPromptIT = "Sei un esperto nella creazione di quiz interattivi. Crea domande chiare in stile Jeopardy e risposte concise in italiano. Rispondi SOLO con JSON valido secondo lo schema richiesto."
)

const userPromptEN = `The user provided these %d categories for a Jeopardy-style quiz: %s. Generate a Jeopardy quiz using exactly these categories. Each category must contain 5 questions worth 100, 200, 300, 400 and 500 points. 100-point questions should be easy, 500-point questions should be very hard.

Rules:
1. Answers MUST NOT appear inside the questions.
2. Questions MUST be phrased as real questions ending with a question mark.
3. Answers must be short (ideally 1-5 words) and precise.
4. Each question must have exactly one unambiguous correct answer.
5. Be factually accurate.
6. Avoid trivial or obvious questions.
7. Return ONLY a valid JSON object shaped like this:
{
  "categories": [
    {
      "title": "Category Name",
      "questions": [
        {"points": 100, "text": "Question text", "answer": "Answer text"},
        {"points": 200, "text": "Question text", "answer": "Answer text"},
        {"points": 300, "text": "Question text", "answer": "Answer text"},
        {"points": 400, "text": "Question text", "answer": "Answer text"},
        {"points": 500, "text": "Question text", "answer": "Answer text"}
      ]
    }
  ]
}`

const userPromptIT = `L'utente ha fornito queste %d categorie per un quiz in stile Jeopardy!: %s. Genera un quiz Jeopardy usando esattamente queste categorie. Ogni categoria deve contenere 5 domande da 100, 200, 300, 400 e 500 punti. Le domande da 100 devono essere facili, quelle da 500 molto difficili.

Regole:
1. Le risposte NON devono comparire nelle domande.
2. Le domande DEVONO essere vere domande che terminano con il punto interrogativo.
3. Le risposte devono essere brevi (idealmente 1-5 parole) e precise.
4. Ogni domanda deve avere una sola risposta corretta e non ambigua.
5. Assicurati della correttezza dei fatti.
6. Evita domande banali o ovvie.
7. Restituisci SOLO un oggetto JSON valido con questa forma:
{
  "categories": [
    {
      "title": "Nome Categoria",
      "questions": [
        {"points": 100, "text": "Testo della domanda", "answer": "Testo della risposta"},
        {"points": 200, "text": "Testo della domanda", "answer": "Testo della risposta"},
        {"points": 300, "text": "Testo della domanda", "answer": "Testo della risposta"},
        {"points": 400, "text": "Testo della domanda", "answer": "Testo della risposta"},
        {"points": 500, "text": "Testo della domanda", "answer": "Testo della risposta"}
      ]
    }
  ]
}`

// BuildMessages renders the system and user messages for a generation request.
func BuildMessages(categories []string, lang locale.Language) []ChatMessage {
	joined := strings.Join(categories, ", ")
	return []ChatMessage{
		{Role: "system", Content: lang.Pick(systemPromptEN, systemPromptIT)},
		{Role: "user", Content: fmt.Sprintf(lang.Pick(userPromptEN, userPromptIT), len(categories), joined)},
	}
}
