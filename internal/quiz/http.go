package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-board/internal/locale"
	httperrors "github.com/gokatarajesh/quiz-board/pkg/http/errors"
)

const maxRequestBody = 1 << 20

// HTTPHandlers exposes quiz generation, random boards, public quiz pages and the sitemap.
type HTTPHandlers struct {
	generator *Generator
	random    *RandomQuizzer
	store     Store
	siteURL   string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewHTTPHandlers wires handlers. store may be nil when no database is configured.
func NewHTTPHandlers(generator *Generator, random *RandomQuizzer, store Store, siteURL string, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		generator: generator,
		random:    random,
		store:     store,
		siteURL:   siteURL,
		logger:    logger.With().Str("component", "quiz_http").Logger(),
		now:       time.Now,
	}
}

// Routes mounts the quiz endpoints on r.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Post("/generate-quiz", h.GenerateQuiz)
	r.Get("/random-quiz", h.RandomQuiz)
	r.Get("/quiz/{id}", h.QuizPage)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/ping", h.Ping)
}

type generateBody struct {
	Categories any `json:"categories"`
	Lang       any `json:"lang"`
}

// GenerateQuiz handles POST /generate-quiz. Only a missing, empty or non-list
// categories field is a client error; everything else yields a quiz.
func (h *HTTPHandlers) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var body generateBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		httperrors.RespondInvalidJSON(w, err)
		return
	}

	raw, ok := body.Categories.([]any)
	if !ok || len(raw) == 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidCategories, "categories must be a non-empty array")
		return
	}
	categories := make([]string, 0, len(raw))
	for _, c := range raw {
		if s, isString := c.(string); isString {
			categories = append(categories, s)
			continue
		}
		categories = append(categories, fmt.Sprint(c))
	}

	lang, _ := body.Lang.(string)
	req := GenerateRequest{Categories: categories, Language: locale.Normalize(lang)}

	h.logger.Info().Strs("categories", categories).Str("lang", string(req.Language)).Msg("generate quiz requested")
	httperrors.RespondJSON(w, http.StatusOK, h.generator.Generate(r.Context(), req))
}

// RandomQuiz handles GET /random-quiz. The language comes from ?lang, then the
// first Accept-Language entry.
func (h *HTTPHandlers) RandomQuiz(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("lang")
	if tag == "" {
		tag = locale.FromAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	httperrors.RespondJSON(w, http.StatusOK, h.random.RandomQuiz(r.Context(), locale.Normalize(tag)))
}

// Ping handles GET /ping for uptime probes.
func (h *HTTPHandlers) Ping(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "online",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"message":   "Server is running",
	})
}
