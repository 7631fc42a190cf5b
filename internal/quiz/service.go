package quiz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-board/internal/logging"
)

// Generator produces quizzes through the upstream model, rotating credentials on
// authentication failures and falling back to placeholder content. Generate never fails.
type Generator struct {
	pool           *KeyPool
	completer      Completer
	store          Store
	attemptTimeout time.Duration
	logger         zerolog.Logger
}

// NewGenerator wires a generator. store may be nil.
func NewGenerator(pool *KeyPool, completer Completer, store Store, attemptTimeout time.Duration, logger zerolog.Logger) *Generator {
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}
	return &Generator{
		pool:           pool,
		completer:      completer,
		store:          store,
		attemptTimeout: attemptTimeout,
		logger:         logger.With().Str("component", "quiz_generator").Logger(),
	}
}

// Generate makes at most one attempt per configured credential.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) Quiz {
	if g.pool == nil || g.pool.Size() == 0 || g.completer == nil {
		g.logger.Warn().Msg("no upstream credentials configured, serving fallback quiz")
		generationFallbacks.WithLabelValues("no_credentials").Inc()
		return FallbackQuiz(req.Categories, req.Language)
	}

	messages := BuildMessages(req.Categories, req.Language)
	maxAttempts := g.pool.Size()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cred, ok := g.pool.Next()
		if !ok {
			break
		}

		log := g.logger.With().
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Int("credential", cred.Index+1).
			Str("key", logging.Redact(cred.Key)).
			Logger()

		quiz, err := g.attempt(ctx, cred, messages)
		if err == nil {
			generationAttempts.WithLabelValues("success").Inc()
			log.Info().Int("categories", len(quiz.Categories)).Msg("quiz generated")
			quiz.QuizID = g.persist(ctx, req, quiz)
			return quiz
		}

		switch {
		case errors.Is(err, ErrUnauthorized):
			g.pool.MarkUnhealthy(cred.Index)
			generationAttempts.WithLabelValues("unauthorized").Inc()
			log.Warn().Err(err).Msg("credential rejected, marked unhealthy")
		case errors.Is(err, ErrNoJSON):
			generationAttempts.WithLabelValues("unparseable").Inc()
			log.Warn().Err(err).Msg("completion held no quiz")
		default:
			generationAttempts.WithLabelValues("error").Inc()
			log.Warn().Err(err).Msg("generation attempt failed")
		}

		if ctx.Err() != nil {
			break
		}
	}

	g.logger.Error().Strs("categories", req.Categories).Msg("all generation attempts failed, serving fallback quiz")
	generationFallbacks.WithLabelValues("exhausted").Inc()
	return FallbackQuiz(req.Categories, req.Language)
}

func (g *Generator) attempt(ctx context.Context, cred Credential, messages []ChatMessage) (Quiz, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	content, err := g.completer.Complete(attemptCtx, cred.Key, messages)
	if err != nil {
		return Quiz{}, err
	}
	return ParseQuiz(content)
}

// persist stores the generated quiz when a store is configured. Failures are
// logged and never reach the caller.
func (g *Generator) persist(ctx context.Context, req GenerateRequest, quiz Quiz) string {
	if g.store == nil {
		return ""
	}
	title := req.Language.Pick("Quiz generated with categories: ", "Quiz generato con categorie: ") +
		strings.Join(req.Categories, ", ")

	id, err := g.store.Create(ctx, toNewQuiz(SanitizeText(title), SanitizeQuiz(quiz)))
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to persist generated quiz")
		return ""
	}
	g.logger.Info().Str("quiz_id", id).Msg("generated quiz stored")
	return id
}
