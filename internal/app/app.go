package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/quiz-board/internal/config"
	"github.com/gokatarajesh/quiz-board/internal/db/repository"
	"github.com/gokatarajesh/quiz-board/internal/game"
	"github.com/gokatarajesh/quiz-board/internal/locale"
	"github.com/gokatarajesh/quiz-board/internal/logging"
	"github.com/gokatarajesh/quiz-board/internal/quiz"
	"github.com/gokatarajesh/quiz-board/internal/server"
	ws "github.com/gokatarajesh/quiz-board/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server) and the
// background workers.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	registry *game.Registry
	warmer   *quiz.PoolWarmer
}

// New bootstraps logger, optional Postgres and Redis, the quiz service, game
// sessions and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}
	checks := make(map[string]server.Check)

	var store quiz.Store
	if cfg.Postgres.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
		store = repository.NewQuizRepository(repository.NewQueries(pool))
		checks["postgres"] = pool.Ping
	} else {
		logger.Warn().Msg("PG_HOST not set; quizzes are not persisted and random boards use the fallback set")
	}

	var (
		poolCache    quiz.PoolCache
		stateStorage game.Storage = game.NewMemoryStorage()
	)
	if cfg.Redis.Enabled() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		poolCache = quiz.NewRedisPoolCache(a.redis, cfg.Pool.CacheTTL)
		stateStorage = game.NewRedisStorage(a.redis, cfg.Game.StateTTL)
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; game sessions live in memory only")
	}

	keys := cfg.AI.Keys()
	if len(keys) == 0 {
		logger.Warn().Msg("no OpenRouter API keys configured; generation serves fallback quizzes")
	}
	for i, k := range keys {
		logger.Debug().Int("index", i).Str("key", logging.Redact(k)).Msg("openrouter credential loaded")
	}

	completer := quiz.NewOpenRouterClient(quiz.OpenRouterConfig{
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Referer: cfg.AI.Referer,
		Title:   cfg.AI.Title,
		Timeout: cfg.AI.HTTPTimeout,
	}, logger)
	generator := quiz.NewGenerator(quiz.NewKeyPool(keys), completer, store, cfg.AI.HTTPTimeout, logger)

	categoryPool := quiz.NewCategoryPool(store, poolCache, logger)
	random := quiz.NewRandomQuizzer(categoryPool, nil, logger)
	if store != nil && cfg.Pool.WarmInterval > 0 {
		a.warmer = quiz.NewPoolWarmer(categoryPool, cfg.Pool.WarmInterval, logger)
	}

	hub := ws.NewHub(logger)
	a.registry = game.NewRegistry(game.RegistryOptions{
		Storage:         stateStorage,
		KeyPrefix:       cfg.Game.StorageKey,
		Fetcher:         game.FetcherFunc(random.Board),
		Generator:       generator,
		DefaultLanguage: locale.Normalize(cfg.Game.DefaultLanguage),
		FetchTimeout:    cfg.Game.FetchTimeout,
		IdleTimeout:     cfg.Game.IdleTimeout,
		OnCommit:        game.HubBroadcaster(hub),
	}, logger)

	tokens := game.NewTokenManager(game.TokenConfig{
		Secret: []byte(cfg.Game.TokenSecret),
		TTL:    cfg.Game.TokenTTL,
		Issuer: cfg.Name,
	})
	if cfg.Env == "production" && cfg.Game.TokenSecret == "change-me" {
		return nil, errors.New("GAME_TOKEN_SECRET must be configured in production")
	}

	quizHandlers := quiz.NewHTTPHandlers(generator, random, store, cfg.Site.BaseURL, logger)
	gameHandlers := game.NewHTTPHandlers(a.registry, tokens, hub, cfg.CORS.AllowedOrigins, logger)

	router := server.NewRouter(cfg, logger, checks, quizHandlers.Routes, gameHandlers.Routes)
	a.http = server.NewHTTPServer(cfg, router)

	return a, nil
}

// Run serves HTTP and runs the pool warmer and session evictor until a termination signal, a server
// failure or ctx cancellation, then shuts everything down.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.warmer != nil {
		g.Go(func() error {
			if err := a.warmer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("pool warmer stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		return a.registry.RunEvictor(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutdown signal received")
		a.shutdown()
		return nil
	})

	err := g.Wait()
	a.logger.Info().Msg("shutdown complete")
	return err
}

func (a *Application) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	if err := a.registry.Close(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("flush game sessions failed")
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
