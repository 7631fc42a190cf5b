package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/gokatarajesh/quiz-board/internal/config"
	"github.com/gokatarajesh/quiz-board/internal/logging"
	httperrors "github.com/gokatarajesh/quiz-board/pkg/http/errors"
)

const healthCheckTimeout = 2 * time.Second

// Check reports the health of one backing dependency.
type Check func(ctx context.Context) error

// Mount registers a component's routes on the root router.
type Mount func(r chi.Router)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter assembles middleware, base routes (health, metrics, API description)
// and the component routes.
func NewRouter(cfg *config.App, logger zerolog.Logger, checks map[string]Check, mounts ...Mount) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-ID"))
	r.Use(contextLogger)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Get("/healthz", healthHandler(checks))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.json", handleOpenAPI(cfg.Name))

	for _, mount := range mounts {
		mount(r)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Route not found")
	})

	return r
}

// NewHTTPServer wraps the router in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func healthHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				hlog.FromRequest(r).Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
		httperrors.RespondJSON(w, status, resp)
	}
}

// contextLogger stores the request-scoped logger where logging.FromContext finds it.
func contextLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), *hlog.FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
