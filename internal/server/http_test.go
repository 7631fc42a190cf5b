package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-board/internal/config"
	httperrors "github.com/gokatarajesh/quiz-board/pkg/http/errors"
)

func testConfig() *config.App {
	return &config.App{
		Name:     "quiz-board",
		HTTPAddr: ":0",
		CORS: config.CORS{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
		},
	}
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthzOK(t *testing.T) {
	h := NewRouter(testConfig(), zerolog.Nop(), map[string]Check{
		"postgres": func(context.Context) error { return nil },
	})

	rec := serve(t, h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "up", body.Checks["postgres"])
}

func TestHealthzDegraded(t *testing.T) {
	h := NewRouter(testConfig(), zerolog.Nop(), map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	rec := serve(t, h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "up", body.Checks["postgres"])
	assert.Equal(t, "down", body.Checks["redis"])
}

func TestHealthzLogsFailingDependency(t *testing.T) {
	var buf bytes.Buffer
	h := NewRouter(testConfig(), zerolog.New(&buf), map[string]Check{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := serve(t, h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	logs := buf.String()
	assert.Contains(t, logs, `"message":"dependency ping failed"`)
	assert.Contains(t, logs, `"dependency":"redis"`)
	assert.Contains(t, logs, `"error":"connection refused"`)
	assert.Contains(t, logs, `"request_id":`)
}

func TestHealthzWithoutChecks(t *testing.T) {
	h := NewRouter(testConfig(), zerolog.Nop(), nil)

	rec := serve(t, h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOpenAPIDocument(t *testing.T) {
	h := NewRouter(testConfig(), zerolog.Nop(), nil)

	rec := serve(t, h, http.MethodGet, "/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Info    struct{ Title string }    `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "quiz-board", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/generate-quiz")
	assert.Contains(t, doc.Paths, "/v1/games/{id}/events")
}

func TestMountsAndNotFound(t *testing.T) {
	h := NewRouter(testConfig(), zerolog.Nop(), nil, func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			httperrors.RespondJSON(w, http.StatusOK, map[string]string{"message": "pong"})
		})
	})

	rec := serve(t, h, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())

	rec = serve(t, h, http.MethodGet, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httperrors.ErrCodeNotFound, body.Error)
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	h := NewRouter(testConfig(), zerolog.Nop(), nil)

	rec := serve(t, h, http.MethodGet, "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
