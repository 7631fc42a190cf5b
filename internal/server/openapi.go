package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/gokatarajesh/quiz-board/internal/game"
	"github.com/gokatarajesh/quiz-board/internal/quiz"
	httperrors "github.com/gokatarajesh/quiz-board/pkg/http/errors"
)

type generateQuizRequest struct {
	Categories []string `json:"categories" required:"true" minItems:"1"`
	Lang       string   `json:"lang,omitempty" enum:"en,it"`
}

type randomQuizQuery struct {
	Lang string `query:"lang" enum:"en,it"`
}

type pathID struct {
	ID string `path:"id"`
}

type pingResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

func newOpenAPISpec(appName string) *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = appName
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Jeopardy-style trivia boards: quiz generation, random boards and hosted game sessions.")

	errResp := httperrors.ErrorResponse{}

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ping
	getPing, _ := r.NewOperationContext(http.MethodGet, "/ping")
	getPing.SetSummary("Liveness ping")
	getPing.AddRespStructure(pingResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getPing)

	// POST /generate-quiz
	postGenerate, _ := r.NewOperationContext(http.MethodPost, "/generate-quiz")
	postGenerate.SetSummary("Generate quiz")
	postGenerate.SetDescription("Generates five questions per requested category. Always answers with a quiz; falls back to placeholders when generation fails.")
	postGenerate.AddReqStructure(generateQuizRequest{})
	postGenerate.AddRespStructure(quiz.Quiz{}, openapi.WithHTTPStatus(http.StatusOK))
	postGenerate.AddRespStructure(errResp, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postGenerate)

	// GET /random-quiz
	getRandom, _ := r.NewOperationContext(http.MethodGet, "/random-quiz")
	getRandom.SetSummary("Random board")
	getRandom.SetDescription("Four stored categories plus a mystery category drawn across the pool.")
	getRandom.AddReqStructure(randomQuizQuery{})
	getRandom.AddRespStructure(quiz.Quiz{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRandom)

	// GET /quiz/{id}
	getQuizPage, _ := r.NewOperationContext(http.MethodGet, "/quiz/{id}")
	getQuizPage.SetSummary("Public quiz page")
	getQuizPage.AddReqStructure(pathID{})
	getQuizPage.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("text/html"))
	getQuizPage.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNotFound), openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getQuizPage)

	// GET /sitemap.xml
	getSitemap, _ := r.NewOperationContext(http.MethodGet, "/sitemap.xml")
	getSitemap.SetSummary("Sitemap")
	getSitemap.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("application/xml"))
	_ = r.AddOperation(getSitemap)

	// POST /v1/games
	postGame, _ := r.NewOperationContext(http.MethodPost, "/v1/games")
	postGame.SetSummary("Create game session")
	postGame.SetDescription("Starts a hosted board on the landing screen and returns the host token.")
	postGame.AddReqStructure(game.CreateSessionRequest{})
	postGame.AddRespStructure(game.CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(postGame)

	// GET /v1/games/{id}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/v1/games/{id}")
	getGame.SetSummary("Get game state")
	getGame.AddReqStructure(pathID{})
	getGame.AddRespStructure(game.State{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(errResp, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /v1/games/{id}/events
	postEvent, _ := r.NewOperationContext(http.MethodPost, "/v1/games/{id}/events")
	postEvent.SetSummary("Dispatch game event")
	postEvent.SetDescription("Applies one event to the session. Requires the host token as Bearer.")
	postEvent.AddReqStructure(pathID{})
	postEvent.AddReqStructure(game.EventRequest{})
	postEvent.AddRespStructure(game.State{}, openapi.WithHTTPStatus(http.StatusOK))
	postEvent.AddRespStructure(errResp, openapi.WithHTTPStatus(http.StatusBadRequest))
	postEvent.AddRespStructure(errResp, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postEvent.AddRespStructure(errResp, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postEvent)

	// GET /v1/games/{id}/ws
	getWatch, _ := r.NewOperationContext(http.MethodGet, "/v1/games/{id}/ws")
	getWatch.SetSummary("Watch game")
	getWatch.SetDescription("Upgrades to a WebSocket that receives every committed state. Pass ?token= to dispatch events.")
	getWatch.AddReqStructure(pathID{})
	getWatch.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols), openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWatch)

	return r.Spec
}

func handleOpenAPI(appName string) http.HandlerFunc {
	spec := newOpenAPISpec(appName)
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
