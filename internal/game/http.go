package game

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-board/internal/locale"
	"github.com/gokatarajesh/quiz-board/internal/quiz"
	httperrors "github.com/gokatarajesh/quiz-board/pkg/http/errors"
	ws "github.com/gokatarajesh/quiz-board/pkg/http/ws"
)

const maxEventBody = 1 << 20

var (
	errUnknownEvent  = errors.New("unknown event type")
	errMissingTopics = errors.New("topics must be a non-empty array")
)

// HTTPHandlers exposes hosted game sessions over HTTP and websocket.
type HTTPHandlers struct {
	registry *Registry
	tokens   *TokenManager
	hub      *ws.Hub
	upgrader *websocket.Upgrader
	logger   zerolog.Logger
}

// NewHTTPHandlers builds the session handlers. Websocket upgrades are accepted
// from allowedOrigins (the CORS origins) and from the serving host.
func NewHTTPHandlers(registry *Registry, tokens *TokenManager, hub *ws.Hub, allowedOrigins []string, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		registry: registry,
		tokens:   tokens,
		hub:      hub,
		upgrader: ws.NewUpgrader(allowedOrigins),
		logger:   logger.With().Str("component", "game_http").Logger(),
	}
}

// Routes mounts the session endpoints on r.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Route("/v1/games", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetState)
		r.Post("/{id}/events", h.DispatchEvent)
		r.Get("/{id}/ws", h.Watch)
	})
}

// CreateSessionRequest is the body of POST /v1/games.
type CreateSessionRequest struct {
	Lang string `json:"lang"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	HostToken string `json:"host_token"`
	State     State  `json:"state"`
}

// CreateSession handles POST /v1/games.
func (h *HTTPHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httperrors.RespondInvalidJSON(w, err)
		return
	}

	var lang locale.Language
	if req.Lang != "" {
		lang = locale.Normalize(req.Lang)
	}
	id, store := h.registry.Create(r.Context(), lang)

	token, err := h.tokens.Issue(id)
	if err != nil {
		h.logger.Error().Err(err).Msg("issue host token failed")
		httperrors.RespondInternalError(w, "Could not issue host token")
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: id,
		HostToken: token,
		State:     store.State(),
	})
}

// GetState handles GET /v1/games/{id}.
func (h *HTTPHandlers) GetState(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.lookup(w, r)
	if !ok {
		return
	}
	defer release()
	httperrors.RespondJSON(w, http.StatusOK, store.State())
}

// DispatchEvent handles POST /v1/games/{id}/events for the session host.
func (h *HTTPHandlers) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.lookup(w, r)
	if !ok {
		return
	}
	defer release()

	sessionID := chi.URLParam(r, "id")
	if _, err := h.tokens.Validate(bearerToken(r), sessionID); err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("host token rejected")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired host token")
		return
	}

	var req EventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err := dec.Decode(&req); err != nil {
		httperrors.RespondInvalidJSON(w, err)
		return
	}

	state, err := req.Apply(r.Context(), store)
	if err != nil {
		respondEventError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, state)
}

// Watch handles GET /v1/games/{id}/ws. Every watcher receives each committed
// state; a connection opened with the host token may also dispatch events.
func (h *HTTPHandlers) Watch(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.lookup(w, r)
	if !ok {
		return
	}
	defer release()

	sessionID := chi.URLParam(r, "id")
	isHost := false
	if token := r.URL.Query().Get("token"); token != "" {
		if _, err := h.tokens.Validate(token, sessionID); err != nil {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired host token")
			return
		}
		isHost = true
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.Join(sessionID, wsConn)
	defer h.hub.Leave(wsConn.ID)

	go wsConn.WritePump()
	h.send(wsConn, ws.TypeGameState, store.State(), "")

	ctx := r.Context()
	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(ctx, store, wsConn, isHost, msg)
	})
}

// HubBroadcaster returns a Registry OnCommit hook that pushes each committed
// state to the watchers of its session.
func HubBroadcaster(hub *ws.Hub) func(sessionID string, state State) {
	return func(sessionID string, state State) {
		msg, err := ws.NewMessage(ws.TypeGameState, state)
		if err != nil {
			return
		}
		_ = hub.BroadcastToSession(sessionID, msg)
	}
}

func (h *HTTPHandlers) handleMessage(ctx context.Context, store *Store, conn *ws.Connection, isHost bool, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})

	case ws.TypeDispatch:
		if !isHost {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeForbidden, "Only the host can dispatch events")
		}
		var payload ws.DispatchPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidJSON, "Invalid dispatch payload")
		}
		var req EventRequest
		if err := json.Unmarshal(payload.Event, &req); err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidJSON, "Invalid event")
		}
		if _, err := req.Apply(ctx, store); err != nil {
			code, message := eventErrorCode(err)
			return h.sendError(conn, msg.RequestID, code, message)
		}
		return nil

	default:
		return h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownEvent, "Unknown message type: "+msg.Type)
	}
}

func (h *HTTPHandlers) send(conn *ws.Connection, msgType string, payload any, requestID string) {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("marshal ws message failed")
		return
	}
	msg.RequestID = requestID
	if err := conn.Send(msg); err != nil {
		h.logger.Warn().Err(err).Str("type", msgType).Msg("ws send failed")
	}
}

func (h *HTTPHandlers) sendError(conn *ws.Connection, requestID, code, message string) error {
	h.send(conn, ws.TypeError, ws.ErrorPayload{Code: code, Message: message}, requestID)
	return nil
}

// lookup acquires the session store; the caller must release it when done.
func (h *HTTPHandlers) lookup(w http.ResponseWriter, r *http.Request) (*Store, func(), bool) {
	store, release, err := h.registry.Acquire(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Game session not found")
		return nil, nil, false
	case err != nil:
		h.logger.Error().Err(err).Msg("load game session failed")
		httperrors.RespondInternalError(w, "Could not load game session")
		return nil, nil, false
	}
	return store, release, true
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func respondEventError(w http.ResponseWriter, err error) {
	code, message := eventErrorCode(err)
	httperrors.RespondBadRequest(w, code, message)
}

func eventErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, errUnknownEvent):
		return httperrors.ErrCodeUnknownEvent, err.Error()
	case errors.Is(err, errMissingTopics):
		return httperrors.ErrCodeInvalidCategories, err.Error()
	default:
		return httperrors.ErrCodeInvalidRequest, err.Error()
	}
}

// EventRequest is the wire form of an event: a snake_case type plus the fields
// that event needs.
type EventRequest struct {
	Type       string        `json:"type"`
	Topics     []string      `json:"topics,omitempty"`
	Quiz       *quiz.Quiz    `json:"quiz,omitempty"`
	Teams      []Team        `json:"teams,omitempty"`
	CategoryID string        `json:"category_id,omitempty"`
	QuestionID string        `json:"question_id,omitempty"`
	Correct    bool          `json:"correct,omitempty"`
	Title      string        `json:"title,omitempty"`
	Patch      QuestionPatch `json:"patch"`
}

// Apply runs the request against store and returns the resulting state.
func (req EventRequest) Apply(ctx context.Context, store *Store) (State, error) {
	switch req.Type {
	case StartGame{}.Name():
		state, _ := store.StartGame(ctx)
		return state, nil
	case ShowAISetup{}.Name():
		return store.Dispatch(ctx, ShowAISetup{}), nil
	case "generate_ai_game":
		if len(req.Topics) == 0 {
			return State{}, errMissingTopics
		}
		state, _ := store.GenerateAIGame(ctx, req.Topics)
		return state, nil
	case CreateAIGame{}.Name():
		if len(req.Topics) == 0 && (req.Quiz == nil || len(req.Quiz.Categories) == 0) {
			return State{}, errMissingTopics
		}
		event := CreateAIGame{Categories: CategoriesFromQuiz(req.Topics, req.Quiz, store.Language())}
		if req.Quiz != nil {
			event.QuizID = req.Quiz.QuizID
		}
		return store.Dispatch(ctx, event), nil
	case SetTeams{}.Name():
		return store.Dispatch(ctx, SetTeams{Teams: withTeamIDs(req.Teams)}), nil
	case SelectQuestion{}.Name():
		return store.Dispatch(ctx, SelectQuestion{CategoryID: req.CategoryID, QuestionID: req.QuestionID}), nil
	case AnswerQuestion{}.Name():
		return store.Dispatch(ctx, AnswerQuestion{Correct: req.Correct}), nil
	case CloseQuestion{}.Name():
		return store.Dispatch(ctx, CloseQuestion{}), nil
	case ToggleEditMode{}.Name():
		return store.Dispatch(ctx, ToggleEditMode{}), nil
	case UpdateCategory{}.Name():
		return store.Dispatch(ctx, UpdateCategory{CategoryID: req.CategoryID, Title: req.Title}), nil
	case UpdateQuestion{}.Name():
		return store.Dispatch(ctx, UpdateQuestion{CategoryID: req.CategoryID, QuestionID: req.QuestionID, Patch: req.Patch}), nil
	case ResetGame{}.Name():
		return store.ResetGame(ctx), nil
	case ResetScore{}.Name():
		return store.Dispatch(ctx, ResetScore{}), nil
	case NextTeamTurn{}.Name():
		return store.Dispatch(ctx, NextTeamTurn{}), nil
	case CreateNewGame{}.Name():
		return store.CreateNewGame(ctx), nil
	case BackToLanding{}.Name():
		return store.BackToLanding(ctx), nil
	case BackToTeamSetup{}.Name():
		return store.Dispatch(ctx, BackToTeamSetup{}), nil
	}
	return State{}, errUnknownEvent
}

func withTeamIDs(teams []Team) []Team {
	out := make([]Team, len(teams))
	for i, t := range teams {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		out[i] = t
	}
	return out
}
