package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeDispatch = "dispatch"
	TypePing     = "ping"

	// Server -> Client
	TypeGameState = "game_state"
	TypeError     = "error"
	TypePong      = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// DispatchPayload carries a game event from the host. Event has the same shape as
// the body of POST /v1/games/{id}/events.
type DispatchPayload struct {
	Event json.RawMessage `json:"event"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
