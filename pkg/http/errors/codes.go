package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeInvalidToken = "invalid_token"
	ErrCodeForbidden    = "forbidden"

	// Validation errors
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeInvalidJSON       = "invalid_json"
	ErrCodeInvalidCategories = "invalid_categories"
	ErrCodeUnknownEvent      = "unknown_event"

	// Resource errors
	ErrCodeNotFound        = "not_found"
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeQuizNotFound    = "quiz_not_found"

	// WebSocket errors
	ErrCodeConnectionError = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
