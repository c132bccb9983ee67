package core

// Error codes
const (
	ErrAnalysisNotFound  = "ANALYSIS_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrInvalidBoard      = "INVALID_BOARD"
	ErrGameOver          = "GAME_OVER"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrResourceLimit     = "RESOURCE_LIMIT"
	ErrUnauthorized      = "UNAUTHORIZED"
)
