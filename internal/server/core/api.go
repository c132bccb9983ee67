package core

import "time"

// Request types

// PositionRequest carries a board snapshot and the side to move
type PositionRequest struct {
	Board []string `json:"board" validate:"required,len=8,dive,len=8"`
	Turn  string   `json:"turn" validate:"required,oneof=b w"`
}

type ApplyMoveRequest struct {
	Board []string `json:"board" validate:"required,len=8,dive,len=8"`
	Turn  string   `json:"turn" validate:"required,oneof=b w"`
	Move  string   `json:"move" validate:"required,min=3,max=40"` // PDN: "9-13" or "9x18x27"
}

type SearchRequest struct {
	Board []string `json:"board" validate:"required,len=8,dive,len=8"`
	Turn  string   `json:"turn" validate:"required,oneof=b w"`
	Depth int      `json:"depth" validate:"required,min=1,max=12"`
}

type BoardRequest struct {
	Board []string `json:"board" validate:"required,len=8,dive,len=8"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=40"`
	Password   string `json:"password" validate:"required,max=128"`
}

// Response types

type MoveInfo struct {
	Notation string   `json:"notation"`
	Path     [][2]int `json:"path"` // [row, col] pairs
	Jump     bool     `json:"jump"`
}

type LegalMovesResponse struct {
	Turn          string     `json:"turn"`
	Moves         []MoveInfo `json:"moves"`
	ForcedCapture bool       `json:"forcedCapture"`
}

type ApplyMoveResponse struct {
	Board    []string `json:"board"`
	Layout   string   `json:"layout"`
	Move     MoveInfo `json:"move"`
	NextTurn string   `json:"nextTurn"`
	State    string   `json:"state"`
}

type EvaluateResponse struct {
	Turn  string `json:"turn"`
	Score int    `json:"score"`
}

type SearchResponse struct {
	Move   *MoveInfo `json:"move,omitempty"` // nil when the side to move has no legal move
	Score  int       `json:"score"`
	Nodes  int64     `json:"nodes"`
	Depth  int       `json:"depth"`
	Cached bool      `json:"cached"`
	State  string    `json:"state"`
}

type AnalysisResponse struct {
	AnalysisID string          `json:"analysisId"`
	State      string          `json:"state"`
	Turn       string          `json:"turn"`
	Depth      int             `json:"depth"`
	Result     *SearchResponse `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type PurgeCacheResponse struct {
	Deleted int64 `json:"deleted"`
}
