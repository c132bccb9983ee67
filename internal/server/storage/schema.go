package storage

import "time"

// UserRecord is an operator account
type UserRecord struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
}

// SessionRecord represents an operator's active login
type SessionRecord struct {
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// AnalysisRecord is one cached search result, keyed by position and depth
type AnalysisRecord struct {
	Layout    string    `db:"layout"`
	Turn      string    `db:"turn"`
	Depth     int       `db:"depth"`
	Move      string    `db:"move"` // PDN, empty when the side to move had no legal move
	Score     int       `db:"score"`
	Nodes     int64     `db:"nodes"`
	CreatedAt time.Time `db:"created_at"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_login_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);

CREATE TABLE IF NOT EXISTS analyses (
	layout TEXT NOT NULL,
	turn TEXT NOT NULL CHECK(turn IN ('b', 'w')),
	depth INTEGER NOT NULL CHECK(depth > 0),
	move TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL,
	nodes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (layout, turn, depth)
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`
