// FILE: checkers/internal/server/service/user.go
package service

import (
	"fmt"
	"strings"
	"time"

	"checkers/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
)

// User is an operator account allowed to use administrative endpoints
type User struct {
	UserID      string
	Username    string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

func userFromRecord(r *storage.UserRecord) *User {
	return &User{
		UserID:      r.UserID,
		Username:    r.Username,
		CreatedAt:   r.CreatedAt,
		LastLoginAt: r.LastLoginAt,
	}
}

// CreateUser hashes the password and stores a new operator
func (s *Service) CreateUser(username, password string) (*User, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage disabled")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     strings.ToLower(username),
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}

	if err := s.store.CreateUser(record); err != nil {
		return nil, err
	}

	return userFromRecord(&record), nil
}

// AuthenticateUser verifies operator credentials
func (s *Service) AuthenticateUser(username, password string) (*User, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage disabled")
	}

	record, err := s.store.GetUserByUsername(username)
	if err != nil {
		// Hash anyway so unknown users take as long as wrong passwords
		auth.HashPassword(password)
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return userFromRecord(record), nil
}

// UpdateLastLogin updates the last login timestamp for a user
func (s *Service) UpdateLastLogin(userID string) error {
	if s.store == nil {
		return fmt.Errorf("storage disabled")
	}
	return s.store.UpdateUserLastLoginSync(userID, s.now())
}

// GetUserByID retrieves user information by user ID
func (s *Service) GetUserByID(userID string) (*User, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage disabled")
	}

	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return userFromRecord(record), nil
}

// GenerateUserToken opens a new session for the user and signs a JWT bound to it.
// Any previous session of the user stops validating.
func (s *Service) GenerateUserToken(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	now := s.now()
	session := storage.SessionRecord{
		SessionID: uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.store.CreateSession(session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	claims := map[string]any{
		"username": user.Username,
		"sid":      session.SessionID,
	}

	return auth.GenerateHS256Token(s.jwtSecret, userID, claims, SessionTTL)
}

// ValidateToken verifies the JWT signature and that its session is still active
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	userID, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return "", nil, err
	}
	if s.store == nil {
		return "", nil, fmt.Errorf("storage disabled")
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", nil, fmt.Errorf("token has no session")
	}
	valid, err := s.store.IsSessionValid(sid)
	if err != nil {
		return "", nil, fmt.Errorf("session lookup failed: %w", err)
	}
	if !valid {
		return "", nil, fmt.Errorf("session expired or revoked")
	}

	return userID, claims, nil
}

// Logout ends the user's session
func (s *Service) Logout(userID string) error {
	if s.store == nil {
		return fmt.Errorf("storage disabled")
	}
	return s.store.DeleteSessionByUserID(userID)
}
