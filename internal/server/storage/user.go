package storage

import (
	"database/sql"
	"fmt"
	"time"
)

const userColumns = `user_id, username, password_hash, created_at, last_login_at`

// CreateUser inserts an operator, checking username uniqueness inside the transaction
func (s *Store) CreateUser(record UserRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := s.userExists(tx, record.Username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("username already exists")
	}

	query := `INSERT INTO users (user_id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.Exec(query, record.UserID, record.Username, record.PasswordHash, record.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) userExists(tx *sql.Tx, username string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE`
	if err := tx.QueryRow(query, username).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUserByUsername removes an operator together with their session
func (s *Store) DeleteUserByUsername(username string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sessionQuery := `DELETE FROM sessions WHERE user_id IN (SELECT user_id FROM users WHERE username = ? COLLATE NOCASE)`
	if _, err := tx.Exec(sessionQuery, username); err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM users WHERE username = ? COLLATE NOCASE`, username)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// UpdateUserPassword updates user password hash
func (s *Store) UpdateUserPassword(userID string, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE user_id = ?`
	_, err := s.db.Exec(query, passwordHash, userID)
	return err
}

// UpdateUserLastLoginSync updates user last login time
func (s *Store) UpdateUserLastLoginSync(userID string, loginTime time.Time) error {
	query := `UPDATE users SET last_login_at = ? WHERE user_id = ?`
	if _, err := s.db.Exec(query, loginTime, userID); err != nil {
		return fmt.Errorf("failed to update last login for user %s: %w", userID, err)
	}
	return nil
}

// GetAllUsers retrieves all operators, newest first
func (s *Store) GetAllUsers() ([]UserRecord, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// GetUserByUsername retrieves user by username with case-insensitive matching
func (s *Store) GetUserByUsername(username string) (*UserRecord, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE`, username)
	return scanUser(row)
}

// GetUserByID retrieves user by unique user ID
func (s *Store) GetUserByID(userID string) (*UserRecord, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID)
	return scanUser(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*UserRecord, error) {
	var user UserRecord
	err := row.Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
