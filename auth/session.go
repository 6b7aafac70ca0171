package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound covers missing and expired sessions alike.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists login sessions in the "sessions" table. Each session
// is identified by an opaque UUID token carried in the client's cookie.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore constructs a SessionStore backed by the given database.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create opens a new session for the user, valid for ttl.
func (s *SessionStore) Create(ctx context.Context, userID int64, ttl time.Duration) (Session, error) {
	session := Session{
		Token:  uuid.NewString(),
		UserID: userID,
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, expires_at`,
		session.Token, userID, time.Now().Add(ttl))
	if err := row.Scan(&session.CreatedAt, &session.ExpiresAt); err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// GetUser resolves a session token to its user. Expired sessions resolve to
// ErrSessionNotFound, same as unknown tokens.
func (s *SessionStore) GetUser(ctx context.Context, token string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.hashed_password, u.first_name, u.last_name, u.is_active, u.created_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1 AND s.expires_at > now()`,
		token)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrSessionNotFound
		}
		return User{}, fmt.Errorf("query session user: %w", err)
	}
	return u, nil
}

// Delete tears down a session. Deleting an unknown token is not an error, so
// logout stays idempotent.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
