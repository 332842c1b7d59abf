package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "oncodash/internal/errors"
	"oncodash/models"
	"oncodash/ports"
)

// SessionStore implements ports.SessionStore on PostgreSQL for deployments
// where several dashboard replicas share one session table.
type SessionStore struct {
	db *sqlx.DB
}

// NewSessionStore creates a PostgreSQL session store.
func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

// EnsureSchema creates the session table when it does not exist.
func (s *SessionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_sessions (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			token TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return apperrors.SessionError("failed to ensure session schema", err)
	}
	return nil
}

// Get returns the session for id, or nil when none exists.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session, `
		SELECT id, email, role, token, created_at
		FROM dashboard_sessions
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.SessionError("failed to load session", err)
	}
	return &session, nil
}

// Put upserts the session.
func (s *SessionStore) Put(ctx context.Context, session *models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dashboard_sessions (id, email, role, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET email = $2, role = $3, token = $4
	`, session.ID, session.Email, session.Role, session.Token, session.CreatedAt)
	if err != nil {
		return apperrors.SessionError("failed to store session", err)
	}
	return nil
}

// Delete removes the session; deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id)
	if err != nil {
		return apperrors.SessionError("failed to delete session", err)
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
