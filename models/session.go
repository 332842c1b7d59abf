package models

import (
	"time"

	"github.com/google/uuid"

	"oncodash/domain/access"
)

// Session is the dashboard-side view of an authenticated user. It holds the
// bearer token issued by the backend, the role baked into that token, and
// the user's email. Created on login/signup, destroyed on logout; persisted
// only for the duration of the browser session.
type Session struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Email     string      `json:"email" db:"email"`
	Role      access.Role `json:"role" db:"role"`
	Token     string      `json:"token" db:"token"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// NewSession builds a session from a fresh auth result.
func NewSession(email string, role access.Role, token string) *Session {
	return &Session{
		ID:        uuid.New(),
		Email:     email,
		Role:      role,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
}

// LoggedIn reports whether the session carries a token. Absence of the token
// is the sole logged-out signal.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}
