package ports

import (
	"context"

	"github.com/google/uuid"

	"oncodash/models"
)

// SessionStore persists dashboard sessions. The core logic only ever talks
// to this port, so it is testable without a real storage backend. Absence of
// a stored token is the sole "logged out" signal.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Put(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
