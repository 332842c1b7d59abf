package localstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"oncodash/internal/errors"
	"oncodash/models"
	"oncodash/ports"
)

// sessionsFile is the fixed key-value file under the state directory.
const sessionsFile = "sessions.json"

// Store is a file-backed session store: the Go-side analog of the browser's
// local key-value storage. Sessions live in memory and are flushed to disk
// on every mutation so they survive a dashboard restart.
type Store struct {
	path string

	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
}

// New creates the store, loading any previously persisted sessions.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.SessionError("failed to create state directory", err)
	}
	s := &Store{
		path:     filepath.Join(dir, sessionsFile),
		sessions: make(map[uuid.UUID]*models.Session),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.SessionError("failed to read session file", err)
	}
	if err := json.Unmarshal(raw, &s.sessions); err != nil {
		// A corrupt session file means logged out, not a crash.
		s.sessions = make(map[uuid.UUID]*models.Session)
	}
	return nil
}

// persist flushes the full map; callers hold the lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return errors.SessionError("failed to encode sessions", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.SessionError("failed to write session file", err)
	}
	return nil
}

// Get returns the session for id, or nil when none exists.
func (s *Store) Get(_ context.Context, id uuid.UUID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id], nil
}

// Put stores the session.
func (s *Store) Put(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return s.persist()
}

// Delete removes the session; deleting an absent session is not an error.
func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return s.persist()
}

var _ ports.SessionStore = (*Store)(nil)
