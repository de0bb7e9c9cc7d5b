package memory

import (
	"context"
	"sync"

	"cybersense-learning-service/internal/domain"
)

// SessionStore keeps the single device session slot in process memory.
type SessionStore struct {
	mu      sync.RWMutex
	session domain.Session
	set     bool
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.set = true
	return nil
}

func (s *SessionStore) Load(_ context.Context) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || !s.session.LoggedIn {
		return domain.Session{}, domain.ErrNoSession
	}
	return s.session, nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
	s.set = false
	return nil
}
