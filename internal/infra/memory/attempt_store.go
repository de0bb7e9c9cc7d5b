package memory

import (
	"sync"

	"cybersense-learning-service/internal/app"
)

// AttemptStore is an in-memory implementation of app.AttemptStore: one
// active attempt per user.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*app.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]*app.Attempt)}
}

func (s *AttemptStore) Put(userID string, a *app.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[userID] = a
}

func (s *AttemptStore) Get(userID string) (*app.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[userID]
	return a, ok
}

func (s *AttemptStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, userID)
}
