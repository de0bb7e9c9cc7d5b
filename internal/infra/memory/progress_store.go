package memory

import (
	"context"
	"sync"

	"cybersense-learning-service/internal/domain"
)

// ProgressStore keeps one progress document per (user, module),
// overwritten wholesale on each upsert.
type ProgressStore struct {
	mu      sync.RWMutex
	records map[string]map[string]domain.Progress // userID -> moduleID -> progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{records: make(map[string]map[string]domain.Progress)}
}

func (s *ProgressStore) Upsert(_ context.Context, userID string, p domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[userID] == nil {
		s.records[userID] = make(map[string]domain.Progress)
	}
	s.records[userID][p.ModuleID] = p
	return nil
}

func (s *ProgressStore) List(_ context.Context, userID string) ([]domain.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Progress, 0, len(s.records[userID]))
	for _, p := range s.records[userID] {
		out = append(out, p)
	}
	return out, nil
}
