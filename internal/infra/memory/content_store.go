package memory

import (
	"context"
	"sync"

	"cybersense-learning-service/internal/domain"
)

// ContentStore is an in-memory implementation of app.ContentRepository
// mirroring the directory layout Modules/{m}/Quizzes/{q}/Questions/{id}.
// It doubles as the uncached app.QuestionSource for dev and tests.
type ContentStore struct {
	mu        sync.RWMutex
	modules   map[string]domain.Module
	quizzes   map[string]map[string]domain.Quiz       // moduleID -> quizID -> quiz
	questions map[string]map[string][]domain.Question // moduleID -> quizID -> ordered questions
}

func NewContentStore() *ContentStore {
	return &ContentStore{
		modules:   make(map[string]domain.Module),
		quizzes:   make(map[string]map[string]domain.Quiz),
		questions: make(map[string]map[string][]domain.Question),
	}
}

func (s *ContentStore) CreateModule(_ context.Context, m domain.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[m.ID] = m
	return nil
}

func (s *ContentStore) GetModule(_ context.Context, id string) (domain.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[id]
	if !ok {
		return domain.Module{}, domain.ErrModuleNotFound
	}
	return m, nil
}

func (s *ContentStore) ListModules(_ context.Context) ([]domain.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Module, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	return out, nil
}

func (s *ContentStore) UpdateModule(_ context.Context, m domain.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[m.ID]; !ok {
		return domain.ErrModuleNotFound
	}
	s.modules[m.ID] = m
	return nil
}

// DeleteModule drops the module along with its nested quizzes and
// questions.
func (s *ContentStore) DeleteModule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[id]; !ok {
		return domain.ErrModuleNotFound
	}
	delete(s.modules, id)
	delete(s.quizzes, id)
	delete(s.questions, id)
	return nil
}

func (s *ContentStore) CreateQuiz(_ context.Context, q domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[q.ModuleID]; !ok {
		return domain.ErrModuleNotFound
	}
	if s.quizzes[q.ModuleID] == nil {
		s.quizzes[q.ModuleID] = make(map[string]domain.Quiz)
	}
	s.quizzes[q.ModuleID][q.ID] = q
	return nil
}

func (s *ContentStore) GetQuiz(_ context.Context, moduleID, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[moduleID][quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return q, nil
}

func (s *ContentStore) ListQuizzes(_ context.Context, moduleID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.modules[moduleID]; !ok {
		return nil, domain.ErrModuleNotFound
	}
	out := make([]domain.Quiz, 0, len(s.quizzes[moduleID]))
	for _, q := range s.quizzes[moduleID] {
		out = append(out, q)
	}
	return out, nil
}

func (s *ContentStore) ListQuizzesByDifficulty(_ context.Context, d domain.Difficulty) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Quiz
	for _, byID := range s.quizzes {
		for _, q := range byID {
			if q.Difficulty == d {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (s *ContentStore) UpdateQuiz(_ context.Context, q domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[q.ModuleID][q.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.quizzes[q.ModuleID][q.ID] = q
	return nil
}

func (s *ContentStore) DeleteQuiz(_ context.Context, moduleID, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[moduleID][quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes[moduleID], quizID)
	if s.questions[moduleID] != nil {
		delete(s.questions[moduleID], quizID)
	}
	return nil
}

func (s *ContentStore) CreateQuestion(_ context.Context, moduleID, quizID string, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[moduleID][quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	if s.questions[moduleID] == nil {
		s.questions[moduleID] = make(map[string][]domain.Question)
	}
	s.questions[moduleID][quizID] = append(s.questions[moduleID][quizID], q)
	return nil
}

func (s *ContentStore) GetQuestion(_ context.Context, moduleID, quizID, questionID string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions[moduleID][quizID] {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *ContentStore) ListQuestions(_ context.Context, moduleID, quizID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.quizzes[moduleID][quizID]; !ok {
		return nil, domain.ErrQuizNotFound
	}
	out := make([]domain.Question, len(s.questions[moduleID][quizID]))
	copy(out, s.questions[moduleID][quizID])
	return out, nil
}

func (s *ContentStore) UpdateQuestion(_ context.Context, moduleID, quizID string, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.questions[moduleID][quizID]
	for i := range list {
		if list[i].ID == q.ID {
			list[i] = q
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

func (s *ContentStore) DeleteQuestion(_ context.Context, moduleID, quizID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.questions[moduleID][quizID]
	for i := range list {
		if list[i].ID == questionID {
			s.questions[moduleID][quizID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

// QuizQuestions implements app.QuestionSource directly off the store.
func (s *ContentStore) QuizQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error) {
	return s.ListQuestions(ctx, moduleID, quizID)
}

// PoolQuestions gathers every question of every quiz whose own
// difficulty matches, across all modules.
func (s *ContentStore) PoolQuestions(_ context.Context, d domain.Difficulty) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for moduleID, byID := range s.quizzes {
		for quizID, q := range byID {
			if q.Difficulty != d {
				continue
			}
			out = append(out, s.questions[moduleID][quizID]...)
		}
	}
	return out, nil
}
