package app

import (
	"context"

	"github.com/google/uuid"

	"cybersense-learning-service/internal/domain"
)

// ContentRepository is the directory's module/quiz/question tree.
type ContentRepository interface {
	CreateModule(ctx context.Context, m domain.Module) error
	GetModule(ctx context.Context, id string) (domain.Module, error)
	ListModules(ctx context.Context) ([]domain.Module, error)
	UpdateModule(ctx context.Context, m domain.Module) error
	DeleteModule(ctx context.Context, id string) error

	CreateQuiz(ctx context.Context, q domain.Quiz) error
	GetQuiz(ctx context.Context, moduleID, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, moduleID string) ([]domain.Quiz, error)
	ListQuizzesByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, q domain.Quiz) error
	DeleteQuiz(ctx context.Context, moduleID, quizID string) error

	CreateQuestion(ctx context.Context, moduleID, quizID string, q domain.Question) error
	GetQuestion(ctx context.Context, moduleID, quizID, questionID string) (domain.Question, error)
	ListQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, moduleID, quizID string, q domain.Question) error
	DeleteQuestion(ctx context.Context, moduleID, quizID, questionID string) error
}

// QuestionCacheInvalidator drops a quiz's cached question set after a
// content edit so attempts pick up the change before the TTL expires.
// Pool entries age out on TTL alone.
type QuestionCacheInvalidator interface {
	Invalidate(ctx context.Context, moduleID, quizID string)
}

// ContentService is the role-gated management surface over the content
// tree. Reads are open to everyone; mutation and answer-key visibility
// follow the effective role.
type ContentService struct {
	content ContentRepository
	cache   QuestionCacheInvalidator
}

// NewContentService builds the service. cache may be nil when no
// question cache sits in front of the repository.
func NewContentService(content ContentRepository, cache QuestionCacheInvalidator) *ContentService {
	return &ContentService{content: content, cache: cache}
}

func (s *ContentService) invalidate(ctx context.Context, moduleID, quizID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, moduleID, quizID)
	}
}

func (s *ContentService) ListModules(ctx context.Context) ([]domain.Module, error) {
	return s.content.ListModules(ctx)
}

func (s *ContentService) GetModule(ctx context.Context, id string) (domain.Module, error) {
	return s.content.GetModule(ctx, id)
}

// CreateModule uses the module name as its document key, matching the
// directory layout.
func (s *ContentService) CreateModule(ctx context.Context, a domain.Access, m domain.Module) (domain.Module, error) {
	if !a.CanManageContent() {
		return domain.Module{}, domain.ErrForbidden
	}
	if err := domain.ValidateModule(m); err != nil {
		return domain.Module{}, err
	}
	m.ID = m.Name
	if err := s.content.CreateModule(ctx, m); err != nil {
		return domain.Module{}, err
	}
	return m, nil
}

func (s *ContentService) UpdateModule(ctx context.Context, a domain.Access, m domain.Module) error {
	if !a.CanManageContent() {
		return domain.ErrForbidden
	}
	if err := domain.ValidateModule(m); err != nil {
		return err
	}
	return s.content.UpdateModule(ctx, m)
}

// DeleteModule removes a module and its quizzes; each quiz's cached
// question set goes with it.
func (s *ContentService) DeleteModule(ctx context.Context, a domain.Access, id string) error {
	if !a.CanManageContent() {
		return domain.ErrForbidden
	}
	quizzes, err := s.content.ListQuizzes(ctx, id)
	if err != nil {
		return err
	}
	if err := s.content.DeleteModule(ctx, id); err != nil {
		return err
	}
	for _, q := range quizzes {
		s.invalidate(ctx, id, q.ID)
	}
	return nil
}

func (s *ContentService) ListQuizzes(ctx context.Context, moduleID string) ([]domain.Quiz, error) {
	return s.content.ListQuizzes(ctx, moduleID)
}

func (s *ContentService) GetQuiz(ctx context.Context, moduleID, quizID string) (domain.Quiz, error) {
	return s.content.GetQuiz(ctx, moduleID, quizID)
}

func (s *ContentService) CreateQuiz(ctx context.Context, a domain.Access, q domain.Quiz) (domain.Quiz, error) {
	if !a.CanManageContent() {
		return domain.Quiz{}, domain.ErrForbidden
	}
	if err := domain.ValidateQuiz(q); err != nil {
		return domain.Quiz{}, err
	}
	if _, err := s.content.GetModule(ctx, q.ModuleID); err != nil {
		return domain.Quiz{}, err
	}
	q.ID = q.Name
	if err := s.content.CreateQuiz(ctx, q); err != nil {
		return domain.Quiz{}, err
	}
	return q, nil
}

func (s *ContentService) UpdateQuiz(ctx context.Context, a domain.Access, q domain.Quiz) error {
	if !a.CanManageContent() {
		return domain.ErrForbidden
	}
	if err := domain.ValidateQuiz(q); err != nil {
		return err
	}
	return s.content.UpdateQuiz(ctx, q)
}

func (s *ContentService) DeleteQuiz(ctx context.Context, a domain.Access, moduleID, quizID string) error {
	if !a.CanManageContent() {
		return domain.ErrForbidden
	}
	if err := s.content.DeleteQuiz(ctx, moduleID, quizID); err != nil {
		return err
	}
	s.invalidate(ctx, moduleID, quizID)
	return nil
}

// ListQuestions returns a quiz's questions. Answer keys are stripped
// unless the caller can manage content.
func (s *ContentService) ListQuestions(ctx context.Context, a domain.Access, moduleID, quizID string) ([]domain.Question, error) {
	questions, err := s.content.ListQuestions(ctx, moduleID, quizID)
	if err != nil {
		return nil, err
	}
	if !a.CanManageContent() {
		for i := range questions {
			questions[i].CorrectOption = ""
		}
	}
	return questions, nil
}

// CreateQuestion assigns a generated key; question text is not an
// identifier.
func (s *ContentService) CreateQuestion(ctx context.Context, a domain.Access, moduleID, quizID string, q domain.Question) (domain.Question, error) {
	if !a.CanManageContent() {
		return domain.Question{}, domain.ErrForbidden
	}
	if err := domain.ValidateQuestion(q); err != nil {
		return domain.Question{}, err
	}
	if _, err := s.content.GetQuiz(ctx, moduleID, quizID); err != nil {
		return domain.Question{}, err
	}
	q.ID = uuid.NewString()
	if err := s.content.CreateQuestion(ctx, moduleID, quizID, q); err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, moduleID, quizID)
	return q, nil
}

func (s *ContentService) UpdateQuestion(ctx context.Context, a domain.Access, moduleID, quizID string, q domain.Question) error {
	if !a.CanManageContent() {
		return domain.ErrForbidden
	}
	if err := domain.ValidateQuestion(q); err != nil {
		return err
	}
	if err := s.content.UpdateQuestion(ctx, moduleID, quizID, q); err != nil {
		return err
	}
	s.invalidate(ctx, moduleID, quizID)
	return nil
}

func (s *ContentService) DeleteQuestion(ctx context.Context, a domain.Access, moduleID, quizID, questionID string) error {
	if !a.CanManageContent() {
		return domain.ErrForbidden
	}
	if err := s.content.DeleteQuestion(ctx, moduleID, quizID, questionID); err != nil {
		return err
	}
	s.invalidate(ctx, moduleID, quizID)
	return nil
}
