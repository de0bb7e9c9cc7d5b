package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cybersense-learning-service/internal/domain"
)

// QuestionSource resolves the question set for a scope. Implementations
// cache (memory, Redis) in front of the backing content store.
type QuestionSource interface {
	QuizQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error)
	PoolQuestions(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error)
}

// QuizFinder looks up quiz metadata; the quiz's own passing score
// applies for single-quiz attempts.
type QuizFinder interface {
	GetQuiz(ctx context.Context, moduleID, quizID string) (domain.Quiz, error)
}

// AttemptStore tracks the active attempt per user.
type AttemptStore interface {
	Put(userID string, a *Attempt)
	Get(userID string) (*Attempt, bool)
	Delete(userID string)
}

// ProgressRepository persists per-user per-module progress documents.
type ProgressRepository interface {
	Upsert(ctx context.Context, userID string, p domain.Progress) error
	List(ctx context.Context, userID string) ([]domain.Progress, error)
}

const progressWriteRetries = 3

// QuizService drives quiz attempts: loading question sets, navigation,
// scoring and best-effort progress persistence.
type QuizService struct {
	questions    QuestionSource
	quizzes      QuizFinder
	attempts     AttemptStore
	progress     ProgressRepository
	passingScore int
	log          *zap.Logger
	now          func() time.Time
	sleep        func(time.Duration)
}

func NewQuizService(questions QuestionSource, quizzes QuizFinder, attempts AttemptStore, progress ProgressRepository, defaultPassingScore int, log *zap.Logger) *QuizService {
	if defaultPassingScore <= 0 {
		defaultPassingScore = domain.DefaultPassingScore
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		questions:    questions,
		quizzes:      quizzes,
		attempts:     attempts,
		progress:     progress,
		passingScore: defaultPassingScore,
		log:          log,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// Start loads the question set for the scope and opens a new attempt,
// replacing any previous one for the user. A load failure returns an
// error without touching existing state; the caller may retry.
func (s *QuizService) Start(ctx context.Context, userID string, scope domain.QuizScope) (*Attempt, error) {
	var (
		questions    []domain.Question
		passingScore = s.passingScore
		err          error
	)
	if scope.IsPool() {
		questions, err = s.questions.PoolQuestions(ctx, scope.Difficulty)
	} else {
		var quiz domain.Quiz
		quiz, err = s.quizzes.GetQuiz(ctx, scope.ModuleID, scope.QuizID)
		if err != nil {
			return nil, err
		}
		if quiz.PassingScore != nil {
			passingScore = *quiz.PassingScore
		}
		questions, err = s.questions.QuizQuestions(ctx, scope.ModuleID, scope.QuizID)
	}
	if err != nil {
		return nil, err
	}

	attempt := newAttemptWithClock(userID, scope, passingScore, questions, s.now)
	s.attempts.Put(userID, attempt)
	return attempt, nil
}

// Attempt returns the user's active attempt.
func (s *QuizService) Attempt(userID string) (*Attempt, error) {
	attempt, ok := s.attempts.Get(userID)
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

// SelectAnswer records an answer on the user's active attempt.
func (s *QuizService) SelectAnswer(userID, questionID, option string) error {
	attempt, err := s.Attempt(userID)
	if err != nil {
		return err
	}
	return attempt.SelectAnswer(questionID, option)
}

// Advance moves the attempt forward. When it crosses the last question
// the result is computed, and for single-quiz scopes the progress record
// is written; difficulty pools are practice runs and never persist.
// A failed write is retried a few times, then logged and swallowed: the
// user still gets their result.
func (s *QuizService) Advance(ctx context.Context, userID string) (*domain.QuizResult, error) {
	attempt, err := s.Attempt(userID)
	if err != nil {
		return nil, err
	}
	result, finishedNow := attempt.Advance()
	if result == nil || !finishedNow {
		return result, nil
	}
	if attempt.Scope().IsPool() {
		return result, nil
	}
	if s.persistProgress(ctx, userID, attempt.Scope().ModuleID, result) {
		attempt.markPersisted()
		result.Persisted = true
	}
	return result, nil
}

// Retreat moves the attempt's cursor back one question.
func (s *QuizService) Retreat(userID string) error {
	attempt, err := s.Attempt(userID)
	if err != nil {
		return err
	}
	attempt.Retreat()
	return nil
}

// Abandon drops the user's active attempt without scoring it.
func (s *QuizService) Abandon(userID string) {
	s.attempts.Delete(userID)
}

// ListProgress returns the user's progress records for the tracker view.
func (s *QuizService) ListProgress(ctx context.Context, userID string) ([]domain.Progress, error) {
	return s.progress.List(ctx, userID)
}

func (s *QuizService) persistProgress(ctx context.Context, userID, moduleID string, result *domain.QuizResult) bool {
	record := domain.Progress{
		ModuleID:      moduleID,
		Score:         result.Score,
		Badge:         result.Badge,
		LastCompleted: s.now(),
	}
	var err error
	for i := 0; i < progressWriteRetries; i++ {
		if err = s.progress.Upsert(ctx, userID, record); err == nil {
			return true
		}
		s.sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	s.log.Error("progress write failed, result shown without persistence",
		zap.String("user_id", userID),
		zap.String("module_id", moduleID),
		zap.Error(err))
	return false
}
