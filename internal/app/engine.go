package app

import (
	"math"
	"sync"
	"time"

	"cybersense-learning-service/internal/domain"
)

// Phase is the lifecycle state of a quiz attempt.
type Phase string

const (
	PhaseLoading    Phase = "Loading"
	PhaseInProgress Phase = "InProgress"
	PhaseFinished   Phase = "Finished"
	PhaseEmpty      Phase = "Empty"
)

// Attempt is one user's pass through a question set: sequential
// navigation, one recorded answer per question, a single scoring step at
// the end. Methods are safe for concurrent use; the UI event loop they
// model serializes them anyway.
type Attempt struct {
	mu           sync.Mutex
	userID       string
	scope        domain.QuizScope
	passingScore int
	questions    []domain.Question
	index        int
	answers      map[string]string
	phase        Phase
	result       *domain.QuizResult
	now          func() time.Time
}

func newAttempt(userID string, scope domain.QuizScope, passingScore int, questions []domain.Question) *Attempt {
	return newAttemptWithClock(userID, scope, passingScore, questions, time.Now)
}

// newAttemptWithClock allows deterministic timestamps in tests.
func newAttemptWithClock(userID string, scope domain.QuizScope, passingScore int, questions []domain.Question, now func() time.Time) *Attempt {
	a := &Attempt{
		userID:       userID,
		scope:        scope,
		passingScore: passingScore,
		questions:    questions,
		answers:      make(map[string]string),
		phase:        PhaseInProgress,
		now:          now,
	}
	if len(questions) == 0 {
		a.phase = PhaseEmpty
	}
	return a
}

// QuestionView is what the attempt exposes for rendering: the current
// question without its answer key, plus any previously selected option.
type QuestionView struct {
	Index    int             `json:"index"`
	Total    int             `json:"total"`
	Question domain.Question `json:"question"`
	Selected string          `json:"selected,omitempty"`
}

// Phase returns the attempt's lifecycle state.
func (a *Attempt) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Scope returns the scope the attempt was started with.
func (a *Attempt) Scope() domain.QuizScope { return a.scope }

// Current returns the question at the cursor. Re-visiting a question
// reflects the previously selected option.
func (a *Attempt) Current() (QuestionView, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseInProgress {
		return QuestionView{}, false
	}
	q := a.questions[a.index]
	q.CorrectOption = "" // answer keys never leave the engine
	return QuestionView{
		Index:    a.index,
		Total:    len(a.questions),
		Question: q,
		Selected: a.answers[a.questions[a.index].ID],
	}, true
}

// SelectAnswer records the option for a question, overwriting any prior
// selection. The question must belong to the attempt and the option must
// be one of its declared options. Does not advance the cursor.
func (a *Attempt) SelectAnswer(questionID, option string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseInProgress {
		return domain.ErrAttemptFinished
	}
	var question *domain.Question
	for i := range a.questions {
		if a.questions[i].ID == questionID {
			question = &a.questions[i]
			break
		}
	}
	if question == nil {
		return domain.ErrQuestionNotFound
	}
	if !question.HasOption(option) {
		return domain.ErrOptionNotFound
	}
	a.answers[questionID] = option
	return nil
}

// Advance moves the cursor forward. At the last question it computes the
// result exactly once and transitions to Finished; afterwards it is a
// no-op returning the same result.
func (a *Attempt) Advance() (*domain.QuizResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.phase {
	case PhaseFinished:
		return a.result, false
	case PhaseInProgress:
	default:
		return nil, false
	}
	if a.index < len(a.questions)-1 {
		a.index++
		return nil, false
	}
	a.result = a.finishLocked()
	a.phase = PhaseFinished
	return a.result, true
}

// Retreat moves the cursor back; a no-op at the first question or once
// finished. Recorded answers survive navigation in both directions.
func (a *Attempt) Retreat() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase == PhaseInProgress && a.index > 0 {
		a.index--
	}
}

// Result returns the computed outcome once the attempt is finished.
func (a *Attempt) Result() (*domain.QuizResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.result == nil {
		return nil, false
	}
	return a.result, true
}

func (a *Attempt) finishLocked() *domain.QuizResult {
	matches := 0
	for _, q := range a.questions {
		if a.answers[q.ID] == q.CorrectOption {
			matches++
		}
	}
	// The Empty phase guards division by zero: finish is unreachable
	// with no questions.
	score := int(math.Round(100 * float64(matches) / float64(len(a.questions))))
	return &domain.QuizResult{
		Score:  score,
		Badge:  domain.BadgeForScore(score),
		Passed: score >= a.passingScore,
	}
}

func (a *Attempt) markPersisted() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.result != nil {
		a.result.Persisted = true
	}
}
