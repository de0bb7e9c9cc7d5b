package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cybersense-learning-service/internal/domain"
)

// ContentStore persists the module/quiz/question tree as JSONB document
// rows. Questions carry a position column so insertion order survives;
// it doubles as the QuestionSource behind the caches.
type ContentStore struct {
	pool *pgxpool.Pool
}

func NewContentStore(pool *pgxpool.Pool) *ContentStore {
	return &ContentStore{pool: pool}
}

func (s *ContentStore) CreateModule(ctx context.Context, m domain.Module) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO modules (id, data) VALUES ($1, $2)`, m.ID, data); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

func (s *ContentStore) GetModule(ctx context.Context, id string) (domain.Module, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM modules WHERE id=$1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Module{}, domain.ErrModuleNotFound
		}
		return domain.Module{}, fmt.Errorf("load module: %w", err)
	}
	var m domain.Module
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.Module{}, fmt.Errorf("unmarshal module: %w", err)
	}
	return m, nil
}

func (s *ContentStore) ListModules(ctx context.Context) ([]domain.Module, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM modules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var m domain.Module
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (s *ContentStore) UpdateModule(ctx context.Context, m domain.Module) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE modules SET data=$2 WHERE id=$1`, m.ID, data)
	if err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrModuleNotFound
	}
	return nil
}

func (s *ContentStore) DeleteModule(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM modules WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrModuleNotFound
	}
	return nil
}

func (s *ContentStore) CreateQuiz(ctx context.Context, q domain.Quiz) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO quizzes (module_id, id, data) VALUES ($1, $2, $3)`, q.ModuleID, q.ID, data); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

func (s *ContentStore) GetQuiz(ctx context.Context, moduleID, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE module_id=$1 AND id=$2`, moduleID, quizID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return unmarshalQuiz(raw)
}

func (s *ContentStore) ListQuizzes(ctx context.Context, moduleID string) ([]domain.Quiz, error) {
	return s.queryQuizzes(ctx, `SELECT data FROM quizzes WHERE module_id=$1 ORDER BY id`, moduleID)
}

func (s *ContentStore) ListQuizzesByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Quiz, error) {
	return s.queryQuizzes(ctx, `SELECT data FROM quizzes WHERE data->>'difficulty'=$1 ORDER BY module_id, id`, string(d))
}

func (s *ContentStore) UpdateQuiz(ctx context.Context, q domain.Quiz) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE quizzes SET data=$3 WHERE module_id=$1 AND id=$2`, q.ModuleID, q.ID, data)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *ContentStore) DeleteQuiz(ctx context.Context, moduleID, quizID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE module_id=$1 AND id=$2`, moduleID, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *ContentStore) CreateQuestion(ctx context.Context, moduleID, quizID string, q domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO questions (module_id, quiz_id, id, position, data)
		SELECT $1, $2, $3, COALESCE(MAX(position)+1, 0), $4
		FROM questions WHERE module_id=$1 AND quiz_id=$2`,
		moduleID, quizID, q.ID, data)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (s *ContentStore) GetQuestion(ctx context.Context, moduleID, quizID, questionID string) (domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM questions WHERE module_id=$1 AND quiz_id=$2 AND id=$3`,
		moduleID, quizID, questionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, domain.ErrQuestionNotFound
		}
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question: %w", err)
	}
	return q, nil
}

func (s *ContentStore) ListQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error) {
	return s.queryQuestions(ctx, `SELECT data FROM questions WHERE module_id=$1 AND quiz_id=$2 ORDER BY position`, moduleID, quizID)
}

func (s *ContentStore) UpdateQuestion(ctx context.Context, moduleID, quizID string, q domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE questions SET data=$4 WHERE module_id=$1 AND quiz_id=$2 AND id=$3`,
		moduleID, quizID, q.ID, data)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *ContentStore) DeleteQuestion(ctx context.Context, moduleID, quizID, questionID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE module_id=$1 AND quiz_id=$2 AND id=$3`,
		moduleID, quizID, questionID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// QuizQuestions satisfies the question-source role directly from the
// questions table, in stored order.
func (s *ContentStore) QuizQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error) {
	return s.ListQuestions(ctx, moduleID, quizID)
}

// PoolQuestions gathers every question of every quiz at the given
// difficulty, across modules.
func (s *ContentStore) PoolQuestions(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT q.data FROM questions q
		JOIN quizzes z ON q.module_id = z.module_id AND q.quiz_id = z.id
		WHERE z.data->>'difficulty' = $1
		ORDER BY q.module_id, q.quiz_id, q.position`, string(difficulty))
}

func (s *ContentStore) queryQuizzes(ctx context.Context, sql string, args ...interface{}) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		q, err := unmarshalQuiz(raw)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *ContentStore) queryQuestions(ctx context.Context, sql string, args ...interface{}) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func unmarshalQuiz(raw []byte) (domain.Quiz, error) {
	var q domain.Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return q, nil
}
