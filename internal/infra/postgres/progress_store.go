package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"cybersense-learning-service/internal/domain"
)

// ProgressStore persists one progress document per (user, module),
// overwritten wholesale on each completion.
type ProgressStore struct {
	pool *pgxpool.Pool
}

func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool}
}

func (s *ProgressStore) Upsert(ctx context.Context, userID string, p domain.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO progress (user_id, module_id, data) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, module_id) DO UPDATE SET data = EXCLUDED.data`,
		userID, p.ModuleID, data)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) List(ctx context.Context, userID string) ([]domain.Progress, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM progress WHERE user_id=$1 ORDER BY module_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []domain.Progress
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p domain.Progress
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
