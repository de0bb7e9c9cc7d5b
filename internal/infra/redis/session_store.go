package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cybersense-learning-service/internal/domain"
)

const sessionKey = "session:device"

// SessionStore persists the device session slot in Redis so it survives
// process restarts. A single key holds the JSON snapshot; Clear deletes
// it.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey, payload, s.ttl).Err()
}

func (s *SessionStore) Load(ctx context.Context) (domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey).Bytes()
	if err == redis.Nil {
		return domain.Session{}, domain.ErrNoSession
	}
	if err != nil {
		return domain.Session{}, err
	}
	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, err
	}
	if !session.LoggedIn {
		return domain.Session{}, domain.ErrNoSession
	}
	return session, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, sessionKey).Err()
}
