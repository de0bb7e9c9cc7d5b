package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/domain"
)

// QuestionCache caches resolved question sets in Redis as JSON blobs and
// falls back to a loader on cache miss. Keys:
//
//	questions:quiz:{moduleID}:{quizID}
//	questions:pool:{difficulty}
//
// TTL is jittered by up to 10% so a fleet of instances does not refill
// the same keys in lockstep.
type QuestionCache struct {
	client *redis.Client
	loader app.QuestionSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader app.QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) QuizQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error) {
	key := "questions:quiz:" + moduleID + ":" + quizID
	return c.get(ctx, key, func() ([]domain.Question, error) {
		return c.loader.QuizQuestions(ctx, moduleID, quizID)
	})
}

func (c *QuestionCache) PoolQuestions(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := "questions:pool:" + string(difficulty)
	return c.get(ctx, key, func() ([]domain.Question, error) {
		return c.loader.PoolQuestions(ctx, difficulty)
	})
}

func (c *QuestionCache) get(ctx context.Context, key string, load func() ([]domain.Question, error)) ([]domain.Question, error) {
	if questions, ok := c.lookup(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if questions, ok := c.lookup(ctx, key); ok {
			return questions, nil
		}

		questions, err := load()
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, payload, c.ttlWithJitter()).Err()

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) lookup(ctx context.Context, key string) ([]domain.Question, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(payload, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

// Invalidate drops the cached question set for a quiz, used after
// content edits.
func (c *QuestionCache) Invalidate(ctx context.Context, moduleID, quizID string) {
	_ = c.client.Del(ctx, "questions:quiz:"+moduleID+":"+quizID).Err()
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
