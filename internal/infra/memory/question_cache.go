package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/domain"
)

// QuestionCache caches resolved question sets with TTL to avoid
// repeated store traversal, in particular for difficulty pools which fan
// out across every module.
type QuestionCache struct {
	loader app.QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader app.QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (c *QuestionCache) QuizQuestions(ctx context.Context, moduleID, quizID string) ([]domain.Question, error) {
	key := "quiz:" + moduleID + ":" + quizID
	return c.get(ctx, key, func() ([]domain.Question, error) {
		return c.loader.QuizQuestions(ctx, moduleID, quizID)
	})
}

func (c *QuestionCache) PoolQuestions(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := "pool:" + string(difficulty)
	return c.get(ctx, key, func() ([]domain.Question, error) {
		return c.loader.PoolQuestions(ctx, difficulty)
	})
}

func (c *QuestionCache) get(_ context.Context, key string, load func() ([]domain.Question, error)) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedQuestions{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops a quiz's cached question set after a content edit.
// Pool entries are left to expire on TTL.
func (c *QuestionCache) Invalidate(_ context.Context, moduleID, quizID string) {
	c.mu.Lock()
	delete(c.cache, "quiz:"+moduleID+":"+quizID)
	c.mu.Unlock()
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
