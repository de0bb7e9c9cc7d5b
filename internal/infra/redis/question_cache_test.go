package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"cybersense-learning-service/internal/domain"
)

type countingSource struct {
	quizCalls int
	poolCalls int
}

func (c *countingSource) QuizQuestions(_ context.Context, moduleID, quizID string) ([]domain.Question, error) {
	c.quizCalls++
	return []domain.Question{
		{ID: "q1", Text: "one", Options: []string{"a", "b", "c", "d"}, CorrectOption: "a"},
	}, nil
}

func (c *countingSource) PoolQuestions(_ context.Context, d domain.Difficulty) ([]domain.Question, error) {
	c.poolCalls++
	return []domain.Question{
		{ID: "q2", Text: "two", Options: []string{"a", "b", "c", "d"}, CorrectOption: "b"},
	}, nil
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{}
	cache := NewQuestionCache(newClient(mr), source, time.Minute)
	ctx := context.Background()

	first, err := cache.QuizQuestions(ctx, "m1", "z1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(first) != 1 || first[0].CorrectOption != "a" {
		t.Fatalf("unexpected questions %+v", first)
	}

	// Second call hits the cached JSON blob.
	second, err := cache.QuizQuestions(ctx, "m1", "z1")
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if source.quizCalls != 1 {
		t.Fatalf("expected one loader call, got %d", source.quizCalls)
	}
	if len(second) != 1 || second[0].ID != "q1" {
		t.Fatalf("cache returned different data %+v", second)
	}

	if !mr.Exists("questions:quiz:m1:z1") {
		t.Fatal("expected cache key in redis")
	}
}

func TestQuestionCacheExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{}
	cache := NewQuestionCache(newClient(mr), source, time.Minute)
	ctx := context.Background()

	if _, err := cache.PoolQuestions(ctx, domain.DifficultyPro); err != nil {
		t.Fatalf("load: %v", err)
	}
	// Jitter tops out at 10% of the TTL, so two minutes is past expiry.
	mr.FastForward(2 * time.Minute)
	if _, err := cache.PoolQuestions(ctx, domain.DifficultyPro); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if source.poolCalls != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", source.poolCalls)
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{}
	cache := NewQuestionCache(newClient(mr), source, time.Minute)
	ctx := context.Background()

	if _, err := cache.QuizQuestions(ctx, "m1", "z1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	cache.Invalidate(ctx, "m1", "z1")
	if _, err := cache.QuizQuestions(ctx, "m1", "z1"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if source.quizCalls != 2 {
		t.Fatalf("expected reload after invalidation, got %d calls", source.quizCalls)
	}
}
