package memory

import (
	"context"
	"sync"

	"cybersense-learning-service/internal/domain"
)

// ForumStore is an in-memory implementation of app.ForumRepository.
type ForumStore struct {
	mu       sync.RWMutex
	posts    map[string]domain.Post
	comments map[string][]domain.Comment // postID -> comments
}

func NewForumStore() *ForumStore {
	return &ForumStore{
		posts:    make(map[string]domain.Post),
		comments: make(map[string][]domain.Comment),
	}
}

func (s *ForumStore) CreatePost(_ context.Context, p domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = p
	return nil
}

func (s *ForumStore) GetPost(_ context.Context, postID string) (domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postID]
	if !ok {
		return domain.Post{}, domain.ErrPostNotFound
	}
	return p, nil
}

func (s *ForumStore) UpdatePost(_ context.Context, p domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	s.posts[p.ID] = p
	return nil
}

func (s *ForumStore) DeletePost(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		return domain.ErrPostNotFound
	}
	delete(s.posts, postID)
	delete(s.comments, postID)
	return nil
}

func (s *ForumStore) ListPosts(_ context.Context) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out, nil
}

func (s *ForumStore) AddComment(_ context.Context, c domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.PostID] = append(s.comments[c.PostID], c)
	return nil
}

func (s *ForumStore) ListComments(_ context.Context, postID string) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Comment, len(s.comments[postID]))
	copy(out, s.comments[postID])
	return out, nil
}
