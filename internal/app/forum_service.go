package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cybersense-learning-service/internal/domain"
)

// ForumRepository is the directory's post/comment tree, nested under the
// authoring user.
type ForumRepository interface {
	CreatePost(ctx context.Context, p domain.Post) error
	GetPost(ctx context.Context, postID string) (domain.Post, error)
	UpdatePost(ctx context.Context, p domain.Post) error
	DeletePost(ctx context.Context, postID string) error
	ListPosts(ctx context.Context) ([]domain.Post, error)

	AddComment(ctx context.Context, c domain.Comment) error
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
}

// ForumService backs the discussion forum: posts and comments with
// ownership-only moderation. Author name and role are joined from the
// user collection at read time.
type ForumService struct {
	forum ForumRepository
	users UserRepository
	now   func() time.Time
}

func NewForumService(forum ForumRepository, users UserRepository) *ForumService {
	return &ForumService{forum: forum, users: users, now: time.Now}
}

// ListPosts returns every post, newest first, with author details joined.
func (s *ForumService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.forum.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		s.joinAuthor(ctx, &posts[i].AuthorName, &posts[i].AuthorRole, posts[i].AuthorID)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

// CreatePost publishes a post owned by the caller.
func (s *ForumService) CreatePost(ctx context.Context, a domain.Access, title, content string) (domain.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return domain.Post{}, domain.NewValidationError("title and content are required")
	}
	post := domain.Post{
		ID:        uuid.NewString(),
		AuthorID:  a.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.forum.CreatePost(ctx, post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// UpdatePost edits a post the caller owns. There is no administrative
// override: admins cannot edit other users' posts.
func (s *ForumService) UpdatePost(ctx context.Context, a domain.Access, postID, title, content string) (domain.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return domain.Post{}, domain.NewValidationError("title and content are required")
	}
	post, err := s.forum.GetPost(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if !a.CanEditPost(post) {
		return domain.Post{}, domain.ErrForbidden
	}
	post.Title = title
	post.Content = content
	if err := s.forum.UpdatePost(ctx, post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// DeletePost removes a post the caller owns.
func (s *ForumService) DeletePost(ctx context.Context, a domain.Access, postID string) error {
	post, err := s.forum.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if !a.CanDeletePost(post) {
		return domain.ErrForbidden
	}
	return s.forum.DeletePost(ctx, postID)
}

// ListComments returns a post's comments oldest first with author
// details joined.
func (s *ForumService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.forum.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.forum.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		s.joinAuthor(ctx, &comments[i].AuthorName, &comments[i].AuthorRole, comments[i].AuthorID)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

// AddComment appends a comment to a post. Any signed-in user may comment
// on any post.
func (s *ForumService) AddComment(ctx context.Context, a domain.Access, postID, text string) (domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Comment{}, domain.NewValidationError("comment text is required")
	}
	if _, err := s.forum.GetPost(ctx, postID); err != nil {
		return domain.Comment{}, err
	}
	comment := domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  a.UserID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.forum.AddComment(ctx, comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

// joinAuthor fills denormalized author fields; a missing author leaves
// them blank rather than failing the read.
func (s *ForumService) joinAuthor(ctx context.Context, name *string, role *domain.Role, authorID string) {
	user, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return
	}
	*name = user.FullName
	*role = user.Role
}
