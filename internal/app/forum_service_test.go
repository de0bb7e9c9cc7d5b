package app

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"cybersense-learning-service/internal/domain"
)

type fakeForum struct {
	posts    map[string]domain.Post
	comments map[string][]domain.Comment
}

func newFakeForum() *fakeForum {
	return &fakeForum{posts: make(map[string]domain.Post), comments: make(map[string][]domain.Comment)}
}

func (f *fakeForum) CreatePost(_ context.Context, p domain.Post) error {
	f.posts[p.ID] = p
	return nil
}

func (f *fakeForum) GetPost(_ context.Context, postID string) (domain.Post, error) {
	p, ok := f.posts[postID]
	if !ok {
		return domain.Post{}, domain.ErrPostNotFound
	}
	return p, nil
}

func (f *fakeForum) UpdatePost(_ context.Context, p domain.Post) error {
	if _, ok := f.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	f.posts[p.ID] = p
	return nil
}

func (f *fakeForum) DeletePost(_ context.Context, postID string) error {
	if _, ok := f.posts[postID]; !ok {
		return domain.ErrPostNotFound
	}
	delete(f.posts, postID)
	return nil
}

func (f *fakeForum) ListPosts(_ context.Context) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeForum) AddComment(_ context.Context, c domain.Comment) error {
	f.comments[c.PostID] = append(f.comments[c.PostID], c)
	return nil
}

func (f *fakeForum) ListComments(_ context.Context, postID string) ([]domain.Comment, error) {
	src := f.comments[postID]
	out := make([]domain.Comment, len(src))
	copy(out, src)
	return out, nil
}

func newForumFixture(t *testing.T) *ForumService {
	t.Helper()
	users := newFakeUsers()
	for _, u := range []domain.User{
		{ID: "author", FullName: "Post Author", Role: domain.RoleUser},
		{ID: "other", FullName: "Someone Else", Role: domain.RoleUser},
	} {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewForumService(newFakeForum(), users)
}

func TestPostLifecycleOwnershipOnly(t *testing.T) {
	svc := newForumFixture(t)
	ctx := context.Background()
	author := domain.Access{UserID: "author", Role: domain.RoleUser}

	post, err := svc.CreatePost(ctx, author, "Welcome", "First post")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	superAdmin := domain.Access{UserID: "sa", Role: domain.RoleSuperAdmin}
	if _, err := svc.UpdatePost(ctx, superAdmin, post.ID, "Hijacked", "..."); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("no role override on edit, got %v", err)
	}
	if err := svc.DeletePost(ctx, superAdmin, post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("no role override on delete, got %v", err)
	}

	updated, err := svc.UpdatePost(ctx, author, post.ID, "Welcome!", "Edited")
	if err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	if updated.Title != "Welcome!" || updated.Content != "Edited" {
		t.Fatalf("unexpected post %+v", updated)
	}
	if err := svc.DeletePost(ctx, author, post.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestListPostsNewestFirstWithAuthors(t *testing.T) {
	svc := newForumFixture(t)
	ctx := context.Background()
	author := domain.Access{UserID: "author", Role: domain.RoleUser}

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	first, _ := svc.CreatePost(ctx, author, "first", "body")
	second, _ := svc.CreatePost(ctx, author, "second", "body")

	posts, err := svc.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Fatal("posts must come back newest first")
	}
	if posts[0].AuthorName != "Post Author" || posts[0].AuthorRole != domain.RoleUser {
		t.Fatalf("author not joined: %+v", posts[0])
	}
	if !sort.SliceIsSorted(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) }) {
		t.Fatal("ordering broken")
	}
}

func TestCommentsOldestFirstAndOpenToAll(t *testing.T) {
	svc := newForumFixture(t)
	ctx := context.Background()
	author := domain.Access{UserID: "author", Role: domain.RoleUser}
	other := domain.Access{UserID: "other", Role: domain.RoleUser}

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	post, _ := svc.CreatePost(ctx, author, "topic", "body")
	if _, err := svc.AddComment(ctx, other, post.ID, "me first"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := svc.AddComment(ctx, author, post.ID, "thanks"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	comments, err := svc.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "me first" {
		t.Fatalf("comments must come back oldest first, got %+v", comments)
	}
	if comments[0].AuthorName != "Someone Else" {
		t.Fatalf("author not joined: %+v", comments[0])
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	svc := newForumFixture(t)
	_, err := svc.AddComment(context.Background(), domain.Access{UserID: "other"}, "nope", "hi")
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestMissingAuthorLeavesBlanks(t *testing.T) {
	users := newFakeUsers()
	svc := NewForumService(newFakeForum(), users)
	ctx := context.Background()

	ghost := domain.Access{UserID: "deleted-user", Role: domain.RoleUser}
	if _, err := svc.CreatePost(ctx, ghost, "orphan", "body"); err != nil {
		t.Fatalf("create: %v", err)
	}
	posts, err := svc.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if posts[0].AuthorName != "" || posts[0].AuthorRole != "" {
		t.Fatalf("missing author should leave blanks, got %+v", posts[0])
	}
}
