package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/domain"
	"cybersense-learning-service/internal/infra/memory"
)

type apiFixture struct {
	server *httptest.Server
	auth   *app.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := zap.NewNop()

	identity := memory.NewIdentity()
	users := memory.NewUserStore()
	sessions := memory.NewSessionStore()
	content := memory.NewContentStore()
	progress := memory.NewProgressStore()
	forum := memory.NewForumStore()
	attempts := memory.NewAttemptStore()

	authSvc := app.NewAuthService(identity, users, sessions, 6, 5*time.Minute, log)
	quizSvc := app.NewQuizService(content, content, attempts, progress, 0, log)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	router := NewRouter(RouterDeps{
		Issuer:   issuer,
		Auth:     NewAuthHandler(authSvc, issuer, log),
		Content:  NewContentHandler(app.NewContentService(content, nil), log),
		Users:    NewUserHandler(app.NewUserService(users, identity, log), log),
		Forum:    NewForumHandler(app.NewForumService(forum, users), log),
		Progress: NewProgressHandler(quizSvc, log),
		WS:       NewWSHandler(quizSvc, log),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &apiFixture{server: server, auth: authSvc}
}

func (f *apiFixture) register(t *testing.T, name, email string, role domain.Role) domain.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), domain.RegistrationInput{
		FullName:        name,
		DateOfBirth:     "14/05/1998",
		Email:           email,
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
		Role:            role,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return user
}

func (f *apiFixture) login(t *testing.T, email string) string {
	t.Helper()
	resp := f.do(t, "POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": "s3cret-pass",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return out.Token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, "GET", "/modules", "", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterLoginAndSession(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, "POST", "/auth/register", "", map[string]string{
		"fullName":        "Amina Diallo",
		"dateOfBirth":     "14/05/1998",
		"email":           "amina@example.com",
		"password":        "s3cret-pass",
		"confirmPassword": "s3cret-pass",
	}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	token := f.login(t, "amina@example.com")
	resp = f.do(t, "GET", "/auth/session", token, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session status = %d, want 200", resp.StatusCode)
	}
	var session domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Email != "amina@example.com" || session.Role != domain.RoleUser {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, "POST", "/auth/register", "", map[string]string{
		"fullName":        "X",
		"dateOfBirth":     "31/02/2001",
		"email":           "bad",
		"password":        "short",
		"confirmPassword": "different",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var out struct {
		Messages []string `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Messages) < 3 {
		t.Fatalf("expected per-field messages, got %v", out.Messages)
	}
}

func TestContentRoutesFollowRoles(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "Plain User", "user@example.com", domain.RoleUser)
	f.register(t, "Some Admin", "admin@example.com", domain.RoleAdmin)

	userToken := f.login(t, "user@example.com")
	adminToken := f.login(t, "admin@example.com")

	module := map[string]string{"name": "Phishing", "difficulty": "Beginner"}

	resp := f.do(t, "POST", "/modules", userToken, module, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user create module status = %d, want 403", resp.StatusCode)
	}

	resp = f.do(t, "POST", "/modules", adminToken, module, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin create module status = %d, want 201", resp.StatusCode)
	}

	// The same admin previewing as a user is turned away.
	resp = f.do(t, "POST", "/modules", adminToken, map[string]string{"name": "Another", "difficulty": "Pro"},
		map[string]string{"X-View-As-User": "true"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin-in-user-view status = %d, want 403", resp.StatusCode)
	}

	// Reads stay open to everyone signed in.
	resp = f.do(t, "GET", "/modules", userToken, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list modules status = %d, want 200", resp.StatusCode)
	}
}

func TestAnswerKeyHiddenOverREST(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "Plain User", "user@example.com", domain.RoleUser)
	f.register(t, "Some Admin", "admin@example.com", domain.RoleAdmin)
	userToken := f.login(t, "user@example.com")
	adminToken := f.login(t, "admin@example.com")

	// Parents must exist before children, so the order is fixed.
	seeds := []struct {
		path string
		body map[string]any
	}{
		{"/modules", map[string]any{"name": "Phishing", "difficulty": "Beginner"}},
		{"/modules/Phishing/quizzes", map[string]any{"name": "Basics", "difficulty": "Beginner"}},
		{"/modules/Phishing/quizzes/Basics/questions", map[string]any{
			"text":          "Pick one",
			"options":       []string{"a", "b", "c", "d"},
			"correctOption": "a",
		}},
	}
	for _, seed := range seeds {
		resp := f.do(t, "POST", seed.path, adminToken, seed.body, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed %s: status %d", seed.path, resp.StatusCode)
		}
	}

	check := func(token string, wantKey bool) {
		t.Helper()
		resp := f.do(t, "GET", "/modules/Phishing/quizzes/Basics/questions", token, nil, nil)
		defer resp.Body.Close()
		var questions []domain.Question
		if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := questions[0].CorrectOption != ""; got != wantKey {
			t.Fatalf("answer key visible=%v, want %v", got, wantKey)
		}
	}
	check(userToken, false)
	check(adminToken, true)
}

func TestUserRoutesIgnoreViewAsUser(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "Plain User", "user@example.com", domain.RoleUser)
	f.register(t, "Some Admin", "admin@example.com", domain.RoleAdmin)
	userToken := f.login(t, "user@example.com")
	adminToken := f.login(t, "admin@example.com")

	resp := f.do(t, "GET", "/users", userToken, nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user list status = %d, want 403", resp.StatusCode)
	}

	// View-as-user flips content perspective, not user management.
	resp = f.do(t, "GET", "/users", adminToken, nil, map[string]string{"X-View-As-User": "true"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list status = %d, want 200", resp.StatusCode)
	}
	var users []domain.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 1 || users[0].Role != domain.RoleUser {
		t.Fatalf("admin should see only Users, got %+v", users)
	}
}

func TestForumOwnershipOverREST(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "Author", "author@example.com", domain.RoleUser)
	f.register(t, "Super", "root@example.com", domain.RoleSuperAdmin)
	authorToken := f.login(t, "author@example.com")
	superToken := f.login(t, "root@example.com")

	resp := f.do(t, "POST", "/forum/posts", authorToken, map[string]string{"title": "Hi", "content": "First"}, nil)
	var post domain.Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	resp.Body.Close()

	resp = f.do(t, "DELETE", "/forum/posts/"+post.ID, superToken, nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("superadmin delete status = %d, want 403", resp.StatusCode)
	}

	resp = f.do(t, "DELETE", "/forum/posts/"+post.ID, authorToken, nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("author delete status = %d, want 204", resp.StatusCode)
	}
}

func TestLoginLockoutStatus(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "Plain User", "user@example.com", domain.RoleUser)

	for i := 0; i < 6; i++ {
		resp := f.do(t, "POST", "/auth/login", "", map[string]string{
			"email":    "user@example.com",
			"password": "wrong-pass",
		}, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, resp.StatusCode)
		}
	}
	resp := f.do(t, "POST", "/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "s3cret-pass",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("locked-out status = %d, want 429", resp.StatusCode)
	}
}

func TestUnknownModuleIs404(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "Plain User", "user@example.com", domain.RoleUser)
	token := f.login(t, "user@example.com")

	resp := f.do(t, "GET", "/modules/missing", token, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
