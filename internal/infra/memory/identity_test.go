package memory

import (
	"context"
	"errors"
	"testing"

	"cybersense-learning-service/internal/domain"
)

func TestIdentityLifecycle(t *testing.T) {
	ctx := context.Background()
	identity := NewIdentity()

	authID, err := identity.SignUp(ctx, "amina@example.com", "first-password")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := identity.SignUp(ctx, "amina@example.com", "other"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	got, err := identity.SignIn(ctx, "amina@example.com", "first-password")
	if err != nil || got != authID {
		t.Fatalf("sign in: %v (authID %q vs %q)", err, got, authID)
	}
	if _, err := identity.SignIn(ctx, "amina@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := identity.Reauthenticate(ctx, authID, "wrong"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := identity.ChangePassword(ctx, authID, "second-password"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := identity.SignIn(ctx, "amina@example.com", "second-password"); err != nil {
		t.Fatalf("sign in after change: %v", err)
	}

	if err := identity.SendPasswordReset(ctx, "amina@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := identity.SendPasswordReset(ctx, "unknown@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if got := identity.ResetRequests(); len(got) != 1 || got[0] != "amina@example.com" {
		t.Fatalf("unexpected reset log %v", got)
	}
}

func TestSessionStoreSlot(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	session := domain.Session{UserID: "u1", Role: domain.RoleUser, LoggedIn: true}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil || got.UserID != "u1" {
		t.Fatalf("load: %v %+v", err, got)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatal("expected cleared slot")
	}
}
