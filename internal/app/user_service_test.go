package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"cybersense-learning-service/internal/domain"
)

func newUserFixture(t *testing.T) (*UserService, *fakeIdentity, *fakeUsers) {
	t.Helper()
	identity := newFakeIdentity()
	users := newFakeUsers()
	seed := []domain.User{
		{ID: "u1", FullName: "Plain User", Role: domain.RoleUser, Email: "u1@example.com"},
		{ID: "a1", FullName: "Some Admin", Role: domain.RoleAdmin, Email: "a1@example.com"},
		{ID: "sa1", FullName: "Root", Role: domain.RoleSuperAdmin, Email: "sa1@example.com"},
	}
	for _, u := range seed {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewUserService(users, identity, zap.NewNop()), identity, users
}

func TestListScopesToManageableUsers(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	asAdmin, err := svc.List(ctx, domain.Access{UserID: "a1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(asAdmin) != 1 || asAdmin[0].ID != "u1" {
		t.Fatalf("admin should see only Users, got %+v", asAdmin)
	}

	asSuper, err := svc.List(ctx, domain.Access{UserID: "sa1", Role: domain.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(asSuper) != 2 {
		t.Fatalf("superadmin should see Users and Admins, got %+v", asSuper)
	}
	for _, u := range asSuper {
		if u.Role == domain.RoleSuperAdmin {
			t.Fatal("superadmins never appear in the managed list")
		}
	}

	if _, err := svc.List(ctx, domain.Access{UserID: "u1", Role: domain.RoleUser}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain user, got %v", err)
	}
}

func TestListKeepsRawRoleUnderUserView(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	preview := domain.Access{UserID: "a1", Role: domain.RoleAdmin, ViewAsUser: true}
	if _, err := svc.List(context.Background(), preview); err != nil {
		t.Fatalf("user management must survive the user-view toggle: %v", err)
	}
}

func TestAddUserCreatesCredentialAndSendsReset(t *testing.T) {
	svc, identity, users := newUserFixture(t)
	admin := domain.Access{UserID: "a1", Role: domain.RoleAdmin}

	user, err := svc.Add(context.Background(), admin, domain.AddUserInput{
		FullName:    "New Person",
		DateOfBirth: "02/03/1999",
		Email:       "new@example.com",
		Role:        domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if user.ID != user.AuthenticationID {
		t.Fatal("new documents are keyed by the credential's authentication ID")
	}
	if _, err := users.GetByID(context.Background(), user.ID); err != nil {
		t.Fatalf("document missing: %v", err)
	}
	if len(identity.resets) != 1 || identity.resets[0] != "new@example.com" {
		t.Fatalf("expected one reset email to the new address, got %v", identity.resets)
	}
}

func TestAddUserRoleScope(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	admin := domain.Access{UserID: "a1", Role: domain.RoleAdmin}

	_, err := svc.Add(context.Background(), admin, domain.AddUserInput{
		FullName:    "Wannabe Admin",
		DateOfBirth: "02/03/1999",
		Email:       "wa@example.com",
		Role:        domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin cannot create admins, got %v", err)
	}
}

func TestUpdateUserGatesTargetAndNewRole(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()
	admin := domain.Access{UserID: "a1", Role: domain.RoleAdmin}
	superAdmin := domain.Access{UserID: "sa1", Role: domain.RoleSuperAdmin}

	// Admin cannot touch another admin.
	if _, err := svc.Update(ctx, admin, "a1", "X", "01/01/1990", domain.RoleUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// Admin cannot promote a user beyond their own reach.
	if _, err := svc.Update(ctx, admin, "u1", "X", "01/01/1990", domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on promotion, got %v", err)
	}
	// SuperAdmin may promote a user to admin.
	updated, err := svc.Update(ctx, superAdmin, "u1", "Plain User", "01/01/1990", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want Admin", updated.Role)
	}
	// Nobody promotes to SuperAdmin.
	if _, err := svc.Update(ctx, superAdmin, "u1", "X", "01/01/1990", domain.RoleSuperAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteUserScope(t *testing.T) {
	svc, _, users := newUserFixture(t)
	ctx := context.Background()
	admin := domain.Access{UserID: "a1", Role: domain.RoleAdmin}

	if err := svc.Delete(ctx, admin, "sa1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, admin, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.GetByID(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatal("user document should be gone")
	}
}

func TestGetAllowsSelfAndManaged(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, domain.Access{UserID: "u1", Role: domain.RoleUser}, "u1"); err != nil {
		t.Fatalf("self read: %v", err)
	}
	if _, err := svc.Get(ctx, domain.Access{UserID: "u1", Role: domain.RoleUser}, "a1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, domain.Access{UserID: "a1", Role: domain.RoleAdmin}, "u1"); err != nil {
		t.Fatalf("managed read: %v", err)
	}
}
