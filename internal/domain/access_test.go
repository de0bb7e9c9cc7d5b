package domain

import "testing"

func TestViewAsUserDropsContentPowersKeepsUserManagement(t *testing.T) {
	a := Access{UserID: "sa", Role: RoleSuperAdmin, ViewAsUser: true}

	if got := a.EffectiveRole(); got != RoleUser {
		t.Fatalf("effective role = %s, want User", got)
	}
	if a.CanManageContent() {
		t.Error("admin in user view should not manage content")
	}
	if !a.CanManageUsers() {
		t.Error("user management follows the raw role")
	}
}

func TestViewAsUserIgnoredForPlainUsers(t *testing.T) {
	a := Access{UserID: "u1", Role: RoleUser, ViewAsUser: true}
	if got := a.EffectiveRole(); got != RoleUser {
		t.Fatalf("effective role = %s, want User", got)
	}
	if a.CanManageUsers() {
		t.Error("plain user must not manage users")
	}
}

func TestCanManageUserScope(t *testing.T) {
	superAdmin := Access{Role: RoleSuperAdmin}
	admin := Access{Role: RoleAdmin}
	user := Access{Role: RoleUser}

	cases := []struct {
		name   string
		actor  Access
		target Role
		want   bool
	}{
		{"superadmin manages user", superAdmin, RoleUser, true},
		{"superadmin manages admin", superAdmin, RoleAdmin, true},
		{"superadmin cannot manage superadmin", superAdmin, RoleSuperAdmin, false},
		{"admin manages user", admin, RoleUser, true},
		{"admin cannot manage admin", admin, RoleAdmin, false},
		{"admin cannot manage superadmin", admin, RoleSuperAdmin, false},
		{"user manages nobody", user, RoleUser, false},
	}
	for _, tc := range cases {
		if got := tc.actor.CanManageUser(User{Role: tc.target}); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPostOwnershipHasNoRoleOverride(t *testing.T) {
	post := Post{ID: "p1", AuthorID: "author"}

	owner := Access{UserID: "author", Role: RoleUser}
	if !owner.CanEditPost(post) || !owner.CanDeletePost(post) {
		t.Error("author should edit and delete their own post")
	}

	superAdmin := Access{UserID: "sa", Role: RoleSuperAdmin}
	if superAdmin.CanEditPost(post) || superAdmin.CanDeletePost(post) {
		t.Error("no administrative override on post ownership")
	}
}
