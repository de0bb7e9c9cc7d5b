package domain

// Access is the authorization view derived from the session: the real
// role plus the transient admin-only "view as user" toggle. The toggle
// is never persisted server-side.
type Access struct {
	UserID     string
	Role       Role
	ViewAsUser bool
}

// EffectiveRole is the role used for content-visibility decisions. An
// admin previewing as a regular user sees what a User sees.
func (a Access) EffectiveRole() Role {
	if a.ViewAsUser && a.isAdminRole() {
		return RoleUser
	}
	return a.Role
}

// CanManageContent gates module/quiz/question mutation and answer-key
// visibility. It follows the effective role, so an admin in user view
// loses it.
func (a Access) CanManageContent() bool {
	r := a.EffectiveRole()
	return r == RoleAdmin || r == RoleSuperAdmin
}

// CanManageUsers follows the RAW role: user management is an
// administrative action independent of the content-viewing perspective.
func (a Access) CanManageUsers() bool {
	return a.isAdminRole()
}

// CanManageUser applies the per-target scope on top of CanManageUsers:
// SuperAdmin manages everyone except other SuperAdmins, Admin manages
// only Users.
func (a Access) CanManageUser(target User) bool {
	switch a.Role {
	case RoleSuperAdmin:
		return target.Role != RoleSuperAdmin
	case RoleAdmin:
		return target.Role == RoleUser
	default:
		return false
	}
}

// CanEditPost is an ownership check with no administrative override:
// even a SuperAdmin cannot touch another user's post.
func (a Access) CanEditPost(p Post) bool {
	return p.AuthorID != "" && p.AuthorID == a.UserID
}

// CanDeletePost mirrors CanEditPost.
func (a Access) CanDeletePost(p Post) bool {
	return a.CanEditPost(p)
}

func (a Access) isAdminRole() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}
