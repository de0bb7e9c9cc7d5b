package rbac

import (
	"context"
	"strings"

	"cybersense-learning-service/internal/domain"
)

type Checker struct {
	RolePermissions map[domain.Role][]string
}

func NewChecker(rp map[domain.Role][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role domain.Role, perm string) bool {
	perms, ok := c.RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

// Allowed resolves the role through the view-as-user override before
// checking, so an admin previewing as a user is held to User permissions.
func (c *Checker) Allowed(a domain.Access, perm string) bool {
	return c.Has(a.EffectiveRole(), perm)
}

// AllowedRaw ignores the override. User management stays available to an
// admin regardless of the content-viewing perspective.
func (c *Checker) AllowedRaw(a domain.Access, perm string) bool {
	return c.Has(a.Role, perm)
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(perm, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

// ---- access in context ----

type ctxKey struct{}

var ctxKeyAccess = ctxKey{}

func WithAccess(ctx context.Context, a domain.Access) context.Context {
	return context.WithValue(ctx, ctxKeyAccess, a)
}

func AccessFromContext(ctx context.Context) (domain.Access, bool) {
	v := ctx.Value(ctxKeyAccess)
	if v == nil {
		return domain.Access{}, false
	}
	a, ok := v.(domain.Access)
	return a, ok
}
