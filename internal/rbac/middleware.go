package rbac

import "net/http"

var defaultChecker = NewChecker(nil)

// Require enforces a permission against the effective role.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := AccessFromContext(r.Context())
			if !ok || !defaultChecker.Allowed(a, perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRaw enforces a permission against the raw role, bypassing the
// view-as-user override.
func RequireRaw(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := AccessFromContext(r.Context())
			if !ok || !defaultChecker.AllowedRaw(a, perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
