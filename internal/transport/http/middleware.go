package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cybersense-learning-service/internal/domain"
	"cybersense-learning-service/internal/rbac"
)

// TokenIssuer signs and verifies the bearer tokens the transport hands
// out at sign-in.
type TokenIssuer struct {
	hmac []byte
	ttl  time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenIssuer{hmac: []byte(secret), ttl: ttl}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (t *TokenIssuer) Issue(userID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "cybersense-learning-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.hmac)
}

func (t *TokenIssuer) Parse(tokenStr string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return t.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// viewAsUserHeader flips an admin's perspective to plain-User for
// content decisions. Ignored for non-admin callers.
const viewAsUserHeader = "X-View-As-User"

// Authenticate requires a bearer token (or, for websocket upgrades, a
// "token" query parameter) and places the caller's access on the
// request context.
func Authenticate(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := issuer.Parse(raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			access := domain.Access{
				UserID: claims.Subject,
				Role:   domain.Role(claims.Role),
			}
			if access.Role == domain.RoleAdmin || access.Role == domain.RoleSuperAdmin {
				v := r.Header.Get(viewAsUserHeader)
				access.ViewAsUser = v == "true" || v == "1"
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithAccess(r.Context(), access)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func accessFrom(r *http.Request) domain.Access {
	a, _ := rbac.AccessFromContext(r.Context())
	return a
}
