package http

import (
	"net/http"

	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/domain"
)

// AuthHandler exposes registration, sign-in/out, password management and
// the current session.
type AuthHandler struct {
	auth   *app.AuthService
	issuer *TokenIssuer
	log    *zap.Logger
}

func NewAuthHandler(auth *app.AuthService, issuer *TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegistrationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	// Self-service registration always lands on the User role.
	in.Role = domain.RoleUser
	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	session, err := h.auth.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	token, err := h.issuer.Issue(session.UserID, session.Role)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Session: session})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context()); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.Session(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in domain.PasswordChangeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	session, err := h.auth.Session(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), session.AuthenticationID, in); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type resetRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in resetRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), in.Email); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, nil)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileUpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), accessFrom(r).UserID, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
