package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cybersense-learning-service/internal/domain"
)

// IdentityProvider is the external credential authority. SignUp/SignIn
// return the credential's authentication ID.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	Reauthenticate(ctx context.Context, authID, password string) error
	ChangePassword(ctx context.Context, authID, newPassword string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// SessionStore holds the single device session slot.
type SessionStore interface {
	Save(ctx context.Context, s domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}

// UserRepository is the directory's user collection.
type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByAuthID(ctx context.Context, authID string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id string) error
}

// AuthService handles registration, sign-in/out, password management and
// the device session lifecycle.
type AuthService struct {
	identity IdentityProvider
	users    UserRepository
	sessions SessionStore
	throttle *loginThrottle
	log      *zap.Logger
}

func NewAuthService(identity IdentityProvider, users UserRepository, sessions SessionStore, maxAttempts int, lockout time.Duration, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		identity: identity,
		users:    users,
		sessions: sessions,
		throttle: newLoginThrottle(maxAttempts, lockout),
		log:      log,
	}
}

// Register creates a credential and the matching user document. The
// document is keyed by the credential's authentication ID; the role
// defaults to User. No session is created (the original sends the user
// back to the login screen).
func (s *AuthService) Register(ctx context.Context, in domain.RegistrationInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	authID, err := s.identity.SignUp(ctx, normalizeEmail(in.Email), in.Password)
	if err != nil {
		return domain.User{}, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	user := domain.User{
		ID:               authID,
		FullName:         in.FullName,
		DateOfBirth:      in.DateOfBirth,
		Email:            normalizeEmail(in.Email),
		Role:             role,
		AuthenticationID: authID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// SignIn authenticates against the identity provider, resolves the user
// document by authentication ID and saves the device session. Failures
// feed the local attempt counter: six strikes locks the email out for
// the cool-down window. The counter lives in process memory only; it is
// a UX nicety, not a security control.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Session{}, domain.NewValidationError("email and password are required")
	}
	if !s.throttle.Allow(email) {
		return domain.Session{}, domain.ErrTooManyAttempts
	}
	authID, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.throttle.RecordFailure(email)
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	user, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		return domain.Session{}, err
	}
	s.throttle.Reset(email)

	session := domain.Session{
		UserID:           user.ID,
		FullName:         user.FullName,
		Email:            user.Email,
		DateOfBirth:      user.DateOfBirth,
		Role:             user.Role,
		AuthenticationID: user.AuthenticationID,
		LoggedIn:         true,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// SignOut clears the device session slot.
func (s *AuthService) SignOut(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Session returns the stored device session, if any.
func (s *AuthService) Session(ctx context.Context) (domain.Session, error) {
	return s.sessions.Load(ctx)
}

// ChangePassword reauthenticates with the old password before setting
// the new one.
func (s *AuthService) ChangePassword(ctx context.Context, authID string, in domain.PasswordChangeInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.identity.Reauthenticate(ctx, authID, in.OldPassword); err != nil {
		return domain.ErrWrongPassword
	}
	return s.identity.ChangePassword(ctx, authID, in.NewPassword)
}

// RequestPasswordReset dispatches a reset email via the identity provider.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.NewValidationError("email is required")
	}
	return s.identity.SendPasswordReset(ctx, email)
}

// UpdateProfile merge-updates name/DOB/email on the caller's own user
// document and refreshes the session copy. The identity provider's
// email is deliberately untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in domain.ProfileUpdateInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	user.FullName = in.FullName
	user.DateOfBirth = in.DateOfBirth
	user.Email = normalizeEmail(in.Email)
	if err := s.users.Update(ctx, user); err != nil {
		return domain.User{}, err
	}
	if session, err := s.sessions.Load(ctx); err == nil && session.UserID == userID {
		session.FullName = user.FullName
		session.DateOfBirth = user.DateOfBirth
		session.Email = user.Email
		_ = s.sessions.Save(ctx, session)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TemporaryPassword generates the throwaway credential password used by
// admin account creation; the reset email makes the user pick their own.
func TemporaryPassword() string {
	return "tmp-" + uuid.NewString()
}
