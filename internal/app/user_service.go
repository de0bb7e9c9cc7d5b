package app

import (
	"context"

	"go.uber.org/zap"

	"cybersense-learning-service/internal/domain"
)

// UserService is the admin user-management surface. All operations are
// gated on the RAW role: previewing as a user does not shed
// administrative duties.
type UserService struct {
	users    UserRepository
	identity IdentityProvider
	log      *zap.Logger
}

func NewUserService(users UserRepository, identity IdentityProvider, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, identity: identity, log: log}
}

// List returns the users the caller may manage: everyone below
// SuperAdmin for a SuperAdmin, only Users for an Admin.
func (s *UserService) List(ctx context.Context, a domain.Access) ([]domain.User, error) {
	if !a.CanManageUsers() {
		return nil, domain.ErrForbidden
	}
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.User, 0, len(all))
	for _, u := range all {
		if a.CanManageUser(u) {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

// Add creates an account on a user's behalf: credential with a
// temporary password, directory document with the assigned role, then a
// password-reset email so the user sets their own password.
func (s *UserService) Add(ctx context.Context, a domain.Access, in domain.AddUserInput) (domain.User, error) {
	if !a.CanManageUsers() {
		return domain.User{}, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	if !a.CanManageUser(domain.User{Role: in.Role}) {
		return domain.User{}, domain.ErrForbidden
	}
	email := normalizeEmail(in.Email)
	authID, err := s.identity.SignUp(ctx, email, TemporaryPassword())
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:               authID,
		FullName:         in.FullName,
		DateOfBirth:      in.DateOfBirth,
		Email:            email,
		Role:             in.Role,
		AuthenticationID: authID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	if err := s.identity.SendPasswordReset(ctx, email); err != nil {
		s.log.Warn("password reset email not sent", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// Update edits name/DOB/role of a managed user. AuthenticationID and
// the target's identity credential are never touched here.
func (s *UserService) Update(ctx context.Context, a domain.Access, userID string, fullName, dateOfBirth string, role domain.Role) (domain.User, error) {
	if !a.CanManageUsers() {
		return domain.User{}, domain.ErrForbidden
	}
	if !domain.ValidRole(role) {
		return domain.User{}, domain.NewValidationError("role must be User, Admin or SuperAdmin")
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if !a.CanManageUser(target) || !a.CanManageUser(domain.User{Role: role}) {
		return domain.User{}, domain.ErrForbidden
	}
	target.FullName = fullName
	target.DateOfBirth = dateOfBirth
	target.Role = role
	if err := s.users.Update(ctx, target); err != nil {
		return domain.User{}, err
	}
	return target, nil
}

// Delete removes a managed user's directory document. The identity
// credential is orphaned, matching the original's behavior.
func (s *UserService) Delete(ctx context.Context, a domain.Access, userID string) error {
	if !a.CanManageUsers() {
		return domain.ErrForbidden
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !a.CanManageUser(target) {
		return domain.ErrForbidden
	}
	return s.users.Delete(ctx, userID)
}

// Get returns a single user record for the caller's own profile view or
// a managed user.
func (s *UserService) Get(ctx context.Context, a domain.Access, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if userID != a.UserID && !(a.CanManageUsers() && a.CanManageUser(user)) {
		return domain.User{}, domain.ErrForbidden
	}
	return user, nil
}
