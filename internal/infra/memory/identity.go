package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cybersense-learning-service/internal/domain"
)

type credential struct {
	authID string
	email  string
	hash   []byte
}

// Identity is an in-process credential authority backing
// app.IdentityProvider. Passwords are bcrypt-hashed; reset requests are
// recorded rather than emailed.
type Identity struct {
	mu       sync.Mutex
	byEmail  map[string]*credential
	byAuthID map[string]*credential
	resets   []string
}

func NewIdentity() *Identity {
	return &Identity{
		byEmail:  make(map[string]*credential),
		byAuthID: make(map[string]*credential),
	}
}

func (i *Identity) SignUp(_ context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.byEmail[email]; ok {
		return "", domain.ErrEmailInUse
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	cred := &credential{authID: uuid.NewString(), email: email, hash: hash}
	i.byEmail[email] = cred
	i.byAuthID[cred.authID] = cred
	return cred.authID, nil
}

func (i *Identity) SignIn(_ context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	i.mu.Lock()
	defer i.mu.Unlock()
	cred, ok := i.byEmail[email]
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(cred.hash, []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	return cred.authID, nil
}

func (i *Identity) Reauthenticate(_ context.Context, authID, password string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	cred, ok := i.byAuthID[authID]
	if !ok {
		return domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(cred.hash, []byte(password)) != nil {
		return domain.ErrWrongPassword
	}
	return nil
}

func (i *Identity) ChangePassword(_ context.Context, authID, newPassword string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	cred, ok := i.byAuthID[authID]
	if !ok {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cred.hash = hash
	return nil
}

func (i *Identity) SendPasswordReset(_ context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.byEmail[email]; !ok {
		return domain.ErrUserNotFound
	}
	i.resets = append(i.resets, email)
	return nil
}

// ResetRequests reports the emails a reset was requested for, in order.
func (i *Identity) ResetRequests() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, len(i.resets))
	copy(out, i.resets)
	return out
}
