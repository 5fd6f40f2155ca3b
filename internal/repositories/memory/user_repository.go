// Package memory holds process-local repositories used when no database is configured
// and in tests. Uniqueness rules match the postgres schema.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byEmail    map[string]string
	byUsername map[string]string
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*domain.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

// clone copies the user so callers never share state with the store.
func clone(u *domain.User) *domain.User {
	c := *u
	c.Username = copyString(u.Username)
	c.PasswordHash = copyString(u.PasswordHash)
	c.DisplayName = copyString(u.DisplayName)
	c.AvatarURL = copyString(u.AvatarURL)
	c.ProviderUserID = copyString(u.ProviderUserID)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (r *UserRepository) lookup(index map[string]string, key string) (*domain.User, error) {
	id, ok := index[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail, email)
}

func (r *UserRepository) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byUsername, username)
}

func (r *UserRepository) FindUserByEmailOrUsername(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, err := r.lookup(r.byEmail, identifier); err == nil {
		return u, nil
	}
	return r.lookup(r.byUsername, identifier)
}

func (r *UserRepository) CountUsers(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// insertLocked enforces the unique columns. Caller holds the write lock.
func (r *UserRepository) insertLocked(user domain.User) error {
	if _, ok := r.byID[user.UserID]; ok {
		return apperrors.ErrDuplicate
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return apperrors.ErrEmailTaken
	}
	if user.Username != nil {
		if _, ok := r.byUsername[*user.Username]; ok {
			return apperrors.ErrUsernameTaken
		}
	}
	stored := clone(&user)
	r.byID[user.UserID] = stored
	r.byEmail[user.Email] = user.UserID
	if user.Username != nil {
		r.byUsername[*user.Username] = user.UserID
	}
	return nil
}

func (r *UserRepository) SaveUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(user)
}

func (r *UserRepository) SaveUserIfEmailAbsent(_ context.Context, user domain.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return false, nil
	}
	if err := r.insertLocked(user); err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepository) CompleteProfile(_ context.Context, userID string, username string, passwordHash *string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if u.ProfileComplete {
		return apperrors.ErrAlreadyComplete
	}
	if owner, taken := r.byUsername[username]; taken && owner != userID {
		return apperrors.ErrUsernameTaken
	}

	if u.Username != nil {
		delete(r.byUsername, *u.Username)
	}
	name := username
	u.Username = &name
	if passwordHash != nil {
		u.PasswordHash = copyString(passwordHash)
	}
	u.ProfileComplete = true
	u.LastUpdatedAt = updatedAt
	r.byUsername[username] = userID
	return nil
}
