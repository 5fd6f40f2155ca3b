package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// UserReader defines read operations for user data.
// Lookup keys are expected to be lowercased by the caller.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their (lowercased) email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their (lowercased) username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmailOrUsername matches the identifier against either column.
	FindUserByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error)

	// CountUsers returns the number of stored user records.
	CountUsers(ctx context.Context) (int64, error)
}

// UserWriter defines write operations for user data.
// Unique constraint violations surface as apperrors.ErrUsernameTaken / apperrors.ErrEmailTaken.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// SaveUserIfEmailAbsent inserts the user unless a record with the same email exists.
	// It reports whether a row was inserted.
	SaveUserIfEmailAbsent(ctx context.Context, user domain.User) (bool, error)

	// CompleteProfile sets the username (and optionally the password hash) and flips
	// profileComplete in one update, only if the profile is still incomplete.
	// Returns apperrors.ErrAlreadyComplete when the flag was already set.
	CompleteProfile(ctx context.Context, userID string, username string, passwordHash *string, updatedAt time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
