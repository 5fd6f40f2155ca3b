package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	"github.com/SscSPs/trakmymedia/internal/models"
	"github.com/SscSPs/trakmymedia/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Unique constraint names, see migrations/000001_create_users_table.up.sql.
const (
	constraintUsersEmail    = "uq_users_email"
	constraintUsersUsername = "uq_users_username"
)

const userColumns = `user_id, email, username, password_hash, name, image, profile_complete,
	auth_provider, provider_user_id, created_at, last_updated_at`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.Username,
		&m.PasswordHash,
		&m.Name,
		&m.Image,
		&m.ProfileComplete,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

// mapUniqueViolation turns a unique_violation into the matching conflict sentinel.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintUsersUsername:
		return apperrors.ErrUsernameTaken
	case constraintUsersEmail:
		return apperrors.ErrEmailTaken
	default:
		return apperrors.ErrDuplicate
	}
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `username = $1`, username)
}

func (r *PgxUserRepository) FindUserByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, `email = $1 OR username = $1`, identifier)
}

func (r *PgxUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

const insertUserQuery = `
	INSERT INTO users (` + userColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func userInsertArgs(user domain.User) []any {
	m := mapping.ToModelUser(user)
	return []any{
		m.UserID,
		m.Email,
		m.Username,
		m.PasswordHash,
		m.Name,
		m.Image,
		m.ProfileComplete,
		m.AuthProvider,
		m.ProviderUserID,
		m.CreatedAt,
		m.LastUpdatedAt,
	}
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	_, err := r.Pool.Exec(ctx, insertUserQuery+";", userInsertArgs(user)...)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", mapUniqueViolation(err))
	}
	return nil
}

func (r *PgxUserRepository) SaveUserIfEmailAbsent(ctx context.Context, user domain.User) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, insertUserQuery+` ON CONFLICT (email) DO NOTHING;`, userInsertArgs(user)...)
	if err != nil {
		return false, fmt.Errorf("failed to save user: %w", mapUniqueViolation(err))
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxUserRepository) CompleteProfile(ctx context.Context, userID string, username string, passwordHash *string, updatedAt time.Time) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	query := `
		UPDATE users
		SET username = $2,
			password_hash = COALESCE($3, password_hash),
			profile_complete = TRUE,
			last_updated_at = $4
		WHERE user_id = $1 AND profile_complete = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, userID, username, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to complete profile: %w", mapUniqueViolation(err))
	}

	if cmdTag.RowsAffected() == 0 {
		// nothing updated: the user is gone or already onboarded
		var complete bool
		scanErr := tx.QueryRow(ctx, `SELECT profile_complete FROM users WHERE user_id = $1;`, userID).Scan(&complete)
		switch {
		case errors.Is(scanErr, pgx.ErrNoRows):
			err = apperrors.ErrNotFound
		case scanErr != nil:
			err = fmt.Errorf("failed to read profile state: %w", scanErr)
		default:
			err = apperrors.ErrAlreadyComplete
		}
		return err
	}

	return r.Commit(ctx, tx)
}
