package pgsql

import (
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the postgres-backed repositories. Navigation intents
// live in a cache rather than the database, so the store is passed in.
func NewRepositoryProvider(dbPool *pgxpool.Pool, intentStore portsrepo.IntentStore) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:    userRepo,
		IntentStore: intentStore,
	}
}
