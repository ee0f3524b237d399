package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all PostgreSQL-backed repositories over a
// shared connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:         NewUserRepository(pool),
		VideoRepo:        NewVideoRepository(pool),
		SubscriptionRepo: NewSubscriptionRepository(pool),
	}
}
