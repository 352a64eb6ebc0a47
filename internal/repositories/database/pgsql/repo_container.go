package pgsql

import (
	portsrepo "github.com/corebank/banking-api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider constructs all pgsql repositories against the given
// pool and bundles them for the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	return &portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: newPgxTransactionRepository(dbPool, accountRepo),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
