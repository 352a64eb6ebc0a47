package repositories

import (
	"context"
	"time"

	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
// Missing rows surface as apperrors.ErrNotFound.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its human-referenceable account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountsByUserID retrieves every account owned by a user.
	FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)

	// FindActiveAccountsByUserID retrieves the active accounts owned by a user.
	FindActiveAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data. Balance is
// deliberately absent here; it moves only through the posting support below.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details
	// (holder name, type, active flag). Never the balance.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, now time.Time) error
}

// AccountPostingSupport defines the operations the transaction engine uses
// inside its atomic unit of work. These are the only sanctioned
// balance-mutation entry points.
type AccountPostingSupport interface {
	// FindAccountsByIDsForUpdate selects account rows FOR UPDATE within tx,
	// acquiring locks in ascending account id order.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies per-account balance deltas within tx.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountPostingSupport
}
