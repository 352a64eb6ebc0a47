package repositories

import (
	"context"
	"time"

	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its internal id.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByReference retrieves a transaction by its unique reference.
	FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// FindTransactionsByAccountID retrieves transactions where the account is
	// either source or destination, newest first.
	FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// FindTransactionsByAccountIDAndDateRange narrows FindTransactionsByAccountID
	// to a created_at window, newest first.
	FindTransactionsByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error)

	// FindTransactionsByDateRange retrieves transactions created within the
	// window, newest first.
	FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// FindPendingTransactions retrieves pending transactions oldest first, so a
	// batch processor drains them in FIFO order.
	FindPendingTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListTransactions retrieves all transactions, newest first.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction row without touching any
	// balance (used for the two-phase pending path).
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatus atomically moves a still-pending transaction to
	// the given status. A row already in a terminal status is never
	// overwritten: the store reports ErrInvalidState instead, so losers of a
	// processing race cannot clobber the winner's outcome.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, now time.Time) error

	// UpdateTransactionDescription updates the description only.
	UpdateTransactionDescription(ctx context.Context, transactionID string, description string, now time.Time) error
}

// TransactionPostingSupport is the engine's atomic commit surface: each call
// is one unit of work that either fully commits or fully rolls back.
type TransactionPostingSupport interface {
	// SavePosting inserts the transaction row and applies its balance changes
	// in a single database transaction, locking every touched account row
	// first. It returns the primary account's balance before and after.
	SavePosting(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, primaryAccountID string) (previous, updated decimal.Decimal, err error)

	// ApplyPosting applies balance changes for an already-persisted pending
	// transaction and flips its status to completed, atomically.
	ApplyPosting(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionPostingSupport
}
