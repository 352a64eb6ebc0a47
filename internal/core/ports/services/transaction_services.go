package services

import (
	"context"
	"time"

	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/corebank/banking-api/internal/dto"
)

// TransactionPosterSvc is the posting surface of the transaction engine.
type TransactionPosterSvc interface {
	// PostTransaction validates the request and synchronously commits its
	// balance effects with the transaction row in one atomic unit of work.
	// The returned result carries the primary account's previous and new
	// balance.
	PostTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResult, error)

	// CreateTransaction validates the request and persists it in pending
	// state without any balance effect (two-phase path).
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ProcessTransaction applies a pending transaction's balance effects
	// against current balances, completing it, or marks it failed.
	ProcessTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// CancelTransaction cancels a still-pending transaction. No balance effect.
	CancelTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// TransactionReaderSvc defines read operations over transaction history.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction by its internal id.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// GetTransactionByReference retrieves a transaction by its unique reference.
	GetTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// GetTransactionsForAccount retrieves an existing account's transactions,
	// newest first.
	GetTransactionsForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// GetTransactionsForAccountByDateRange narrows GetTransactionsForAccount
	// to a creation window.
	GetTransactionsForAccountByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error)

	// GetPendingTransactions retrieves pending transactions in FIFO order.
	GetPendingTransactions(ctx context.Context) ([]domain.Transaction, error)

	// GetTransactionsByDateRange retrieves transactions created in the window.
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// ListTransactions retrieves all transactions, newest first.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionSvcFacade combines the engine's posting and read surfaces.
type TransactionSvcFacade interface {
	TransactionPosterSvc
	TransactionReaderSvc
}
