package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/corebank/banking-api/internal/core/domain"
	portsrepo "github.com/corebank/banking-api/internal/core/ports/repositories"
	"github.com/corebank/banking-api/internal/models"
	"github.com/corebank/banking-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, from_account_id, to_account_id, type, amount, currency_code, description, status, reference, created_at, updated_at`

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, from_account_id, to_account_id, type, amount, currency_code, description, status, reference, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountPostingSupport
}

// newPgxTransactionRepository creates a new repository for transaction data.
// The account repository is injected for the lock-and-mutate posting path.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountPostingSupport) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.Type,
		&m.Amount,
		&m.CurrencyCode,
		&m.Description,
		&m.Status,
		&m.Reference,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func execInsertTransaction(ctx context.Context, exec execer, m models.Transaction) error {
	_, err := exec.Exec(ctx, insertTransactionQuery,
		m.TransactionID,
		m.FromAccountID,
		m.ToAccountID,
		m.Type,
		m.Amount,
		m.CurrencyCode,
		m.Description,
		m.Status,
		m.Reference,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: transaction reference %s already exists", apperrors.ErrDuplicate, m.Reference)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// SaveTransaction persists a transaction row without touching balances.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return execInsertTransaction(ctx, r.Pool, mapping.ToModelTransaction(txn))
}

// FindTransactionByID retrieves a transaction by its id.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindTransactionByReference retrieves a transaction by its unique reference.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction reference %s", apperrors.ErrNotFound, reference)
		}
		return nil, fmt.Errorf("failed to find transaction by reference %s: %w", reference, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindTransactionsByAccountID retrieves transactions where the account is
// either side, newest first.
func (r *PgxTransactionRepository) FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	return collectTransactions(rows)
}

// FindTransactionsByAccountIDAndDateRange narrows the account history to a
// created_at window, newest first.
func (r *PgxTransactionRepository) FindTransactionsByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (from_account_id = $1 OR to_account_id = $1)
		  AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s in range: %w", accountID, err)
	}
	return collectTransactions(rows)
}

// FindTransactionsByDateRange retrieves transactions created within the window.
func (r *PgxTransactionRepository) FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions in range: %w", err)
	}
	return collectTransactions(rows)
}

// FindPendingTransactions retrieves pending transactions oldest first so a
// batch processor drains them in arrival order.
func (r *PgxTransactionRepository) FindPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, models.TransactionStatus(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListTransactions retrieves all transactions, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// UpdateTransactionStatus performs a single-field status update. The row must
// still be pending; a terminal row is never overwritten, so a writer that lost
// a race against a concurrent processor gets ErrInvalidState instead of
// clobbering the winner's outcome.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = $3
		WHERE transaction_id = $1 AND status = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, models.TransactionStatus(status), now, models.TransactionStatus(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing row from one already in a terminal status.
		if _, ferr := r.FindTransactionByID(ctx, transactionID); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w: transaction %s is no longer pending", apperrors.ErrInvalidState, transactionID)
	}
	return nil
}

// UpdateTransactionDescription updates the description only.
func (r *PgxTransactionRepository) UpdateTransactionDescription(ctx context.Context, transactionID string, description string, now time.Time) error {
	query := `
		UPDATE transactions
		SET description = $2, updated_at = $3
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, description, now)
	if err != nil {
		return fmt.Errorf("failed to update description of transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// SavePosting inserts the transaction row and applies its balance changes in
// one database transaction. Every touched account row is locked first, then
// debits are re-verified against the balances read under the lock, so the
// sufficiency decision and the mutation see the same state.
func (r *PgxTransactionRepository) SavePosting(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, primaryAccountID string) (previous, updated decimal.Decimal, err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	locked, err := r.lockAndVerify(ctx, tx, balanceChanges)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	primary, ok := locked[primaryAccountID]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: primary account %s not part of posting", apperrors.ErrInternal, primaryAccountID)
	}
	previous = primary.Balance
	updated = previous.Add(balanceChanges[primaryAccountID])

	now := txn.CreatedAt
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, now); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if err := execInsertTransaction(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return previous, updated, nil
}

// ApplyPosting applies balance changes for an already-persisted pending
// transaction and flips it to completed, atomically. The status predicate in
// the UPDATE makes concurrent processors of the same transaction lose cleanly.
func (r *PgxTransactionRepository) ApplyPosting(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.lockAndVerify(ctx, tx, balanceChanges); err != nil {
		return err
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, now); err != nil {
		return err
	}

	statusQuery := `
		UPDATE transactions
		SET status = $2, updated_at = $3
		WHERE transaction_id = $1 AND status = $4;
	`
	cmdTag, err := tx.Exec(ctx, statusQuery,
		transactionID,
		models.TransactionStatus(domain.StatusCompleted),
		now,
		models.TransactionStatus(domain.StatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to complete transaction %s: %w", transactionID, translateConflict(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is no longer pending", apperrors.ErrInvalidState, transactionID)
	}

	return r.Commit(ctx, tx)
}

// lockAndVerify locks the rows of every account in balanceChanges and checks,
// under the lock, that each account is still active and each debited account
// still covers its debit. The service ran the same checks before, but against
// balances that may have moved by now.
func (r *PgxTransactionRepository) lockAndVerify(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	for accID, acct := range locked {
		if !acct.IsActive {
			return nil, fmt.Errorf("%w: account %s is not active", apperrors.ErrInvalidState, accID)
		}
	}
	for accID, delta := range balanceChanges {
		if delta.IsNegative() && locked[accID].Balance.Add(delta).IsNegative() {
			return nil, fmt.Errorf("%w: account %s balance %s cannot cover %s",
				apperrors.ErrInsufficientFunds, accID, locked[accID].Balance.StringFixed(2), delta.Neg().StringFixed(2))
		}
	}
	return locked, nil
}
