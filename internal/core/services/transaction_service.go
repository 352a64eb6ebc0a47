package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/corebank/banking-api/internal/core/domain"
	portsrepo "github.com/corebank/banking-api/internal/core/ports/repositories"
	portssvc "github.com/corebank/banking-api/internal/core/ports/services"
	"github.com/corebank/banking-api/internal/dto"
	"github.com/corebank/banking-api/internal/middleware"
	"github.com/corebank/banking-api/internal/utils"
)

// referenceGenerator is swappable so tests can make references deterministic.
var referenceGenerator = utils.GenerateTransactionReference

var (
	ErrTransferAccounts   = fmt.Errorf("%w: transfer requires both accounts", apperrors.ErrValidation)
	ErrWithdrawalAccount  = fmt.Errorf("%w: withdrawal requires source account", apperrors.ErrValidation)
	ErrDepositAccount     = fmt.Errorf("%w: deposit requires destination account", apperrors.ErrValidation)
	ErrAmountNotPositive  = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	ErrSameAccount        = fmt.Errorf("%w: transfer accounts must be distinct", apperrors.ErrValidation)
	ErrSourceNotFound     = fmt.Errorf("%w: source account not found", apperrors.ErrNotFound)
	ErrDestNotFound       = fmt.Errorf("%w: destination account not found", apperrors.ErrNotFound)
	ErrSourceInactive     = fmt.Errorf("%w: source account not active", apperrors.ErrInvalidState)
	ErrDestInactive       = fmt.Errorf("%w: destination account not active", apperrors.ErrInvalidState)
	ErrTransactionPending = fmt.Errorf("%w: transaction is not pending", apperrors.ErrInvalidState)
	ErrCancelNotPending   = fmt.Errorf("%w: only pending transactions can be cancelled", apperrors.ErrInvalidState)
)

// postingRetries bounds transparent retries of the whole validate-then-post
// sequence when the store reports a conflict (deadlock, serialization
// failure, reference collision).
const postingRetries = 3

// transactionService is the transaction engine: it validates requested money
// movements, computes balance deltas, and hands each posting to the
// repository as one atomic unit of work.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTransactionService creates the transaction engine.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateRequest applies the posting validation rules in their documented
// order: account-presence by type, positive amount, source existence and
// state, funds, destination existence and state. The first failing rule
// wins. No side effects.
func (s *transactionService) validateRequest(ctx context.Context, req dto.CreateTransactionRequest) (fromAccount, toAccount *domain.Account, err error) {
	switch req.Type {
	case domain.Transfer:
		if req.FromAccountID == nil || req.ToAccountID == nil {
			return nil, nil, ErrTransferAccounts
		}
		if *req.FromAccountID == *req.ToAccountID {
			return nil, nil, ErrSameAccount
		}
	case domain.Withdrawal, domain.Payment:
		if req.FromAccountID == nil {
			return nil, nil, ErrWithdrawalAccount
		}
	case domain.Deposit:
		if req.ToAccountID == nil {
			return nil, nil, ErrDepositAccount
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}

	if !req.Amount.IsPositive() {
		return nil, nil, ErrAmountNotPositive
	}

	if req.FromAccountID != nil {
		fromAccount, err = s.accountRepo.FindAccountByID(ctx, *req.FromAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, ErrSourceNotFound
			}
			return nil, nil, fmt.Errorf("failed to load source account: %w", err)
		}
		if !fromAccount.IsActive {
			return nil, nil, ErrSourceInactive
		}
		// The debit leg may spend the whole balance but not a cent more.
		if req.Amount.GreaterThan(fromAccount.Balance) {
			return nil, nil, fmt.Errorf("%w: available %s, required %s",
				apperrors.ErrInsufficientFunds, fromAccount.Balance.StringFixed(2), req.Amount.StringFixed(2))
		}
	}

	if req.ToAccountID != nil {
		toAccount, err = s.accountRepo.FindAccountByID(ctx, *req.ToAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, ErrDestNotFound
			}
			return nil, nil, fmt.Errorf("failed to load destination account: %w", err)
		}
		if !toAccount.IsActive {
			return nil, nil, ErrDestInactive
		}
	}

	return fromAccount, toAccount, nil
}

// newTransaction builds a transaction record for the request with a fresh id
// and reference.
func (s *transactionService) newTransaction(req dto.CreateTransactionRequest, status domain.TransactionStatus, now time.Time) (domain.Transaction, error) {
	reference, err := referenceGenerator()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to generate transaction reference: %w", err)
	}
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Type:          req.Type,
		Amount:        req.Amount,
		CurrencyCode:  req.CurrencyCode,
		Description:   req.Description,
		Status:        status,
		Reference:     reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}, nil
}

// PostTransaction is the synchronous posting path: validate, then commit the
// balance effects and the completed transaction row in one atomic unit of
// work. Conflicts retry the whole sequence with fresh ids so stale balance
// reads are never reused.
func (s *transactionService) PostTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var lastErr error
	for attempt := 0; attempt < postingRetries; attempt++ {
		result, err := s.postOnce(ctx, req)
		if err == nil {
			logger.Info("transaction posted",
				slog.String("transaction_id", result.Transaction.TransactionID),
				slog.String("reference", result.Transaction.Reference),
				slog.String("type", string(req.Type)),
				slog.String("amount", req.Amount.StringFixed(2)))
			return result, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("transaction rejected",
				slog.String("type", string(req.Type)),
				slog.String("reason", err.Error()))
			return nil, err
		}
		lastErr = err
		logger.Warn("posting conflict, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}
	return nil, fmt.Errorf("posting failed after %d attempts: %w", postingRetries, lastErr)
}

func (s *transactionService) postOnce(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResult, error) {
	if _, _, err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn, err := s.newTransaction(req, domain.StatusCompleted, now)
	if err != nil {
		return nil, err
	}

	primaryID := txn.PrimaryAccountID()
	previous, updated, err := s.txnRepo.SavePosting(ctx, txn, txn.BalanceChanges(), primaryID)
	if err != nil {
		return nil, err
	}

	result := &dto.TransactionResult{
		Transaction:     dto.ToTransactionResponse(&txn),
		AccountID:       primaryID,
		PreviousBalance: previous,
		NewBalance:      updated,
	}
	return result, nil
}

// CreateTransaction is the two-phase path: validate and persist a pending
// transaction without touching any balance.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, _, err := s.validateRequest(ctx, req); err != nil {
		logger.Warn("transaction rejected",
			slog.String("type", string(req.Type)),
			slog.String("reason", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	var lastErr error
	for attempt := 0; attempt < postingRetries; attempt++ {
		txn, err := s.newTransaction(req, domain.StatusPending, now)
		if err != nil {
			return nil, err
		}
		err = s.txnRepo.SaveTransaction(ctx, txn)
		if err == nil {
			logger.Info("pending transaction created",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("reference", txn.Reference))
			return &txn, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		// Reference collided with an existing row; regenerate and retry.
		lastErr = err
	}
	return nil, fmt.Errorf("failed to create transaction after %d attempts: %w", postingRetries, lastErr)
}

// ProcessTransaction applies a pending transaction's balance effects against
// current balances. On success the transaction completes atomically with its
// balance effects; on failure the status write to failed happens outside the
// rolled-back unit of work so the outcome is always recorded.
func (s *transactionService) ProcessTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPending {
		return nil, ErrTransactionPending
	}

	if err := s.applyPending(ctx, txn); err != nil {
		s.recordFailedStatus(ctx, transactionID)
		logger.Warn("transaction processing failed",
			slog.String("transaction_id", transactionID),
			slog.String("reason", err.Error()))
		return nil, err
	}

	processed, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	logger.Info("transaction processed",
		slog.String("transaction_id", transactionID),
		slog.String("reference", processed.Reference))
	return processed, nil
}

// recordFailedStatus marks a transaction failed after its application was
// rejected. The in-memory status read before application is stale by now, so
// the row's current status is re-read first: a concurrent processor may have
// completed the transaction in the meantime, and a terminal status is never
// overwritten. The store enforces the same rule, so the window between the
// re-read and the write is covered too.
func (s *transactionService) recordFailedStatus(ctx context.Context, transactionID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	current, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		logger.Error("failed to re-read transaction before recording failed status",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()))
		return
	}
	if !current.Status.CanTransitionTo(domain.StatusFailed) {
		logger.Warn("transaction no longer pending, failed status not recorded",
			slog.String("transaction_id", transactionID),
			slog.String("status", string(current.Status)))
		return
	}
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusFailed, time.Now().UTC()); err != nil {
		logger.Error("failed to record failed status",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()))
	}
}

// applyPending re-validates the stored transaction against current balances
// and commits its balance effects together with the completed status. It
// retries on storage conflicts.
func (s *transactionService) applyPending(ctx context.Context, txn *domain.Transaction) error {
	req := dto.CreateTransactionRequest{
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		CurrencyCode:  txn.CurrencyCode,
		Description:   txn.Description,
	}

	var lastErr error
	for attempt := 0; attempt < postingRetries; attempt++ {
		// Balances may have moved since creation; validate against what is
		// there now, not what was there then.
		if _, _, err := s.validateRequest(ctx, req); err != nil {
			return err
		}
		err := s.txnRepo.ApplyPosting(ctx, txn.TransactionID, txn.BalanceChanges(), time.Now().UTC())
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("posting failed after %d attempts: %w", postingRetries, lastErr)
}

// CancelTransaction cancels a still-pending transaction. A pending
// transaction never mutated balances, so there is nothing to undo.
func (s *transactionService) CancelTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPending {
		return nil, ErrCancelNotPending
	}

	newStatus, err := txn.Status.Transition(domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, newStatus, now); err != nil {
		// A concurrent processor may have completed the transaction between the
		// read above and this write; the store refuses to overwrite it.
		if errors.Is(err, apperrors.ErrInvalidState) {
			return nil, ErrCancelNotPending
		}
		return nil, err
	}

	txn.Status = newStatus
	txn.LastUpdatedAt = now
	logger.Info("transaction cancelled", slog.String("transaction_id", transactionID))
	return txn, nil
}

// GetTransactionByID retrieves a transaction by its internal id.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// GetTransactionByReference retrieves a transaction by its unique reference.
func (s *transactionService) GetTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByReference(ctx, reference)
}

// GetTransactionsForAccount retrieves an account's transactions, newest
// first. The account must exist.
func (s *transactionService) GetTransactionsForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.txnRepo.FindTransactionsByAccountID(ctx, accountID)
}

// GetTransactionsForAccountByDateRange narrows GetTransactionsForAccount to
// a creation window.
func (s *transactionService) GetTransactionsForAccountByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.txnRepo.FindTransactionsByAccountIDAndDateRange(ctx, accountID, start, end)
}

// GetPendingTransactions retrieves pending transactions oldest first.
func (s *transactionService) GetPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.txnRepo.FindPendingTransactions(ctx)
}

// GetTransactionsByDateRange retrieves transactions created in the window.
func (s *transactionService) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	return s.txnRepo.FindTransactionsByDateRange(ctx, start, end)
}

// ListTransactions retrieves all transactions, newest first.
func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.txnRepo.ListTransactions(ctx)
}
