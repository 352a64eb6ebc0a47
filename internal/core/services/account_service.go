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
	"github.com/shopspring/decimal"
)

// accountService provides account CRUD on top of the account repository.
// Balance mutation is out of its reach; that belongs to the transaction
// engine alone.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserReader
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, userRepo portsrepo.UserReader) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens an account for an existing user. The owning user must
// already exist; there is no fixture backdoor here, seeding belongs to test
// setup.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s not found", apperrors.ErrNotFound, req.UserID)
		}
		return nil, fmt.Errorf("failed to verify user %s: %w", req.UserID, err)
	}

	initialBalance := decimal.Zero
	if req.InitialBalance != nil {
		if req.InitialBalance.IsNegative() {
			return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrValidation)
		}
		initialBalance = *req.InitialBalance
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       req.UserID,
		HolderName:   req.HolderName,
		AccountType:  req.AccountType,
		Balance:      initialBalance,
		CurrencyCode: req.CurrencyCode,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	// The account number carries a random component; a storage-level
	// collision is retried with a fresh number.
	var lastErr error
	for attempt := 0; attempt < postingRetries; attempt++ {
		number, err := utils.GenerateAccountNumber()
		if err != nil {
			return nil, err
		}
		account.AccountNumber = number
		err = s.accountRepo.SaveAccount(ctx, account)
		if err == nil {
			logger.Info("account created",
				slog.String("account_id", account.AccountID),
				slog.String("account_number", account.AccountNumber),
				slog.String("user_id", account.UserID))
			return &account, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to create account after %d attempts: %w", postingRetries, lastErr)
}

// GetAccountByID retrieves a specific account by its unique identifier.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByNumber retrieves an account by its account number.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByNumber(ctx, accountNumber)
}

// GetAccountsByUser retrieves every account owned by a user.
func (s *accountService) GetAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.FindAccountsByUserID(ctx, userID)
}

// GetActiveAccountsByUser retrieves the active accounts owned by a user.
func (s *accountService) GetActiveAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.FindActiveAccountsByUserID(ctx, userID)
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// UpdateAccount updates holder name, type, or active flag. Balance and
// account number are immutable here.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.HolderName != nil {
		account.HolderName = *req.HolderName
		updated = true
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}

	logger.Info("account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account inactive. Accounts are never hard
// deleted while transactions reference them.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, time.Now().UTC()); err != nil {
		return err
	}
	logger.Info("account deactivated", slog.String("account_id", accountID))
	return nil
}
