package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/corebank/banking-api/internal/core/domain"
	portssvc "github.com/corebank/banking-api/internal/core/ports/services"
	"github.com/corebank/banking-api/internal/dto"
	"github.com/corebank/banking-api/internal/handlers"
	"github.com/corebank/banking-api/internal/platform/config"
	"github.com/corebank/banking-api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) PostTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ProcessTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) CancelTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionsForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionsForAccountByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetActiveAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

// --- Test Suite Setup ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockTxnSvc  *MockTransactionService
	mockAcctSvc *MockAccountService
	authHeader  string
}

func (suite *TransactionHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidators()
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	suite.mockTxnSvc = new(MockTransactionService)
	suite.mockAcctSvc = new(MockAccountService)

	cfg := &config.Config{
		JWTSecret:    "handler-test-secret",
		IsProduction: true, // skip swagger routes
	}
	container := &portssvc.ServiceContainer{
		Account:     suite.mockAcctSvc,
		Transaction: suite.mockTxnSvc,
		User:        new(MockUserService),
		Auth:        new(MockAuthService),
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)

	token, _, err := utils.GenerateJWT(uuid.NewString(), cfg.JWTSecret, time.Hour, "banking-api")
	suite.Require().NoError(err)
	suite.authHeader = "Bearer " + token
}

func (suite *TransactionHandlerTestSuite) doRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestPostTransaction_Created() {
	from := uuid.NewString()
	to := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		FromAccountID: &from,
		ToAccountID:   &to,
		Type:          domain.Transfer,
		Amount:        decimal.RequireFromString("75.00"),
		CurrencyCode:  "USD",
	}
	result := &dto.TransactionResult{
		Transaction: dto.TransactionResponse{
			TransactionID: uuid.NewString(),
			Type:          domain.Transfer,
			Status:        domain.StatusCompleted,
			Reference:     "TXN-1700000000000-0a0b0c0d",
		},
		AccountID:       from,
		PreviousBalance: decimal.RequireFromString("100.00"),
		NewBalance:      decimal.RequireFromString("25.00"),
	}

	suite.mockTxnSvc.On("PostTransaction", mock.Anything, mock.AnythingOfType("dto.CreateTransactionRequest")).Return(result, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.TransactionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(result.AccountID, got.AccountID)
	suite.True(got.NewBalance.Equal(result.NewBalance))
	suite.mockTxnSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_InsufficientFundsIs422() {
	from := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		FromAccountID: &from,
		Type:          domain.Withdrawal,
		Amount:        decimal.RequireFromString("75.00"),
		CurrencyCode:  "USD",
	}

	suite.mockTxnSvc.On("PostTransaction", mock.Anything, mock.AnythingOfType("dto.CreateTransactionRequest")).
		Return(nil, fmt.Errorf("%w: available 10.00, required 75.00", apperrors.ErrInsufficientFunds)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", reqBody)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_ValidationErrorIs400() {
	from := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		FromAccountID: &from,
		Type:          domain.Transfer,
		Amount:        decimal.RequireFromString("75.00"),
		CurrencyCode:  "USD",
	}

	suite.mockTxnSvc.On("PostTransaction", mock.Anything, mock.AnythingOfType("dto.CreateTransactionRequest")).
		Return(nil, fmt.Errorf("%w: transfer requires both accounts", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_MalformedBodyIs400() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_RequiresAuth() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestProcessTransaction_ConflictIs409() {
	id := uuid.NewString()

	suite.mockTxnSvc.On("ProcessTransaction", mock.Anything, id).
		Return(nil, fmt.Errorf("%w: transaction is not pending", apperrors.ErrInvalidState)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/transactions/"+id+"/process", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCancelTransaction_OK() {
	id := uuid.NewString()
	cancelled := &domain.Transaction{
		TransactionID: id,
		Type:          domain.Deposit,
		Status:        domain.StatusCancelled,
		Reference:     "TXN-1700000000000-0a0b0c0d",
	}

	suite.mockTxnSvc.On("CancelTransaction", mock.Anything, id).Return(cancelled, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/transactions/"+id+"/cancel", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(domain.StatusCancelled, got.Status)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFoundIs404() {
	id := uuid.NewString()

	suite.mockTxnSvc.On("GetTransactionByID", mock.Anything, id).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/transactions/"+id, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_BadDateRangeIs400() {
	w := suite.doRequest(http.MethodGet, "/api/v1/transactions?from=not-a-date", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "GetTransactionsByDateRange", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestListPendingTransactions_OK() {
	pending := []domain.Transaction{
		{TransactionID: uuid.NewString(), Type: domain.Deposit, Status: domain.StatusPending},
	}

	suite.mockTxnSvc.On("GetPendingTransactions", mock.Anything).Return(pending, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/transactions/pending", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got, 1)
	suite.Equal(domain.StatusPending, got[0].Status)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
