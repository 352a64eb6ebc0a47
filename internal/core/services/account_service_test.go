package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/corebank/banking-api/internal/core/domain"
	portssvc "github.com/corebank/banking-api/internal/core/ports/services"
	"github.com/corebank/banking-api/internal/core/services"
	"github.com/corebank/banking-api/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.AccountSvcFacade
	owner           domain.User
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockUserRepo)

	suite.owner = domain.User{
		UserID:    uuid.NewString(),
		Email:     "owner@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func (suite *AccountServiceTestSuite) createRequest() dto.CreateAccountRequest {
	return dto.CreateAccountRequest{
		UserID:       suite.owner.UserID,
		HolderName:   "Ada Lovelace",
		AccountType:  domain.Checking,
		CurrencyCode: "USD",
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := suite.createRequest()
	initial := decimal.RequireFromString("250.00")
	req.InitialBalance = &initial

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.UserID == suite.owner.UserID &&
			a.Balance.Equal(initial) &&
			a.IsActive &&
			strings.HasPrefix(a.AccountNumber, "ACC")
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.True(account.Balance.Equal(initial))
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsToZeroBalance() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Balance.IsZero()
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.True(account.Balance.IsZero())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UserMustExist() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RejectsNegativeInitialBalance() {
	ctx := context.Background()
	req := suite.createRequest()
	negative := decimal.RequireFromString("-0.01")
	req.InitialBalance = &negative

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RetriesOnNumberCollision() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.NotNil(account)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", 2)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_PartialUpdate() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		UserID:      suite.owner.UserID,
		HolderName:  "Ada Lovelace",
		AccountType: domain.Checking,
		IsActive:    true,
	}
	newName := "Ada King"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.HolderName == newName && a.AccountType == domain.Checking
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{HolderName: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, account.HolderName)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFieldsIsNoop() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()

	account, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{})

	suite.Require().NoError(err)
	suite.NotNil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("DeactivateAccount", ctx, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
