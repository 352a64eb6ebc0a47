package dto

import (
	"time"

	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
// The owning user must already exist.
type CreateAccountRequest struct {
	UserID         string             `json:"userID" binding:"required,uuid"`
	HolderName     string             `json:"holderName" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=checking savings credit"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,currencycode"`
	InitialBalance *decimal.Decimal   `json:"initialBalance"` // Optional, must not be negative
}

// UpdateAccountRequest defines the fields an account update may touch.
// Balance is deliberately absent; it only moves through postings.
type UpdateAccountRequest struct {
	HolderName  *string             `json:"holderName"`
	AccountType *domain.AccountType `json:"accountType" binding:"omitempty,oneof=checking savings credit"`
	IsActive    *bool               `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	UserID        string             `json:"userID"`
	HolderName    string             `json:"holderName"`
	AccountNumber string             `json:"accountNumber"`
	AccountType   domain.AccountType `json:"accountType"`
	Balance       decimal.Decimal    `json:"balance"`
	CurrencyCode  string             `json:"currencyCode"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		UserID:        acc.UserID,
		HolderName:    acc.HolderName,
		AccountNumber: acc.AccountNumber,
		AccountType:   acc.AccountType,
		Balance:       acc.Balance,
		CurrencyCode:  acc.CurrencyCode,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accs))
	for i := range accs {
		out[i] = ToAccountResponse(&accs[i])
	}
	return out
}
