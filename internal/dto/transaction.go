package dto

import (
	"time"

	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines a requested money movement. Which of the
// two account ids must be present depends on the type; the engine enforces
// that, not the binding layer, so rejections carry its reason strings.
type CreateTransactionRequest struct {
	FromAccountID *string                `json:"fromAccountID" binding:"omitempty,uuid"`
	ToAccountID   *string                `json:"toAccountID" binding:"omitempty,uuid"`
	Type          domain.TransactionType `json:"type" binding:"required,oneof=deposit withdrawal transfer payment"`
	Amount        decimal.Decimal        `json:"amount" binding:"required"`
	CurrencyCode  string                 `json:"currencyCode" binding:"required,currencycode"`
	Description   string                 `json:"description"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	FromAccountID *string                  `json:"fromAccountID,omitempty"`
	ToAccountID   *string                  `json:"toAccountID,omitempty"`
	Type          domain.TransactionType   `json:"type"`
	Amount        decimal.Decimal          `json:"amount"`
	CurrencyCode  string                   `json:"currencyCode"`
	Description   string                   `json:"description"`
	Status        domain.TransactionStatus `json:"status"`
	Reference     string                   `json:"reference"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// TransactionResult is returned by the synchronous posting path. It carries
// the caller-visible balance movement of the primary account.
type TransactionResult struct {
	Transaction     TransactionResponse `json:"transaction"`
	AccountID       string              `json:"accountID"`
	PreviousBalance decimal.Decimal     `json:"previousBalance"`
	NewBalance      decimal.Decimal     `json:"newBalance"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		CurrencyCode:  txn.CurrencyCode,
		Description:   txn.Description,
		Status:        txn.Status,
		Reference:     txn.Reference,
		CreatedAt:     txn.CreatedAt,
		UpdatedAt:     txn.LastUpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
