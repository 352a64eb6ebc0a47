package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account. The simplified product only opens
// checking accounts but the set mirrors what the schema allows.
type AccountType string

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Credit   AccountType = "credit"
)

// Account represents a customer account holding a balance in one currency.
//
// Balance is only ever mutated through the transaction engine's posting
// path; nothing else may write it.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	UserID        string          `json:"userID"`        // Owning user (FK, required)
	HolderName    string          `json:"holderName"`    // Display name of the holder
	AccountNumber string          `json:"accountNumber"` // Unique, human-referenceable (ACC...)
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`      // Never negative after a committed operation
	CurrencyCode  string          `json:"currencyCode"` // 3-letter ISO-style code
	IsActive      bool            `json:"isActive"`     // Soft-delete flag
	AuditFields
}
