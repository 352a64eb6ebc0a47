package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for DB storage.
type AccountType string

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Credit   AccountType = "credit"
)

// Account is the DB representation of an account row.
type Account struct {
	AccountID     string          `db:"account_id"`
	UserID        string          `db:"user_id"`
	HolderName    string          `db:"holder_name"`
	AccountNumber string          `db:"account_number"` // Unique
	AccountType   AccountType     `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"` // NUMERIC(15,2), CHECK (balance >= 0)
	CurrencyCode  string          `db:"currency_code"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
