package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType for DB storage.
type TransactionType string

// TransactionStatus mirrors domain.TransactionStatus for DB storage.
type TransactionStatus string

// Transaction is the DB representation of a transaction row.
// from_account_id and to_account_id are nullable FKs to accounts.
type Transaction struct {
	TransactionID string            `db:"transaction_id"`
	FromAccountID *string           `db:"from_account_id"`
	ToAccountID   *string           `db:"to_account_id"`
	Type          TransactionType   `db:"type"`
	Amount        decimal.Decimal   `db:"amount"` // NUMERIC(15,2), > 0
	CurrencyCode  string            `db:"currency_code"`
	Description   string            `db:"description"`
	Status        TransactionStatus `db:"status"`
	Reference     string            `db:"reference"` // Unique
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}
