package domain

import (
	"fmt"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction represents.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Transfer   TransactionType = "transfer"
	Payment    TransactionType = "payment"
)

// TransactionStatus is the processing state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// IsTerminal reports whether no further status transition is permitted.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may legally move to next.
// The only legal transitions are pending -> {completed, failed, cancelled}.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != StatusPending {
		return false
	}
	return next.IsTerminal()
}

// Transition validates and returns the new status, or fails with
// ErrInvalidState. Status changes must go through this check rather than
// direct field assignment.
func (s TransactionStatus) Transition(next TransactionStatus) (TransactionStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: cannot transition transaction from %s to %s", apperrors.ErrInvalidState, s, next)
	}
	return next, nil
}

// Transaction is an immutable record of a money movement between accounts.
// Besides Status (which follows the pending -> terminal state machine) no
// field changes after creation.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary key (UUID)
	FromAccountID *string           `json:"fromAccountID"` // Debited account, nil for deposits
	ToAccountID   *string           `json:"toAccountID"`   // Credited account, nil for withdrawals/payments
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"` // Strictly positive
	CurrencyCode  string            `json:"currencyCode"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	Reference     string            `json:"reference"` // Unique external citation (TXN-...)
	AuditFields
}

// Debits reports whether the transaction takes money out of FromAccountID.
func (t Transaction) Debits() bool {
	switch t.Type {
	case Withdrawal, Payment, Transfer:
		return true
	}
	return false
}

// Credits reports whether the transaction puts money into ToAccountID.
func (t Transaction) Credits() bool {
	switch t.Type {
	case Deposit, Transfer:
		return true
	}
	return false
}

// PrimaryAccountID is the account whose balance the caller most cares
// about: the debited account when there is one, otherwise the credited one.
func (t Transaction) PrimaryAccountID() string {
	if t.Debits() && t.FromAccountID != nil {
		return *t.FromAccountID
	}
	if t.ToAccountID != nil {
		return *t.ToAccountID
	}
	return ""
}

// BalanceChanges returns the net balance delta per account id for this
// transaction: negative Amount on the debit leg, positive on the credit leg.
func (t Transaction) BalanceChanges() map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, 2)
	if t.Debits() && t.FromAccountID != nil {
		changes[*t.FromAccountID] = changes[*t.FromAccountID].Sub(t.Amount)
	}
	if t.Credits() && t.ToAccountID != nil {
		changes[*t.ToAccountID] = changes[*t.ToAccountID].Add(t.Amount)
	}
	return changes
}
