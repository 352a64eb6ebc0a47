package domain_test

import (
	"testing"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusFailed.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
}

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	// Pending may move to any terminal status.
	assert.True(t, domain.StatusPending.CanTransitionTo(domain.StatusCompleted))
	assert.True(t, domain.StatusPending.CanTransitionTo(domain.StatusFailed))
	assert.True(t, domain.StatusPending.CanTransitionTo(domain.StatusCancelled))

	// Pending cannot stay pending via a transition.
	assert.False(t, domain.StatusPending.CanTransitionTo(domain.StatusPending))

	// Terminal statuses never move again.
	for _, from := range []domain.TransactionStatus{domain.StatusCompleted, domain.StatusFailed, domain.StatusCancelled} {
		for _, to := range []domain.TransactionStatus{domain.StatusPending, domain.StatusCompleted, domain.StatusFailed, domain.StatusCancelled} {
			assert.False(t, from.CanTransitionTo(to), "expected %s -> %s to be rejected", from, to)
		}
	}
}

func TestTransactionStatus_Transition(t *testing.T) {
	next, err := domain.StatusPending.Transition(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, next)

	next, err = domain.StatusCompleted.Transition(domain.StatusCancelled)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	// The original status is returned unchanged on a rejected transition.
	assert.Equal(t, domain.StatusCompleted, next)
}

func TestTransaction_BalanceChanges(t *testing.T) {
	from := uuid.NewString()
	to := uuid.NewString()
	amount := decimal.RequireFromString("125.50")

	t.Run("deposit credits destination only", func(t *testing.T) {
		txn := domain.Transaction{Type: domain.Deposit, ToAccountID: &to, Amount: amount}
		changes := txn.BalanceChanges()
		require.Len(t, changes, 1)
		assert.True(t, changes[to].Equal(amount))
		assert.Equal(t, to, txn.PrimaryAccountID())
	})

	t.Run("withdrawal debits source only", func(t *testing.T) {
		txn := domain.Transaction{Type: domain.Withdrawal, FromAccountID: &from, Amount: amount}
		changes := txn.BalanceChanges()
		require.Len(t, changes, 1)
		assert.True(t, changes[from].Equal(amount.Neg()))
		assert.Equal(t, from, txn.PrimaryAccountID())
	})

	t.Run("payment debits source only", func(t *testing.T) {
		txn := domain.Transaction{Type: domain.Payment, FromAccountID: &from, Amount: amount}
		changes := txn.BalanceChanges()
		require.Len(t, changes, 1)
		assert.True(t, changes[from].Equal(amount.Neg()))
	})

	t.Run("transfer moves the amount and conserves the total", func(t *testing.T) {
		txn := domain.Transaction{Type: domain.Transfer, FromAccountID: &from, ToAccountID: &to, Amount: amount}
		changes := txn.BalanceChanges()
		require.Len(t, changes, 2)
		assert.True(t, changes[from].Equal(amount.Neg()))
		assert.True(t, changes[to].Equal(amount))

		sum := decimal.Zero
		for _, delta := range changes {
			sum = sum.Add(delta)
		}
		assert.True(t, sum.IsZero(), "transfer deltas must sum to zero, got %s", sum)
		assert.Equal(t, from, txn.PrimaryAccountID())
	})
}
