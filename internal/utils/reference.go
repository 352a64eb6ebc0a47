package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// GenerateTransactionReference produces an externally citable reference of
// the form TXN-<unix millis>-<random hex>. The random component comes from
// crypto/rand, so concurrent generation does not collide in practice; the
// storage-level uniqueness constraint backstops it, and callers retry on a
// duplicate rather than accept one.
func GenerateTransactionReference() (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to read random bytes for reference: %w", err)
	}
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix)), nil
}

// GenerateAccountNumber produces a human-referenceable account number of the
// form ACC<unix millis><4 random digits>. Uniqueness is enforced by the
// accounts.account_number constraint; generation collisions are retried.
func GenerateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to read random digits for account number: %w", err)
	}
	return fmt.Sprintf("ACC%d%04d", time.Now().UnixMilli(), n.Int64()), nil
}
