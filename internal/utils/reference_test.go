package utils_test

import (
	"regexp"
	"testing"

	"github.com/corebank/banking-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTransactionReference(t *testing.T) {
	pattern := regexp.MustCompile(`^TXN-\d+-[0-9a-f]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := utils.GenerateTransactionReference()
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)
		assert.False(t, seen[ref], "reference %s generated twice", ref)
		seen[ref] = true
	}
}

func TestGenerateAccountNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ACC\d+$`)

	number, err := utils.GenerateAccountNumber()
	require.NoError(t, err)
	assert.Regexp(t, pattern, number)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-password", hash)
	assert.True(t, utils.CheckPasswordHash("s3cret-password", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-password", hash))
}
