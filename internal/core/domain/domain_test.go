package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency_IsSupported(t *testing.T) {
	assert.True(t, PLN.IsSupported())
	assert.True(t, USD.IsSupported())
	assert.False(t, Currency("XXX").IsSupported())
	assert.False(t, Currency("usd").IsSupported())
	assert.False(t, Currency("").IsSupported())
}

func TestNewWallet(t *testing.T) {
	ownerID := uuid.New()
	w := NewWallet(ownerID, USD)

	require.NotNil(t, w)
	assert.Equal(t, ownerID, w.OwnerID)
	assert.Equal(t, USD, w.Currency)
	assert.True(t, w.Balance.IsZero())
	assert.NotEmpty(t, w.Address)
	assert.NotEqual(t, uuid.Nil, w.ID)
}

func TestNewWalletAddress_ContainsOwnerFragment(t *testing.T) {
	ownerID := uuid.New()
	addr := NewWalletAddress(ownerID)

	assert.Len(t, addr, 26)
	assert.Contains(t, addr, ownerID.String()[:8])
}

func TestNewWalletAddress_DistinctPerCall(t *testing.T) {
	ownerID := uuid.New()
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		addr := NewWalletAddress(ownerID)
		_, dup := seen[addr]
		require.False(t, dup, "address collision: %s", addr)
		seen[addr] = struct{}{}
	}
}
