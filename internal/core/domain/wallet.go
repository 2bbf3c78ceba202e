package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a single owner's balance in one currency.
// The balance is a scale-2 decimal and is never observed negative;
// all mutation goes through the store's guarded delta operation.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Currency  Currency        `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Address   string          `json:"address"` // immutable public identifier, unique across all wallets
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewWallet creates a zero-balance wallet with a freshly generated address.
func NewWallet(ownerID uuid.UUID, currency Currency) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Currency:  currency,
		Balance:   decimal.Zero,
		Address:   NewWalletAddress(ownerID),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewWalletAddress derives a wallet address from a random component plus a
// fragment of the owner id. The address is opaque to callers; global
// uniqueness is enforced by the store's unique constraint, not by the
// generator alone.
func NewWalletAddress(ownerID uuid.UUID) string {
	return uuid.NewString()[:18] + ownerID.String()[:8]
}
