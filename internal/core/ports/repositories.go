package ports

import (
	"context"

	"wallet-ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletStore defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks and rely on
// pessimistic row locking; the store is the sole serialization point for
// balance mutation.
type WalletStore interface {
	// Create inserts a new wallet. Returns domain.ErrDuplicateWallet when a
	// wallet for the same (owner, currency) or the same address exists.
	Create(ctx context.Context, wallet *domain.Wallet) error
	// GetByOwnerAndCurrency returns nil, nil when no wallet exists.
	GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error)
	// GetByAddress returns nil, nil when no wallet exists.
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error)
	// GetForUpdate locks the wallet row. MUST be called within a transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error)
	// GetByAddressForUpdate locks the wallet row. MUST be called within a transaction.
	GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Wallet, error)
	// ApplyDelta atomically adds delta (possibly negative) to the wallet
	// balance and returns the updated wallet. Returns
	// domain.ErrInsufficientBalance when the result would be negative; the
	// check happens inside the statement, closing the read-then-write race.
	ApplyDelta(ctx context.Context, tx pgx.Tx, address string, delta decimal.Decimal) (*domain.Wallet, error)
}

// TransactionLog is the append-only durable store of transaction records.
// Records are never updated or deleted.
type TransactionLog interface {
	// Append writes one record inside the given transaction and returns the
	// assigned record id.
	Append(ctx context.Context, tx pgx.Tx, record *domain.TransactionRecord) (int64, error)
	// ListForOwner returns records newest first plus the total count.
	ListForOwner(ctx context.Context, params TransactionListParams) ([]domain.TransactionRecord, int64, error)
}

// TransactionListParams holds pagination for listing transaction records.
type TransactionListParams struct {
	OwnerID  uuid.UUID
	Page     int
	PageSize int
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
