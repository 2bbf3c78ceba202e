package ports

import (
	"context"
	"time"

	"wallet-ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSource fetches a conversion rate between two currency codes.
// Implementations special-case the identity pair (rate 1, no network call)
// and surface every failure mode as domain.ErrRateUnavailable. Callers must
// not retry; a failed lookup aborts the enclosing operation.
type RateSource interface {
	Rate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error)
}

// RateCache is a best-effort cache for exchange rates. Errors are advisory;
// callers fall through to a live lookup.
type RateCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// LedgerService is the balance-mutation engine: it validates commands,
// acquires wallet locks, converts amounts, applies atomic balance updates
// and appends immutable transaction records. No operation partially
// succeeds from the caller's point of view.
type LedgerService interface {
	Deposit(ctx context.Context, req DepositRequest) (*MutationResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*MutationResult, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.TransactionDetails, int64, error)
}

// DepositRequest holds validated input for a deposit.
type DepositRequest struct {
	OwnerID  uuid.UUID
	Currency domain.Currency
	BankRef  string
	Amount   decimal.Decimal
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	OwnerID  uuid.UUID
	Currency domain.Currency
	BankRef  string
	Amount   decimal.Decimal
}

// TransferRequest holds validated input for a cross-currency transfer.
// Amount is denominated in the source currency.
type TransferRequest struct {
	OwnerID             uuid.UUID
	SourceCurrency      domain.Currency
	DestinationCurrency domain.Currency
	Amount              decimal.Decimal
}

// MutationResult is the outcome of a deposit or withdrawal.
type MutationResult struct {
	RecordID int64
	BankRef  string
	Amount   decimal.Decimal
	Balance  decimal.Decimal
	Currency domain.Currency
}

// TransferResult is the outcome of a transfer: both updated balances, the
// rate used, and both the source-currency and converted amounts.
type TransferResult struct {
	RecordID            int64
	SourceCurrency      domain.Currency
	DestinationCurrency domain.Currency
	SourceBalance       decimal.Decimal
	DestinationBalance  decimal.Decimal
	Rate                decimal.Decimal
	SourceAmount        decimal.Decimal
	ConvertedAmount     decimal.Decimal
}

// WalletService manages wallet lifecycle for an owner.
type WalletService interface {
	// CreateWallet creates a zero-balance wallet for the owner in the given
	// currency.
	CreateWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error)
	// ProvisionOwner creates the default reference-currency wallet for a
	// freshly created owner. Called explicitly by the owner-provisioning
	// collaborator.
	ProvisionOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	GetWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error)
	ListWallets(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error)
}
