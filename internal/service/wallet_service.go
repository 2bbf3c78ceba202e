package service

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"
	"wallet-ledger-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletStore     ports.WalletStore
	defaultCurrency domain.Currency
	log             zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl. defaultCurrency is the
// deployment's reference currency, used when provisioning a fresh owner.
func NewWalletService(walletStore ports.WalletStore, defaultCurrency domain.Currency, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletStore:     walletStore,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// CreateWallet creates a zero-balance wallet for the owner in the given
// currency. The store's unique constraints reject duplicate (owner,
// currency) pairs and address collisions.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	if !currency.IsSupported() {
		return nil, apperror.ErrUnsupportedCurrency(currency.String())
	}

	wallet := domain.NewWallet(ownerID, currency)
	if err := s.walletStore.Create(ctx, wallet); err != nil {
		if errors.Is(err, domain.ErrDuplicateWallet) {
			return nil, apperror.ErrDuplicateWallet()
		}
		return nil, apperror.ErrUnavailable(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("owner_id", ownerID.String()).
		Str("currency", currency.String()).
		Str("address", wallet.Address).
		Msg("wallet created")

	return wallet, nil
}

// ProvisionOwner creates the default reference-currency wallet for a newly
// created owner. The owner-provisioning collaborator calls this explicitly;
// wallet creation is never a hidden side effect of owner creation.
func (s *WalletServiceImpl) ProvisionOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	return s.CreateWallet(ctx, ownerID, s.defaultCurrency)
}

// GetWallet fetches one of the owner's wallets by currency.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	wallet, err := s.walletStore.GetByOwnerAndCurrency(ctx, ownerID, currency)
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}
	return wallet, nil
}

// ListWallets returns all wallets belonging to the owner.
func (s *WalletServiceImpl) ListWallets(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	wallets, err := s.walletStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}
