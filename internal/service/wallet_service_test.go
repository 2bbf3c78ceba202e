package service

import (
	"context"
	"errors"
	"testing"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc         *WalletServiceImpl
	walletStore *mocks.MockWalletStore
	ctrl        *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletStore: mocks.NewMockWalletStore(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewWalletService(d.walletStore, domain.PLN, zerolog.Nop())
	return d
}

func TestWalletService_CreateWallet_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()

	d.walletStore.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, ownerID, w.OwnerID)
			assert.Equal(t, domain.EUR, w.Currency)
			assert.True(t, w.Balance.IsZero())
			assert.NotEmpty(t, w.Address)
			return nil
		})

	wallet, err := d.svc.CreateWallet(ctx, ownerID, domain.EUR)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, domain.EUR, wallet.Currency)
}

func TestWalletService_CreateWallet_UnsupportedCurrency(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	wallet, err := d.svc.CreateWallet(context.Background(), uuid.New(), domain.Currency("XYZ"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "WAL_006")
}

func TestWalletService_CreateWallet_Duplicate(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletStore.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrDuplicateWallet)

	wallet, err := d.svc.CreateWallet(ctx, uuid.New(), domain.USD)
	assert.Nil(t, wallet)
	assertAppError(t, err, "WAL_005")
}

func TestWalletService_ProvisionOwner_UsesDefaultCurrency(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()

	d.walletStore.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, domain.PLN, w.Currency)
			return nil
		})

	wallet, err := d.svc.ProvisionOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, domain.PLN, wallet.Currency)
}

func TestWalletService_GetWallet_NotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()

	d.walletStore.EXPECT().GetByOwnerAndCurrency(ctx, ownerID, domain.USD).Return(nil, nil)

	wallet, err := d.svc.GetWallet(ctx, ownerID, domain.USD)
	assert.Nil(t, wallet)
	assertAppError(t, err, "WAL_002")
}

func TestWalletService_ListWallets(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	wallets := []domain.Wallet{
		{OwnerID: ownerID, Currency: domain.PLN},
		{OwnerID: ownerID, Currency: domain.USD},
	}

	d.walletStore.EXPECT().ListByOwner(ctx, ownerID).Return(wallets, nil)

	got, err := d.svc.ListWallets(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestWalletService_ListWallets_StoreError(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()

	d.walletStore.EXPECT().ListByOwner(ctx, ownerID).Return(nil, errors.New("connection refused"))

	got, err := d.svc.ListWallets(ctx, ownerID)
	assert.Nil(t, got)
	assertAppError(t, err, "SYS_001")
}
