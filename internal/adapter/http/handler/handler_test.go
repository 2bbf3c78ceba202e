package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"
	"wallet-ledger-core/internal/core/ports/mocks"
	"wallet-ledger-core/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerTestDeps struct {
	router    *gin.Engine
	walletSvc *mocks.MockWalletService
	ledgerSvc *mocks.MockLedgerService
	ctrl      *gomock.Controller
}

func setupRouter(t *testing.T, checkers ...ports.HealthChecker) *routerTestDeps {
	ctrl := gomock.NewController(t)
	d := &routerTestDeps{
		walletSvc: mocks.NewMockWalletService(ctrl),
		ledgerSvc: mocks.NewMockLedgerService(ctrl),
		ctrl:      ctrl,
	}
	d.router = SetupRouter(RouterDeps{
		WalletSvc:      d.walletSvc,
		LedgerSvc:      d.ledgerSvc,
		HealthCheckers: checkers,
		Logger:         zerolog.Nop(),
	})
	return d
}

func doRequest(router *gin.Engine, method, path, body string, ownerID string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ownerID != "" {
		req.Header.Set("X-Owner-ID", ownerID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.ErrorCode
}

// ==================== Owner identity ====================

func TestRouter_MissingOwnerHeader(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(d.router, http.MethodGet, "/api/v1/wallets", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WAL_001", errorCode(t, w))
}

func TestRouter_MalformedOwnerHeader(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(d.router, http.MethodGet, "/api/v1/wallets", "", "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== Wallet endpoints ====================

func TestWalletHandler_Create(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	wallet := &domain.Wallet{
		OwnerID:  ownerID,
		Currency: domain.USD,
		Balance:  decimal.Zero,
		Address:  "addr-usd",
	}

	d.walletSvc.EXPECT().
		CreateWallet(gomock.Any(), ownerID, domain.USD).
		Return(wallet, nil)

	w := doRequest(d.router, http.MethodPost, "/api/v1/wallets", `{"currency":"usd"}`, ownerID.String())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "addr-usd")
	assert.Contains(t, w.Body.String(), `"balance":"0.00"`)
}

func TestWalletHandler_Create_Duplicate(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	d.walletSvc.EXPECT().
		CreateWallet(gomock.Any(), ownerID, domain.USD).
		Return(nil, apperror.ErrDuplicateWallet())

	w := doRequest(d.router, http.MethodPost, "/api/v1/wallets", `{"currency":"USD"}`, ownerID.String())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "WAL_005", errorCode(t, w))
}

func TestWalletHandler_Create_BadBody(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doRequest(d.router, http.MethodPost, "/api/v1/wallets", `{"currency":"TOOLONG"}`, uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletHandler_Provision(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	wallet := &domain.Wallet{
		OwnerID:  ownerID,
		Currency: domain.PLN,
		Balance:  decimal.Zero,
		Address:  "addr-pln",
	}

	d.walletSvc.EXPECT().ProvisionOwner(gomock.Any(), ownerID).Return(wallet, nil)

	w := doRequest(d.router, http.MethodPost, "/api/v1/owners/provision", "", ownerID.String())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"currency":"PLN"`)
}

func TestWalletHandler_Get_NotFound(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	d.walletSvc.EXPECT().
		GetWallet(gomock.Any(), ownerID, domain.EUR).
		Return(nil, apperror.ErrNotFound("Wallet"))

	w := doRequest(d.router, http.MethodGet, "/api/v1/wallets/eur", "", ownerID.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "WAL_002", errorCode(t, w))
}

func TestWalletHandler_List(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	wallets := []domain.Wallet{
		{OwnerID: ownerID, Currency: domain.PLN, Balance: decimal.RequireFromString("12.30"), Address: "addr-pln"},
		{OwnerID: ownerID, Currency: domain.USD, Balance: decimal.Zero, Address: "addr-usd"},
	}
	d.walletSvc.EXPECT().ListWallets(gomock.Any(), ownerID).Return(wallets, nil)

	w := doRequest(d.router, http.MethodGet, "/api/v1/wallets", "", ownerID.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":"12.30"`)
	assert.Contains(t, w.Body.String(), "addr-usd")
}

// ==================== Ledger endpoints ====================

func TestLedgerHandler_Deposit(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	d.ledgerSvc.EXPECT().
		Deposit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.DepositRequest) (*ports.MutationResult, error) {
			assert.Equal(t, ownerID, req.OwnerID)
			assert.Equal(t, domain.PLN, req.Currency)
			assert.Equal(t, "BANK123", req.BankRef)
			assert.True(t, req.Amount.Equal(decimal.RequireFromString("50.00")))
			return &ports.MutationResult{
				RecordID: 1,
				BankRef:  req.BankRef,
				Amount:   req.Amount,
				Balance:  decimal.RequireFromString("150.00"),
				Currency: domain.PLN,
			}, nil
		})

	body := `{"currency":"PLN","bank_ref":"BANK123","amount":"50.00"}`
	w := doRequest(d.router, http.MethodPost, "/api/v1/deposits", body, ownerID.String())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":"150.00"`)
}

func TestLedgerHandler_Deposit_InvalidAmount(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	for _, amount := range []string{"0", "-5.00", "1.234", "abc"} {
		body := `{"currency":"PLN","bank_ref":"BANK123","amount":"` + amount + `"}`
		w := doRequest(d.router, http.MethodPost, "/api/v1/deposits", body, uuid.NewString())
		assert.Equal(t, http.StatusBadRequest, w.Code, amount)
	}
}

func TestLedgerHandler_Withdraw_InsufficientFunds(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	d.ledgerSvc.EXPECT().
		Withdraw(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds())

	body := `{"currency":"PLN","bank_ref":"BANK456","amount":"500.01"}`
	w := doRequest(d.router, http.MethodPost, "/api/v1/withdrawals", body, ownerID.String())
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "WAL_003", errorCode(t, w))
}

func TestLedgerHandler_Transfer(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	d.ledgerSvc.EXPECT().
		Transfer(gomock.Any(), ports.TransferRequest{
			OwnerID:             ownerID,
			SourceCurrency:      domain.PLN,
			DestinationCurrency: domain.USD,
			Amount:              decimal.RequireFromString("50.00"),
		}).
		Return(&ports.TransferResult{
			RecordID:            9,
			SourceCurrency:      domain.PLN,
			DestinationCurrency: domain.USD,
			SourceBalance:       decimal.RequireFromString("50.00"),
			DestinationBalance:  decimal.RequireFromString("22.50"),
			Rate:                decimal.RequireFromString("0.25"),
			SourceAmount:        decimal.RequireFromString("50.00"),
			ConvertedAmount:     decimal.RequireFromString("12.50"),
		}, nil)

	body := `{"source_currency":"PLN","destination_currency":"USD","amount":"50.00"}`
	w := doRequest(d.router, http.MethodPost, "/api/v1/transfers", body, ownerID.String())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"converted_amount":"12.50"`)
	assert.Contains(t, w.Body.String(), `"rate":"0.25"`)
}

func TestLedgerHandler_Transfer_RateUnavailable(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	d.ledgerSvc.EXPECT().
		Transfer(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrRateUnavailable(errors.New("upstream timeout")))

	body := `{"source_currency":"PLN","destination_currency":"USD","amount":"50.00"}`
	w := doRequest(d.router, http.MethodPost, "/api/v1/transfers", body, ownerID.String())
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "RATE_001", errorCode(t, w))
}

func TestLedgerHandler_ListTransactions(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	ownerID := uuid.New()
	details := []domain.TransactionDetails{
		{
			Record: domain.TransactionRecord{
				ID:     2,
				Kind:   domain.TransactionKindDeposit,
				Amount: decimal.RequireFromString("100.00"),
			},
			BankReference: "BANK123",
			ToWallet: &domain.WalletRef{
				Address: "addr-pln", Balance: decimal.RequireFromString("100.00"), Currency: domain.PLN,
			},
		},
	}
	d.ledgerSvc.EXPECT().
		ListTransactions(gomock.Any(), ports.TransactionListParams{OwnerID: ownerID, Page: 2, PageSize: 5}).
		Return(details, int64(11), nil)

	w := doRequest(d.router, http.MethodGet, "/api/v1/transactions?page=2&page_size=5", "", ownerID.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bank_reference":"BANK123"`)
	assert.Contains(t, w.Body.String(), `"total":11`)
	assert.Contains(t, w.Body.String(), `"total_pages":3`)
}

// ==================== Health ====================

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                 { return f.name }
func (f fakeChecker) Ping(_ context.Context) error { return f.err }

func TestHealthCheck_AllHealthy(t *testing.T) {
	d := setupRouter(t, fakeChecker{name: "postgresql"}, fakeChecker{name: "redis"})
	defer d.ctrl.Finish()

	w := doRequest(d.router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	d := setupRouter(t, fakeChecker{name: "postgresql"}, fakeChecker{name: "redis", err: errors.New("connection refused")})
	defer d.ctrl.Finish()

	w := doRequest(d.router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}
