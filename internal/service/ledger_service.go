package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"
	"wallet-ledger-core/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// moneyScale is the number of decimal places carried by every balance and
// amount. Converted amounts are rounded half-up to this scale exactly once,
// after the multiplication, so intermediate steps never compound rounding
// error.
const moneyScale = 2

// LedgerServiceImpl implements ports.LedgerService.
//
// Every operation is a short transaction: validate, lock, apply, log,
// commit. The database transaction is the atomic unit: a failure at any
// point before commit rolls back all balance mutations and the record
// append together, so no compensating reversal is ever needed.
type LedgerServiceImpl struct {
	walletStore ports.WalletStore
	txLog       ports.TransactionLog
	rates       ports.RateSource
	transactor  ports.DBTransactor
	maxRetries  int
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. conflictRetries bounds
// how many times an operation is re-run after a concurrency conflict.
func NewLedgerService(
	walletStore ports.WalletStore,
	txLog ports.TransactionLog,
	rates ports.RateSource,
	transactor ports.DBTransactor,
	conflictRetries int,
	log zerolog.Logger,
) *LedgerServiceImpl {
	if conflictRetries < 0 {
		conflictRetries = 0
	}
	return &LedgerServiceImpl{
		walletStore: walletStore,
		txLog:       txLog,
		rates:       rates,
		transactor:  transactor,
		maxRetries:  conflictRetries,
		log:         log,
	}
}

// Deposit credits an owner's wallet from an external bank reference.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*ports.MutationResult, error) {
	var result *ports.MutationResult
	err := s.retryOnConflict(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = s.deposit(ctx, req)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *LedgerServiceImpl) deposit(ctx context.Context, req ports.DepositRequest) (*ports.MutationResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletStore.GetForUpdate(ctx, dbTx, req.OwnerID, req.Currency)
	if err != nil {
		return nil, s.storeError("lock wallet", err)
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}

	updated, err := s.walletStore.ApplyDelta(ctx, dbTx, wallet.Address, req.Amount)
	if err != nil {
		return nil, s.storeError("apply deposit delta", err)
	}

	recordID, err := s.txLog.Append(ctx, dbTx, &domain.TransactionRecord{
		OwnerID:     req.OwnerID,
		Source:      req.BankRef,
		Destination: wallet.Address,
		Kind:        domain.TransactionKindDeposit,
		Amount:      req.Amount,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("append deposit record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, s.storeError("commit deposit", err)
	}

	s.log.Info().
		Str("owner_id", req.OwnerID.String()).
		Str("currency", wallet.Currency.String()).
		Str("amount", req.Amount.StringFixed(moneyScale)).
		Int64("record_id", recordID).
		Msg("deposit applied")

	return &ports.MutationResult{
		RecordID: recordID,
		BankRef:  req.BankRef,
		Amount:   req.Amount,
		Balance:  updated.Balance,
		Currency: updated.Currency,
	}, nil
}

// Withdraw debits an owner's wallet toward an external bank reference.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.MutationResult, error) {
	var result *ports.MutationResult
	err := s.retryOnConflict(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = s.withdraw(ctx, req)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *LedgerServiceImpl) withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.MutationResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletStore.GetForUpdate(ctx, dbTx, req.OwnerID, req.Currency)
	if err != nil {
		return nil, s.storeError("lock wallet", err)
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}

	// Explicit pre-check; ApplyDelta re-checks atomically inside the
	// statement so the window between check and apply stays closed.
	if wallet.Balance.LessThan(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	updated, err := s.walletStore.ApplyDelta(ctx, dbTx, wallet.Address, req.Amount.Neg())
	if err != nil {
		return nil, s.storeError("apply withdrawal delta", err)
	}

	recordID, err := s.txLog.Append(ctx, dbTx, &domain.TransactionRecord{
		OwnerID:     req.OwnerID,
		Source:      req.BankRef,
		Destination: wallet.Address,
		Kind:        domain.TransactionKindWithdrawal,
		Amount:      req.Amount,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("append withdrawal record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, s.storeError("commit withdrawal", err)
	}

	s.log.Info().
		Str("owner_id", req.OwnerID.String()).
		Str("currency", wallet.Currency.String()).
		Str("amount", req.Amount.StringFixed(moneyScale)).
		Int64("record_id", recordID).
		Msg("withdrawal applied")

	return &ports.MutationResult{
		RecordID: recordID,
		BankRef:  req.BankRef,
		Amount:   req.Amount,
		Balance:  updated.Balance,
		Currency: updated.Currency,
	}, nil
}

// Transfer moves funds between two of the owner's wallets with currency
// conversion. The rate is confirmed before any balance is touched; both
// deltas and the record append commit atomically or not at all.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	var result *ports.TransferResult
	err := s.retryOnConflict(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = s.transfer(ctx, req)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *LedgerServiceImpl) transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if req.SourceCurrency == req.DestinationCurrency {
		return nil, apperror.ErrSameCurrency()
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	source, err := s.walletStore.GetByOwnerAndCurrency(ctx, req.OwnerID, req.SourceCurrency)
	if err != nil {
		return nil, s.storeError("get source wallet", err)
	}
	if source == nil {
		return nil, apperror.ErrNotFound("Source wallet")
	}
	destination, err := s.walletStore.GetByOwnerAndCurrency(ctx, req.OwnerID, req.DestinationCurrency)
	if err != nil {
		return nil, s.storeError("get destination wallet", err)
	}
	if destination == nil {
		return nil, apperror.ErrNotFound("Destination wallet")
	}

	if source.Balance.LessThan(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	// Confirm the rate before touching any balance. A failed lookup aborts
	// with zero effects; the engine never retries the rate source.
	rate, err := s.rates.Rate(ctx, req.SourceCurrency, req.DestinationCurrency)
	if err != nil {
		return nil, apperror.ErrRateUnavailable(err)
	}

	converted := req.Amount.Mul(rate).Round(moneyScale)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock both rows in lexicographic address order so concurrent
	// transfers over the same pair cannot deadlock.
	for _, addr := range lockOrder(source.Address, destination.Address) {
		locked, lockErr := s.walletStore.GetByAddressForUpdate(ctx, dbTx, addr)
		if lockErr != nil {
			return nil, s.storeError("lock wallet", lockErr)
		}
		if locked == nil {
			return nil, apperror.ErrNotFound("Wallet")
		}
	}

	debited, err := s.walletStore.ApplyDelta(ctx, dbTx, source.Address, req.Amount.Neg())
	if err != nil {
		return nil, s.storeError("apply transfer debit", err)
	}
	credited, err := s.walletStore.ApplyDelta(ctx, dbTx, destination.Address, converted)
	if err != nil {
		return nil, s.storeError("apply transfer credit", err)
	}

	// The record carries the source-currency amount; the converted amount
	// is derivable at read time and is not stored.
	recordID, err := s.txLog.Append(ctx, dbTx, &domain.TransactionRecord{
		OwnerID:     req.OwnerID,
		Source:      source.Address,
		Destination: destination.Address,
		Kind:        domain.TransactionKindTransfer,
		Amount:      req.Amount,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.ErrUnavailable(fmt.Errorf("append transfer record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, s.storeError("commit transfer", err)
	}

	s.log.Info().
		Str("owner_id", req.OwnerID.String()).
		Str("source_currency", req.SourceCurrency.String()).
		Str("destination_currency", req.DestinationCurrency.String()).
		Str("amount", req.Amount.StringFixed(moneyScale)).
		Str("converted", converted.StringFixed(moneyScale)).
		Str("rate", rate.String()).
		Int64("record_id", recordID).
		Msg("transfer applied")

	return &ports.TransferResult{
		RecordID:            recordID,
		SourceCurrency:      req.SourceCurrency,
		DestinationCurrency: req.DestinationCurrency,
		SourceBalance:       debited.Balance,
		DestinationBalance:  credited.Balance,
		Rate:                rate,
		SourceAmount:        req.Amount,
		ConvertedAmount:     converted,
	}, nil
}

// ListTransactions returns the owner's records newest first with their
// wallet legs resolved against live wallet state. A leg whose wallet no
// longer exists stays nil instead of failing the listing.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.TransactionDetails, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	records, total, err := s.txLog.ListForOwner(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrUnavailable(fmt.Errorf("list records: %w", err))
	}

	details := make([]domain.TransactionDetails, 0, len(records))
	for _, rec := range records {
		details = append(details, s.materialize(ctx, rec))
	}
	return details, total, nil
}

// materialize resolves a record's wallet-address legs. Bank-reference legs
// are passed through untouched: a DEPOSIT's source and a WITHDRAWAL's
// source are external bank references, everything else is a wallet address.
func (s *LedgerServiceImpl) materialize(ctx context.Context, rec domain.TransactionRecord) domain.TransactionDetails {
	d := domain.TransactionDetails{Record: rec}

	switch rec.Kind {
	case domain.TransactionKindDeposit:
		d.BankReference = rec.Source
		d.ToWallet = s.resolveLeg(ctx, rec.Destination)
	case domain.TransactionKindWithdrawal:
		d.BankReference = rec.Source
		d.FromWallet = s.resolveLeg(ctx, rec.Destination)
	case domain.TransactionKindTransfer:
		d.FromWallet = s.resolveLeg(ctx, rec.Source)
		d.ToWallet = s.resolveLeg(ctx, rec.Destination)
	}
	return d
}

// resolveLeg looks up a wallet address and reports its live balance.
// Returns nil when the wallet is gone or the lookup fails; history listing
// degrades to a partial result rather than erroring.
func (s *LedgerServiceImpl) resolveLeg(ctx context.Context, address string) *domain.WalletRef {
	wallet, err := s.walletStore.GetByAddress(ctx, address)
	if err != nil {
		s.log.Warn().Err(err).Str("address", address).Msg("wallet leg resolution failed")
		return nil
	}
	if wallet == nil {
		return nil
	}
	return &domain.WalletRef{
		Address:  wallet.Address,
		Balance:  wallet.Balance,
		Currency: wallet.Currency,
	}
}

// retryOnConflict re-runs op after a concurrency conflict, up to the
// configured bound. Each attempt re-runs validation from scratch because
// balances may have changed. Conflict is the only retryable error class.
func (s *LedgerServiceImpl) retryOnConflict(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op(ctx)
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		if attempt >= s.maxRetries {
			return err
		}
		s.log.Warn().Err(err).Int("attempt", attempt+1).Msg("retrying after concurrency conflict")
	}
}

// storeError maps store sentinels onto the coded error taxonomy.
func (s *LedgerServiceImpl) storeError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return apperror.ErrInsufficientFunds()
	case errors.Is(err, domain.ErrConflict):
		return apperror.ErrConflict(err)
	case errors.Is(err, domain.ErrDuplicateWallet):
		return apperror.ErrDuplicateWallet()
	default:
		return apperror.ErrUnavailable(fmt.Errorf("%s: %w", op, err))
	}
}

// lockOrder returns the two addresses in lexicographic order.
func lockOrder(a, b string) [2]string {
	if a <= b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
