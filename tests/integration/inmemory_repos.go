package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memoryLedger is an in-memory implementation of WalletStore, TransactionLog
// and DBTransactor. Begin serializes transactions behind a single mutex, so
// the pessimistic-locking outcomes match what row-level FOR UPDATE locks
// produce against real PostgreSQL: every concurrent mutation is applied
// sequentially and the guarded delta never lets a balance go negative.
type memoryLedger struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	wallets map[string]*domain.Wallet // keyed by address
	records []domain.TransactionRecord
	nextID  int64
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{wallets: make(map[string]*domain.Wallet)}
}

var (
	_ ports.WalletStore    = (*memoryLedger)(nil)
	_ ports.TransactionLog = (*memoryLedger)(nil)
	_ ports.DBTransactor   = (*memoryLedger)(nil)
)

// --- DBTransactor ---

// memTx holds the ledger-wide transaction lock until Commit or Rollback.
// The embedded pgx.Tx is never touched; repos in this package ignore it.
type memTx struct {
	pgx.Tx
	release func()
	once    sync.Once
}

func (t *memTx) Commit(context.Context) error {
	t.once.Do(t.release)
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	t.once.Do(t.release)
	return nil
}

func (l *memoryLedger) Begin(ctx context.Context) (pgx.Tx, error) {
	l.txMu.Lock()
	return &memTx{release: l.txMu.Unlock}, nil
}

// --- WalletStore ---

func (l *memoryLedger) Create(ctx context.Context, wallet *domain.Wallet) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.wallets[wallet.Address]; exists {
		return domain.ErrDuplicateWallet
	}
	for _, w := range l.wallets {
		if w.OwnerID == wallet.OwnerID && w.Currency == wallet.Currency {
			return domain.ErrDuplicateWallet
		}
	}
	cp := *wallet
	l.wallets[wallet.Address] = &cp
	return nil
}

func (l *memoryLedger) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range l.wallets {
		if w.OwnerID == ownerID && w.Currency == currency {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (l *memoryLedger) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[address]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (l *memoryLedger) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []domain.Wallet
	for _, w := range l.wallets {
		if w.OwnerID == ownerID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (l *memoryLedger) GetForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	return l.GetByOwnerAndCurrency(ctx, ownerID, currency)
}

func (l *memoryLedger) GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Wallet, error) {
	return l.GetByAddress(ctx, address)
}

func (l *memoryLedger) ApplyDelta(ctx context.Context, tx pgx.Tx, address string, delta decimal.Decimal) (*domain.Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[address]
	if !ok {
		return nil, domain.ErrInsufficientBalance
	}
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return nil, domain.ErrInsufficientBalance
	}
	w.Balance = next
	w.UpdatedAt = time.Now().UTC()
	cp := *w
	return &cp, nil
}

// --- TransactionLog ---

func (l *memoryLedger) Append(ctx context.Context, tx pgx.Tx, record *domain.TransactionRecord) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	cp := *record
	cp.ID = l.nextID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	l.records = append(l.records, cp)
	return cp.ID, nil
}

func (l *memoryLedger) ListForOwner(ctx context.Context, params ports.TransactionListParams) ([]domain.TransactionRecord, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var owned []domain.TransactionRecord
	for _, r := range l.records {
		if r.OwnerID == params.OwnerID {
			owned = append(owned, r)
		}
	}
	// Newest first
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })

	total := int64(len(owned))
	offset := (params.Page - 1) * params.PageSize
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + params.PageSize
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}
