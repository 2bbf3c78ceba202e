package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = "id, owner_id, currency, balance, address, created_at, updated_at"

// WalletRepo implements ports.WalletStore.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet. The unique constraints on (owner_id,
// currency) and on address surface as domain.ErrDuplicateWallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, owner_id, currency, balance, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.OwnerID, w.Currency, w.Balance, w.Address,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, domain.ErrDuplicateWallet) {
			return mapped
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByOwnerAndCurrency fetches a wallet by owner and currency (non-locking read).
func (r *WalletRepo) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE owner_id = $1 AND currency = $2`, walletColumns)

	w, err := scanWallet(r.pool.QueryRow(ctx, query, ownerID, currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by owner and currency: %w", err)
	}
	return w, nil
}

// GetByAddress fetches a wallet by its address (non-locking read).
func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE address = $1`, walletColumns)

	w, err := scanWallet(r.pool.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by address: %w", err)
	}
	return w, nil
}

// ListByOwner fetches all wallets for an owner, oldest first.
func (r *WalletRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE owner_id = $1 ORDER BY created_at ASC`, walletColumns)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(
			&w.ID, &w.OwnerID, &w.Currency, &w.Balance, &w.Address,
			&w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// GetForUpdate fetches a wallet by owner and currency with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE owner_id = $1 AND currency = $2 FOR UPDATE`, walletColumns)

	w, err := scanWallet(tx.QueryRow(ctx, query, ownerID, currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", mapPgError(err))
	}
	return w, nil
}

// GetByAddressForUpdate fetches a wallet by address with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE address = $1 FOR UPDATE`, walletColumns)

	w, err := scanWallet(tx.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update by address: %w", mapPgError(err))
	}
	return w, nil
}

// ApplyDelta atomically adds delta to the wallet balance. The WHERE clause
// re-checks non-negativity inside the statement, so a matching row is the
// proof the balance never went below zero. No matching row means the funds
// were insufficient; the caller locked the row first, so absence of the
// wallet itself is already ruled out.
func (r *WalletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, address string, delta decimal.Decimal) (*domain.Wallet, error) {
	query := fmt.Sprintf(`UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE address = $2 AND balance + $1 >= 0
		RETURNING %s`, walletColumns)

	w, err := scanWallet(tx.QueryRow(ctx, query, delta, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("apply balance delta: %w", mapPgError(err))
	}
	return w, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.Currency, &w.Balance, &w.Address,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}
