package postgres

import (
	"context"
	"fmt"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// TransactionLogRepo implements ports.TransactionLog. Records are insert-only;
// there are no update or delete statements against the table.
type TransactionLogRepo struct {
	pool Pool
}

// NewTransactionLogRepo creates a new TransactionLogRepo.
func NewTransactionLogRepo(pool Pool) *TransactionLogRepo {
	return &TransactionLogRepo{pool: pool}
}

// Append writes one record inside the given transaction and returns the
// assigned record id.
func (r *TransactionLogRepo) Append(ctx context.Context, tx pgx.Tx, rec *domain.TransactionRecord) (int64, error) {
	query := `INSERT INTO transaction_records (owner_id, source, destination, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		rec.OwnerID, rec.Source, rec.Destination, rec.Kind, rec.Amount, rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert transaction record: %w", mapPgError(err))
	}
	return id, nil
}

// ListForOwner fetches the owner's records newest first with pagination,
// plus the total count. Ties on created_at break by id so the ordering is
// stable across pages.
func (r *TransactionLogRepo) ListForOwner(ctx context.Context, params ports.TransactionListParams) ([]domain.TransactionRecord, int64, error) {
	countQuery := `SELECT COUNT(*) FROM transaction_records WHERE owner_id = $1`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, params.OwnerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transaction records: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := `SELECT id, owner_id, source, destination, kind, amount, created_at
		FROM transaction_records WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, dataQuery, params.OwnerID, params.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transaction records: %w", err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var rec domain.TransactionRecord
		if err := rows.Scan(
			&rec.ID, &rec.OwnerID, &rec.Source, &rec.Destination,
			&rec.Kind, &rec.Amount, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transaction record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction records: %w", err)
	}
	return records, total, nil
}
