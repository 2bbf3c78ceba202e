package postgres

import (
	"errors"
	"testing"

	"wallet-ledger-core/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicateWallet},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, domain.ErrConflict},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err), tt.want)
		})
	}
}

func TestMapPgError_PassthroughUnknown(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, err, mapPgError(err))

	pgErr := &pgconn.PgError{Code: "42P01"} // undefined_table
	assert.Equal(t, error(pgErr), mapPgError(pgErr))
}
