package domain

import "errors"

// Sentinel errors returned by stores and rate sources. Services map these
// to coded apperror values at the boundary.
var (
	// ErrDuplicateWallet is returned when a wallet for the same
	// (owner, currency) pair or the same address already exists.
	ErrDuplicateWallet = errors.New("wallet already exists")

	// ErrInsufficientBalance is returned when a delta would drive a
	// balance below zero. The store re-checks this atomically even when
	// the caller pre-checked.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrRateUnavailable is returned when an exchange rate cannot be
	// obtained: network failure, malformed payload, or a non-positive rate.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrConflict is returned when a concurrent modification raced past
	// the store's locking discipline (serialization failure or deadlock).
	// The only error class the engine retries.
	ErrConflict = errors.New("concurrent modification conflict")
)
