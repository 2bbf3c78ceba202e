package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet & Ledger Business Logic (WAL) ----

func ErrInvalidAmount() *AppError {
	return New("WAL_001", "Invalid amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("WAL_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_003", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrSameCurrency() *AppError {
	return New("WAL_004", "Source and destination currencies must differ", http.StatusBadRequest)
}

func ErrDuplicateWallet() *AppError {
	return New("WAL_005", "A wallet with this currency already exists", http.StatusConflict)
}

func ErrUnsupportedCurrency(code string) *AppError {
	return New("WAL_006", fmt.Sprintf("Unsupported currency: %s", code), http.StatusBadRequest)
}

// ---- Exchange Rates (RATE) ----

func ErrRateUnavailable(err error) *AppError {
	return Wrap("RATE_001", "Exchange rate unavailable", http.StatusBadGateway, err)
}

// ---- System & Infrastructure (SYS) ----

func ErrUnavailable(err error) *AppError {
	return Wrap("SYS_001", "Durable store unavailable", http.StatusServiceUnavailable, err)
}

func ErrConflict(err error) *AppError {
	return Wrap("SYS_002", "Concurrent modification conflict", http.StatusConflict, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("WAL_001", message, http.StatusBadRequest)
}
