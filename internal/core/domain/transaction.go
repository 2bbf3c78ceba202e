package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal TransactionKind = "WITHDRAWAL"
	TransactionKindTransfer   TransactionKind = "TRANSFER"
)

// TransactionRecord is an immutable, append-only ledger entry.
// Source and Destination are wallet addresses or external bank reference
// strings; resolution against wallet state happens at read time.
// Amount is always denominated in the source currency.
type TransactionRecord struct {
	ID          int64           `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WalletRef is a read-time resolution of a transaction leg against live
// wallet state. Balances reflect current state, not a snapshot taken when
// the transaction was recorded.
type WalletRef struct {
	Address  string          `json:"address"`
	Balance  decimal.Decimal `json:"balance"`
	Currency Currency        `json:"currency"`
}

// TransactionDetails is a TransactionRecord with its wallet legs resolved.
// A nil wallet ref means the leg is an external bank reference, or the
// wallet could not be found at read time.
type TransactionDetails struct {
	Record        TransactionRecord `json:"record"`
	FromWallet    *WalletRef        `json:"from_wallet,omitempty"`
	ToWallet      *WalletRef        `json:"to_wallet,omitempty"`
	BankReference string            `json:"bank_reference,omitempty"`
}
