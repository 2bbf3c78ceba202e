package dto

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
}

// DepositRequest is the request body for a deposit.
type DepositRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
	BankRef  string `json:"bank_ref" binding:"required,max=100,safe_id"`
	Amount   string `json:"amount" binding:"required,money"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
	BankRef  string `json:"bank_ref" binding:"required,max=100,safe_id"`
	Amount   string `json:"amount" binding:"required,money"`
}

// TransferRequest is the request body for a cross-currency transfer.
// Amount is denominated in the source currency.
type TransferRequest struct {
	SourceCurrency      string `json:"source_currency" binding:"required,len=3"`
	DestinationCurrency string `json:"destination_currency" binding:"required,len=3"`
	Amount              string `json:"amount" binding:"required,money"`
}

// WalletResponse is the response body for a single wallet.
type WalletResponse struct {
	Address   string `json:"address"`
	Currency  string `json:"currency"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// MutationResponse is the response body for deposits and withdrawals.
type MutationResponse struct {
	RecordID int64  `json:"record_id"`
	BankRef  string `json:"bank_ref"`
	Amount   string `json:"amount"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// TransferResponse is the response body for transfers.
type TransferResponse struct {
	RecordID            int64  `json:"record_id"`
	SourceCurrency      string `json:"source_currency"`
	DestinationCurrency string `json:"destination_currency"`
	SourceBalance       string `json:"source_balance"`
	DestinationBalance  string `json:"destination_balance"`
	Rate                string `json:"rate"`
	SourceAmount        string `json:"source_amount"`
	ConvertedAmount     string `json:"converted_amount"`
}

// WalletRefResponse is a wallet leg of a transaction, resolved against live
// wallet state.
type WalletRefResponse struct {
	Address  string `json:"address"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// TransactionResponse is one entry in the transaction history. Wallet legs
// that no longer resolve are omitted.
type TransactionResponse struct {
	ID            int64              `json:"id"`
	Kind          string             `json:"kind"`
	Amount        string             `json:"amount"`
	BankReference string             `json:"bank_reference,omitempty"`
	FromWallet    *WalletRefResponse `json:"from_wallet,omitempty"`
	ToWallet      *WalletRefResponse `json:"to_wallet,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

// TransactionListResponse wraps a paginated transaction history.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
