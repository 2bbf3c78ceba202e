package handler

import (
	"strconv"

	"wallet-ledger-core/internal/adapter/http/dto"
	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"
	"wallet-ledger-core/pkg/apperror"
	"wallet-ledger-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles balance-mutation and history endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Deposit handles POST /api/v1/deposits.
func (h *LedgerHandler) Deposit(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, ok := dto.ParseAmount(req.Amount)
	if !ok {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.ledgerSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		OwnerID:  ownerID,
		Currency: parseCurrency(req.Currency),
		BankRef:  req.BankRef,
		Amount:   amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toMutationResponse(result))
}

// Withdraw handles POST /api/v1/withdrawals.
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, ok := dto.ParseAmount(req.Amount)
	if !ok {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.ledgerSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		OwnerID:  ownerID,
		Currency: parseCurrency(req.Currency),
		BankRef:  req.BankRef,
		Amount:   amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toMutationResponse(result))
}

// Transfer handles POST /api/v1/transfers.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, ok := dto.ParseAmount(req.Amount)
	if !ok {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		OwnerID:             ownerID,
		SourceCurrency:      parseCurrency(req.SourceCurrency),
		DestinationCurrency: parseCurrency(req.DestinationCurrency),
		Amount:              amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransferResponse{
		RecordID:            result.RecordID,
		SourceCurrency:      result.SourceCurrency.String(),
		DestinationCurrency: result.DestinationCurrency.String(),
		SourceBalance:       result.SourceBalance.StringFixed(2),
		DestinationBalance:  result.DestinationBalance.StringFixed(2),
		Rate:                result.Rate.String(),
		SourceAmount:        result.SourceAmount.StringFixed(2),
		ConvertedAmount:     result.ConvertedAmount.StringFixed(2),
	})
}

// ListTransactions handles GET /api/v1/transactions.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	details, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), ports.TransactionListParams{
		OwnerID:  ownerID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(details))
	for _, d := range details {
		items = append(items, toTransactionResponse(d))
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func toMutationResponse(r *ports.MutationResult) dto.MutationResponse {
	return dto.MutationResponse{
		RecordID: r.RecordID,
		BankRef:  r.BankRef,
		Amount:   r.Amount.StringFixed(2),
		Balance:  r.Balance.StringFixed(2),
		Currency: r.Currency.String(),
	}
}

func toTransactionResponse(d domain.TransactionDetails) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            d.Record.ID,
		Kind:          string(d.Record.Kind),
		Amount:        d.Record.Amount.StringFixed(2),
		BankReference: d.BankReference,
		CreatedAt:     d.Record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if d.FromWallet != nil {
		resp.FromWallet = toWalletRefResponse(d.FromWallet)
	}
	if d.ToWallet != nil {
		resp.ToWallet = toWalletRefResponse(d.ToWallet)
	}
	return resp
}

func toWalletRefResponse(ref *domain.WalletRef) *dto.WalletRefResponse {
	return &dto.WalletRefResponse{
		Address:  ref.Address,
		Balance:  ref.Balance.StringFixed(2),
		Currency: ref.Currency.String(),
	}
}
