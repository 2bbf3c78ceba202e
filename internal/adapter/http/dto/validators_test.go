package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ParseAmount tests ---

func TestParseAmount_Valid(t *testing.T) {
	for _, s := range []string{"0.01", "1", "10.5", "500.00", "123456789.99"} {
		d, ok := ParseAmount(s)
		assert.True(t, ok, s)
		assert.True(t, d.IsPositive(), s)
	}
}

func TestParseAmount_Rejected(t *testing.T) {
	for _, s := range []string{"0", "0.00", "-5.00", "10.123", "abc", "", "1e3x"} {
		_, ok := ParseAmount(s)
		assert.False(t, ok, s)
	}
}

func TestParseAmount_TrimsWhitespace(t *testing.T) {
	d, ok := ParseAmount("  42.50  ")
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("42.50")))
}

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := DepositRequest{
		Currency: "  PLN  ",
		BankRef:  "  BANK123  ",
		Amount:   " 50.00 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "PLN", req.Currency)
	assert.Equal(t, "BANK123", req.BankRef)
	assert.Equal(t, "50.00", req.Amount)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateWalletRequest{
		Currency: "<b>PLN</b>",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Currency, "&lt;b&gt;")
	assert.NotContains(t, req.Currency, "<b>")
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	req := CreateWalletRequest{Currency: "  PLN  "}
	SanitizeStruct(req)
	assert.Equal(t, "  PLN  ", req.Currency)
}
