package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wallet-ledger-core/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ratePath is the table-A mid-rate endpoint. Rates are quoted against the
// provider's base currency: mid is the price of one unit of the requested
// currency in the base currency.
const ratePath = "/api/exchangerates/rates/a/%s/"

// NBPClient implements ports.RateSource against the NBP exchange-rate API.
//
// The provider only quotes pairs against its base (reference) currency, so a
// lookup needs zero, one or two upstream calls: identity pairs short-circuit
// to 1, pairs touching the reference currency need one call, and any other
// pair is derived as mid(from)/mid(to).
type NBPClient struct {
	baseURL   string
	reference domain.Currency
	client    *http.Client
	log       zerolog.Logger
}

// NewNBPClient creates an NBP rate source. timeout bounds each upstream call.
func NewNBPClient(baseURL string, reference domain.Currency, timeout time.Duration, log zerolog.Logger) *NBPClient {
	return &NBPClient{
		baseURL:   baseURL,
		reference: reference,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Rate returns the multiplier converting an amount in from-currency into
// to-currency. Every failure mode maps to domain.ErrRateUnavailable.
func (c *NBPClient) Rate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	switch {
	case from == to:
		return decimal.NewFromInt(1), nil
	case from == c.reference:
		mid, err := c.fetchMid(ctx, to)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(1).Div(mid), nil
	case to == c.reference:
		return c.fetchMid(ctx, from)
	default:
		fromMid, err := c.fetchMid(ctx, from)
		if err != nil {
			return decimal.Zero, err
		}
		toMid, err := c.fetchMid(ctx, to)
		if err != nil {
			return decimal.Zero, err
		}
		return fromMid.Div(toMid), nil
	}
}

type rateResponse struct {
	Rates []struct {
		Mid decimal.Decimal `json:"mid"`
	} `json:"rates"`
}

// fetchMid retrieves the mid rate for one currency against the reference.
func (c *NBPClient) fetchMid(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	url := c.baseURL + fmt.Sprintf(ratePath, currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: build request: %v", domain.ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("currency", currency.String()).
			Msg("rate provider returned non-OK status")
		return decimal.Zero, fmt.Errorf("%w: status %d for %s", domain.ErrRateUnavailable, resp.StatusCode, currency)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode response: %v", domain.ErrRateUnavailable, err)
	}
	if len(body.Rates) == 0 || !body.Rates[0].Mid.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: no usable mid rate for %s", domain.ErrRateUnavailable, currency)
	}
	return body.Rates[0].Mid, nil
}
