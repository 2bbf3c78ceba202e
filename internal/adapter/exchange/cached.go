package exchange

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger-core/internal/core/domain"
	"wallet-ledger-core/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CachedRateSource decorates a RateSource with a best-effort cache. Cache
// failures never fail a lookup; they fall through to the live source.
type CachedRateSource struct {
	source ports.RateSource
	cache  ports.RateCache
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCachedRateSource wraps source with cache. ttl bounds rate staleness.
func NewCachedRateSource(source ports.RateSource, cache ports.RateCache, ttl time.Duration, log zerolog.Logger) *CachedRateSource {
	return &CachedRateSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// Rate returns the cached rate for the pair when fresh, otherwise fetches
// from the live source and caches the result.
func (c *CachedRateSource) Rate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return c.source.Rate(ctx, from, to)
	}

	key := pairKey(from, to)
	if cached, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn().Err(err).Str("pair", key).Msg("rate cache read failed")
	} else if cached != nil {
		rate, parseErr := decimal.NewFromString(string(cached))
		if parseErr == nil && rate.IsPositive() {
			return rate, nil
		}
		c.log.Warn().Str("pair", key).Str("value", string(cached)).Msg("discarding malformed cached rate")
	}

	rate, err := c.source.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.cache.Set(ctx, key, []byte(rate.String()), c.ttl); err != nil {
		c.log.Warn().Err(err).Str("pair", key).Msg("rate cache write failed")
	}
	return rate, nil
}

func pairKey(from, to domain.Currency) string {
	return fmt.Sprintf("%s:%s", from, to)
}
