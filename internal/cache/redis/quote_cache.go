package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/findosh/marketiq/internal/models"
	"github.com/redis/go-redis/v9"
)

const defaultQuoteTTL = 5 * time.Minute

// QuoteCache implements marketdata.Cache with one JSON string per symbol.
//
// Key schema:
//
//	marketiq:quote:{SYMBOL} - JSON AssetQuote, expires after ttl
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a QuoteCache. A zero ttl means 5 minutes.
func NewQuoteCache(c *Client, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = defaultQuoteTTL
	}
	return &QuoteCache{rdb: c.rdb, ttl: ttl}
}

func quoteKey(symbol string) string {
	return "marketiq:quote:" + strings.ToUpper(symbol)
}

// Get returns the cached quote; ok is false on a miss
func (qc *QuoteCache) Get(ctx context.Context, symbol string) (models.AssetQuote, bool, error) {
	data, err := qc.rdb.Get(ctx, quoteKey(symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.AssetQuote{}, false, nil
		}
		return models.AssetQuote{}, false, fmt.Errorf("redis: get quote %s: %w", symbol, err)
	}

	var quote models.AssetQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return models.AssetQuote{}, false, fmt.Errorf("redis: unmarshal quote %s: %w", symbol, err)
	}
	return quote, true, nil
}

// Set stores a quote with the cache TTL
func (qc *QuoteCache) Set(ctx context.Context, symbol string, quote models.AssetQuote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("redis: marshal quote %s: %w", symbol, err)
	}
	if err := qc.rdb.Set(ctx, quoteKey(symbol), data, qc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set quote %s: %w", symbol, err)
	}
	return nil
}

// Invalidate drops a cached quote
func (qc *QuoteCache) Invalidate(ctx context.Context, symbol string) error {
	if err := qc.rdb.Del(ctx, quoteKey(symbol)).Err(); err != nil {
		return fmt.Errorf("redis: delete quote %s: %w", symbol, err)
	}
	return nil
}
