package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/findosh/marketiq/internal/models"
)

// Cache stores recently served quotes by symbol
type Cache interface {
	Get(ctx context.Context, symbol string) (models.AssetQuote, bool, error)
	Set(ctx context.Context, symbol string, quote models.AssetQuote) error
}

type cachedQuote struct {
	quote    models.AssetQuote
	storedAt time.Time
}

// MemoryCache is an in-process TTL cache
type MemoryCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedQuote
}

// NewMemoryCache creates an in-process cache. A zero ttl means 5 minutes.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedQuote),
	}
}

// Get returns a quote stored less than ttl ago
func (c *MemoryCache) Get(ctx context.Context, symbol string) (models.AssetQuote, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[strings.ToUpper(symbol)]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return models.AssetQuote{}, false, nil
	}
	return entry.quote, true, nil
}

// Set stores a quote
func (c *MemoryCache) Set(ctx context.Context, symbol string, quote models.AssetQuote) error {
	c.mu.Lock()
	c.entries[strings.ToUpper(symbol)] = cachedQuote{quote: quote, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
