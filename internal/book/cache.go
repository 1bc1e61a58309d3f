// Package book maintains the per-token order-book cache: full bid/ask
// price ladders, snapshot/delta application, best-price queries, and
// staleness tracking. Accessed only from the feed-loop task per the
// single-writer concurrency model, so the mutex here guards against
// concurrent readers (the HTTP debug endpoint) rather than concurrent
// writers.
package book

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mselser95/arbcore/internal/ladder"
	"github.com/mselser95/arbcore/pkg/types"
)

type entry struct {
	bids      *ladder.Ladder
	asks      *ladder.Ladder
	updatedAt time.Time
}

// Cache is the in-memory order-book store for every subscribed token.
type Cache struct {
	mu        sync.RWMutex
	books     map[string]*entry
	logger    *zap.Logger
	callbacks []func(tokenID string)
}

// New returns an empty cache.
func New(logger *zap.Logger) *Cache {
	return &Cache{
		books:  make(map[string]*entry),
		logger: logger,
	}
}

// OnUpdate registers a callback invoked after every successful mutation
// (snapshot or delta). Callbacks fire sequentially in registration
// order and must not block on synchronous I/O.
func (c *Cache) OnUpdate(fn func(tokenID string)) {
	c.callbacks = append(c.callbacks, fn)
}

// ApplySnapshot replaces both ladders for token, filtering zero-size
// entries, and creates the entry if absent.
func (c *Cache) ApplySnapshot(tokenID string, bids, asks []types.PriceLevel) {
	timer := prometheus.NewTimer(updateProcessingDuration)
	defer timer.ObserveDuration()

	c.mu.Lock()
	e, ok := c.books[tokenID]
	if !ok {
		e = &entry{bids: ladder.New(), asks: ladder.New()}
		c.books[tokenID] = e
		tokensTracked.Set(float64(len(c.books)))
	}
	e.bids.Replace(levelsToMap(bids))
	e.asks.Replace(levelsToMap(asks))
	e.updatedAt = time.Now()
	c.mu.Unlock()

	updatesTotal.WithLabelValues(types.EventTypeBook).Inc()
	c.logger.Debug("book-snapshot-applied",
		zap.String("token-id", tokenID),
		zap.Int("bid-levels", len(bids)),
		zap.Int("ask-levels", len(asks)))

	c.notify(tokenID)
}

// ApplyDelta routes each change to bids (BUY) or asks (SELL). A delta
// for a token with no prior snapshot is dropped silently — it must not
// create a half-book.
func (c *Cache) ApplyDelta(tokenID string, changes []types.PriceChange) {
	timer := prometheus.NewTimer(updateProcessingDuration)
	defer timer.ObserveDuration()

	c.mu.Lock()
	e, ok := c.books[tokenID]
	if !ok {
		c.mu.Unlock()
		deltasDroppedUnknownToken.Inc()
		c.logger.Debug("delta-dropped-unknown-token", zap.String("token-id", tokenID))
		return
	}

	for _, ch := range changes {
		size, err := strconv.ParseFloat(ch.Size, 64)
		if err != nil {
			c.logger.Warn("delta-size-parse-failed",
				zap.String("token-id", tokenID), zap.String("size", ch.Size))
			continue
		}
		if strings.EqualFold(ch.Side, types.SideBuy) {
			e.bids.Set(ch.Price, size)
		} else {
			e.asks.Set(ch.Price, size)
		}
	}
	e.updatedAt = time.Now()
	c.mu.Unlock()

	updatesTotal.WithLabelValues(types.EventTypePriceChange).Inc()
	c.notify(tokenID)
}

func (c *Cache) notify(tokenID string) {
	for _, fn := range c.callbacks {
		fn(tokenID)
	}
}

// BestAsk returns the lowest ask price and its size; ok is false when
// the token is unknown or has no asks.
func (c *Cache) BestAsk(tokenID string) (price float64, size float64, ok bool) {
	return c.best(tokenID, true)
}

// BestBid returns the highest bid price and its size; ok is false when
// the token is unknown or has no bids.
func (c *Cache) BestBid(tokenID string) (price float64, size float64, ok bool) {
	return c.best(tokenID, false)
}

func (c *Cache) best(tokenID string, isAsk bool) (float64, float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.books[tokenID]
	if !ok {
		return 0, 0, false
	}

	var priceStr string
	var size float64
	if isAsk {
		priceStr, size, ok = e.asks.Best(true)
	} else {
		priceStr, size, ok = e.bids.Best(false)
	}
	if !ok {
		return 0, 0, false
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return price, size, true
}

// GetBook returns defensive copies of both ladders for diagnostics.
func (c *Cache) GetBook(tokenID string) (bids, asks map[string]float64, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.books[tokenID]
	if !ok {
		return nil, nil, false
	}
	return e.bids.Snapshot(), e.asks.Snapshot(), true
}

// AgeSeconds returns how long ago the token was last mutated.
func (c *Cache) AgeSeconds(tokenID string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.books[tokenID]
	if !ok {
		return 0, false
	}
	return time.Since(e.updatedAt).Seconds(), true
}

// Has reports whether token has received at least one snapshot.
func (c *Cache) Has(tokenID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.books[tokenID]
	return ok
}

func levelsToMap(levels []types.PriceLevel) map[string]float64 {
	out := make(map[string]float64, len(levels))
	for _, lvl := range levels {
		size, err := strconv.ParseFloat(lvl.Size, 64)
		if err != nil {
			continue
		}
		out[lvl.Price] = size
	}
	return out
}
