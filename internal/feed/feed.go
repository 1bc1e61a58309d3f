// Package feed maintains the single persistent WebSocket connection to
// the price-feed venue, demultiplexes inbound book events into the
// order-book cache, and reconnects on any disconnect with a fixed
// delay. Unlike a sharded connection pool, one socket preserves the
// per-token ordering the arbitrage detector depends on.
package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mselser95/arbcore/pkg/types"
)

// BookCache is the subset of internal/book.Cache the feed client
// drives; kept narrow so tests can substitute a double.
type BookCache interface {
	ApplySnapshot(tokenID string, bids, asks []types.PriceLevel)
	ApplyDelta(tokenID string, changes []types.PriceChange)
}

// Config configures a Client.
type Config struct {
	URL                string
	BookCache          BookCache
	Logger             *zap.Logger
	ReconnectDelay     time.Duration // default 2s
	SubscribeBatchSize int           // default 500
	DialTimeout        time.Duration
	PingInterval       time.Duration
}

// Stats is a point-in-time snapshot of feed counters.
type Stats struct {
	MessagesReceived int64
	Snapshots        int64
	Deltas           int64
	Reconnects       int64
}

// Client owns a single persistent websocket connection and feeds
// decoded book events into a BookCache.
type Client struct {
	url                string
	cache              BookCache
	logger             *zap.Logger
	reconnectDelay     time.Duration
	subscribeBatchSize int
	dialTimeout        time.Duration
	pingInterval       time.Duration

	mu        sync.RWMutex
	conn      *websocket.Conn
	tokenIDs  []string
	connected atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	messagesReceived atomic.Int64
	snapshots        atomic.Int64
	deltas           atomic.Int64
	reconnects       atomic.Int64
}

// New builds a Client. Zero-value durations/batch size fall back to
// the spec defaults (2s reconnect delay, 500-token subscribe batches).
func New(cfg Config) *Client {
	reconnectDelay := cfg.ReconnectDelay
	if reconnectDelay <= 0 {
		reconnectDelay = 2 * time.Second
	}
	batchSize := cfg.SubscribeBatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	pingInterval := cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}

	return &Client{
		url:                cfg.URL,
		cache:              cfg.BookCache,
		logger:             cfg.Logger,
		reconnectDelay:     reconnectDelay,
		subscribeBatchSize: batchSize,
		dialTimeout:        dialTimeout,
		pingInterval:       pingInterval,
	}
}

// Start dials the feed, subscribes to tokenIDs and begins the read and
// reconnect goroutines. The initial dial does not sleep. No ping frames
// are sent: PingInterval is stored on the client but nothing reads it.
func (c *Client) Start(ctx context.Context, tokenIDs []string) error {
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.tokenIDs = append([]string(nil), tokenIDs...)

	if err := c.connect(c.ctx); err != nil {
		return fmt.Errorf("initial connection: %w", err)
	}

	if err := c.subscribe(c.tokenIDs); err != nil {
		return fmt.Errorf("initial subscribe: %w", err)
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.reconnectLoop()

	return nil
}

func (c *Client) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}

	c.logger.Info("feed-connecting", zap.String("url", c.url))

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	conn.SetPongHandler(func(string) error { return nil })

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.connected.Store(true)
	activeConnections.Set(1)
	c.logger.Info("feed-connected")

	return nil
}

// subscribe sends the registered tokens in batches of subscribeBatchSize.
func (c *Client) subscribe(tokenIDs []string) error {
	if len(tokenIDs) == 0 {
		return nil
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	for start := 0; start < len(tokenIDs); start += c.subscribeBatchSize {
		end := start + c.subscribeBatchSize
		if end > len(tokenIDs) {
			end = len(tokenIDs)
		}
		msg := map[string]interface{}{
			"assets_ids":             tokenIDs[start:end],
			"type":                   "market",
			"custom_feature_enabled": true,
		}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("write subscribe batch [%d:%d]: %w", start, end, err)
		}
	}

	c.logger.Info("feed-subscribed", zap.Int("tokens", len(tokenIDs)))
	return nil
}

func (c *Client) readLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("feed-read-error", zap.Error(err))
			c.connected.Store(false)
			activeConnections.Set(0)
			return
		}

		c.handleFrame(message)
	}
}

func (c *Client) handleFrame(message []byte) {
	events, err := decodeEvents(message)
	if err != nil {
		messagesUnparseableTotal.Inc()
		c.logger.Debug("feed-unparseable-frame", zap.Error(err), zap.Int("bytes", len(message)))
		return
	}

	for i := range events {
		start := time.Now()
		event := &events[i]

		c.messagesReceived.Add(1)
		messagesReceivedTotal.WithLabelValues(event.EventType).Inc()

		switch event.EventType {
		case types.EventTypeBook:
			c.cache.ApplySnapshot(event.AssetID, event.Bids, event.Asks)
			c.snapshots.Add(1)
		case types.EventTypePriceChange:
			c.cache.ApplyDelta(event.AssetID, event.Changes)
			c.deltas.Add(1)
		default:
			// Heartbeats and unknown event types are ignored.
		}

		messageProcessingDuration.Observe(time.Since(start).Seconds())
	}
}

// decodeEvents accepts a frame that is either a single event object or
// an array of them.
func decodeEvents(message []byte) ([]types.BookEvent, error) {
	var events []types.BookEvent
	if err := json.Unmarshal(message, &events); err == nil {
		return events, nil
	}

	var single types.BookEvent
	if err := json.Unmarshal(message, &single); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return []types.BookEvent{single}, nil
}

func (c *Client) reconnectLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		if c.connected.Load() {
			time.Sleep(time.Second)
			continue
		}

		select {
		case <-time.After(c.reconnectDelay):
		case <-c.ctx.Done():
			return
		}

		c.reconnects.Add(1)
		reconnectsTotal.Inc()

		if err := c.connect(c.ctx); err != nil {
			c.logger.Warn("feed-reconnect-failed", zap.Error(err))
			continue
		}

		if err := c.subscribe(c.tokenIDs); err != nil {
			c.logger.Error("feed-resubscribe-failed", zap.Error(err))
			c.connected.Store(false)
			continue
		}

		c.logger.Info("feed-reconnected")
		c.wg.Add(1)
		go c.readLoop()
	}
}

// Stats returns a point-in-time snapshot of feed counters.
func (c *Client) Stats() Stats {
	return Stats{
		MessagesReceived: c.messagesReceived.Load(),
		Snapshots:        c.snapshots.Load(),
		Deltas:           c.deltas.Load(),
		Reconnects:       c.reconnects.Load(),
	}
}

// Close stops all goroutines and closes the underlying connection.
func (c *Client) Close() error {
	if c.cancel != nil {
		c.cancel()
	}

	c.mu.RLock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.RUnlock()

	c.wg.Wait()
	activeConnections.Set(0)

	return nil
}
