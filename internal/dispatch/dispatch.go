// Package dispatch turns an order-book update into a paired order
// placement: it resolves the market and its sibling token, debounces
// repeat updates on the same market, runs the arbitrage detector, and
// places both legs concurrently against a trading gateway with
// client-side compensation if only one leg fills.
package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/internal/arbdetect"
	"github.com/mselser95/arbcore/internal/gateway"
	"github.com/mselser95/arbcore/internal/risk"
	"github.com/mselser95/arbcore/pkg/types"
)

// Registry is the subset of internal/registry.Registry the dispatcher
// needs to resolve a token update to its market and polarity.
type Registry interface {
	GetMarket(tokenID string) *types.MarketRecord
	GetSibling(tokenID string) string
	Polarity(tokenID string) (yesToken, noToken string, ok bool)
}

// OpportunityStore persists detected opportunities; satisfied by
// internal/storage.Storage.
type OpportunityStore interface {
	StoreOpportunity(ctx context.Context, opp *types.Opportunity) error
}

// Config configures a Dispatcher.
type Config struct {
	FeeRate          float64
	MinNetSpread     float64
	MaxPositionQuote float64
	BankrollQuote    float64
	PerTradeFraction float64
	CooldownDuration time.Duration // default 10s
}

// Dispatcher is the update callback installed on the feed's book cache.
type Dispatcher struct {
	registry Registry
	cache    arbdetect.BookCache
	gateway  gateway.Gateway
	ledger   *risk.Ledger
	store    OpportunityStore
	logger   *zap.Logger
	cfg      Config

	mu        sync.Mutex
	lastActed map[string]time.Time
}

// New builds a Dispatcher.
func New(reg Registry, cache arbdetect.BookCache, gw gateway.Gateway, ledger *risk.Ledger, store OpportunityStore, logger *zap.Logger, cfg Config) *Dispatcher {
	if cfg.CooldownDuration <= 0 {
		cfg.CooldownDuration = 10 * time.Second
	}
	if cfg.PerTradeFraction <= 0 {
		cfg.PerTradeFraction = 0.01
	}
	return &Dispatcher{
		registry:  reg,
		cache:     cache,
		gateway:   gw,
		ledger:    ledger,
		store:     store,
		logger:    logger,
		cfg:       cfg,
		lastActed: make(map[string]time.Time),
	}
}

// OnTokenUpdate is the callback registered with the book cache's
// OnUpdate hook. It must be fast and must not block on I/O; trading
// calls are handed off to goroutines before this returns.
func (d *Dispatcher) OnTokenUpdate(tokenID string) {
	market := d.registry.GetMarket(tokenID)
	if market == nil {
		return
	}
	sibling := d.registry.GetSibling(tokenID)
	if sibling == "" {
		return
	}

	yesToken, noToken, ok := d.registry.Polarity(tokenID)
	if !ok {
		return
	}

	if d.inCooldown(market.ID) {
		return
	}

	opp, found := arbdetect.Check(market.ID, market.Question, yesToken, noToken, d.cache, arbdetect.Config{
		FeeRate:      d.cfg.FeeRate,
		MinNetSpread: d.cfg.MinNetSpread,
	})
	if !found {
		return
	}

	d.recordActed(market.ID)

	go d.fire(context.Background(), opp)
}

func (d *Dispatcher) inCooldown(marketID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pruneLocked()

	last, ok := d.lastActed[marketID]
	if !ok {
		return false
	}
	return time.Since(last) < d.cfg.CooldownDuration
}

func (d *Dispatcher) recordActed(marketID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastActed[marketID] = time.Now()
}

// pruneLocked drops debounce entries well past their cooldown window so
// the map doesn't grow unbounded as markets roll off. Called with mu held.
func (d *Dispatcher) pruneLocked() {
	cutoff := 2 * d.cfg.CooldownDuration
	now := time.Now()
	for marketID, last := range d.lastActed {
		if now.Sub(last) > cutoff {
			delete(d.lastActed, marketID)
		}
	}
}

func (d *Dispatcher) legSize() float64 {
	fromBankroll := d.cfg.BankrollQuote * d.cfg.PerTradeFraction
	if fromBankroll < d.cfg.MaxPositionQuote {
		return fromBankroll
	}
	return d.cfg.MaxPositionQuote
}

// fire places both legs of opp concurrently and compensates if exactly
// one leg succeeds. It runs off the feed's goroutine.
func (d *Dispatcher) fire(ctx context.Context, opp *types.Opportunity) {
	start := time.Now()
	defer func() { dispatchDurationSeconds.Observe(time.Since(start).Seconds()) }()

	if d.store != nil {
		if err := d.store.StoreOpportunity(ctx, opp); err != nil {
			d.logger.Warn("opportunity-store-failed", zap.Error(err), zap.String("market-id", opp.MarketID))
		}
	}

	size := d.legSize()
	sizeQuote := size

	// Reserve the YES leg before even checking the NO leg so the two
	// checks never both see the pre-commit aggregate: committing YES
	// first means NO's Check observes the post-YES aggregate, which is
	// what keeps a paired dispatch from pushing the aggregate past the
	// total cap by up to one leg size.
	yesAllowed, yesReason := d.ledger.Check(opp.YesTokenID, sizeQuote)
	if !yesAllowed {
		d.rejectOpportunity(opp, yesReason)
		return
	}
	d.ledger.Record(opp.YesTokenID, sizeQuote)

	noAllowed, noReason := d.ledger.Check(opp.NoTokenID, sizeQuote)
	if !noAllowed {
		d.ledger.Release(opp.YesTokenID, sizeQuote)
		d.rejectOpportunity(opp, noReason)
		return
	}
	d.ledger.Record(opp.NoTokenID, sizeQuote)

	yesSize := size / opp.YesAsk
	noSize := size / opp.NoAsk

	var wg sync.WaitGroup
	results := make(chan legResult, 2)

	wg.Add(2)
	go d.placeLeg(ctx, &wg, results, opp.YesTokenID, types.SideBuy, opp.YesAsk, yesSize)
	go d.placeLeg(ctx, &wg, results, opp.NoTokenID, types.SideBuy, opp.NoAsk, noSize)

	wg.Wait()
	close(results)

	var yes, no *legResult
	for r := range results {
		r := r
		switch r.tokenID {
		case opp.YesTokenID:
			yes = &r
		case opp.NoTokenID:
			no = &r
		}
	}

	d.reconcile(ctx, opp, sizeQuote, yes, no)
}

type legResult struct {
	tokenID string
	result  types.OrderResult
}

func (d *Dispatcher) placeLeg(ctx context.Context, wg *sync.WaitGroup, out chan<- legResult, tokenID, side string, price, size float64) {
	defer wg.Done()

	orderID, err := d.gateway.PlaceLimitOrder(ctx, tokenID, side, price, size)
	result := types.OrderResult{TokenID: tokenID, Side: side, Price: price, Size: size, OrderID: orderID}
	if err != nil {
		result.Error = err
	}

	outcome := "success"
	if !result.Success() {
		outcome = "failure"
	}
	legAttemptsTotal.WithLabelValues(side, outcome).Inc()

	out <- legResult{tokenID: tokenID, result: result}
}

// reconcile releases risk-ledger exposure for legs that never filled
// and cancels the successful leg if its pair failed.
func (d *Dispatcher) reconcile(ctx context.Context, opp *types.Opportunity, sizeQuote float64, yes, no *legResult) {
	yesOK := yes != nil && yes.result.Success()
	noOK := no != nil && no.result.Success()

	switch {
	case yesOK && noOK:
		d.logger.Info("both-legs-placed",
			zap.String("market-id", opp.MarketID),
			zap.String("yes-order-id", yes.result.OrderID),
			zap.String("no-order-id", no.result.OrderID))

	case yesOK && !noOK:
		d.logger.Warn("no-leg-failed-compensating-yes-leg",
			zap.String("market-id", opp.MarketID), zap.Error(no.result.Error))
		d.cancelLeg(ctx, yes.result.OrderID)
		d.ledger.Release(opp.YesTokenID, sizeQuote)
		d.ledger.Release(opp.NoTokenID, sizeQuote)

	case noOK && !yesOK:
		d.logger.Warn("yes-leg-failed-compensating-no-leg",
			zap.String("market-id", opp.MarketID), zap.Error(yes.result.Error))
		d.cancelLeg(ctx, no.result.OrderID)
		d.ledger.Release(opp.YesTokenID, sizeQuote)
		d.ledger.Release(opp.NoTokenID, sizeQuote)

	default:
		d.logger.Warn("both-legs-failed-no-compensation-needed", zap.String("market-id", opp.MarketID))
		d.ledger.Release(opp.YesTokenID, sizeQuote)
		d.ledger.Release(opp.NoTokenID, sizeQuote)
	}
}

// rejectOpportunity records a risk-ledger rejection against both the
// dispatcher's own skip counter and the ledger's admission-rejection
// metric, and logs the reason the ledger gave.
func (d *Dispatcher) rejectOpportunity(opp *types.Opportunity, reason string) {
	opportunitiesSkippedTotal.WithLabelValues("risk_rejected").Inc()
	risk.RecordRejection("risk_rejected")
	d.logger.Warn("opportunity-rejected-by-risk-ledger",
		zap.String("market-id", opp.MarketID), zap.String("reason", reason))
}

func (d *Dispatcher) cancelLeg(ctx context.Context, orderID string) {
	compensationsTotal.Inc()
	if err := d.gateway.CancelOrder(ctx, orderID); err != nil {
		d.logger.Error("compensation-cancel-failed", zap.String("order-id", orderID), zap.Error(err))
	}
}
