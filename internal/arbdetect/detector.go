// Package arbdetect implements the single pure per-update arbitrage
// check: given a market's two outcome tokens and the book cache, it
// either returns a populated opportunity or nil. No side effects.
package arbdetect

import (
	"github.com/mselser95/arbcore/pkg/types"
)

// BookCache is the read-only surface the detector needs from the book
// cache, kept narrow so this package has no import-time dependency on
// internal/book's mutation API.
type BookCache interface {
	BestAsk(tokenID string) (price float64, size float64, ok bool)
}

// Config holds the detector's two tunable parameters.
type Config struct {
	FeeRate     float64
	MinNetSpread float64
}

// Check reads best_ask for yesToken and noToken; if either is absent it
// returns (nil, false). Otherwise it computes raw_spread, fee_cost and
// net_spread and rejects below the configured threshold.
func Check(marketID, question, yesToken, noToken string, cache BookCache, cfg Config) (*types.Opportunity, bool) {
	yesAsk, _, ok := cache.BestAsk(yesToken)
	if !ok {
		checksRejectedTotal.WithLabelValues("missing_yes_ask").Inc()
		return nil, false
	}
	noAsk, _, ok := cache.BestAsk(noToken)
	if !ok {
		checksRejectedTotal.WithLabelValues("missing_no_ask").Inc()
		return nil, false
	}

	rawSpread := 1 - yesAsk - noAsk
	feeCost := cfg.FeeRate * (yesAsk + noAsk)
	netSpread := rawSpread - feeCost

	if netSpread < cfg.MinNetSpread {
		checksRejectedTotal.WithLabelValues("below_threshold").Inc()
		return nil, false
	}

	opp := types.NewOpportunity(marketID, question, yesToken, noToken, yesAsk, noAsk, cfg.FeeRate)
	opportunitiesDetectedTotal.Inc()
	netSpreadObserved.Observe(opp.NetSpread)
	return opp, true
}
