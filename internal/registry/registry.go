// Package registry builds the immutable token-to-market lookup the
// detector and dispatcher use to resolve a sibling token and a
// market's polarity. Built once from a catalog fetch and never
// mutated afterward, so it is safely readable from any context.
package registry

import (
	"go.uber.org/zap"

	"github.com/mselser95/arbcore/pkg/types"
)

// Registry is the bidirectional token -> (market record, sibling
// token) lookup.
type Registry struct {
	byToken    map[string]*types.MarketRecord
	siblingOf  map[string]string
	marketCount int
}

// New builds a Registry from a list of market records fetched from the
// catalog. Records missing either a YES or a NO token are skipped; the
// caller already filters these out at JSON-decode time, but defensive
// validation happens here too since a record could in principle arrive
// pre-decoded with empty fields.
func New(records []types.MarketRecord, logger *zap.Logger) *Registry {
	r := &Registry{
		byToken:   make(map[string]*types.MarketRecord),
		siblingOf: make(map[string]string),
	}

	for i := range records {
		rec := records[i]
		if rec.YesToken == "" || rec.NoToken == "" {
			if logger != nil {
				logger.Warn("registry-skipping-incomplete-market", zap.String("market-id", rec.ID))
			}
			continue
		}

		r.byToken[rec.YesToken] = &rec
		r.byToken[rec.NoToken] = &rec
		r.siblingOf[rec.YesToken] = rec.NoToken
		r.siblingOf[rec.NoToken] = rec.YesToken
		r.marketCount++
	}

	return r
}

// GetMarket returns the market record for a token, or nil if unknown.
func (r *Registry) GetMarket(tokenID string) *types.MarketRecord {
	return r.byToken[tokenID]
}

// GetSibling returns the complementary token id, or "" if unknown.
func (r *Registry) GetSibling(tokenID string) string {
	return r.siblingOf[tokenID]
}

// AllTokens returns every registered token id.
func (r *Registry) AllTokens() []string {
	tokens := make([]string, 0, len(r.byToken))
	for t := range r.byToken {
		tokens = append(tokens, t)
	}
	return tokens
}

// MarketCount returns the number of markets successfully registered.
func (r *Registry) MarketCount() int {
	return r.marketCount
}

// Polarity resolves which of tokenID/sibling is YES and which is NO
// for the market tokenID belongs to. ok is false if tokenID is unknown.
func (r *Registry) Polarity(tokenID string) (yesToken, noToken string, ok bool) {
	rec := r.byToken[tokenID]
	if rec == nil {
		return "", "", false
	}
	return rec.YesToken, rec.NoToken, true
}
