// Package ladder implements the price-level structure for one side of
// one order book: a mapping from canonical price string to positive
// size, with min/max best-price queries.
package ladder

import (
	"strconv"
)

// Ladder holds one side (bids or asks) of one token's order book.
// Price keys are the canonical decimal strings the feed emits; using
// the string as the map key avoids floating-point drift when deleting
// levels that arrived with a fixed decimal width.
type Ladder struct {
	levels map[string]float64
}

// New returns an empty ladder.
func New() *Ladder {
	return &Ladder{levels: make(map[string]float64)}
}

// Set inserts or updates a level. A zero size deletes the key instead,
// preserving the invariant that every stored level has size > 0.
func (l *Ladder) Set(priceKey string, size float64) {
	if size <= 0 {
		delete(l.levels, priceKey)
		return
	}
	l.levels[priceKey] = size
}

// Delete removes a level unconditionally.
func (l *Ladder) Delete(priceKey string) {
	delete(l.levels, priceKey)
}

// Replace discards all existing levels and installs the given set,
// filtering out non-positive sizes. Used by apply_snapshot.
func (l *Ladder) Replace(levels map[string]float64) {
	l.levels = make(map[string]float64, len(levels))
	for price, size := range levels {
		if size > 0 {
			l.levels[price] = size
		}
	}
}

// Len reports the number of stored levels.
func (l *Ladder) Len() int {
	return len(l.levels)
}

// Best returns the best price and its size: the minimum key for asks,
// the maximum key for bids. O(10^2) entries per spec, so a streaming
// scan is acceptable; it parses each key once per call rather than
// keeping a sorted structure.
func (l *Ladder) Best(isAsk bool) (price string, size float64, ok bool) {
	var bestPrice string
	var bestVal float64
	var bestNum float64
	found := false

	for p, s := range l.levels {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		if !found {
			bestPrice, bestVal, bestNum, found = p, s, n, true
			continue
		}
		if isAsk && n < bestNum {
			bestPrice, bestVal, bestNum = p, s, n
		} else if !isAsk && n > bestNum {
			bestPrice, bestVal, bestNum = p, s, n
		}
	}

	return bestPrice, bestVal, found
}

// Snapshot returns a defensive copy of the current levels, for
// diagnostics and the debug HTTP endpoint.
func (l *Ladder) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(l.levels))
	for p, s := range l.levels {
		out[p] = s
	}
	return out
}
