package arbdetect

import (
	"math"
	"testing"
)

type fakeCache struct {
	asks map[string]struct {
		price float64
		size  float64
	}
}

func newFakeCache() *fakeCache {
	return &fakeCache{asks: make(map[string]struct {
		price float64
		size  float64
	})}
}

func (f *fakeCache) setAsk(token string, price, size float64) {
	f.asks[token] = struct {
		price float64
		size  float64
	}{price, size}
}

func (f *fakeCache) BestAsk(token string) (float64, float64, bool) {
	v, ok := f.asks[token]
	if !ok {
		return 0, 0, false
	}
	return v.price, v.size, true
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCheck_CleanArbitrageDetection(t *testing.T) {
	cache := newFakeCache()
	cache.setAsk("Y1", 0.40, 100)
	cache.setAsk("N1", 0.45, 100)

	cfg := Config{FeeRate: 0.02, MinNetSpread: 0.02}

	opp, ok := Check("m1", "q", "Y1", "N1", cache, cfg)
	if !ok || opp == nil {
		t.Fatal("expected an opportunity")
	}
	if !almostEqual(opp.YesAsk, 0.40) || !almostEqual(opp.NoAsk, 0.45) {
		t.Fatalf("unexpected asks: yes=%v no=%v", opp.YesAsk, opp.NoAsk)
	}
	if !almostEqual(opp.RawSpread, 0.15) {
		t.Fatalf("raw_spread = %v, want 0.15", opp.RawSpread)
	}
	if !almostEqual(opp.FeeCost, 0.017) {
		t.Fatalf("fee_cost = %v, want 0.017", opp.FeeCost)
	}
	if !almostEqual(opp.NetSpread, 0.133) {
		t.Fatalf("net_spread = %v, want 0.133", opp.NetSpread)
	}
}

func TestCheck_NoArbitrageAtParity(t *testing.T) {
	cache := newFakeCache()
	cache.setAsk("Y1", 0.51, 100)
	cache.setAsk("N1", 0.51, 100)

	cfg := Config{FeeRate: 0.02, MinNetSpread: 0.02}

	opp, ok := Check("m1", "q", "Y1", "N1", cache, cfg)
	if ok || opp != nil {
		t.Fatalf("expected no opportunity, got %+v", opp)
	}
}

func TestCheck_MissingAskReturnsNil(t *testing.T) {
	cache := newFakeCache()
	cache.setAsk("Y1", 0.40, 100)
	// N1 has no ask at all.

	cfg := Config{FeeRate: 0.02, MinNetSpread: 0.02}

	opp, ok := Check("m1", "q", "Y1", "N1", cache, cfg)
	if ok || opp != nil {
		t.Fatalf("expected no opportunity when a side is missing, got %+v", opp)
	}
}

func TestCheck_OpportunityImpliesSumBelowOne(t *testing.T) {
	cache := newFakeCache()
	cache.setAsk("Y1", 0.40, 100)
	cache.setAsk("N1", 0.45, 100)

	cfg := Config{FeeRate: 0.02, MinNetSpread: 0.02}

	opp, ok := Check("m1", "q", "Y1", "N1", cache, cfg)
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.YesAsk+opp.NoAsk+opp.FeeCost >= 1 {
		t.Fatalf("expected yes_ask+no_ask+fee_cost < 1, got %v", opp.YesAsk+opp.NoAsk+opp.FeeCost)
	}
}
