package book

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/pkg/types"
)

func newTestCache() *Cache {
	return New(zap.NewNop())
}

func TestCache_ApplySnapshot_CreatesTokenAndFiltersZeroSize(t *testing.T) {
	c := newTestCache()

	c.ApplySnapshot("Y1", nil, []types.PriceLevel{
		{Price: "0.40", Size: "100"},
		{Price: "0.50", Size: "0"},
	})

	if !c.Has("Y1") {
		t.Fatal("expected token to be present after snapshot")
	}
	price, size, ok := c.BestAsk("Y1")
	if !ok || price != 0.40 || size != 100 {
		t.Fatalf("unexpected best ask: price=%v size=%v ok=%v", price, size, ok)
	}
	if _, _, ok := c.BestAsk("Y1"); !ok {
		t.Fatal("expected a best ask")
	}
	bids, asks, _ := c.GetBook("Y1")
	if len(bids) != 0 || len(asks) != 1 {
		t.Fatalf("expected zero-size level filtered, got bids=%d asks=%d", len(bids), len(asks))
	}
}

func TestCache_ApplySnapshot_Idempotent(t *testing.T) {
	c := newTestCache()
	snap := []types.PriceLevel{{Price: "0.40", Size: "100"}}

	c.ApplySnapshot("Y1", nil, snap)
	firstBids, firstAsks, _ := c.GetBook("Y1")

	c.ApplySnapshot("Y1", nil, snap)
	secondBids, secondAsks, _ := c.GetBook("Y1")

	if len(firstBids) != len(secondBids) || len(firstAsks) != len(secondAsks) {
		t.Fatal("applying the same snapshot twice changed book shape")
	}
	if firstAsks["0.40"] != secondAsks["0.40"] {
		t.Fatal("applying the same snapshot twice changed level size")
	}
}

func TestCache_ApplyDelta_UnknownTokenDroppedSilently(t *testing.T) {
	c := newTestCache()

	c.ApplyDelta("Z1", []types.PriceChange{{Price: "0.5", Side: types.SideSell, Size: "10"}})

	if c.Has("Z1") {
		t.Fatal("expected unknown-token delta to not create a book entry")
	}
	if _, _, ok := c.BestAsk("Z1"); ok {
		t.Fatal("expected no best ask for a token that never received a snapshot")
	}
}

func TestCache_ApplyDelta_RemovesLevel(t *testing.T) {
	c := newTestCache()
	c.ApplySnapshot("N1", nil, []types.PriceLevel{{Price: "0.46", Size: "50"}})

	c.ApplyDelta("N1", []types.PriceChange{{Price: "0.46", Side: types.SideSell, Size: "0"}})

	if _, _, ok := c.BestAsk("N1"); ok {
		t.Fatal("expected best ask to be gone after zero-size delta")
	}
}

func TestCache_ApplyDelta_ZeroOnAbsentKeyIsNoOp(t *testing.T) {
	c := newTestCache()
	c.ApplySnapshot("N1", nil, nil)

	c.ApplyDelta("N1", []types.PriceChange{{Price: "0.90", Side: types.SideSell, Size: "0"}})

	bids, asks, _ := c.GetBook("N1")
	if len(bids) != 0 || len(asks) != 0 {
		t.Fatalf("expected no levels, got bids=%d asks=%d", len(bids), len(asks))
	}
}

func TestCache_ApplyDelta_RoutesBySide(t *testing.T) {
	c := newTestCache()
	c.ApplySnapshot("T1", nil, nil)

	c.ApplyDelta("T1", []types.PriceChange{
		{Price: "0.30", Side: types.SideBuy, Size: "20"},
		{Price: "0.35", Side: types.SideSell, Size: "15"},
	})

	bidPrice, bidSize, ok := c.BestBid("T1")
	if !ok || bidPrice != 0.30 || bidSize != 20 {
		t.Fatalf("unexpected bid: price=%v size=%v ok=%v", bidPrice, bidSize, ok)
	}
	askPrice, askSize, ok := c.BestAsk("T1")
	if !ok || askPrice != 0.35 || askSize != 15 {
		t.Fatalf("unexpected ask: price=%v size=%v ok=%v", askPrice, askSize, ok)
	}
}

func TestCache_OnUpdate_FiresSequentiallyAfterMutation(t *testing.T) {
	c := newTestCache()
	var order []string

	c.OnUpdate(func(tokenID string) { order = append(order, "first:"+tokenID) })
	c.OnUpdate(func(tokenID string) { order = append(order, "second:"+tokenID) })

	c.ApplySnapshot("Y1", nil, []types.PriceLevel{{Price: "0.40", Size: "1"}})

	if len(order) != 2 || order[0] != "first:Y1" || order[1] != "second:Y1" {
		t.Fatalf("callbacks did not fire in registration order: %v", order)
	}
	// Callback observes state post-mutation.
	if _, _, ok := c.BestAsk("Y1"); !ok {
		t.Fatal("expected mutation visible by the time callbacks fire")
	}
}
