package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Opportunity is the value a detector check produces when a binary
// market's two best asks clear the fee-adjusted spread threshold.
// Ephemeral: computed per update, consumed by the dispatcher, never
// persisted by the detector itself.
type Opportunity struct {
	ID             string
	MarketID       string
	MarketQuestion string
	YesTokenID     string
	NoTokenID      string
	DetectedAt     time.Time

	YesAsk float64
	NoAsk  float64

	RawSpread         float64
	FeeCost           float64
	NetSpread         float64
	ExpectedProfitPct float64
}

// NewOpportunity builds an Opportunity from the two best asks already
// known to clear the net-spread threshold; the caller (the detector) is
// responsible for the threshold check itself.
func NewOpportunity(marketID, question, yesToken, noToken string, yesAsk, noAsk, feeRate float64) *Opportunity {
	rawSpread := 1 - yesAsk - noAsk
	feeCost := feeRate * (yesAsk + noAsk)
	netSpread := rawSpread - feeCost

	denom := yesAsk + noAsk + feeCost
	var expectedProfitPct float64
	if denom != 0 {
		expectedProfitPct = netSpread / denom * 100
	}

	return &Opportunity{
		ID:                uuid.New().String(),
		MarketID:          marketID,
		MarketQuestion:    question,
		YesTokenID:        yesToken,
		NoTokenID:         noToken,
		DetectedAt:        time.Now(),
		YesAsk:            yesAsk,
		NoAsk:             noAsk,
		RawSpread:         rawSpread,
		FeeCost:           feeCost,
		NetSpread:         netSpread,
		ExpectedProfitPct: expectedProfitPct,
	}
}

func (o *Opportunity) String() string {
	return fmt.Sprintf("opportunity[%s] market=%s yes_ask=%.4f no_ask=%.4f net_spread=%.4f profit_pct=%.2f",
		o.ID, o.MarketID, o.YesAsk, o.NoAsk, o.NetSpread, o.ExpectedProfitPct)
}
