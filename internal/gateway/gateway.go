// Package gateway defines the trading-gateway collaborator interface
// the dispatcher consumes, plus a dry-run implementation and a live
// EIP-712-signing implementation adapted from the order-placement
// transport the teacher's execution package built around the CLOB API.
package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// Gateway is the trading-gateway interface the dispatcher calls from
// worker goroutines. Both methods are synchronous and safe to call
// concurrently from multiple goroutines.
type Gateway interface {
	PlaceLimitOrder(ctx context.Context, tokenID, side string, price, size float64) (orderID string, err error)
	CancelOrder(ctx context.Context, orderID string) error
}

// DryRunGateway logs and synthesizes success instead of calling out to
// a real trading venue, per the dry_run configuration flag.
type DryRunGateway struct {
	logger  *zap.Logger
	counter atomic.Int64
}

// NewDryRunGateway builds a DryRunGateway.
func NewDryRunGateway(logger *zap.Logger) *DryRunGateway {
	return &DryRunGateway{logger: logger}
}

func (g *DryRunGateway) PlaceLimitOrder(_ context.Context, tokenID, side string, price, size float64) (string, error) {
	orderID := fmt.Sprintf("dryrun-%d", g.counter.Add(1))
	g.logger.Info("dry-run-order-placed",
		zap.String("token-id", tokenID),
		zap.String("side", side),
		zap.Float64("price", price),
		zap.Float64("size", size),
		zap.String("order-id", orderID))
	return orderID, nil
}

func (g *DryRunGateway) CancelOrder(_ context.Context, orderID string) error {
	g.logger.Info("dry-run-order-cancelled", zap.String("order-id", orderID))
	return nil
}
