package storage

import (
	"context"

	"github.com/mselser95/arbcore/pkg/types"
)

// Storage is the interface for persisting detected arbitrage opportunities.
type Storage interface {
	// StoreOpportunity stores an arbitrage opportunity.
	StoreOpportunity(ctx context.Context, opp *types.Opportunity) error

	// Close closes the storage connection.
	Close() error
}
