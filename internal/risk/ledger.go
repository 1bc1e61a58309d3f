// Package risk implements the pre-commit admission ledger: per-token
// and aggregate exposure tracking consulted by the dispatcher before
// every leg submission. Mutated only from the dispatcher task, per the
// spec's single-writer concurrency model, so a plain mutex (not
// atomics) guards the compound state — mirroring the teacher's
// circuit-breaker's own mutex-for-compound-state shape.
package risk

import (
	"fmt"
	"sync"
)

// Config holds the ledger's two numeric limits.
type Config struct {
	MaxPositionPerToken float64
	MaxTotalExposure    float64
}

// Ledger tracks committed quote-currency exposure per token and in
// aggregate.
type Ledger struct {
	mu        sync.Mutex
	cfg       Config
	positions map[string]float64
	aggregate float64
}

// New builds a Ledger with zero starting positions.
func New(cfg Config) *Ledger {
	return &Ledger{
		cfg:       cfg,
		positions: make(map[string]float64),
	}
}

// Check reports whether committing amount against token would exceed
// either limit. Pre-commit: no side effects on rejection.
func (l *Ledger) Check(token string, amount float64) (allowed bool, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.positions[token]+amount > l.cfg.MaxPositionPerToken {
		return false, fmt.Sprintf("token %s position %.2f + %.2f exceeds per-token cap %.2f",
			token, l.positions[token], amount, l.cfg.MaxPositionPerToken)
	}
	if l.aggregate+amount > l.cfg.MaxTotalExposure {
		return false, fmt.Sprintf("aggregate exposure %.2f + %.2f exceeds total cap %.2f",
			l.aggregate, amount, l.cfg.MaxTotalExposure)
	}

	return true, ""
}

// Record monotonically adds amount to token's position and the
// aggregate. The caller is expected to have already passed Check.
func (l *Ledger) Record(token string, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.positions[token] += amount
	l.aggregate += amount
	aggregateExposure.Set(l.aggregate)
}

// Release subtracts amount from token's position, clamping at zero,
// and adjusts the aggregate by the same clamped delta.
func (l *Ledger) Release(token string, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.positions[token]
	released := amount
	if released > current {
		released = current
	}
	l.positions[token] = current - released
	l.aggregate -= released
	if l.aggregate < 0 {
		l.aggregate = 0
	}
	aggregateExposure.Set(l.aggregate)
}

// RecordRejection increments the rejected-admissions counter for the
// given human-readable reason category; callers classify their own
// reason string into a small, bounded label to keep cardinality low.
func RecordRejection(reasonLabel string) {
	admissionsRejectedTotal.WithLabelValues(reasonLabel).Inc()
}

// Position returns the current committed amount for a token.
func (l *Ledger) Position(token string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.positions[token]
}

// Aggregate returns the current total committed exposure.
func (l *Ledger) Aggregate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.aggregate
}
