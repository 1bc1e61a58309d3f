package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	opportunitiesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbcore_dispatch_opportunities_skipped_total",
		Help: "Total number of updates that did not reach order placement, by reason",
	}, []string{"reason"})

	legAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbcore_dispatch_leg_attempts_total",
		Help: "Total number of order-placement leg attempts, by side and outcome",
	}, []string{"side", "outcome"})

	compensationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbcore_dispatch_compensations_total",
		Help: "Total number of single-leg fills cancelled because the paired leg failed",
	})

	dispatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbcore_dispatch_duration_seconds",
		Help:    "Time to place and join both legs of a detected opportunity",
		Buckets: prometheus.DefBuckets,
	})
)
