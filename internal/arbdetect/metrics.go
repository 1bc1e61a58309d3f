package arbdetect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opportunitiesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbcore_opportunities_detected_total",
		Help: "Total number of arbitrage opportunities detected",
	})

	checksRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbcore_detector_checks_rejected_total",
			Help: "Total number of detector checks that did not produce an opportunity, by reason",
		},
		[]string{"reason"},
	)

	netSpreadObserved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbcore_net_spread_observed",
		Help:    "Net spread observed on detected opportunities",
		Buckets: []float64{0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5},
	})
)
