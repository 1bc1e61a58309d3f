package book

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbcore_book_updates_total",
			Help: "Total number of book cache updates applied, by event type",
		},
		[]string{"event_type"},
	)

	tokensTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbcore_book_tokens_tracked",
		Help: "Number of tokens with at least one applied snapshot",
	})

	deltasDroppedUnknownToken = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbcore_book_deltas_dropped_unknown_token_total",
		Help: "Total number of price_change deltas dropped because no snapshot has been applied for the token",
	})

	updateProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbcore_book_update_processing_duration_seconds",
		Help:    "Time to apply one snapshot or delta and notify callbacks",
		Buckets: []float64{0.0001, 0.0002, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
)
