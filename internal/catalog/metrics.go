package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbcore_catalog_fetches_total",
		Help: "Total number of catalog fetch attempts, by outcome",
	}, []string{"outcome"})

	marketsFetched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbcore_catalog_markets_fetched",
		Help: "Number of market records returned by the most recent successful fetch",
	})

	marketsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbcore_catalog_markets_skipped_total",
		Help: "Total number of market records skipped for missing yes/no token ids",
	})
)
