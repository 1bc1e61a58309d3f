package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	admissionsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbcore_risk_admissions_rejected_total",
			Help: "Total number of risk-ledger admission checks that failed, by reason",
		},
		[]string{"reason"},
	)

	aggregateExposure = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbcore_risk_aggregate_exposure_quote",
		Help: "Current aggregate committed exposure across all tokens, in quote currency",
	})
)
