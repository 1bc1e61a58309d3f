package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbcore_feed_active_connections",
		Help: "1 if the feed websocket is currently connected, 0 otherwise",
	})

	reconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbcore_feed_reconnects_total",
		Help: "Total number of websocket reconnect attempts",
	})

	messagesReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbcore_feed_messages_received_total",
		Help: "Total number of feed events received, by event type",
	}, []string{"event_type"})

	messagesUnparseableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbcore_feed_messages_unparseable_total",
		Help: "Total number of frames that failed to parse as feed events",
	})

	messageProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbcore_feed_message_processing_duration_seconds",
		Help:    "Time spent applying one feed event to the book cache",
		Buckets: prometheus.DefBuckets,
	})
)
