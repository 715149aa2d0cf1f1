package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring order processing
var (
	OrdersSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osr_orders_submitted_total",
			Help: "Total number of order submissions by outcome",
		},
		[]string{"outcome"},
	)

	OrdersCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "osr_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		},
	)

	StatusRefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "osr_status_refreshes_total",
			Help: "Total number of remote status refreshes",
		},
	)

	HistoryRecordsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "osr_history_records_purged_total",
			Help: "Total number of history records removed by retention sweeps",
		},
	)

	OrderSubmissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "osr_order_submission_duration_seconds",
			Help:    "Duration of order submissions including retries",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(OrdersSubmittedTotal)
	prometheus.MustRegister(OrdersCancelledTotal)
	prometheus.MustRegister(StatusRefreshesTotal)
	prometheus.MustRegister(HistoryRecordsPurgedTotal)
	prometheus.MustRegister(OrderSubmissionDuration)
}
