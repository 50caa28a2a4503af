package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	TransactionsInitiated prometheus.Counter
	TransactionsCompleted prometheus.Counter
	TransactionsCancelled prometheus.Counter
	DisputesRaised        prometheus.Counter
	DocumentsVerified     prometheus.Counter
	PaymentsConfirmed     prometheus.Counter
	RequestLatency        *prometheus.HistogramVec
}

// New creates and registers all Prometheus collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		TransactionsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deedflow_transactions_initiated_total",
			Help: "Total number of property transactions initiated",
		}),
		TransactionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deedflow_transactions_completed_total",
			Help: "Total number of ownership transfers completed",
		}),
		TransactionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deedflow_transactions_cancelled_total",
			Help: "Total number of transactions cancelled",
		}),
		DisputesRaised: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deedflow_disputes_raised_total",
			Help: "Total number of disputes raised",
		}),
		DocumentsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deedflow_documents_verified_total",
			Help: "Total number of documents verified",
		}),
		PaymentsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deedflow_payments_confirmed_total",
			Help: "Total number of payments confirmed",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deedflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
