package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	TicketsCreated    prometheus.Counter
	TicketsAccepted   prometheus.Counter
	TicketsCompleted  prometheus.Counter
	TicketsRequeued   prometheus.Counter
	AllocationRetries prometheus.Counter
	HTTPDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TicketsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "turnero_tickets_created_total",
			Help: "Total number of tickets created.",
		}),
		TicketsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "turnero_tickets_accepted_total",
			Help: "Total number of tickets accepted by an operator.",
		}),
		TicketsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "turnero_tickets_completed_total",
			Help: "Total number of tickets finalized.",
		}),
		TicketsRequeued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "turnero_tickets_requeued_total",
			Help: "Total number of waiting tickets re-bound to a freed counter.",
		}),
		AllocationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "turnero_allocation_retries_total",
			Help: "Total number of transaction retries caused by numbering or binding races.",
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "turnero_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
