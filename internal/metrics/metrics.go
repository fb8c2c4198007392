package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slab"

type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Logins          *prometheus.CounterVec
	Reconciliations *prometheus.CounterVec
	SlabsDeleted    prometheus.Counter
	SlabsUpserted   prometheus.Counter
	SlabsAdded      prometheus.Counter
	BatchesCreated  prometheus.Counter
	Exports         prometheus.Counter
}

// New registers the collectors on reg. Use prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		Reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Grid reconciliations by result.",
		}, []string{"result"}),
		SlabsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slabs_deleted_total",
			Help:      "Slab rows removed by reconciliation.",
		}),
		SlabsUpserted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slabs_upserted_total",
			Help:      "Slab rows written by reconciliation.",
		}),
		SlabsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slabs_added_total",
			Help:      "Slabs inserted through the single-row form.",
		}),
		BatchesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_created_total",
			Help:      "Batches created.",
		}),
		Exports: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Excel reports generated.",
		}),
	}
}
