package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ingestion metrics
	TransactionsProcessed *prometheus.CounterVec
	RowsDropped           prometheus.Counter
	IngestDuration        prometheus.Histogram
	TransactionAmount     *prometheus.HistogramVec

	// Account metrics
	AccountsKnown  prometheus.Gauge
	AccountsFrozen prometheus.Counter

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Ingestion metrics
		TransactionsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_transactions_total",
				Help: "Total transactions handed to the ledger by kind and result",
			},
			[]string{"kind", "result"},
		),
		RowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "txledger_rows_dropped_total",
			Help: "Total input rows dropped by boundary validation",
		}),
		IngestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txledger_ingest_duration_seconds",
			Help:    "Duration of ingestion runs",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txledger_transaction_amount",
				Help:    "Deposit and withdrawal amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),

		// Account metrics
		AccountsKnown: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_accounts",
			Help: "Current number of client accounts known to the ledger",
		}),
		AccountsFrozen: factory.NewCounter(prometheus.CounterOpts{
			Name: "txledger_accounts_frozen_total",
			Help: "Total number of accounts frozen by a chargeback",
		}),

		// Event metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_events_published_total",
				Help: "Total events handed to the publisher by type and status",
			},
			[]string{"event_type", "status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txledger_redis_duration_seconds",
				Help:    "Redis operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
