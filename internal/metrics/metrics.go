package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "linkfinder"

// Document store and search Prometheus metrics.
var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Total number of document store requests",
		},
		[]string{"operation", "status"}, // status: HTTP code or "error"
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_request_duration_seconds",
			Help:      "Document store request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"operation"},
	)

	SchemaCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_cache_total",
			Help:      "Schema cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SearchReferences = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_references",
			Help:      "Number of references returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	SearchMonthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_month_failures_total",
			Help:      "Months excluded from a search because of a failure",
		},
		[]string{"stage"}, // "schema" / "rows"
	)

	BotEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_events_total",
			Help:      "Chat events handled by kind",
		},
		[]string{"kind", "status"},
	)
)

var registered bool

// RegisterMetrics registers all Prometheus metrics. Must be called once from main.
func RegisterMetrics() {
	if registered {
		return
	}
	prometheus.MustRegister(RemoteRequestsTotal)
	prometheus.MustRegister(RemoteRequestDuration)
	prometheus.MustRegister(SchemaCacheTotal)
	prometheus.MustRegister(SearchReferences)
	prometheus.MustRegister(SearchMonthFailuresTotal)
	prometheus.MustRegister(BotEventsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	registered = true
}
