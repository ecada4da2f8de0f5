package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing and search pipeline metrics.
var (
	IndexOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forumsearch",
			Name:      "index_operations_total",
			Help:      "Vector index operations by document type",
		},
		[]string{"type", "op", "status"}, // op: "upsert" / "delete", status: "success" / "error" / "skipped"
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forumsearch",
			Name:      "search_requests_total",
			Help:      "Search requests by serving path",
		},
		[]string{"path"}, // "semantic" / "keyword"
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers pipeline metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexOperationsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	indexMetricsRegistered = true
}
