package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat Prometheus metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "happycart",
			Name:      "chat_requests_total",
			Help:      "Chat queries by resolved intent",
		},
		[]string{"intent"},
	)

	SearchStaleMappingTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "happycart",
			Name:      "search_stale_mapping_total",
			Help:      "Filtered product ids skipped because the id mapping has no entry",
		},
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers Prometheus chat metrics. Must be called once from main.
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(SearchStaleMappingTotal)
	chatMetricsRegistered = true
}
