// Package metrics exposes casedocs counters and histograms in Prometheus
// format on a dedicated registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Suggestion outcomes.
const (
	OutcomeMatched = "matched"
	OutcomeNoMatch = "no_match"
	OutcomeEmpty   = "empty"
)

// Registry holds every casedocs metric plus Go runtime and process collectors.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// --- Pre-defined metrics used across the application ---

var (
	SuggestionRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "casedocs_suggestion_requests_total",
		Help: "Document suggestion requests by outcome",
	}, []string{"outcome"})

	SuggestedDocuments = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "casedocs_suggested_documents",
		Help:    "Number of distinct documents suggested per matched request",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	Deliveries = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "casedocs_deliveries_total",
		Help: "Client message deliveries by transport and status",
	}, []string{"transport", "status"})

	SendLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "casedocs_send_latency_seconds",
		Help:    "Transport send latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"transport"})

	ScenariosLoaded = factory.NewGauge(prometheus.GaugeOpts{
		Name: "casedocs_scenarios_loaded",
		Help: "Rows in the loaded scenario table",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler renders the registry in Prometheus text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
