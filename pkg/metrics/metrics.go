// Package metrics exposes the Prometheus registry used by the repository
// browser. Metrics are defined in the packages that record them (client,
// view) and registered through promauto; this package serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registry used by the browser.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source Handler serves. It must collect what Registry holds.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler for the /metrics endpoint. Scrapes of the
// handler itself are counted in Registry.
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(Registry, promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{}))
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - repo_requests_total{status} (Counter): Page requests by HTTP status or "network_error"
//   - repo_request_duration_seconds (Histogram): Page request duration
//   - repo_fetch_errors_total{class} (Counter): Failed fetches by class (client, server, network, decode)
//
// View Metrics (pkg/view):
//   - repo_view_transitions_total{event} (Counter): Reducer events (next_page, prev_page, retry, fetched, fetch_failed)
//   - repo_view_stale_results_total (Counter): Results dropped because a newer request superseded them
//
// Example Prometheus Queries:
//
//   # Fetch failure ratio
//   sum(rate(repo_fetch_errors_total[5m])) / sum(rate(repo_requests_total[5m]))
//
//   # P95 page latency
//   histogram_quantile(0.95, rate(repo_request_duration_seconds_bucket[5m]))
//
//   # How often the page-tag guard fires
//   rate(repo_view_stale_results_total[5m])
