// Package metrics defines and registers the console's Prometheus metrics.
// It is the single source of truth for metric names, labels, and help strings.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ddadmin"

// GatewayRequestsTotal counts admin API attempts that reached the wire.
// Labels:
//   - method: HTTP method
//   - code: HTTP status code, or "error" when no response was received
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of admin API requests, labelled by method and status code.",
	},
	[]string{"method", "code"},
)

// GatewayRequestDuration measures admin API round trips.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of admin API round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// HTTPRequestsTotal counts requests served by the console.
// Labels:
//   - route: matched ServeMux pattern, or "unmatched"
//   - code: HTTP status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of console HTTP requests, labelled by route and status code.",
	},
	[]string{"route", "code"},
)

// HTTPRequestDuration measures console request handling time.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of console HTTP requests, labelled by route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// SessionRedirectsTotal counts transitions to the login page.
// Label:
//   - reason: "no_credential", "unauthenticated" or "logout"
var SessionRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_redirects_total",
		Help:      "Total number of redirects to the login page, labelled by reason.",
	},
	[]string{"reason"},
)

// LoginAttemptsTotal counts login submissions.
// Label:
//   - result: "ok", "denied", "rejected", "transport" or "invalid"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ListShapesTotal counts list payloads by the envelope they arrived in.
var ListShapesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_shapes_total",
		Help:      "Total number of normalized list payloads, labelled by envelope shape.",
	},
	[]string{"shape"},
)

// SlotsPrunedTotal counts credential slots removed by the session janitor.
var SlotsPrunedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slots_pruned_total",
		Help:      "Total number of idle credential slots pruned.",
	},
)

// StatusLabel renders a status code for the code label; 0 means no response.
func StatusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
