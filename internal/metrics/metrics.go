// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pawfinder"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_requests_total",
		Help:      "Outbound catalog API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_token_refreshes_total",
		Help:      "Catalog access token refresh attempts by outcome.",
	}, []string{"outcome"})

	TokenExpiry = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_token_expiry_timestamp_seconds",
		Help:      "Unix time at which the current catalog access token expires.",
	})

	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Registration and login attempts by action and outcome.",
	}, []string{"action", "outcome"})
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
	OutcomeMissing = "not_found"
)

func Handler() http.Handler {
	return promhttp.Handler()
}
