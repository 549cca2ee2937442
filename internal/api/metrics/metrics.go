// Package metrics defines the Prometheus metrics of the booking API. It is
// the single source of truth for metric names, labels and help strings.
// All metrics register with the default registry on import.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsTotal counts booking attempts.
// Labels:
//   - source: "self" or "admin"
//   - outcome: "created", "replayed", "conflict", "invalid" or "error"
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of booking attempts, by source and outcome.",
	},
	[]string{"source", "outcome"},
)

// SlotConflictsTotal counts writes rejected because the slot was taken.
// Label:
//   - operation: "create", "update" or "status"
var SlotConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of writes rejected with slot unavailable.",
	},
	[]string{"operation"},
)

// StatusTransitionsTotal counts applied status changes, including cancellations.
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of appointment status changes, by resulting status.",
	},
	[]string{"status"},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// IdentityResolutionsTotal counts per-request identity resolutions.
// Label:
//   - result: "anonymous", "user" or "admin"
var IdentityResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_resolutions_total",
		Help:      "Total number of caller identities resolved, by result.",
	},
	[]string{"result"},
)

// AuthRequestsTotal counts identity provider calls made through the API.
// Labels:
//   - action: "signup", "signin", "signout" or "refresh"
//   - outcome: "ok" or "error"
var AuthRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_requests_total",
		Help:      "Total number of authentication requests, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// RateLimitedTotal counts requests rejected by the per-IP limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by route.",
	},
	[]string{"route"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "code"},
)

// Middleware records HTTPRequestDuration for every request. The route label
// is the registered path template so ids do not explode cardinality. It must
// wrap a middleware that renders errors (RequestLogger with HandleError) so
// the recorded status is the one sent to the client.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
