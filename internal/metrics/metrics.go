// Package metrics defines and registers the Prometheus metrics exported by
// the BileMo API. It is the single source of truth for metric names, labels
// and help strings. All metrics live in the default registry and are served
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bilemo"

// ── Response cache ───────────────────────────────────────────────────────────

// CacheLookupsTotal counts GetOrCompute calls.
// Label:
//   - tag: the first tag of the looked-up key (e.g. "usersCache")
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Total number of response cache lookups.",
	},
	[]string{"tag"},
)

// CacheComputationsTotal counts lookups that ran the compute function.
// Lookups minus computations is the hit count.
// Labels:
//   - tag: the first tag of the key
//   - result: "ok" or "error"
var CacheComputationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "computations_total",
		Help:      "Total number of response cache misses that computed a payload.",
	},
	[]string{"tag", "result"},
)

// CacheInvalidationsTotal counts tag invalidations.
// Labels:
//   - tag: the invalidated tag
//   - origin: "local" or "remote" (received from another replica)
var CacheInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Total number of cache tag invalidations.",
	},
	[]string{"tag", "origin"},
)

// ── HTTP ─────────────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request handling time.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern (e.g. "/api/users/{id}")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
