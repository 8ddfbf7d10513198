// Package metrics defines and registers all custom Prometheus metrics for
// the Eventura client gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on /metrics next to the per-request series emitted by the
// echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventura_gateway"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionOpsTotal counts session-store operations.
// Labels:
//   - op: "login", "register", "logout", "switch_role", "restore"
//   - result: "ok" or "error"; restore always reports ok, since a failed
//     restoration degrades to an anonymous session rather than erroring

var SessionOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_ops_total",
		Help:      "Total number of session operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Interest metrics ──────────────────────────────────────────────────────────

// InterestMutationsTotal counts optimistic interest mutations.
// Labels:
//   - op: "add" or "remove"
//   - result: "applied" (settled as intended) or "rolled_back"
var InterestMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interest_mutations_total",
		Help:      "Total number of interest mutations, labelled by outcome.",
	},
	[]string{"op", "result"},
)

// InterestRefreshTotal counts full re-derivations of the interest
// collection.
// Label:
//   - result: "ok" or "error"
var InterestRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interest_refresh_total",
		Help:      "Total number of interest collection refreshes.",
	},
	[]string{"result"},
)

// InterestSyncDuration measures one optimistic mutation end-to-end,
// including the remote toggle and any rollback.
// Label:
//   - op: "add" or "remove"
var InterestSyncDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "interest_sync_duration_seconds",
		Help:      "Duration of interest mutations from local apply to settlement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Comment metrics ───────────────────────────────────────────────────────────

// CommentMutationsTotal counts review mutations against the backend.
// Labels:
//   - op: "create", "update", "delete"
//   - result: "ok" or "error"
var CommentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comment_mutations_total",
		Help:      "Total number of comment/rating mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// EligibilityDeniedTotal counts review submissions rejected client-side by
// the attendance/end-time gate, before any network call.
var EligibilityDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "eligibility_denied_total",
		Help:      "Total number of review submissions rejected by the eligibility gate.",
	},
)

// ── Device metrics ────────────────────────────────────────────────────────────

// ActiveDeviceCores tracks the number of live per-device client cores.
var ActiveDeviceCores = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_device_cores",
		Help:      "Current number of in-memory per-device client cores.",
	},
)
