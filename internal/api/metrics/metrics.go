// Package metrics defines and registers the custom Prometheus metrics of the
// minimal vehicle API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package load and
// are exposed at GET /metrics next to the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "minimal_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of administrator login attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDenialsTotal counts requests stopped by the authorization gate.
// Labels:
//   - route: the matched route, e.g. "PUT /veiculos/:id"
//   - decision: "unauthenticated" or "forbidden"
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"route", "decision"},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// ValidationFailuresTotal counts write payloads rejected by validation.
// Label:
//   - entity: "vehicle" or "administrator"
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of write payloads rejected by validation.",
	},
	[]string{"entity"},
)

// RecordWritesTotal counts successful writes.
// Labels:
//   - entity: "vehicle" or "administrator"
//   - operation: "create", "update" or "delete"
var RecordWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_writes_total",
		Help:      "Total number of records written, by entity and operation.",
	},
	[]string{"entity", "operation"},
)

// IdempotentReplaysTotal counts creates answered from a remembered
// Idempotency-Key instead of a new insert.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of vehicle creates replayed from an Idempotency-Key.",
	},
)
