// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register themselves with the default registry via promauto at
// package load; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Moderation metrics ────────────────────────────────────────────────────────

// ModerationTransitionsTotal counts moderation transition attempts.
// Labels:
//   - event: the requested event (e.g. "approve", "reject")
//   - outcome: "applied", "unauthorized", "invalid_transition", "error"
var ModerationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_transitions_total",
		Help:      "Total number of moderation transition attempts, by event and outcome.",
	},
	[]string{"event", "outcome"},
)

// ProductsCreatedTotal counts newly created listings.
// Label:
//   - status: initial status, "draft" or "pending"
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by initial status.",
	},
	[]string{"status"},
)

// CatalogCacheTotal counts public catalog cache lookups.
// Label:
//   - result: "hit" or "miss"
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of catalog cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsInitiatedTotal counts charge creations sent to the provider.
// Label:
//   - provider: mobile-money operator (e.g. "orange_money")
var PaymentsInitiatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_initiated_total",
		Help:      "Total number of payment charges initiated, by provider.",
	},
	[]string{"provider"},
)

// PaymentsCompletedTotal counts attempts that reached a terminal state.
// Labels:
//   - provider: mobile-money operator
//   - outcome: "success", "failed", "timeout", "cancelled", "provider_error"
var PaymentsCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_completed_total",
		Help:      "Total number of payment attempts that reached a terminal state.",
	},
	[]string{"provider", "outcome"},
)

// PaymentConfirmationDuration measures wall-clock time from charge creation
// to terminal state.
// Label:
//   - outcome: "success", "failed", "timeout", "cancelled", "provider_error"
var PaymentConfirmationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_confirmation_duration_seconds",
		Help:      "Duration from charge creation to terminal attempt state.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120, 180},
	},
	[]string{"outcome"},
)
