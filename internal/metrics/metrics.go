package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MovementsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_movements_created_total",
			Help: "Movements committed to the ledger, by kind and type.",
		},
		[]string{"kind", "type"},
	)

	MovementsReversed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_movements_reversed_total",
			Help: "Outflows flipped to REVERSED by compensation.",
		},
	)

	HoldsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_holds_created_total",
			Help: "Holds created (stock pre-subtracted).",
		},
	)

	HoldsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_holds_resolved_total",
			Help: "Holds leaving NONE, by terminal status.",
		},
		[]string{"status"},
	)

	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_webhook_deliveries_total",
			Help: "Payment-gateway notifications processed, by delivered status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		MovementsCreated,
		MovementsReversed,
		HoldsCreated,
		HoldsResolved,
		WebhookDeliveries,
	)
}
