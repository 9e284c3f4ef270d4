// Package metrics defines and registers all custom Prometheus metrics for
// the logistics platform. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package load via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logistics"

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentsCreatedTotal counts newly created shipments.
// Labels:
//   - variant: the vehicle variant assigned ("DRONE", "TRUCK", "SHIP")
//   - mode: "sync" or "async"
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by assigned vehicle variant and creation mode.",
	},
	[]string{"variant", "mode"},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsEnqueuedTotal counts async job handoffs.
// Label:
//   - outcome: "accepted" or "rejected"
var JobsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_enqueued_total",
		Help:      "Total number of async shipment jobs handed to the dispatcher, by outcome.",
	},
	[]string{"outcome"},
)

// ── Simulation metrics ────────────────────────────────────────────────────────

// SimulationTicksTotal counts externally triggered simulation ticks.
var SimulationTicksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_ticks_total",
		Help:      "Total number of simulation ticks executed.",
	},
)

// SimulationVehiclesMoved counts per-tick vehicle outcomes.
// Label:
//   - action: "MOVED", "DELIVERED", or "error"
var SimulationVehiclesMoved = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_vehicle_updates_total",
		Help:      "Total number of per-vehicle simulation outcomes, by action.",
	},
	[]string{"action"},
)

// TickDuration measures how long one full simulation tick takes.
var TickDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_tick_duration_seconds",
		Help:      "Duration of one simulation tick across the whole in-transit fleet.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Stream metrics ────────────────────────────────────────────────────────────

// StreamSubscribers tracks the number of live event-stream connections.
// Label:
//   - channel: the channel subscribed to ("all", "shipments", "vehicles", "jobs")
var StreamSubscribers = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_subscribers",
		Help:      "Current number of connected event-stream subscribers, by channel.",
	},
	[]string{"channel"},
)
