// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus metrics for the daemon's internal
// operation. These are distinct from the values published on the
// system-bus RPC surface: they describe the daemon's own health, not
// the laptop's.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal counts RPC method invocations by method and status.
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uccd_rpc_calls_total",
			Help: "Total RPC method calls handled by the daemon",
		},
		[]string{"method", "status"},
	)

	// RPCCallDuration tracks RPC method latency.
	RPCCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uccd_rpc_call_duration_seconds",
			Help:    "RPC method call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// WorkerTickDuration tracks how long each worker's periodic tick takes.
	WorkerTickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uccd_worker_tick_duration_seconds",
			Help:    "Worker tick duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"worker"},
	)

	// WorkerTickErrors counts ticks that logged an error.
	WorkerTickErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uccd_worker_tick_errors_total",
			Help: "Worker ticks that encountered an error",
		},
		[]string{"worker"},
	)

	// BLEState tracks the current BLE water-cooler state machine state.
	// Value is the enum ordinal of ble.State.
	BLEState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uccd_ble_state",
			Help: "Water-cooler BLE state machine state (ordinal)",
		},
	)

	// BLEConsecutiveFailures tracks the BLE worker's failure counter that
	// drives backoff and adapter reset.
	BLEConsecutiveFailures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uccd_ble_consecutive_failures",
			Help: "Consecutive BLE connection failures since last success",
		},
	)

	// ProfileApplyTotal counts profile applications by resulting power state.
	ProfileApplyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uccd_profile_apply_total",
			Help: "Profile applications by power state",
		},
		[]string{"power_state"},
	)
)

// RecordRPCCall records metrics for a completed RPC call.
func RecordRPCCall(method, status string, durationSeconds float64) {
	RPCCallsTotal.WithLabelValues(method, status).Inc()
	RPCCallDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordWorkerTick records the duration of one worker tick and whether it
// produced an error.
func RecordWorkerTick(worker string, durationSeconds float64, errored bool) {
	WorkerTickDuration.WithLabelValues(worker).Observe(durationSeconds)
	if errored {
		WorkerTickErrors.WithLabelValues(worker).Inc()
	}
}

// SetBLEState publishes the current BLE state machine state and failure
// counter.
func SetBLEState(state int, consecutiveFailures int) {
	BLEState.Set(float64(state))
	BLEConsecutiveFailures.Set(float64(consecutiveFailures))
}

// RecordProfileApply records a profile application for the given power
// state ("power_ac", "power_bat", "power_wc").
func RecordProfileApply(powerState string) {
	ProfileApplyTotal.WithLabelValues(powerState).Inc()
}
