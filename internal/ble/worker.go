// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package ble

import (
	"context"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/metrics"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

// Worker drives the §4.7 state machine on a single goroutine's 1 Hz
// timer. Every public mutator dispatches a closure onto that
// goroutine and blocks until it runs, so callers never touch adapter
// or link state directly.
type Worker struct {
	adapter Adapter
	snap    *snapshot.DbusData

	commands chan func()

	state       State
	stateEntry  time.Time
	failures    int
	link        Link
	connectedAt time.Time

	lastKnownAddress string
	lastDiscoveryAt  time.Time
	uartReadySeen    bool

	lastWriteAt time.Time

	lastFanSpeed  atomic.Int32 // -1 == unknown
	lastPump      atomic.Int32 // -1 == unknown
	lastRGBPacked atomic.Int32 // -1 == unknown; else r<<24|g<<16|b<<8|mode
}

// NewWorker builds a Worker over adapter, publishing state into snap.
func NewWorker(adapter Adapter, snap *snapshot.DbusData) *Worker {
	w := &Worker{
		adapter:    adapter,
		snap:       snap,
		commands:   make(chan func()),
		state:      Disconnected,
		stateEntry: time.Time{},
	}
	w.lastFanSpeed.Store(-1)
	w.lastPump.Store(-1)
	w.lastRGBPacked.Store(-1)
	snap.SetWaterCoolerAvailable(false)
	snap.SetWaterCoolerConnected(false)
	snap.SetWaterCoolerScanningEnabled(true)
	return w
}

// Name identifies this worker for logs and metrics labels.
func (w *Worker) Name() string { return "ble" }

// Run drives the 1 Hz state machine loop until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	w.enter(Disconnected)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-w.commands:
			fn()
		case <-ticker.C:
			start := time.Now()
			w.tick(ctx)
			metrics.WorkerTickDuration.WithLabelValues("ble").Observe(time.Since(start).Seconds())
			metrics.SetBLEState(int(w.state), w.failures)
		}
	}
}

// dispatch runs fn on the worker's event-loop goroutine and blocks
// until it completes, the blocking-dispatch contract §4.7 requires for
// cross-thread mutators.
func (w *Worker) dispatch(fn func()) {
	done := make(chan struct{})
	w.commands <- func() {
		fn()
		close(done)
	}
	<-done
}

func (w *Worker) enter(s State) {
	w.state = s
	w.stateEntry = time.Now()
}

func (w *Worker) elapsed() time.Duration { return time.Since(w.stateEntry) }

func (w *Worker) tick(ctx context.Context) {
	if !w.snap.WaterCoolerScanningEnabled() {
		return
	}

	switch w.state {
	case Disconnected:
		w.tickDisconnected(ctx)
	case Discovering:
		w.tickDiscovering(ctx)
	case Reconnecting:
		w.tickConnectAttempt(ctx, true, reconnectingTimeoutSecs)
	case Connecting:
		w.tickConnectAttempt(ctx, false, connectingTimeoutSecs)
	case Connected:
		w.tickConnected(ctx)
	case Error:
		w.tickError(ctx)
	}
}

func (w *Worker) tickDisconnected(ctx context.Context) {
	if w.lastKnownAddress != "" {
		w.enter(Reconnecting)
		return
	}
	if time.Since(w.lastDiscoveryAt) < discoveryRetrySeconds*time.Second {
		return
	}
	w.lastDiscoveryAt = time.Now()
	w.enter(Discovering)
}

func (w *Worker) tickDiscovering(ctx context.Context) {
	scanCtx, cancel := context.WithTimeout(ctx, discoveryScanTimeoutSecs*time.Second)
	defer cancel()

	var found []Peripheral
	err := w.adapter.Scan(scanCtx, discoveryScanTimeoutSecs*time.Second, func(p Peripheral) bool {
		if containsLCT(p.Name) {
			found = append(found, p)
			return true
		}
		return false
	})
	if err != nil || len(found) == 0 {
		w.snap.SetWaterCoolerAvailable(false)
		w.enter(Disconnected)
		return
	}

	w.snap.SetWaterCoolerAvailable(true)
	w.lastKnownAddress = found[0].Address
	w.enter(Connecting)
}

func containsLCT(name string) bool {
	lower := func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b + ('a' - 'A')
		}
		return b
	}
	target := "lct"
	if len(name) < len(target) {
		return false
	}
	for i := 0; i+len(target) <= len(name); i++ {
		match := true
		for j := 0; j < len(target); j++ {
			if lower(name[i+j]) != target[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (w *Worker) tickConnectAttempt(ctx context.Context, isReconnect bool, timeoutSecs int) {
	if w.elapsed() > time.Duration(timeoutSecs)*time.Second {
		w.onConnectFailure()
		return
	}

	connCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	link, err := w.adapter.Connect(connCtx, w.lastKnownAddress, time.Duration(timeoutSecs)*time.Second)
	if err != nil {
		w.onConnectFailure()
		return
	}

	w.link = link
	w.connectedAt = time.Now()
	w.uartReadySeen = false
	w.enter(Connected)
}

func (w *Worker) onConnectFailure() {
	w.failures++
	w.link = nil
	if !isReconnectState(w.state) {
		w.lastKnownAddress = ""
	}
	klog.InfoS("water cooler connect attempt failed", "failures", w.failures, "state", w.state.String())
	if w.failures >= adapterResetFailureThreshold {
		w.enter(Error)
		return
	}
	w.enter(Disconnected)
}

func isReconnectState(s State) bool { return s == Reconnecting }

func (w *Worker) tickConnected(ctx context.Context) {
	if w.link == nil || !w.link.IsConnected() {
		w.failures++
		w.link = nil
		w.snap.SetWaterCoolerConnected(false)
		w.enter(Disconnected)
		return
	}

	w.snap.SetWaterCoolerConnected(true)

	if !w.uartReadySeen {
		w.uartReadySeen = true
		w.writeThrottled(ctx, EncodePumpFrame(hwio.PumpOff), true)
		w.writeThrottled(ctx, EncodeFanFrame(initialFanSpeedPercent), false)
		w.lastPump.Store(int32(hwio.PumpOff))
		w.lastFanSpeed.Store(initialFanSpeedPercent)
		w.failures = 0
	}
}

func (w *Worker) tickError(ctx context.Context) {
	wait := time.Duration(backoffSeconds(w.failures)) * time.Second
	if w.elapsed() < wait {
		return
	}

	if w.failures >= adapterResetFailureThreshold {
		if err := w.adapter.ResetPowerCycle(ctx); err == nil {
			w.failures = 0
		}
	}
	w.enter(Disconnected)
}

// writeThrottled enforces the §4.7 80 ms minimum gap between
// successive UART writes. Called only from the event-loop goroutine.
func (w *Worker) writeThrottled(ctx context.Context, frame [8]byte, withResponse bool) error {
	if gap := time.Since(w.lastWriteAt); gap < bleWriteGapMillis*time.Millisecond {
		time.Sleep(bleWriteGapMillis*time.Millisecond - gap)
	}
	w.lastWriteAt = time.Now()
	if w.link == nil {
		return nil
	}
	return w.link.WriteTX(ctx, frame, withResponse)
}

// IsConnected reads the event loop's link without synchronization.
// Called only from the event-loop goroutine; other goroutines read
// snapshot.DbusData.WaterCoolerConnected instead.
func (w *Worker) IsConnected() bool {
	return w.link != nil && w.link.IsConnected()
}

// LastFanSpeed returns the last successfully written fan duty, or -1
// if none has been sent yet. Safe from any goroutine.
func (w *Worker) LastFanSpeed() int { return int(w.lastFanSpeed.Load()) }

// LastPumpLevel returns the last successfully written pump level, or
// -1 if none has been sent yet. Safe from any goroutine.
func (w *Worker) LastPumpLevel() int { return int(w.lastPump.Load()) }

// LastRGB returns the last successfully written (r,g,b,mode), or ok
// false if none has been sent yet. Safe from any goroutine.
func (w *Worker) LastRGB() (r, g, b byte, mode LEDMode, ok bool) {
	packed := w.lastRGBPacked.Load()
	if packed < 0 {
		return 0, 0, 0, 0, false
	}
	return byte(packed >> 24), byte(packed >> 16), byte(packed >> 8), LEDMode(byte(packed)), true
}

func packRGB(r, g, b byte, mode LEDMode) int32 {
	return int32(r)<<24 | int32(g)<<16 | int32(b)<<8 | int32(byte(mode))
}

// SetFanSpeed dispatches a fan-speed write to the event loop,
// de-duplicating against the last successfully sent value.
func (w *Worker) SetFanSpeed(ctx context.Context, percent int) {
	w.dispatch(func() {
		if int(w.lastFanSpeed.Load()) == percent {
			return
		}
		if w.writeThrottled(ctx, EncodeFanFrame(percent), false) == nil {
			w.lastFanSpeed.Store(int32(percent))
		}
	})
}

// SetPumpVoltage dispatches a pump-voltage write to the event loop.
// The caller (orchestrator/RPC layer) is responsible for never
// requesting Pump12V autonomously; this method honors whatever level
// it is given.
func (w *Worker) SetPumpVoltage(ctx context.Context, level hwio.PumpLevel) {
	w.dispatch(func() {
		if hwio.PumpLevel(w.lastPump.Load()) == level {
			return
		}
		if w.writeThrottled(ctx, EncodePumpFrame(level), true) == nil {
			w.lastPump.Store(int32(level))
		}
	})
}

// SetLEDColor dispatches an RGB write to the event loop. mode must
// already be resolved (Temperature -> Static) by the caller.
func (w *Worker) SetLEDColor(ctx context.Context, r, g, b byte, mode LEDMode) {
	w.dispatch(func() {
		packed := packRGB(r, g, b, mode)
		if w.lastRGBPacked.Load() == packed {
			return
		}
		if w.writeThrottled(ctx, EncodeRGBFrame(r, g, b, mode), true) == nil {
			w.lastRGBPacked.Store(packed)
		}
	})
}

// TurnOffFan dispatches a fan-off write.
func (w *Worker) TurnOffFan(ctx context.Context) { w.SetFanSpeed(ctx, 0) }

// TurnOffPump dispatches a pump-off write.
func (w *Worker) TurnOffPump(ctx context.Context) { w.SetPumpVoltage(ctx, hwio.PumpOff) }

// TurnOffLED dispatches an RGB-off write.
func (w *Worker) TurnOffLED(ctx context.Context) {
	w.dispatch(func() {
		if w.writeThrottled(ctx, EncodeRGBOffFrame(), true) == nil {
			w.lastRGBPacked.Store(-1)
		}
	})
}

// SetScanningEnabled gates the whole state machine per §4.7's
// waterCoolerScanningEnabled flag.
func (w *Worker) SetScanningEnabled(enabled bool) { w.snap.SetWaterCoolerScanningEnabled(enabled) }

// State returns the current state machine state. Intended for
// diagnostics/tests; call from the event-loop goroutine or accept
// eventual consistency.
func (w *Worker) State() State { return w.state }

// ConnectedSince returns when the current link was established. Zero
// when not connected.
func (w *Worker) ConnectedSince() time.Time { return w.connectedAt }
