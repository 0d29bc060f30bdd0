// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package fanctl implements the fan-control loop (§4.5) and the
// water-cooler pump step function (§4.6): asymmetric EWMA filtering,
// hysteresis-anchored curve lookup, piecewise-linear interpolation,
// and the hardware-floor/critical-override/same-speed-coupling rules
// that turn a raw temperature reading into a fan percentage.
package fanctl

import "math"

// EWMA is an asymmetric exponentially-weighted moving average: the
// smoothing factor differs depending on whether the new sample is
// rising or falling relative to the current state. The first sample
// always initializes the state directly rather than blending from a
// zero baseline.
type EWMA struct {
	alphaRising  float64
	alphaFalling float64
	state        float64
	has          bool
}

// NewEWMA builds an EWMA with the given rising/falling smoothing
// factors (both in (0,1]).
func NewEWMA(alphaRising, alphaFalling float64) *EWMA {
	return &EWMA{alphaRising: alphaRising, alphaFalling: alphaFalling}
}

// Feed incorporates one raw sample.
func (e *EWMA) Feed(raw float64) {
	if !e.has {
		e.state = raw
		e.has = true
		return
	}
	alpha := e.alphaRising
	if raw < e.state {
		alpha = e.alphaFalling
	}
	e.state += alpha * (raw - e.state)
}

// Value returns the rounded current state, or -1 if Feed has never
// been called.
func (e *EWMA) Value() int {
	if !e.has {
		return -1
	}
	return int(math.Round(e.state))
}

// HasValue reports whether Feed has been called at least once.
func (e *EWMA) HasValue() bool { return e.has }
