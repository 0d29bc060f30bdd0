// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

// HysteresisDeg is the floor offset used by Hysteresis: the effective
// temperature never falls faster than 1°C per cycle, and never below
// filtered+HysteresisDeg while still falling.
const HysteresisDeg = 3

// Hysteresis tracks the "anchor" temperature used for curve lookup,
// smoothing out the fan ramp-down so small temperature dips don't
// immediately cut fan speed.
type Hysteresis struct {
	effective int
	has       bool
}

// Apply feeds one filtered-temperature sample and returns the new
// effective (hysteresis-adjusted) temperature.
func (h *Hysteresis) Apply(filtered int) int {
	if !h.has {
		h.effective = filtered
		h.has = true
		return h.effective
	}
	if filtered >= h.effective {
		h.effective = filtered
		return h.effective
	}
	floor := filtered + HysteresisDeg
	next := h.effective - 1
	if next < floor {
		next = floor
	}
	if next < filtered {
		next = filtered
	}
	h.effective = next
	return h.effective
}

// Value returns the current effective temperature without feeding a
// new sample, or -1 if Apply has never been called.
func (h *Hysteresis) Value() int {
	if !h.has {
		return -1
	}
	return h.effective
}
