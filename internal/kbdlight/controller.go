// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package kbdlight

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

// Controller owns the detected LED zone directories and applies zone
// state to them, gated by an enabled flag the RPC surface toggles via
// SetEnabled (mirrors settings.KeyboardBacklightControlEnabled).
type Controller struct {
	zones []string
	caps  Capabilities

	enabled atomic.Bool

	mu        sync.RWMutex
	lastState []ZoneState
}

// NewController builds a Controller over already-detected zones.
func NewController(zones []string, caps Capabilities) *Controller {
	c := &Controller{zones: zones, caps: caps}
	c.enabled.Store(true)
	return c
}

// Capabilities returns the detected capability set.
func (c *Controller) Capabilities() Capabilities { return c.caps }

// SetEnabled gates Apply. Disabling does not clear the last-known
// state; it only stops new requests from reaching the hardware, per
// §4.9.
func (c *Controller) SetEnabled(enabled bool) { c.enabled.Store(enabled) }

// Enabled reports the current gate state.
func (c *Controller) Enabled() bool { return c.enabled.Load() }

// State returns the last successfully applied zone state.
func (c *Controller) State() []ZoneState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ZoneState(nil), c.lastState...)
}

// Apply pushes zones to the hardware following the §4.9 algorithm: one
// shared brightness write from zone 0, then (if RGB-capable) one
// multi_intensity write per zone bracketed by a buffer_input atomic
// commit. A disabled controller drops the update silently, leaving
// the previously published state intact.
func (c *Controller) Apply(ctx context.Context, state []ZoneState) error {
	if !c.enabled.Load() {
		return nil
	}
	if len(c.zones) == 0 {
		return hwerr.ErrUnsupported
	}
	if len(state) == 0 {
		return nil
	}

	if !sysfs.At(c.zones[0] + "/brightness").WriteInt(ctx, state[0].Brightness) {
		return hwerr.ErrTransient
	}

	if c.caps.RGB {
		c.writeRGBZones(ctx, state)
	}

	c.mu.Lock()
	c.lastState = append([]ZoneState(nil), state...)
	c.mu.Unlock()
	return nil
}

func (c *Controller) writeRGBZones(ctx context.Context, state []ZoneState) {
	buffer := sysfs.At(c.zones[0] + "/device/controls/buffer_input")
	for i := 0; i < len(c.zones) && i < len(state); i++ {
		buffer.WriteInt(ctx, 1)
		z := state[i]
		sysfs.At(c.zones[i] + "/multi_intensity").WriteString(ctx, fmt.Sprintf("%d %d %d", z.R, z.G, z.B))
		buffer.WriteInt(ctx, 0)
	}
}
