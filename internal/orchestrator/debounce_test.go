// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWCDebouncerAcceptsConnectAfterHoldTime(t *testing.T) {
	var d wcDebouncer
	start := time.Unix(0, 0)

	assert.False(t, d.Evaluate(start, true), "raw flip alone must not be accepted immediately")
	assert.False(t, d.Evaluate(start.Add(1*time.Second), true))
	assert.True(t, d.Evaluate(start.Add(3*time.Second), true))
}

func TestWCDebouncerRejectsFlappingConnect(t *testing.T) {
	var d wcDebouncer
	start := time.Unix(0, 0)

	d.Evaluate(start, true)
	// Flaps back to false before the 3s hold elapses: the pending
	// connect must reset rather than accept stale elapsed time.
	assert.False(t, d.Evaluate(start.Add(2*time.Second), false))
	assert.False(t, d.Evaluate(start.Add(4*time.Second), true))
	assert.False(t, d.Evaluate(start.Add(5*time.Second), true), "only 1s since the pending connect restarted at t=4s")
	assert.True(t, d.Evaluate(start.Add(7*time.Second), true), "3s since the pending connect restarted at t=4s")
}

func TestWCDebouncerDisconnectNeedsLongerHold(t *testing.T) {
	var d wcDebouncer
	start := time.Unix(0, 0)
	d.Evaluate(start, true)
	assert.True(t, d.Evaluate(start.Add(3*time.Second), true))

	assert.True(t, d.Evaluate(start.Add(5*time.Second), false), "disconnect not yet held 10s")
	assert.True(t, d.Evaluate(start.Add(12*time.Second), false), "still within 10s of the flip at t=5s")
	assert.False(t, d.Evaluate(start.Add(16*time.Second), false), "10s since the flip at t=5s has elapsed")
}
