// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package cpuctl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/profile"
)

type fixedProfileSource struct {
	p profile.Profile
}

func (f fixedProfileSource) ActiveProfile() profile.Profile { return f.p }

func TestWorkerValidateReappliesOnDrift(t *testing.T) {
	c, _ := newFakeController(t)
	src := fixedProfileSource{p: profile.Profile{CPU: profile.CPUSettings{Governor: "performance"}}}
	w := NewWorker(c, src)

	w.validate(context.Background())

	got, err := c.GovernorAt(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "performance", got)
	assert.Equal(t, 0, w.consecutiveFailures)
	assert.False(t, w.gaveUp)
}

func TestWorkerValidateNoopWhenMatching(t *testing.T) {
	c, _ := newFakeController(t)
	require.NoError(t, c.SetGovernor(context.Background(), 0, "powersave"))
	src := fixedProfileSource{p: profile.Profile{CPU: profile.CPUSettings{Governor: "powersave"}}}
	w := NewWorker(c, src)

	w.validate(context.Background())

	assert.Equal(t, 0, w.consecutiveFailures)
	assert.False(t, w.gaveUp)
}

func TestWorkerValidateGivesUpAfterMaxAttempts(t *testing.T) {
	c, _ := newFakeController(t)
	// EPP preference not in the available list makes every reapply fail.
	src := fixedProfileSource{p: profile.Profile{CPU: profile.CPUSettings{
		EnergyPerformancePreference: "does-not-exist",
	}}}
	w := NewWorker(c, src)

	for i := 0; i < maxReapplyAttempts; i++ {
		w.validate(context.Background())
	}

	assert.Equal(t, maxReapplyAttempts, w.consecutiveFailures)
	assert.True(t, w.gaveUp)

	// A further validate call does not bump consecutiveFailures past
	// the point it gave up at.
	w.validate(context.Background())
	assert.Equal(t, maxReapplyAttempts, w.consecutiveFailures)
}

func TestWorkerValidateRearmsAfterSuccess(t *testing.T) {
	c, _ := newFakeController(t)
	src := &mutableProfileSource{p: profile.Profile{CPU: profile.CPUSettings{
		EnergyPerformancePreference: "does-not-exist",
	}}}
	w := NewWorker(c, src)

	for i := 0; i < maxReapplyAttempts; i++ {
		w.validate(context.Background())
	}
	require.True(t, w.gaveUp)

	// The profile changes to something that already matches live state
	// (e.g. an operator edited it back), letting the next validate pass
	// without ever needing a reapply.
	src.p.CPU.EnergyPerformancePreference = "balance_performance"
	w.validate(context.Background())

	assert.False(t, w.gaveUp)
	assert.Equal(t, 0, w.consecutiveFailures)
}

type mutableProfileSource struct {
	p profile.Profile
}

func (m *mutableProfileSource) ActiveProfile() profile.Profile { return m.p }
