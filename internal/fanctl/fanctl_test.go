// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

func newTestController(t *testing.T) (*Controller, *hwio.Mock, *snapshot.DbusData) {
	t.Helper()
	m := hwio.NewMock(hwio.VariantUniwill)
	snap := snapshot.New()
	c, err := NewController(context.Background(), m, snap)
	require.NoError(t, err)
	return c, m, snap
}

func TestTickPublishesFanReadings(t *testing.T) {
	c, m, snap := newTestController(t)
	m.SetFanTemperature(0, 50)
	m.SetFanTemperature(1, 50)

	p := profile.DefaultProfile("p1", "test")
	p.Fan.SameSpeed = false

	err := c.Tick(context.Background(), p, true)
	require.NoError(t, err)

	readings := snap.Fans()
	require.Len(t, readings, 2)
	assert.Equal(t, 50, readings[0].Temperature)
}

func TestTickCriticalOverrideForcesMax(t *testing.T) {
	c, m, snap := newTestController(t)
	m.SetFanTemperature(0, 95)
	m.SetFanTemperature(1, 40)

	p := profile.DefaultProfile("p1", "test")
	p.Fan.SameSpeed = false

	require.NoError(t, c.Tick(context.Background(), p, true))

	readings := snap.Fans()
	assert.Equal(t, 100, readings[0].Speed)
}

func TestTickSameSpeedCouplingAdoptsMax(t *testing.T) {
	c, m, snap := newTestController(t)
	m.SetFanTemperature(0, 90)
	m.SetFanTemperature(1, 30)

	p := profile.DefaultProfile("p1", "test")
	p.Fan.SameSpeed = true

	require.NoError(t, c.Tick(context.Background(), p, true))

	readings := snap.Fans()
	require.Len(t, readings, 2)
	assert.Equal(t, readings[0].Speed, readings[1].Speed)
}

func TestTickMissingTemperatureCarriesLastSpeed(t *testing.T) {
	c, _, _ := newTestController(t)
	c.fans[0].lastSpeed = 42
	c.fans[0].missing = false

	p := profile.DefaultProfile("p1", "test")
	p.Fan.SameSpeed = false

	// Force fan 0 temperature to read as "missing" (<=1) by driving it
	// directly through the mock before tick runs.
	mock := c.io.(*hwio.Mock)
	mock.SetFanTemperature(0, 1)

	require.NoError(t, c.Tick(context.Background(), p, true))
	assert.Equal(t, 42, c.fans[0].lastSpeed)
}

func TestTickHonorsFanControlDisabled(t *testing.T) {
	c, m, snap := newTestController(t)
	m.SetFanTemperature(0, 70)
	m.SetFanTemperature(1, 70)
	require.NoError(t, m.SetFanSpeedPercent(context.Background(), 0, 33))
	require.NoError(t, m.SetFanSpeedPercent(context.Background(), 1, 33))

	p := profile.DefaultProfile("p1", "test")

	require.NoError(t, c.Tick(context.Background(), p, false))

	readings := snap.Fans()
	assert.Equal(t, 33, readings[0].Speed)
}

func TestTemporaryCurveOverridesProfile(t *testing.T) {
	c, m, _ := newTestController(t)
	m.SetFanTemperature(0, 50)
	m.SetFanTemperature(1, 50)

	c.SetTemporaryCPUCurve([]profile.FanPoint{{Temp: 0, Speed: 100}, {Temp: 100, Speed: 100}})

	p := profile.DefaultProfile("p1", "test")
	p.Fan.SameSpeed = false

	require.NoError(t, c.Tick(context.Background(), p, true))
	assert.Equal(t, 100, c.fans[0].lastSpeed)

	c.ClearTemporaryCurve()
	require.NoError(t, c.Tick(context.Background(), p, true))
	assert.NotEqual(t, 100, c.fans[0].lastSpeed)
}

func TestCurrentPumpLevelUsesBoundTable(t *testing.T) {
	c, m, _ := newTestController(t)
	m.SetFanTemperature(0, 50)
	m.SetFanTemperature(1, 50)

	p := profile.DefaultProfile("p1", "test")
	p.Fan.FanProfile = profile.PresetBalanced

	require.NoError(t, c.Tick(context.Background(), p, true))

	level := c.CurrentPumpLevel(50)
	assert.Equal(t, hwio.Pump8V, level)
}
