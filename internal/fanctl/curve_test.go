// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/profile"
)

func sampleCurve() []profile.FanPoint {
	return []profile.FanPoint{
		{Temp: 20, Speed: 0},
		{Temp: 40, Speed: 20},
		{Temp: 60, Speed: 60},
		{Temp: 80, Speed: 100},
	}
}

func TestInterpolateCurveEmpty(t *testing.T) {
	assert.Equal(t, 0, InterpolateCurve(nil, 50))
}

func TestInterpolateCurveClampsBelowFirst(t *testing.T) {
	assert.Equal(t, 0, InterpolateCurve(sampleCurve(), 5))
}

func TestInterpolateCurveClampsAboveLast(t *testing.T) {
	assert.Equal(t, 100, InterpolateCurve(sampleCurve(), 120))
}

func TestInterpolateCurveExactPoint(t *testing.T) {
	assert.Equal(t, 20, InterpolateCurve(sampleCurve(), 40))
}

func TestInterpolateCurveMidpoint(t *testing.T) {
	assert.Equal(t, 40, InterpolateCurve(sampleCurve(), 50))
}

func TestInterpolateCurveBoundedByAdjacentPoints(t *testing.T) {
	curve := sampleCurve()
	for temp := 20; temp <= 80; temp++ {
		speed := InterpolateCurve(curve, temp)
		assert.GreaterOrEqual(t, speed, 0)
		assert.LessOrEqual(t, speed, 100)
	}
}

func TestPumpLevelForTempBelowAllIsOff(t *testing.T) {
	table := []profile.FanPoint{{Temp: 40, Speed: 1}, {Temp: 55, Speed: 2}}
	assert.Equal(t, hwio.PumpOff, PumpLevelForTemp(table, 30))
}

func TestPumpLevelForTempFloorLookup(t *testing.T) {
	table := []profile.FanPoint{{Temp: 40, Speed: 1}, {Temp: 55, Speed: 2}, {Temp: 70, Speed: 3}}
	assert.Equal(t, hwio.Pump7V, PumpLevelForTemp(table, 50))
	assert.Equal(t, hwio.Pump8V, PumpLevelForTemp(table, 55))
	assert.Equal(t, hwio.Pump11V, PumpLevelForTemp(table, 90))
}

func TestPumpLevelForTempClampsTo12V(t *testing.T) {
	table := []profile.FanPoint{{Temp: 40, Speed: 5}}
	assert.Equal(t, hwio.Pump12V, PumpLevelForTemp(table, 50))
}

func TestApplyHardwareFloorZeroesBelowHalf(t *testing.T) {
	assert.Equal(t, 0, ApplyHardwareFloor(5, 20, true))
}

func TestApplyHardwareFloorClampsToMin(t *testing.T) {
	assert.Equal(t, 20, ApplyHardwareFloor(15, 20, true))
	assert.Equal(t, 20, ApplyHardwareFloor(5, 20, false))
}

func TestApplyHardwareFloorNoOpAboveMin(t *testing.T) {
	assert.Equal(t, 50, ApplyHardwareFloor(50, 20, true))
}

func TestApplyCriticalOverride(t *testing.T) {
	assert.Equal(t, 100, ApplyCriticalOverride(10, 90))
	assert.Equal(t, 100, ApplyCriticalOverride(10, 95))
	assert.Equal(t, 80, ApplyCriticalOverride(10, 85))
	assert.Equal(t, 90, ApplyCriticalOverride(90, 85))
	assert.Equal(t, 30, ApplyCriticalOverride(30, 70))
}
