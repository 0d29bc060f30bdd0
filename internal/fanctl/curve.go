// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

import (
	"math"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/profile"
)

// InterpolateCurve looks up temp on a piecewise-linear fan curve,
// clamping to the first/last point's speed outside the table's range.
// An empty table yields 0.
func InterpolateCurve(points []profile.FanPoint, temp int) int {
	if len(points) == 0 {
		return 0
	}
	if temp <= points[0].Temp {
		return points[0].Speed
	}
	last := points[len(points)-1]
	if temp >= last.Temp {
		return last.Speed
	}
	for i := 1; i < len(points); i++ {
		if temp > points[i].Temp {
			continue
		}
		p0, p1 := points[i-1], points[i]
		if p1.Temp == p0.Temp {
			return p1.Speed
		}
		frac := float64(temp-p0.Temp) / float64(p1.Temp-p0.Temp)
		return int(math.Round(float64(p0.Speed) + frac*float64(p1.Speed-p0.Speed)))
	}
	return last.Speed
}

// PumpLevelForTemp implements the step-function (not interpolated)
// pump lookup from §4.6: the level of the last table entry whose temp
// is ≤ currentTemp, or Off if currentTemp is below every entry. The
// table is expected sorted ascending by temp, as
// profile.IsPumpTableValid requires.
func PumpLevelForTemp(points []profile.FanPoint, currentTemp int) hwio.PumpLevel {
	level := int(hwio.PumpOff)
	for _, p := range points {
		if p.Temp > currentTemp {
			break
		}
		level = p.Speed
	}
	return hwio.ClampPumpLevel(level)
}

// ApplyHardwareFloor implements step 6 of the per-tick algorithm: a
// result below minSpeed snaps to 0 when fans-off is available and the
// result is below half of minSpeed, else up to minSpeed.
func ApplyHardwareFloor(speed, minSpeed int, fansOffAvailable bool) int {
	if speed >= minSpeed {
		return speed
	}
	if fansOffAvailable && speed < minSpeed/2 {
		return 0
	}
	return minSpeed
}

// ApplyCriticalOverride implements step 8, keyed on the filtered
// (not hysteresis-adjusted) temperature.
func ApplyCriticalOverride(speed, filteredTemp int) int {
	switch {
	case filteredTemp >= 90:
		return 100
	case filteredTemp >= 85:
		if speed < 80 {
			return 80
		}
		return speed
	default:
		return speed
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
