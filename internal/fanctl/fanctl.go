// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

import (
	"context"
	"errors"
	"time"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/metrics"
	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

const (
	alphaTempRising  = 0.5
	alphaTempFalling = 0.15
	alphaSpeedUp     = 0.4
	alphaSpeedDown   = 0.08
)

// fanState is the per-fan filter/smoother/anchor bundle §4.5 requires
// one instance of per physical fan.
type fanState struct {
	tempFilter    *EWMA
	speedSmoother *EWMA
	anchor        Hysteresis
	lastSpeed     int
	missing       bool
}

func newFanState() *fanState {
	return &fanState{
		tempFilter:    NewEWMA(alphaTempRising, alphaTempFalling),
		speedSmoother: NewEWMA(alphaSpeedUp, alphaSpeedDown),
	}
}

// overrideTables holds the ad-hoc temporary curves the RPC surface can
// push; a nil slice means "no override, use the profile/preset".
type overrideTables struct {
	cpu, gpu, waterFan, pump []profile.FanPoint
}

// boundCurves is the set of curve tables currently bound for lookup,
// resolved once per tick (or whenever the profile selector changes)
// from, in priority order: temporary override, profile-embedded
// table, named preset.
type boundCurves struct {
	cpu, gpu, waterFan, pump []profile.FanPoint
}

// Controller drives every fan plus the water-cooler pump for one tick
// cadence, per §4.5/§4.6.
type Controller struct {
	io   hwio.DeviceInterface
	snap *snapshot.DbusData

	fans []*fanState

	override overrideTables
	curves   boundCurves

	minSpeed         int
	fansOffAvailable bool
}

// NewController builds a Controller for a device with numFans fans,
// caching the hardware floor parameters that don't vary per tick.
func NewController(ctx context.Context, io hwio.DeviceInterface, snap *snapshot.DbusData) (*Controller, error) {
	numFans, err := io.NumberFans(ctx)
	if err != nil {
		return nil, err
	}
	minSpeed, err := io.FansMinSpeed(ctx)
	if err != nil {
		minSpeed = 0
	}
	fansOff, err := io.FansOffAvailable(ctx)
	if err != nil {
		fansOff = false
	}

	fans := make([]*fanState, numFans)
	for i := range fans {
		fans[i] = newFanState()
	}

	return &Controller{
		io:               io,
		snap:             snap,
		fans:             fans,
		minSpeed:         minSpeed,
		fansOffAvailable: fansOff,
	}, nil
}

// SetTemporaryCPUCurve installs an ad-hoc CPU curve overriding the
// active profile's table/preset until ClearTemporaryCurve is called.
func (c *Controller) SetTemporaryCPUCurve(points []profile.FanPoint) { c.override.cpu = points }

// SetTemporaryGPUCurve installs an ad-hoc GPU curve.
func (c *Controller) SetTemporaryGPUCurve(points []profile.FanPoint) { c.override.gpu = points }

// SetTemporaryWaterFanCurve installs an ad-hoc water-cooler fan curve.
func (c *Controller) SetTemporaryWaterFanCurve(points []profile.FanPoint) {
	c.override.waterFan = points
}

// SetTemporaryPumpCurve installs an ad-hoc pump step table.
func (c *Controller) SetTemporaryPumpCurve(points []profile.FanPoint) { c.override.pump = points }

// ClearTemporaryCurve drops every ad-hoc override, reverting to the
// active profile's tables/preset on the next tick.
func (c *Controller) ClearTemporaryCurve() { c.override = overrideTables{} }

// rebind resolves the curve source to use for this tick, following
// the priority temporary override > profile-embedded table > named
// preset.
func (c *Controller) rebind(p profile.Profile) {
	preset := profile.FanPresetCatalog[p.Fan.FanProfile]

	pick := func(override, embedded, preset []profile.FanPoint) []profile.FanPoint {
		if override != nil {
			return override
		}
		if len(embedded) > 0 {
			return embedded
		}
		return preset
	}

	c.curves = boundCurves{
		cpu:      pick(c.override.cpu, p.Fan.TableCPU, preset.CPU),
		gpu:      pick(c.override.gpu, p.Fan.TableGPU, preset.GPU),
		waterFan: pick(c.override.waterFan, p.Fan.TableWaterCoolerFan, preset.WaterFan),
		pump:     pick(c.override.pump, p.Fan.TablePump, preset.Pump),
	}
}

// curveFor returns the bound curve table for the given fan index.
// Fan 0 is always the CPU fan; every other fan index uses the GPU
// table, matching the 2- and 3-fan Clevo/Uniwill chassis layouts.
func (c *Controller) curveFor(fanIdx int) []profile.FanPoint {
	if fanIdx == 0 {
		return c.curves.cpu
	}
	return c.curves.gpu
}

// Tick runs one pass of the §4.5 per-tick algorithm across every fan
// and publishes the results into the runtime snapshot.
func (c *Controller) Tick(ctx context.Context, p profile.Profile, fanControlEnabled bool) error {
	start := time.Now()
	defer func() { metrics.WorkerTickDuration.WithLabelValues("fanctl").Observe(time.Since(start).Seconds()) }()

	c.rebind(p)

	targets := make([]int, len(c.fans))
	haveTemp := make([]bool, len(c.fans))
	readings := make([]snapshot.FanReading, len(c.fans))
	now := time.Now().UnixMilli()

	for i, fs := range c.fans {
		temp, err := c.io.FanTemperature(ctx, i)
		if err != nil || temp <= 1 {
			fs.missing = true
			targets[i] = fs.lastSpeed
			continue
		}
		fs.missing = false
		haveTemp[i] = true

		fs.tempFilter.Feed(float64(temp))
		filtered := fs.tempFilter.Value()

		effective := fs.anchor.Apply(filtered)

		curveSpeed := InterpolateCurve(c.curveFor(i), effective)
		curveSpeed = clampPercent(curveSpeed + p.Fan.OffsetFanspeed)
		curveSpeed = ApplyHardwareFloor(curveSpeed, c.minSpeed, c.fansOffAvailable)

		fs.speedSmoother.Feed(float64(curveSpeed))
		smoothed := fs.speedSmoother.Value()

		smoothed = ApplyCriticalOverride(smoothed, filtered)

		targets[i] = clampPercent(smoothed)
		readings[i] = snapshot.FanReading{Temperature: temp, TimestampUnixMilli: now}
	}

	if p.Fan.SameSpeed {
		max := 0
		for i := range c.fans {
			if haveTemp[i] && targets[i] > max {
				max = targets[i]
			}
		}
		for i := range c.fans {
			targets[i] = max
		}
	}

	for i, fs := range c.fans {
		fs.lastSpeed = targets[i]
		readings[i].Speed = targets[i]
		readings[i].TimestampUnixMilli = now

		if fanControlEnabled {
			if err := c.io.SetFanSpeedPercent(ctx, i, targets[i]); err != nil && !errors.Is(err, hwerr.ErrUnsupported) {
				metrics.WorkerTickErrors.WithLabelValues("fanctl").Inc()
			}
		} else if actual, err := c.io.FanSpeedPercent(ctx, i); err == nil {
			readings[i].Speed = actual
		}
	}

	c.snap.SetFans(readings)
	return nil
}

// CurrentPumpLevel resolves the bound pump table against currentTemp,
// per §4.6's step-function lookup.
func (c *Controller) CurrentPumpLevel(currentTemp int) hwio.PumpLevel {
	return PumpLevelForTemp(c.curves.pump, currentTemp)
}
