// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package hwmonitor implements the §4.8 staggered-tick hardware-monitor
// worker: iGPU/dGPU temp/freq/power, webcam state, CPU package power,
// and prime-select output, all published into the runtime snapshot.
package hwmonitor

import (
	"context"
	"time"

	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

// EnergyMeter samples an Intel RAPL energy_uj counter and converts the
// delta between two samples into an average power draw in watts,
// handling the counter's fixed-range wraparound via
// max_energy_range_uj.
type EnergyMeter struct {
	energy   sysfs.Node
	maxRange sysfs.Node

	lastSample uint64
	lastAt     time.Time
	haveSample bool
	rangeUJ    uint64
}

// NewEnergyMeter builds a meter over the RAPL domain directory at
// path (e.g. "/sys/class/powercap/intel-rapl:0").
func NewEnergyMeter(domainPath string) *EnergyMeter {
	return &EnergyMeter{
		energy:   sysfs.At(domainPath + "/energy_uj"),
		maxRange: sysfs.At(domainPath + "/max_energy_range_uj"),
	}
}

// Available reports whether the domain's energy counter is readable.
func (m *EnergyMeter) Available(ctx context.Context) bool {
	return m.energy.IsAvailable(ctx)
}

// SampleWatts reads the counter and returns the average power draw in
// watts since the previous call. ok is false on the first call (no
// baseline yet), when the sysfs node is unreadable, or when the
// counter wrapped and max_energy_range_uj was never discovered.
func (m *EnergyMeter) SampleWatts(ctx context.Context) (watts float64, ok bool) {
	raw, readOK := m.energy.ReadInt(ctx)
	if !readOK || raw < 0 {
		return 0, false
	}
	now := time.Now()
	cur := uint64(raw)

	if m.rangeUJ == 0 {
		if r, rOK := m.maxRange.ReadInt(ctx); rOK && r > 0 {
			m.rangeUJ = uint64(r)
		}
	}

	prevSample, prevAt, hadSample := m.lastSample, m.lastAt, m.haveSample
	m.lastSample, m.lastAt, m.haveSample = cur, now, true

	if !hadSample {
		return 0, false
	}

	elapsed := now.Sub(prevAt)
	if elapsed <= 0 {
		return 0, false
	}

	var deltaUJ uint64
	switch {
	case cur >= prevSample:
		deltaUJ = cur - prevSample
	case m.rangeUJ > 0:
		deltaUJ = (m.rangeUJ - prevSample) + cur
	default:
		return 0, false
	}

	return float64(deltaUJ) / float64(elapsed.Microseconds()), true
}
