// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"encoding/json"

	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

// CPUPower is the §4.8 CPU package power JSON payload. Each PL is
// optional per constraint availability — not every kernel/CPU exposes
// all three RAPL constraints.
type CPUPower struct {
	PowerDrawW float64  `json:"powerDraw"`
	PL1W       *float64 `json:"pl1,omitempty"`
	PL2W       *float64 `json:"pl2,omitempty"`
	PL4W       *float64 `json:"pl4,omitempty"`
}

// JSON serializes the payload, falling back to "{}" on the (never
// expected) marshal error so a caller can always publish something.
func (p CPUPower) JSON() string {
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// CPUPowerSampler derives CPU package power from the Intel RAPL
// package-0 domain: energy_uj differentiation for the live draw, plus
// the constraint_N_power_limit_uw siblings for PL1/PL2/PL4.
type CPUPowerSampler struct {
	meter         *EnergyMeter
	pl1, pl2, pl4 sysfs.Node
}

// NewCPUPowerSampler builds a sampler over the conventional
// intel-rapl:0 (package domain) path.
func NewCPUPowerSampler() *CPUPowerSampler {
	const base = "/sys/class/powercap/intel-rapl:0"
	return &CPUPowerSampler{
		meter: NewEnergyMeter(base),
		pl1:   sysfs.At(base + "/constraint_0_power_limit_uw"),
		pl2:   sysfs.At(base + "/constraint_1_power_limit_uw"),
		pl4:   sysfs.At(base + "/constraint_2_power_limit_uw"),
	}
}

func (s *CPUPowerSampler) Available(ctx context.Context) bool {
	return s.meter.Available(ctx)
}

// Sample returns false only when the energy counter itself could not
// be read or differentiated yet; missing PL constraints simply leave
// the corresponding field nil.
func (s *CPUPowerSampler) Sample(ctx context.Context) (CPUPower, bool) {
	watts, ok := s.meter.SampleWatts(ctx)
	if !ok {
		return CPUPower{}, false
	}
	cp := CPUPower{PowerDrawW: watts}
	if v, rok := s.pl1.ReadInt(ctx); rok {
		w := float64(v) / 1e6
		cp.PL1W = &w
	}
	if v, rok := s.pl2.ReadInt(ctx); rok {
		w := float64(v) / 1e6
		cp.PL2W = &w
	}
	if v, rok := s.pl4.ReadInt(ctx); rok {
		w := float64(v) / 1e6
		cp.PL4W = &w
	}
	return cp, true
}
