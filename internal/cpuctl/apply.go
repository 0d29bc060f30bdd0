// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package cpuctl

import (
	"context"

	"github.com/tuxedocomputers/uccd/internal/profile"
)

// ApplyCPUSettings pushes a profile's CPU section to every discovered
// core, per §4.10 step 1. Online-core count is applied first so a
// subsequent per-core write never targets a core the profile just
// took offline.
func (c *Controller) ApplyCPUSettings(ctx context.Context, s profile.CPUSettings) error {
	if s.OnlineCores != nil {
		if err := c.UseCores(ctx, *s.OnlineCores); err != nil {
			return err
		}
	}
	// Non-fatal: not every CPU exposes intel_pstate's no_turbo.
	_ = c.SetNoTurbo(ctx, s.NoTurbo)
	n := len(c.cores)
	if s.OnlineCores != nil {
		n = *s.OnlineCores
	}
	for i := 0; i < n; i++ {
		if s.Governor != "" {
			if err := c.SetGovernor(ctx, i, s.Governor); err != nil {
				return err
			}
		}
		if s.EnergyPerformancePreference != "" {
			if err := c.SetEnergyPerformancePreference(ctx, i, s.EnergyPerformancePreference); err != nil {
				return err
			}
		}
		if s.ScalingMinFrequency != nil {
			if err := c.SetGovernorScalingMinFrequency(ctx, i, *s.ScalingMinFrequency); err != nil {
				return err
			}
		}
		if s.ScalingMaxFrequency != nil {
			if err := c.SetGovernorScalingMaxFrequency(ctx, i, *s.ScalingMaxFrequency); err != nil {
				return err
			}
		}
	}
	return nil
}

// MatchesCPUSettings reports whether live sysfs state agrees with s,
// checked against core 0 as representative of the whole set — the
// §4.10 validator loop's drift test. A field left unset in s (nil
// pointer, empty string) is not checked. Scaling min/max frequencies
// are never compared, set or not; no_turbo is compared only when its
// node is readable.
func (c *Controller) MatchesCPUSettings(ctx context.Context, s profile.CPUSettings) bool {
	if len(c.cores) == 0 {
		return true
	}
	if s.Governor != "" {
		if got, err := c.GovernorAt(ctx, 0); err != nil || got != s.Governor {
			return false
		}
	}
	if s.EnergyPerformancePreference != "" {
		if got, err := c.EPPAt(ctx, 0); err != nil || got != s.EnergyPerformancePreference {
			return false
		}
	}
	if s.OnlineCores != nil && c.OnlineCoreCount(ctx) != *s.OnlineCores {
		return false
	}
	if got, err := c.NoTurbo(ctx); err == nil && got != s.NoTurbo {
		return false
	}
	return true
}
