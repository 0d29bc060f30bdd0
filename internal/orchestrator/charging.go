// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

// chargingProfileNode and chargingPriorityNode are the vendor-specific
// platform attributes the Uniwill driver publishes for whole-system
// charging behavior, distinct from the generic power_supply
// charge_control_*_threshold nodes a single battery exposes.
const (
	chargingProfileNode  = "/sys/devices/platform/uniwill/charging_profile"
	chargingPriorityNode = "/sys/devices/platform/uniwill/charging_priority"
)

// ChargeController writes a profile's charging section across the
// generic power_supply battery node and the vendor platform
// attributes, per §4.10 step 6. Like DisplayController, it has no
// ioctl-backed home in hwio.DeviceInterface.
type ChargeController struct {
	startThreshold sysfs.Node
	endThreshold   sysfs.Node
	chargeType     sysfs.Node
	profileNode    sysfs.Node
	priorityNode   sysfs.Node
}

// DetectCharging binds to the first BAT* power_supply entry found.
func DetectCharging(ctx context.Context) *ChargeController {
	base := firstBattery(ctx)
	return &ChargeController{
		startThreshold: sysfs.At(filepath.Join(base, "charge_control_start_threshold")),
		endThreshold:   sysfs.At(filepath.Join(base, "charge_control_end_threshold")),
		chargeType:     sysfs.At(filepath.Join(base, "charge_type")),
		profileNode:    sysfs.At(chargingProfileNode),
		priorityNode:   sysfs.At(chargingPriorityNode),
	}
}

func firstBattery(ctx context.Context) string {
	entries, err := os.ReadDir(powerSupplyRoot)
	if err != nil {
		return filepath.Join(powerSupplyRoot, "BAT0")
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "BAT") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return filepath.Join(powerSupplyRoot, "BAT0")
	}
	sort.Strings(names)
	return filepath.Join(powerSupplyRoot, names[0])
}

// Apply pushes every charging field present in p. Each threshold that
// is set (>= 0) is written on its own, so a pair with only one half set
// writes that half; when both are set and start > end
// (profile.ChargeThresholdsValid fails) neither is written, rather than
// rejecting the whole apply.
func (c *ChargeController) Apply(ctx context.Context, p profile.Profile) {
	if p.ChargingProfile != "" {
		_ = c.SetProfile(ctx, p.ChargingProfile)
	}
	if p.ChargingPriority != "" {
		_ = c.SetPriority(ctx, p.ChargingPriority)
	}
	if p.ChargeType != "" {
		_ = c.SetChargeType(ctx, p.ChargeType)
	}
	if profile.ChargeThresholdsValid(p.ChargeStartThreshold, p.ChargeEndThreshold) {
		if p.ChargeStartThreshold >= 0 {
			_ = c.SetStartThreshold(ctx, p.ChargeStartThreshold)
		}
		if p.ChargeEndThreshold >= 0 {
			_ = c.SetEndThreshold(ctx, p.ChargeEndThreshold)
		}
	}
}

// The Set* methods below back the RPC surface's ad-hoc charging
// setters (§4.11), which mutate a single field outside of a full
// profile apply.

func (c *ChargeController) SetStartThreshold(ctx context.Context, v int) bool {
	return c.startThreshold.WriteInt(ctx, v)
}

func (c *ChargeController) SetEndThreshold(ctx context.Context, v int) bool {
	return c.endThreshold.WriteInt(ctx, v)
}

func (c *ChargeController) SetChargeType(ctx context.Context, t string) bool {
	return c.chargeType.WriteString(ctx, t)
}

func (c *ChargeController) SetProfile(ctx context.Context, desc string) bool {
	return c.profileNode.WriteString(ctx, desc)
}

func (c *ChargeController) SetPriority(ctx context.Context, desc string) bool {
	return c.priorityNode.WriteString(ctx, desc)
}

func (c *ChargeController) StartThreshold(ctx context.Context) (int, bool) {
	return c.startThreshold.ReadInt(ctx)
}

func (c *ChargeController) EndThreshold(ctx context.Context) (int, bool) {
	return c.endThreshold.ReadInt(ctx)
}

func (c *ChargeController) ChargeType(ctx context.Context) (string, bool) {
	return c.chargeType.ReadString(ctx)
}

func (c *ChargeController) Profile(ctx context.Context) (string, bool) {
	return c.profileNode.ReadString(ctx)
}

func (c *ChargeController) Priority(ctx context.Context) (string, bool) {
	return c.priorityNode.ReadString(ctx)
}
