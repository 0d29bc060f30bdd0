// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

const powerSupplyRoot = "/sys/class/power_supply"

// candidateACNames lists the power_supply directory names observed
// across Clevo/Uniwill chassis for the mains-power supply node.
var candidateACNames = []string{"AC", "AC0", "ACAD", "ADP0", "ADP1"}

// ACDetector reports whether the machine is currently on mains power,
// per §6.3's "AC plug detection for power state."
type ACDetector interface {
	OnAC(ctx context.Context) bool
}

// SysfsACDetector reads the first matching power_supply online node it
// finds at construction time.
type SysfsACDetector struct {
	node sysfs.Node
	ok   bool
}

// DetectAC probes the known AC supply node names and binds to the
// first one present.
func DetectAC(ctx context.Context) *SysfsACDetector {
	for _, name := range candidateACNames {
		n := sysfs.At(filepath.Join(powerSupplyRoot, name, "online"))
		if n.IsAvailable(ctx) {
			return &SysfsACDetector{node: n, ok: true}
		}
	}
	return &SysfsACDetector{}
}

// OnAC reports the last-read online state. A chassis with no
// recognized AC node (none observed in the field, but nothing rules
// it out) is treated as always on mains rather than always on
// battery, so fan/CPU profiles default to their less conservative
// state.
func (d *SysfsACDetector) OnAC(ctx context.Context) bool {
	if !d.ok {
		return true
	}
	v, ok := d.node.ReadBool(ctx)
	return ok && v
}
