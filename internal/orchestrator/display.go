// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

const backlightRoot = "/sys/class/backlight"

// DisplayController writes panel brightness through the kernel
// backlight class, the §4.10 step 5 target that has no dedicated
// ioctl or package of its own — hwio.DeviceInterface never grew a
// brightness method because the WMI device doesn't own this sysfs
// attribute.
type DisplayController struct {
	brightness    sysfs.Node
	maxBrightness sysfs.Node
}

// DetectDisplay binds to the first backlight device sysfs publishes,
// sorted for determinism when more than one is present (eDP plus an
// external panel exposing its own class entry).
func DetectDisplay(ctx context.Context) *DisplayController {
	entries, err := os.ReadDir(backlightRoot)
	if err != nil || len(entries) == 0 {
		return &DisplayController{}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	base := filepath.Join(backlightRoot, names[0])
	return &DisplayController{
		brightness:    sysfs.At(filepath.Join(base, "brightness")),
		maxBrightness: sysfs.At(filepath.Join(base, "max_brightness")),
	}
}

// SetBrightnessPercent scales [0,100] onto the device's native range.
func (d *DisplayController) SetBrightnessPercent(ctx context.Context, pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("brightness percent %d out of [0,100]: %w", pct, hwerr.ErrArgumentInvalid)
	}
	max, ok := d.maxBrightness.ReadInt(ctx)
	if !ok {
		return fmt.Errorf("no backlight device: %w", hwerr.ErrUnsupported)
	}
	raw := pct * max / 100
	if !d.brightness.WriteInt(ctx, raw) {
		return fmt.Errorf("write backlight brightness: %w", hwerr.ErrTransient)
	}
	return nil
}

// BrightnessPercent reads the current brightness back, scaled to
// [0,100].
func (d *DisplayController) BrightnessPercent(ctx context.Context) (int, bool) {
	max, ok := d.maxBrightness.ReadInt(ctx)
	if !ok || max == 0 {
		return 0, false
	}
	cur, ok := d.brightness.ReadInt(ctx)
	if !ok {
		return 0, false
	}
	return cur * 100 / max, true
}
