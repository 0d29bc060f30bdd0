// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package kbdlight implements the §4.9 keyboard-backlight listener:
// sysfs variant detection, the zone state model, and the
// brightness/RGB apply algorithm, gated by
// keyboardBacklightControlEnabled.
package kbdlight

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

const (
	whiteOnlyLEDPath = "/sys/devices/platform/tuxedo_keyboard/leds/white:kbd_backlight"
	nb05LEDPath      = "/sys/devices/platform/tuxedo_keyboard/leds/white:kbd_backlight_nb05"
	rgbZoneBasePath  = "/sys/devices/platform/tuxedo_keyboard/leds/rgb:kbd_backlight"
	perKeyHIDGlob    = "/sys/bus/hid/drivers/tuxedo_keyboard/*/leds/rgb:kbd_backlight*"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Capabilities is the §4.9 published capability set.
type Capabilities struct {
	Zones         int  `json:"zones"`
	MaxBrightness int  `json:"maxBrightness"`
	RGB           bool `json:"rgb"`
	MaxRed        byte `json:"maxRed"`
	MaxGreen      byte `json:"maxGreen"`
	MaxBlue       byte `json:"maxBlue"`
}

// Detect probes the fixed sysfs paths in priority order — per-key RGB
// (most capable), fixed RGB zones, the NB05 white-only variant, then
// plain white-only — and returns the per-zone LED directories plus
// the capabilities to publish. ok is false when no variant answered.
func Detect(ctx context.Context) (zones []string, caps Capabilities, ok bool) {
	if z := detectPerKeyRGB(); len(z) > 0 {
		return z, capsFor(z, true), true
	}
	if z := detectFixedRGBZones(ctx); len(z) > 0 {
		return z, capsFor(z, true), true
	}
	if sysfs.At(nb05LEDPath + "/brightness").IsAvailable(ctx) {
		z := []string{nb05LEDPath}
		return z, capsFor(z, false), true
	}
	if sysfs.At(whiteOnlyLEDPath + "/brightness").IsAvailable(ctx) {
		z := []string{whiteOnlyLEDPath}
		return z, capsFor(z, false), true
	}
	return nil, Capabilities{}, false
}

func detectFixedRGBZones(ctx context.Context) []string {
	var zones []string
	for _, suffix := range []string{"", "_1", "_2"} {
		path := rgbZoneBasePath + suffix
		if sysfs.At(path + "/brightness").IsAvailable(ctx) {
			zones = append(zones, path)
		}
	}
	return zones
}

// detectPerKeyRGB enumerates the HID driver's per-key LED symlinks and
// sorts them by trailing numeric suffix, per §4.9.
func detectPerKeyRGB() []string {
	matches, err := filepath.Glob(perKeyHIDGlob)
	if err != nil || len(matches) == 0 {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return trailingIndex(matches[i]) < trailingIndex(matches[j])
	})
	return matches
}

func trailingIndex(path string) int {
	m := trailingDigits.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	v, _ := strconv.Atoi(m[1])
	return v
}

func capsFor(zones []string, rgb bool) Capabilities {
	c := Capabilities{Zones: len(zones), MaxBrightness: 0xFF}
	if rgb {
		c.RGB = true
		c.MaxRed, c.MaxGreen, c.MaxBlue = 0xFF, 0xFF, 0xFF
	}
	return c
}
