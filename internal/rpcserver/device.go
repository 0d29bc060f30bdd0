// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/godbus/dbus/v5"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/info"
)

func (s *Server) deviceMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetDeviceName":             s.GetDeviceName,
		"GetDisplayModesJSON":       s.GetDisplayModesJSON,
		"GetIsX11":                  s.GetIsX11,
		"TuxedoWmiAvailable":        s.TuxedoWmiAvailable,
		"FanHwmonAvailable":         s.FanHwmonAvailable,
		"UccdVersion":               s.UccdVersion,
		"GetWaterCoolerSupported":   s.GetWaterCoolerSupported,
		"GetCTGPAdjustmentSupported": s.GetCTGPAdjustmentSupported,
	}
}

func (s *Server) GetDeviceName() (string, *dbus.Error) {
	return s.cfg.Snapshot.DeviceName(), nil
}

func (s *Server) GetDisplayModesJSON() (string, *dbus.Error) {
	b, err := json.Marshal(s.cfg.Snapshot.DisplayModes())
	if err != nil {
		return "[]", nil
	}
	return string(b), nil
}

// GetIsX11 reports whether the session driving the GUI runs under X11
// rather than Wayland. A single environment read is the conventional
// and only portable way to tell; no library in this tree's dependency
// set addresses session-type detection.
func (s *Server) GetIsX11() (bool, *dbus.Error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return false, nil
	}
	return os.Getenv("XDG_SESSION_TYPE") == "x11" || os.Getenv("DISPLAY") != "", nil
}

func (s *Server) TuxedoWmiAvailable() (bool, *dbus.Error) {
	return s.cfg.Device != nil && s.cfg.Device.Variant() != hwio.VariantNone, nil
}

// FanHwmonAvailable reports whether any hwmon class device exposes a
// PWM control node, the generic-kernel fan path the GUI falls back to
// describing when the WMI device itself is absent.
func (s *Server) FanHwmonAvailable() (bool, *dbus.Error) {
	matches, _ := filepath.Glob("/sys/class/hwmon/hwmon*/pwm1")
	return len(matches) > 0, nil
}

func (s *Server) UccdVersion() (string, *dbus.Error) {
	return info.Version(), nil
}

func (s *Server) GetWaterCoolerSupported() (bool, *dbus.Error) {
	return s.cfg.Snapshot.Capabilities().WaterCoolerSupported, nil
}

// GetCTGPAdjustmentSupported always reports false: NVIDIA cTGP offset
// application has no backing hwio.DeviceInterface method (see
// orchestrator.applyODM), so the capability it would gate is never
// actually available.
func (s *Server) GetCTGPAdjustmentSupported() (bool, *dbus.Error) {
	return false, nil
}
