// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"

	"github.com/godbus/dbus/v5"

	"github.com/tuxedocomputers/uccd/internal/ble"
	"github.com/tuxedocomputers/uccd/internal/hwio"
)

func (s *Server) waterCoolerMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetWaterCoolerAvailable":        s.GetWaterCoolerAvailable,
		"GetWaterCoolerConnected":        s.GetWaterCoolerConnected,
		"GetWaterCoolerFanSpeed":         s.GetWaterCoolerFanSpeed,
		"GetWaterCoolerPumpLevel":        s.GetWaterCoolerPumpLevel,
		"EnableWaterCooler":              s.EnableWaterCooler,
		"SetWaterCoolerFanSpeed":         s.SetWaterCoolerFanSpeed,
		"SetWaterCoolerPumpVoltage":      s.SetWaterCoolerPumpVoltage,
		"SetWaterCoolerLEDColor":         s.SetWaterCoolerLEDColor,
		"TurnOffWaterCoolerLED":          s.TurnOffWaterCoolerLED,
		"TurnOffWaterCoolerFan":          s.TurnOffWaterCoolerFan,
		"TurnOffWaterCoolerPump":         s.TurnOffWaterCoolerPump,
		"IsWaterCoolerAutoControlEnabled": s.IsWaterCoolerAutoControlEnabled,
	}
}

func (s *Server) GetWaterCoolerAvailable() (bool, *dbus.Error) {
	return s.cfg.Snapshot.WaterCoolerAvailable(), nil
}

func (s *Server) GetWaterCoolerConnected() (bool, *dbus.Error) {
	return s.cfg.Snapshot.WaterCoolerConnected(), nil
}

func (s *Server) GetWaterCoolerFanSpeed() (int32, *dbus.Error) {
	if s.cfg.BLE == nil {
		return 0, nil
	}
	return int32(s.cfg.BLE.LastFanSpeed()), nil
}

func (s *Server) GetWaterCoolerPumpLevel() (int32, *dbus.Error) {
	if s.cfg.BLE == nil {
		return 0, nil
	}
	return int32(s.cfg.BLE.LastPumpLevel()), nil
}

// EnableWaterCooler turns discovery scanning on or off; it does not by
// itself connect to anything, matching ble.Worker's own
// discovering/connecting state machine driving the rest of the
// lifecycle once scanning finds the device.
func (s *Server) EnableWaterCooler(enable bool) (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.SetScanningEnabled(enable)
	return true, nil
}

func (s *Server) SetWaterCoolerFanSpeed(percent int32) (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.SetFanSpeed(context.Background(), int(percent))
	return true, nil
}

func (s *Server) SetWaterCoolerPumpVoltage(level int32) (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.SetPumpVoltage(context.Background(), hwio.ClampPumpLevel(int(level)))
	return true, nil
}

func (s *Server) SetWaterCoolerLEDColor(r, g, b byte, mode byte) (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.SetLEDColor(context.Background(), r, g, b, ble.LEDMode(mode))
	return true, nil
}

func (s *Server) TurnOffWaterCoolerLED() (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.TurnOffLED(context.Background())
	return true, nil
}

func (s *Server) TurnOffWaterCoolerFan() (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.TurnOffFan(context.Background())
	return true, nil
}

func (s *Server) TurnOffWaterCoolerPump() (bool, *dbus.Error) {
	if s.cfg.BLE == nil {
		return false, unsupportedErr("water cooler not configured")
	}
	s.cfg.BLE.TurnOffPump(context.Background())
	return true, nil
}

// IsWaterCoolerAutoControlEnabled reports whether the active profile's
// fan section hands the water cooler over to the regular temperature
// curves (fanctl) instead of leaving it under direct GUI control.
func (s *Server) IsWaterCoolerAutoControlEnabled() (bool, *dbus.Error) {
	return s.cfg.Orchestrator.ActiveProfile().Fan.AutoControlWC, nil
}
