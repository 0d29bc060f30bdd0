// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"

	"github.com/godbus/dbus/v5"
)

func (s *Server) displayWebcamMethods() map[string]interface{} {
	return map[string]interface{}{
		"WebcamSWAvailable":                 s.WebcamSWAvailable,
		"GetWebcamSWStatus":                 s.GetWebcamSWStatus,
		"SetWebcam":                         s.SetWebcam,
		"GetDisplayBrightness":              s.GetDisplayBrightness,
		"SetDisplayBrightness":              s.SetDisplayBrightness,
		"SetDisplayRefreshRate":             s.SetDisplayRefreshRate,
		"GetForceYUV420OutputSwitchAvailable": s.GetForceYUV420OutputSwitchAvailable,
	}
}

func (s *Server) WebcamSWAvailable() (bool, *dbus.Error) {
	_, err := s.cfg.Device.Webcam(context.Background())
	return err == nil, nil
}

func (s *Server) GetWebcamSWStatus() (bool, *dbus.Error) {
	return s.cfg.Snapshot.WebcamEnabled(), nil
}

func (s *Server) SetWebcam(enable bool) (bool, *dbus.Error) {
	if err := s.cfg.Device.SetWebcam(context.Background(), enable); err != nil {
		return false, nil
	}
	s.cfg.Snapshot.SetWebcamEnabled(enable)
	return true, nil
}

func (s *Server) GetDisplayBrightness() (int32, *dbus.Error) {
	pct, ok := s.cfg.Orchestrator.DisplayBrightnessPercent(context.Background())
	if !ok {
		return 0, nil
	}
	return int32(pct), nil
}

func (s *Server) SetDisplayBrightness(percent int32) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetDisplayBrightnessPercent(context.Background(), int(percent)); err != nil {
		return false, nil
	}
	return true, nil
}

// SetDisplayRefreshRate always fails: no component in this tree owns
// DRM mode setting, the missing half of the §4.1 display surface (see
// SPEC_FULL.md's DisplayController note — only brightness has a
// sysfs-backed home).
func (s *Server) SetDisplayRefreshRate(display string, hz int32) (bool, *dbus.Error) {
	return false, unsupportedErr("display mode setting not implemented")
}

// GetForceYUV420OutputSwitchAvailable always reports false: the
// YCbCr420 workaround table is carried in profile.Settings as
// reserved data only (see profile.YCbCr420CardOverride), never
// applied.
func (s *Server) GetForceYUV420OutputSwitchAvailable() (bool, *dbus.Error) {
	return false, nil
}
