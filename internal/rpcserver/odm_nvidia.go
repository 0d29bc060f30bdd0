// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"

	"github.com/godbus/dbus/v5"
)

func (s *Server) odmNvidiaMethods() map[string]interface{} {
	return map[string]interface{}{
		"ODMProfilesAvailable":               s.ODMProfilesAvailable,
		"ODMPowerLimitsJSON":                 s.ODMPowerLimitsJSON,
		"GetNVIDIAPowerCTRLDefaultPowerLimit": s.GetNVIDIAPowerCTRLDefaultPowerLimit,
		"GetNVIDIAPowerCTRLMaxPowerLimit":     s.GetNVIDIAPowerCTRLMaxPowerLimit,
		"GetNVIDIAPowerCTRLAvailable":         s.GetNVIDIAPowerCTRLAvailable,
	}
}

func (s *Server) ODMProfilesAvailable() ([]string, *dbus.Error) {
	names, err := s.cfg.Device.AvailableODMPerformanceProfiles(context.Background())
	if err != nil {
		return []string{}, nil
	}
	return names, nil
}

// ODMPowerLimitsJSON returns the reserved NVIDIA power-limit table
// hwmonitor last read from the dGPU's board-power-limit sysfs nodes
// (see hwmonitor.PowerLimits) rather than recomputing it from the WMI
// TDP descriptors, since that table is already published at the
// correct granularity for the GUI.
func (s *Server) ODMPowerLimitsJSON() (string, *dbus.Error) {
	if v := s.cfg.Snapshot.NvidiaPowerLimitsJSON(); v != "" {
		return v, nil
	}
	return "{}", nil
}

// GetNVIDIAPowerCTRLDefaultPowerLimit reports index 0's currently
// configured TDP. hwio exposes no separate "factory default" reading
// distinct from the live value, so the live value doubles as the
// default reported at daemon start, before any SetTDP call has run.
func (s *Server) GetNVIDIAPowerCTRLDefaultPowerLimit() (int32, *dbus.Error) {
	n, err := s.cfg.Device.NumberTDPs(context.Background())
	if err != nil || n == 0 {
		return 0, nil
	}
	v, err := s.cfg.Device.TDP(context.Background(), 0)
	if err != nil {
		return 0, nil
	}
	return int32(v), nil
}

func (s *Server) GetNVIDIAPowerCTRLMaxPowerLimit() (int32, *dbus.Error) {
	n, err := s.cfg.Device.NumberTDPs(context.Background())
	if err != nil || n == 0 {
		return 0, nil
	}
	v, err := s.cfg.Device.TDPMax(context.Background(), 0)
	if err != nil {
		return 0, nil
	}
	return int32(v), nil
}

func (s *Server) GetNVIDIAPowerCTRLAvailable() (bool, *dbus.Error) {
	return s.cfg.Snapshot.Capabilities().TDPSupported, nil
}
