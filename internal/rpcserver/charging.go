// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// chargingProfileNames, chargingPriorityNames and the threshold bounds
// below are not discovered through any hwio accessor — the Uniwill WMI
// firmware interface offers no "list valid descriptors" call, only a
// write-then-readback pair (see ChargeController). The fixed option
// sets here mirror what the teacher's kernel driver documents as the
// only strings/range it accepts.
var (
	chargingProfileNames  = []string{"high_capacity", "balanced", "traditional"}
	chargingPriorityNames = []string{"performance", "efficiency"}
)

func (s *Server) chargingMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetChargingProfilesAvailable":    s.GetChargingProfilesAvailable,
		"GetCurrentChargingProfile":       s.GetCurrentChargingProfile,
		"SetChargingProfile":              s.SetChargingProfile,
		"GetChargingPrioritiesAvailable":  s.GetChargingPrioritiesAvailable,
		"GetCurrentChargingPriority":      s.GetCurrentChargingPriority,
		"SetChargingPriority":             s.SetChargingPriority,
		"GetChargeStartAvailableThresholds": s.GetChargeStartAvailableThresholds,
		"GetChargeEndAvailableThresholds":   s.GetChargeEndAvailableThresholds,
		"GetChargeStartThreshold":         s.GetChargeStartThreshold,
		"GetChargeEndThreshold":           s.GetChargeEndThreshold,
		"SetChargeStartThreshold":         s.SetChargeStartThreshold,
		"SetChargeEndThreshold":           s.SetChargeEndThreshold,
		"GetChargeType":                   s.GetChargeType,
		"SetChargeType":                   s.SetChargeType,
	}
}

func (s *Server) GetChargingProfilesAvailable() ([]string, *dbus.Error) {
	return chargingProfileNames, nil
}

func (s *Server) GetCurrentChargingProfile() (string, *dbus.Error) {
	v, _ := s.cfg.Orchestrator.ChargingProfile(context.Background())
	return v, nil
}

func (s *Server) SetChargingProfile(desc string) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetChargingProfile(context.Background(), desc); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Server) GetChargingPrioritiesAvailable() ([]string, *dbus.Error) {
	return chargingPriorityNames, nil
}

func (s *Server) GetCurrentChargingPriority() (string, *dbus.Error) {
	v, _ := s.cfg.Orchestrator.ChargingPriority(context.Background())
	return v, nil
}

func (s *Server) SetChargingPriority(desc string) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetChargingPriority(context.Background(), desc); err != nil {
		return false, nil
	}
	return true, nil
}

// GetChargeStartAvailableThresholds and GetChargeEndAvailableThresholds
// return the full [0,100] percent range; profile.ChargeThresholdsValid
// is what actually enforces the start<=end pairing rule at apply time.
func (s *Server) GetChargeStartAvailableThresholds() ([]int32, *dbus.Error) {
	return percentRange(), nil
}

func (s *Server) GetChargeEndAvailableThresholds() ([]int32, *dbus.Error) {
	return percentRange(), nil
}

func percentRange() []int32 {
	r := make([]int32, 101)
	for i := range r {
		r[i] = int32(i)
	}
	return r
}

func (s *Server) GetChargeStartThreshold() (int32, *dbus.Error) {
	v, ok := s.cfg.Orchestrator.ChargeStartThreshold(context.Background())
	if !ok {
		return 0, nil
	}
	return int32(v), nil
}

func (s *Server) GetChargeEndThreshold() (int32, *dbus.Error) {
	v, ok := s.cfg.Orchestrator.ChargeEndThreshold(context.Background())
	if !ok {
		return 0, nil
	}
	return int32(v), nil
}

func (s *Server) SetChargeStartThreshold(v int32) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetChargeStartThreshold(context.Background(), int(v)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Server) SetChargeEndThreshold(v int32) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetChargeEndThreshold(context.Background(), int(v)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Server) GetChargeType() (string, *dbus.Error) {
	v, _ := s.cfg.Orchestrator.ChargeType(context.Background())
	return v, nil
}

func (s *Server) SetChargeType(t string) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetChargeType(context.Background(), t); err != nil {
		return false, nil
	}
	return true, nil
}
