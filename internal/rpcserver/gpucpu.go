// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"
	"encoding/json"

	"github.com/godbus/dbus/v5"
)

func (s *Server) gpuCPUMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetDGpuInfoValuesJSON":      s.GetDGpuInfoValuesJSON,
		"GetIGpuInfoValuesJSON":      s.GetIGpuInfoValuesJSON,
		"GetCpuPowerValuesJSON":      s.GetCpuPowerValuesJSON,
		"GetCpuFrequencyLimitsJSON":  s.GetCpuFrequencyLimitsJSON,
		"GetAvailableGovernors":      s.GetAvailableGovernors,
		"GetPrimeState":              s.GetPrimeState,
		"ConsumeModeReapplyPending":  s.ConsumeModeReapplyPending,
	}
}

// gpuInfoField pulls one top-level key ("igpu" or "dgpu") out of the
// combined hwmonitor-published blob, falling back to "{}" when the
// worker hasn't published anything yet or the key is absent.
func gpuInfoField(combined, key string) string {
	if combined == "" {
		return "{}"
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(combined), &m); err != nil {
		return "{}"
	}
	if raw, ok := m[key]; ok {
		return string(raw)
	}
	return "{}"
}

func (s *Server) GetDGpuInfoValuesJSON() (string, *dbus.Error) {
	return gpuInfoField(s.cfg.Snapshot.GPUInfoJSON(), "dgpu"), nil
}

func (s *Server) GetIGpuInfoValuesJSON() (string, *dbus.Error) {
	return gpuInfoField(s.cfg.Snapshot.GPUInfoJSON(), "igpu"), nil
}

func (s *Server) GetCpuPowerValuesJSON() (string, *dbus.Error) {
	if v := s.cfg.Snapshot.CPUPowerJSON(); v != "" {
		return v, nil
	}
	return "{}", nil
}

func (s *Server) GetCpuFrequencyLimitsJSON() (string, *dbus.Error) {
	if s.cfg.CPU == nil {
		return "{}", nil
	}
	limits, err := s.cfg.CPU.FrequencyLimitsAt(context.Background(), 0)
	if err != nil {
		return "{}", nil
	}
	b, err := json.Marshal(limits)
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

func (s *Server) GetAvailableGovernors() ([]string, *dbus.Error) {
	if s.cfg.CPU == nil {
		return []string{}, nil
	}
	govs, ok := s.cfg.CPU.AvailableGovernors(context.Background())
	if !ok {
		return []string{}, nil
	}
	return govs, nil
}

func (s *Server) GetPrimeState() (string, *dbus.Error) {
	return s.cfg.Snapshot.PrimeState(), nil
}

func (s *Server) ConsumeModeReapplyPending() (bool, *dbus.Error) {
	return s.cfg.Orchestrator.ConsumeModeReapplyPending(), nil
}
