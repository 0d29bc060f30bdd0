// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"
	"encoding/json"

	"github.com/godbus/dbus/v5"

	"github.com/tuxedocomputers/uccd/internal/orchestrator"
)

func (s *Server) settingsMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetSettingsJSON": s.GetSettingsJSON,
		"SetStateMap":     s.SetStateMap,
	}
}

func (s *Server) GetSettingsJSON() (string, *dbus.Error) {
	b, err := json.Marshal(s.cfg.Orchestrator.Settings())
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

// SetStateMap maps state ("power_ac"/"power_bat"/"power_wc", matching
// orchestrator.PowerState.String()) to profileId without applying
// anything.
func (s *Server) SetStateMap(state, profileID string) (bool, *dbus.Error) {
	ps, err := parsePowerState(state)
	if err != nil {
		return false, argErr(err.Error())
	}
	if err := s.cfg.Orchestrator.SetStateMap(context.Background(), ps, profileID); err != nil {
		return false, nil
	}
	return true, nil
}

func parsePowerState(s string) (orchestrator.PowerState, error) {
	switch s {
	case orchestrator.PowerAC.String():
		return orchestrator.PowerAC, nil
	case orchestrator.PowerWC.String():
		return orchestrator.PowerWC, nil
	case orchestrator.PowerBAT.String():
		return orchestrator.PowerBAT, nil
	default:
		return 0, errUnknownPowerState(s)
	}
}

type errUnknownPowerState string

func (e errUnknownPowerState) Error() string { return "unknown power state: " + string(e) }
