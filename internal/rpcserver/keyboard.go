// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"
	"encoding/json"

	"github.com/godbus/dbus/v5"
)

func (s *Server) keyboardMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetKeyboardBacklightCapabilitiesJSON": s.GetKeyboardBacklightCapabilitiesJSON,
		"GetKeyboardBacklightStatesJSON":       s.GetKeyboardBacklightStatesJSON,
		"SetKeyboardBacklightStatesJSON":       s.SetKeyboardBacklightStatesJSON,
	}
}

func (s *Server) GetKeyboardBacklightCapabilitiesJSON() (string, *dbus.Error) {
	if s.cfg.Keyboard == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s.cfg.Keyboard.Capabilities())
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

// GetKeyboardBacklightStatesJSON returns the named zone-state presets
// the GUI lists for quick recall, not the single live zone state
// (that is the keyboard section of the active profile's JSON).
func (s *Server) GetKeyboardBacklightStatesJSON() (string, *dbus.Error) {
	b, err := json.Marshal(s.cfg.Orchestrator.Settings().KeyboardBacklightStates)
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

func (s *Server) SetKeyboardBacklightStatesJSON(statesJSON string) (bool, *dbus.Error) {
	var states map[string]string
	if err := json.Unmarshal([]byte(statesJSON), &states); err != nil {
		return false, argErr(err.Error())
	}
	if err := s.cfg.Orchestrator.SetKeyboardBacklightStates(context.Background(), states); err != nil {
		return false, nil
	}
	return true, nil
}
