// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"
	"encoding/json"

	"github.com/godbus/dbus/v5"

	"github.com/tuxedocomputers/uccd/internal/profile"
)

func (s *Server) profileMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetActiveProfileJSON":        s.GetActiveProfileJSON,
		"GetPowerState":               s.GetPowerState,
		"SetActiveProfile":            s.SetActiveProfile,
		"SetTempProfileById":          s.SetTempProfileById,
		"ApplyProfile":                s.ApplyProfile,
		"GetProfilesJSON":             s.GetProfilesJSON,
		"GetCustomProfilesJSON":       s.GetCustomProfilesJSON,
		"GetDefaultProfilesJSON":      s.GetDefaultProfilesJSON,
		"GetDefaultValuesProfileJSON": s.GetDefaultValuesProfileJSON,
		"AddCustomProfile":            s.AddCustomProfile,
		"SaveCustomProfile":           s.SaveCustomProfile,
		"UpdateCustomProfile":         s.UpdateCustomProfile,
		"DeleteCustomProfile":         s.DeleteCustomProfile,
	}
}

func (s *Server) GetActiveProfileJSON() (string, *dbus.Error) {
	b, err := json.Marshal(s.cfg.Orchestrator.ActiveProfile())
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

func (s *Server) GetPowerState() (string, *dbus.Error) {
	return s.cfg.Orchestrator.PowerState().String(), nil
}

// SetActiveProfile persists id as the mapped profile for the current
// power state and applies it.
func (s *Server) SetActiveProfile(id string) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.SetActiveProfile(context.Background(), id); err != nil {
		return false, nil
	}
	return true, nil
}

// SetTempProfileById applies id without touching settings.stateMap.
func (s *Server) SetTempProfileById(id string) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.ApplyProfileByID(context.Background(), id); err != nil {
		return false, nil
	}
	return true, nil
}

// ApplyProfile validates and applies an ad-hoc profile JSON without
// persisting it anywhere.
func (s *Server) ApplyProfile(profileJSON string) (bool, *dbus.Error) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return false, argErr(err.Error())
	}
	if err := p.Validate(); err != nil {
		return false, argErr(err.Error())
	}
	if err := s.cfg.Orchestrator.ApplyProfile(context.Background(), p); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Server) GetProfilesJSON() (string, *dbus.Error) {
	all, err := s.cfg.Orchestrator.Store().GetAllProfiles(context.Background())
	if err != nil {
		return "[]", nil
	}
	return marshalProfiles(all), nil
}

func (s *Server) GetCustomProfilesJSON() (string, *dbus.Error) {
	settings := s.cfg.Orchestrator.Settings()
	custom := make([]profile.Profile, 0, len(settings.Profiles))
	for _, p := range settings.Profiles {
		custom = append(custom, p)
	}
	return marshalProfiles(custom), nil
}

func (s *Server) GetDefaultProfilesJSON() (string, *dbus.Error) {
	return marshalProfiles(profile.BuiltinCatalog(s.cfg.DeviceModel)), nil
}

func (s *Server) GetDefaultValuesProfileJSON() (string, *dbus.Error) {
	b, err := json.Marshal(profile.CustomTemplate())
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

func (s *Server) AddCustomProfile(profileJSON string) (bool, *dbus.Error) {
	p, err := decodeProfile(profileJSON)
	if err != nil {
		return false, argErr(err.Error())
	}
	if err := s.cfg.Orchestrator.Store().AddCustomProfile(context.Background(), p); err != nil {
		return false, nil
	}
	return true, nil
}

// SaveCustomProfile upserts: it adds a new custom profile or updates
// an existing one depending on whether id already names a stored
// custom profile, matching the single-call "save" semantics a GUI
// profile editor expects from one dialog.
func (s *Server) SaveCustomProfile(profileJSON string) (bool, *dbus.Error) {
	p, err := decodeProfile(profileJSON)
	if err != nil {
		return false, argErr(err.Error())
	}
	settings := s.cfg.Orchestrator.Settings()
	ctx := context.Background()
	if _, exists := settings.Profiles[p.ID]; exists {
		err = s.cfg.Orchestrator.Store().UpdateCustomProfile(ctx, p)
	} else {
		err = s.cfg.Orchestrator.Store().AddCustomProfile(ctx, p)
	}
	return err == nil, nil
}

func (s *Server) UpdateCustomProfile(profileJSON string) (bool, *dbus.Error) {
	p, err := decodeProfile(profileJSON)
	if err != nil {
		return false, argErr(err.Error())
	}
	if err := s.cfg.Orchestrator.Store().UpdateCustomProfile(context.Background(), p); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Server) DeleteCustomProfile(id string) (bool, *dbus.Error) {
	if err := s.cfg.Orchestrator.Store().DeleteCustomProfile(context.Background(), id); err != nil {
		return false, nil
	}
	return true, nil
}

func decodeProfile(profileJSON string) (profile.Profile, error) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return profile.Profile{}, err
	}
	return p, p.Validate()
}

func marshalProfiles(profiles []profile.Profile) string {
	b, err := json.Marshal(profiles)
	if err != nil {
		return "[]"
	}
	return string(b)
}
