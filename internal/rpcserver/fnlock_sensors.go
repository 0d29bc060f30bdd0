// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import "github.com/godbus/dbus/v5"

func (s *Server) fnlockSensorMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetFnLockSupported":             s.GetFnLockSupported,
		"GetFnLockStatus":                s.GetFnLockStatus,
		"SetFnLockStatus":                s.SetFnLockStatus,
		"GetSensorDataCollectionStatus":  s.GetSensorDataCollectionStatus,
		"SetSensorDataCollectionStatus":  s.SetSensorDataCollectionStatus,
		"SetDGpuD0Metrics":               s.SetDGpuD0Metrics,
	}
}

func (s *Server) GetFnLockSupported() (bool, *dbus.Error) {
	return s.cfg.Snapshot.Capabilities().FnLockSupported, nil
}

func (s *Server) GetFnLockStatus() (bool, *dbus.Error) {
	return s.cfg.Snapshot.FnLock(), nil
}

// SetFnLockStatus records the toggle in the snapshot for the GUI to
// read back. No hwio method drives the fn-lock keyboard-controller bit
// directly (the firmware mirrors it automatically off the last Fn+Esc
// keypress); this call exists so the GUI's display stays consistent
// with whatever the user last set through the OS hotkey.
func (s *Server) SetFnLockStatus(enabled bool) (bool, *dbus.Error) {
	s.cfg.Snapshot.SetFnLock(enabled)
	return true, nil
}

// GetSensorDataCollectionStatus and SetSensorDataCollectionStatus back
// a GUI opt-in toggle for telemetry this daemon does not itself
// collect or transmit anywhere; the flag is stored and echoed back
// only, analogous to SetDGpuD0Metrics below.
func (s *Server) GetSensorDataCollectionStatus() (bool, *dbus.Error) {
	return s.sensorDataCollection.Load(), nil
}

func (s *Server) SetSensorDataCollectionStatus(enabled bool) (bool, *dbus.Error) {
	s.sensorDataCollection.Store(enabled)
	return true, nil
}

// SetDGpuD0Metrics toggles whether the dGPU is kept out of its deepest
// runtime-PM state so power/clock telemetry stays readable; no hwio
// method exposes a D0-metrics runtime-PM override, so this is recorded
// only and left for a future kernel-interface addition.
func (s *Server) SetDGpuD0Metrics(enabled bool) (bool, *dbus.Error) {
	s.dgpuD0Metrics.Store(enabled)
	return true, nil
}
