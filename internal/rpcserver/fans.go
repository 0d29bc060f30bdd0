// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/godbus/dbus/v5"

	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

func (s *Server) fanMethods() map[string]interface{} {
	return map[string]interface{}{
		"GetFanDataCPU":      s.GetFanDataCPU,
		"GetFanDataGPU1":     s.GetFanDataGPU1,
		"GetFanDataGPU2":     s.GetFanDataGPU2,
		"GetFansMinSpeed":    s.GetFansMinSpeed,
		"GetFansOffAvailable": s.GetFansOffAvailable,
		"SetFanProfileCPU":   s.SetFanProfileCPU,
		"SetFanProfileDGPU":  s.SetFanProfileDGPU,
		"ApplyFanProfiles":   s.ApplyFanProfiles,
		"RevertFanProfiles":  s.RevertFanProfiles,
		"GetFanProfile":      s.GetFanProfile,
		"GetFanProfileNames": s.GetFanProfileNames,
		"SetFanProfile":      s.SetFanProfile,
	}
}

// fanData builds the §4.11 {"speed":{data,timestamp}, "temp":{data,timestamp}}
// shape for fan index idx. An index past the published slice yields
// the documented timestamp==0 "absent" sentinel rather than an error.
func fanData(fans []snapshot.FanReading, idx int) map[string]map[string]dbus.Variant {
	var r snapshot.FanReading
	if idx < len(fans) {
		r = fans[idx]
	}
	return map[string]map[string]dbus.Variant{
		"speed": {
			"data":      dbus.MakeVariant(int32(r.Speed)),
			"timestamp": dbus.MakeVariant(r.TimestampUnixMilli),
		},
		"temp": {
			"data":      dbus.MakeVariant(int32(r.Temperature)),
			"timestamp": dbus.MakeVariant(r.TimestampUnixMilli),
		},
	}
}

func (s *Server) GetFanDataCPU() (map[string]map[string]dbus.Variant, *dbus.Error) {
	return fanData(s.cfg.Snapshot.Fans(), 0), nil
}

func (s *Server) GetFanDataGPU1() (map[string]map[string]dbus.Variant, *dbus.Error) {
	return fanData(s.cfg.Snapshot.Fans(), 1), nil
}

func (s *Server) GetFanDataGPU2() (map[string]map[string]dbus.Variant, *dbus.Error) {
	return fanData(s.cfg.Snapshot.Fans(), 2), nil
}

func (s *Server) GetFansMinSpeed() (int32, *dbus.Error) {
	v, err := s.cfg.Device.FansMinSpeed(context.Background())
	if err != nil {
		return 0, nil
	}
	return int32(v), nil
}

func (s *Server) GetFansOffAvailable() (bool, *dbus.Error) {
	v, err := s.cfg.Device.FansOffAvailable(context.Background())
	if err != nil {
		return false, nil
	}
	return v, nil
}

func (s *Server) SetFanProfileCPU(curveJSON string) (bool, *dbus.Error) {
	points, err := decodeFanPoints(curveJSON)
	if err != nil {
		return false, argErr(err.Error())
	}
	s.cfg.Fan.SetTemporaryCPUCurve(points)
	return true, nil
}

func (s *Server) SetFanProfileDGPU(curveJSON string) (bool, *dbus.Error) {
	points, err := decodeFanPoints(curveJSON)
	if err != nil {
		return false, argErr(err.Error())
	}
	s.cfg.Fan.SetTemporaryGPUCurve(points)
	return true, nil
}

// fanProfileBundle is the wire shape ApplyFanProfiles and SetFanProfile
// take: a full set of temporary curves installed together, rather than
// one subsystem at a time like SetFanProfileCPU/DGPU.
type fanProfileBundle struct {
	CPU      []profile.FanPoint `json:"cpu,omitempty"`
	GPU      []profile.FanPoint `json:"gpu,omitempty"`
	Pump     []profile.FanPoint `json:"pump,omitempty"`
	WaterFan []profile.FanPoint `json:"waterFan,omitempty"`
}

func (s *Server) applyFanBundle(bundleJSON string) (bool, *dbus.Error) {
	var b fanProfileBundle
	if err := json.Unmarshal([]byte(bundleJSON), &b); err != nil {
		return false, argErr(err.Error())
	}
	if b.CPU != nil {
		s.cfg.Fan.SetTemporaryCPUCurve(b.CPU)
	}
	if b.GPU != nil {
		s.cfg.Fan.SetTemporaryGPUCurve(b.GPU)
	}
	if b.Pump != nil {
		s.cfg.Fan.SetTemporaryPumpCurve(b.Pump)
	}
	if b.WaterFan != nil {
		s.cfg.Fan.SetTemporaryWaterFanCurve(b.WaterFan)
	}
	return true, nil
}

func (s *Server) ApplyFanProfiles(bundleJSON string) (bool, *dbus.Error) {
	return s.applyFanBundle(bundleJSON)
}

func (s *Server) RevertFanProfiles() (bool, *dbus.Error) {
	s.cfg.Fan.ClearTemporaryCurve()
	return true, nil
}

func (s *Server) GetFanProfile(name string) (string, *dbus.Error) {
	preset, ok := profile.FanPresetCatalog[name]
	if !ok {
		return "{}", nil
	}
	b, err := json.Marshal(preset)
	if err != nil {
		return "{}", nil
	}
	return string(b), nil
}

func (s *Server) GetFanProfileNames() ([]string, *dbus.Error) {
	names := make([]string, 0, len(profile.FanPresetCatalog))
	for name := range profile.FanPresetCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SetFanProfile installs bundleJSON's curves as temporary overrides,
// the same mechanism ApplyFanProfiles uses. name is accepted for
// parity with the client-facing contract but otherwise unused: the
// built-in preset catalog itself is a fixed table, not something a
// runtime call can rename or persist a new entry into.
func (s *Server) SetFanProfile(name, bundleJSON string) (bool, *dbus.Error) {
	return s.applyFanBundle(bundleJSON)
}

func decodeFanPoints(curveJSON string) ([]profile.FanPoint, error) {
	var points []profile.FanPoint
	if err := json.Unmarshal([]byte(curveJSON), &points); err != nil {
		return nil, err
	}
	return points, nil
}
