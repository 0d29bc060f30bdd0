// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package hwio abstracts the Clevo/Uniwill WMI ioctl character device
// (conventionally /dev/tuxedo_io) behind a capability interface. This
// mirrors the shape the teacher uses for its NVML handle
// (internal/hwmonitor/nvidia.Interface): open a device handle, probe
// capabilities at startup, every operation fails with
// hwerr.ErrUnsupported when the backing device cannot service it, and
// a Null implementation stands in when no hardware answered the
// identification probe.
package hwio

import "context"

// Variant identifies which WMI backend answered the identification
// probe at startup.
type Variant int

const (
	// VariantNone means neither Clevo nor Uniwill identified; every
	// operation on the resulting DeviceInterface fails as unsupported.
	VariantNone Variant = iota
	VariantClevo
	VariantUniwill
)

func (v Variant) String() string {
	switch v {
	case VariantClevo:
		return "clevo"
	case VariantUniwill:
		return "uniwill"
	default:
		return "none"
	}
}

// PumpLevel is the discrete water-cooler pump voltage level. The GUI
// never emits Pump12V by policy; the daemon still clamps to it so a
// profile that does request it (e.g. hand-authored) is honored.
type PumpLevel int

const (
	PumpOff PumpLevel = iota
	Pump7V
	Pump8V
	Pump11V
	Pump12V
)

// ClampPumpLevel clamps an arbitrary integer into the valid PumpLevel
// range.
func ClampPumpLevel(v int) PumpLevel {
	switch {
	case v <= int(PumpOff):
		return PumpOff
	case v >= int(Pump12V):
		return Pump12V
	default:
		return PumpLevel(v)
	}
}

// DeviceInterface is the capability surface described in SPEC_FULL.md
// §4.2. Every method returns hwerr.ErrUnsupported (wrapped) when the
// backing hardware cannot service the call, never a generic error.
type DeviceInterface interface {
	// Identify probes the backing device and reports whether the
	// platform could be identified.
	Identify(ctx context.Context) (ok bool, identified bool)

	Variant() Variant
	InterfaceIDStr(ctx context.Context) (string, error)
	ModelIDStr(ctx context.Context) (string, error)

	// SetEnableModeSet arms or disarms WMI mode control. Idempotent.
	SetEnableModeSet(ctx context.Context, enable bool) error

	NumberFans(ctx context.Context) (int, error)
	FansMinSpeed(ctx context.Context) (int, error)
	FansOffAvailable(ctx context.Context) (bool, error)
	SetFansAuto(ctx context.Context) error
	SetFanSpeedPercent(ctx context.Context, fanIdx, percent int) error
	FanSpeedPercent(ctx context.Context, fanIdx int) (int, error)
	// FanTemperature returns the fan's associated sensor reading in
	// Celsius. A reading of 0 or 1 signals "sensor missing" per spec.
	FanTemperature(ctx context.Context, fanIdx int) (int, error)

	SetWebcam(ctx context.Context, enable bool) error
	Webcam(ctx context.Context) (bool, error)

	AvailableODMPerformanceProfiles(ctx context.Context) ([]string, error)
	SetODMPerformanceProfile(ctx context.Context, name string) error
	DefaultODMPerformanceProfile(ctx context.Context) (string, error)

	NumberTDPs(ctx context.Context) (int, error)
	TDPDescriptors(ctx context.Context) ([]string, error)
	TDPMin(ctx context.Context, index int) (int, error)
	TDPMax(ctx context.Context, index int) (int, error)
	TDP(ctx context.Context, index int) (int, error)
	SetTDP(ctx context.Context, index, watts int) error
}
