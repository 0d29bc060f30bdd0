// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwio

import (
	"context"
	"fmt"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// Null is the DeviceInterface used when Identify could not find a
// Clevo or Uniwill WMI device. Every operation fails with
// hwerr.ErrUnsupported so callers degrade uniformly instead of nil
// checking a missing backend at every call site.
type Null struct{}

var _ DeviceInterface = Null{}

func (Null) Identify(_ context.Context) (bool, bool) { return false, false }
func (Null) Variant() Variant                        { return VariantNone }

func (Null) InterfaceIDStr(_ context.Context) (string, error) {
	return "", fmt.Errorf("interface id: %w", hwerr.ErrUnsupported)
}

func (Null) ModelIDStr(_ context.Context) (string, error) {
	return "", fmt.Errorf("model id: %w", hwerr.ErrUnsupported)
}

func (Null) SetEnableModeSet(_ context.Context, _ bool) error {
	return fmt.Errorf("enable mode set: %w", hwerr.ErrUnsupported)
}

func (Null) NumberFans(_ context.Context) (int, error) {
	return 0, fmt.Errorf("number fans: %w", hwerr.ErrUnsupported)
}

func (Null) FansMinSpeed(_ context.Context) (int, error) {
	return 0, fmt.Errorf("fans min speed: %w", hwerr.ErrUnsupported)
}

func (Null) FansOffAvailable(_ context.Context) (bool, error) {
	return false, fmt.Errorf("fans off available: %w", hwerr.ErrUnsupported)
}

func (Null) SetFansAuto(_ context.Context) error {
	return fmt.Errorf("set fans auto: %w", hwerr.ErrUnsupported)
}

func (Null) SetFanSpeedPercent(_ context.Context, _, _ int) error {
	return fmt.Errorf("set fan speed percent: %w", hwerr.ErrUnsupported)
}

func (Null) FanSpeedPercent(_ context.Context, _ int) (int, error) {
	return 0, fmt.Errorf("fan speed percent: %w", hwerr.ErrUnsupported)
}

func (Null) FanTemperature(_ context.Context, _ int) (int, error) {
	return 0, fmt.Errorf("fan temperature: %w", hwerr.ErrUnsupported)
}

func (Null) SetWebcam(_ context.Context, _ bool) error {
	return fmt.Errorf("set webcam: %w", hwerr.ErrUnsupported)
}

func (Null) Webcam(_ context.Context) (bool, error) {
	return false, fmt.Errorf("webcam: %w", hwerr.ErrUnsupported)
}

func (Null) AvailableODMPerformanceProfiles(_ context.Context) ([]string, error) {
	return nil, fmt.Errorf("available odm performance profiles: %w", hwerr.ErrUnsupported)
}

func (Null) SetODMPerformanceProfile(_ context.Context, _ string) error {
	return fmt.Errorf("set odm performance profile: %w", hwerr.ErrUnsupported)
}

func (Null) DefaultODMPerformanceProfile(_ context.Context) (string, error) {
	return "", fmt.Errorf("default odm performance profile: %w", hwerr.ErrUnsupported)
}

func (Null) NumberTDPs(_ context.Context) (int, error) {
	return 0, fmt.Errorf("number tdps: %w", hwerr.ErrUnsupported)
}

func (Null) TDPDescriptors(_ context.Context) ([]string, error) {
	return nil, fmt.Errorf("tdp descriptors: %w", hwerr.ErrUnsupported)
}

func (Null) TDPMin(_ context.Context, _ int) (int, error) {
	return 0, fmt.Errorf("tdp min: %w", hwerr.ErrUnsupported)
}

func (Null) TDPMax(_ context.Context, _ int) (int, error) {
	return 0, fmt.Errorf("tdp max: %w", hwerr.ErrUnsupported)
}

func (Null) TDP(_ context.Context, _ int) (int, error) {
	return 0, fmt.Errorf("tdp: %w", hwerr.ErrUnsupported)
}

func (Null) SetTDP(_ context.Context, _, _ int) error {
	return fmt.Errorf("set tdp: %w", hwerr.ErrUnsupported)
}
