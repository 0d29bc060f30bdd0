// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux
// +build !linux

package hwio

import (
	"context"
	"fmt"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// Real is a stub for non-Linux builds; the tuxedo_io character device
// ioctl ABI only exists on Linux.
type Real struct{}

// NewReal always fails on non-Linux platforms.
func NewReal() (*Real, error) {
	return nil, fmt.Errorf("tuxedo_io device: %w", hwerr.ErrUnsupported)
}

func (r *Real) Close() error { return nil }

func (r *Real) Identify(_ context.Context) (bool, bool) { return false, false }
func (r *Real) Variant() Variant                        { return VariantNone }

func (r *Real) InterfaceIDStr(_ context.Context) (string, error) {
	return "", hwerr.ErrUnsupported
}
func (r *Real) ModelIDStr(_ context.Context) (string, error) { return "", hwerr.ErrUnsupported }
func (r *Real) SetEnableModeSet(_ context.Context, _ bool) error {
	return hwerr.ErrUnsupported
}
func (r *Real) NumberFans(_ context.Context) (int, error) { return 0, hwerr.ErrUnsupported }
func (r *Real) FansMinSpeed(_ context.Context) (int, error) {
	return 0, hwerr.ErrUnsupported
}
func (r *Real) FansOffAvailable(_ context.Context) (bool, error) {
	return false, hwerr.ErrUnsupported
}
func (r *Real) SetFansAuto(_ context.Context) error { return hwerr.ErrUnsupported }
func (r *Real) SetFanSpeedPercent(_ context.Context, _, _ int) error {
	return hwerr.ErrUnsupported
}
func (r *Real) FanSpeedPercent(_ context.Context, _ int) (int, error) {
	return 0, hwerr.ErrUnsupported
}
func (r *Real) FanTemperature(_ context.Context, _ int) (int, error) {
	return 0, hwerr.ErrUnsupported
}
func (r *Real) SetWebcam(_ context.Context, _ bool) error { return hwerr.ErrUnsupported }
func (r *Real) Webcam(_ context.Context) (bool, error)    { return false, hwerr.ErrUnsupported }
func (r *Real) AvailableODMPerformanceProfiles(_ context.Context) ([]string, error) {
	return nil, hwerr.ErrUnsupported
}
func (r *Real) SetODMPerformanceProfile(_ context.Context, _ string) error {
	return hwerr.ErrUnsupported
}
func (r *Real) DefaultODMPerformanceProfile(_ context.Context) (string, error) {
	return "", hwerr.ErrUnsupported
}
func (r *Real) NumberTDPs(_ context.Context) (int, error) { return 0, hwerr.ErrUnsupported }
func (r *Real) TDPDescriptors(_ context.Context) ([]string, error) {
	return nil, hwerr.ErrUnsupported
}
func (r *Real) TDPMin(_ context.Context, _ int) (int, error) { return 0, hwerr.ErrUnsupported }
func (r *Real) TDPMax(_ context.Context, _ int) (int, error) { return 0, hwerr.ErrUnsupported }
func (r *Real) TDP(_ context.Context, _ int) (int, error)    { return 0, hwerr.ErrUnsupported }
func (r *Real) SetTDP(_ context.Context, _, _ int) error     { return hwerr.ErrUnsupported }

var _ DeviceInterface = (*Real)(nil)
