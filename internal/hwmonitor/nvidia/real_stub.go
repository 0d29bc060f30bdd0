// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !cgo
// +build !cgo

package nvidia

import (
	"context"
)

// Real is a stub that returns an error when CGO is disabled.
// This allows the code to compile without NVML library.
type Real struct{}

// NewReal creates a stub that will error on init.
func NewReal() *Real {
	return &Real{}
}

// Init returns an error indicating CGO is required.
func (r *Real) Init(ctx context.Context) error {
	return ErrCGORequired
}

// GetDeviceCount returns an error.
func (r *Real) GetDeviceCount(ctx context.Context) (int, error) {
	return 0, ErrCGORequired
}

// GetDeviceByIndex returns an error.
func (r *Real) GetDeviceByIndex(ctx context.Context, idx int) (Device, error) {
	return nil, ErrCGORequired
}

// RealDevice is a stub for non-CGO builds.
type RealDevice struct{}

// GetTemperature returns an error indicating CGO is required.
func (d *RealDevice) GetTemperature(ctx context.Context) (uint32, error) {
	return 0, ErrCGORequired
}

// GetPowerUsage returns an error indicating CGO is required.
func (d *RealDevice) GetPowerUsage(ctx context.Context) (uint32, error) {
	return 0, ErrCGORequired
}

// GetPowerManagementLimit returns an error indicating CGO is required.
func (d *RealDevice) GetPowerManagementLimit(
	ctx context.Context,
) (uint32, error) {
	return 0, ErrCGORequired
}

// GetClockInfo returns an error indicating CGO is required.
func (d *RealDevice) GetClockInfo(ctx context.Context) (uint32, error) {
	return 0, ErrCGORequired
}
