// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package nvidia

import (
	"context"
)

// Compile-time interface satisfaction checks.
var (
	_ Interface = UnimplementedInterface{}
	_ Device    = UnimplementedDevice{}
)

// UnimplementedInterface provides default implementations that return
// ErrNotImplemented for all Interface methods. Embed this in your
// implementation for forward compatibility when new methods are added.
//
// Example:
//
//	type MyNVML struct {
//	    nvidia.UnimplementedInterface
//	    // your fields
//	}
type UnimplementedInterface struct{}

// Init returns ErrNotImplemented.
func (UnimplementedInterface) Init(_ context.Context) error {
	return ErrNotImplemented
}

// GetDeviceCount returns ErrNotImplemented.
func (UnimplementedInterface) GetDeviceCount(_ context.Context) (int, error) {
	return 0, ErrNotImplemented
}

// GetDeviceByIndex returns ErrNotImplemented.
func (UnimplementedInterface) GetDeviceByIndex(
	_ context.Context,
	_ int,
) (Device, error) {
	return nil, ErrNotImplemented
}

// UnimplementedDevice provides default implementations that return
// ErrNotImplemented for all Device methods. Embed this in your
// implementation for forward compatibility when new methods are added.
//
// Example:
//
//	type MyDevice struct {
//	    nvidia.UnimplementedDevice
//	    // your fields
//	}
type UnimplementedDevice struct{}

// GetTemperature returns ErrNotImplemented.
func (UnimplementedDevice) GetTemperature(_ context.Context) (uint32, error) {
	return 0, ErrNotImplemented
}

// GetPowerUsage returns ErrNotImplemented.
func (UnimplementedDevice) GetPowerUsage(_ context.Context) (uint32, error) {
	return 0, ErrNotImplemented
}

// GetPowerManagementLimit returns ErrNotImplemented.
func (UnimplementedDevice) GetPowerManagementLimit(
	_ context.Context,
) (uint32, error) {
	return 0, ErrNotImplemented
}

// GetClockInfo returns ErrNotImplemented.
func (UnimplementedDevice) GetClockInfo(_ context.Context) (uint32, error) {
	return 0, ErrNotImplemented
}
