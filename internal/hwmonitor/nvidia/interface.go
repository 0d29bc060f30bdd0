// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package nvidia provides an abstraction layer over the NVIDIA NVML
// library for the discrete-GPU leg of the hardware-monitor worker. This
// allows for testing without real hardware and decouples the worker
// from the CGO-based NVML implementation; when go-nvml's Init fails
// (driver/library absent) the hardware-monitor worker falls back to
// shelling out to nvidia-smi instead.
//
// The surface here is deliberately narrow: a laptop carries at most one
// mobile dGPU with no ECC memory, no MIG partitions and no XID error
// log, so Interface and Device expose only what the fan/monitor path
// reads off it — device enumeration plus temperature, power and clock
// telemetry.
package nvidia

import (
	"context"
)

// Interface defines the contract for NVML operations this package
// needs. It can be implemented by both real NVML bindings and mock
// implementations for testing.
type Interface interface {
	// Init initializes the NVML library.
	// Must be called before any other NVML operations.
	Init(ctx context.Context) error

	// GetDeviceCount returns the number of GPU devices.
	GetDeviceCount(ctx context.Context) (int, error)

	// GetDeviceByIndex returns a Device handle for the given index.
	GetDeviceByIndex(ctx context.Context, idx int) (Device, error)
}

// Device represents a single GPU device.
type Device interface {
	// GetTemperature returns the current temperature in Celsius.
	GetTemperature(ctx context.Context) (uint32, error)

	// GetPowerUsage returns the current power usage in milliwatts.
	GetPowerUsage(ctx context.Context) (uint32, error)

	// GetPowerManagementLimit returns the power management limit in
	// milliwatts. This is the maximum power the GPU is allowed to draw.
	GetPowerManagementLimit(ctx context.Context) (uint32, error)

	// GetClockInfo returns the current graphics (SM) clock in MHz.
	GetClockInfo(ctx context.Context) (uint32, error)
}
