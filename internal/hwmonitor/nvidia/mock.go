// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package nvidia

import (
	"context"
	"fmt"
)

// Mock is a mock implementation of the NVML Interface for testing.
// It returns fake but consistent GPU data without requiring real hardware.
type Mock struct {
	UnimplementedInterface // Embedded for forward compatibility
	deviceCount            int
	devices                []*MockDevice
}

// Compile-time interface satisfaction checks.
var (
	_ Interface = (*Mock)(nil)
	_ Device    = (*MockDevice)(nil)
)

// NewMock creates a new mock NVML implementation with the specified
// number of fake GPU devices.
func NewMock(deviceCount int) *Mock {
	if deviceCount <= 0 {
		deviceCount = 2 // Default to 2 fake GPUs
	}

	m := &Mock{
		deviceCount: deviceCount,
		devices:     make([]*MockDevice, deviceCount),
	}

	// A laptop carries at most one discrete GPU, but the interface
	// stays multi-device so tests can exercise index lookup failures.
	for i := 0; i < deviceCount; i++ {
		m.devices[i] = &MockDevice{
			index:       i,
			temperature: 45 + uint32(i*5),
			powerUsage:  35000 + uint32(i*5000), // milliwatts
			powerLimit:  115000,                 // 115W TGP
			smClock:     1185,
		}
	}

	return m
}

// Init initializes the mock NVML library (no-op).
func (m *Mock) Init(ctx context.Context) error {
	return nil
}

// GetDeviceCount returns the number of mock GPU devices.
func (m *Mock) GetDeviceCount(ctx context.Context) (int, error) {
	return m.deviceCount, nil
}

// GetDeviceByIndex returns a mock Device handle for the given index.
func (m *Mock) GetDeviceByIndex(ctx context.Context, idx int) (Device, error) {
	if idx < 0 || idx >= m.deviceCount {
		return nil, fmt.Errorf("%w: %d (count: %d)",
			ErrInvalidDevice, idx, m.deviceCount)
	}
	return m.devices[idx], nil
}

// MockDevice is a mock implementation of the Device interface, shaped
// after an RTX 4070 Laptop GPU: 8 GB VRAM, ~115W TGP, no ECC or MIG
// state to report.
type MockDevice struct {
	UnimplementedDevice // Embedded for forward compatibility
	index               int
	temperature         uint32
	powerUsage          uint32
	powerLimit          uint32
	smClock             uint32
}

// GetTemperature returns the mock temperature.
func (d *MockDevice) GetTemperature(ctx context.Context) (uint32, error) {
	return d.temperature, nil
}

// GetPowerUsage returns the mock power usage.
func (d *MockDevice) GetPowerUsage(ctx context.Context) (uint32, error) {
	return d.powerUsage, nil
}

// GetPowerManagementLimit returns the mock power management limit.
func (d *MockDevice) GetPowerManagementLimit(
	ctx context.Context,
) (uint32, error) {
	return d.powerLimit, nil
}

// GetClockInfo returns the mock graphics (SM) clock frequency.
func (d *MockDevice) GetClockInfo(ctx context.Context) (uint32, error) {
	return d.smClock, nil
}
