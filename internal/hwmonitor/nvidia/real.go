// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

//go:build cgo
// +build cgo

package nvidia

import (
	"context"
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// Real is a real implementation of the NVML Interface using go-nvml.
// This requires the NVIDIA driver and libnvidia-ml.so to be available.
type Real struct {
	initialized bool
}

// NewReal creates a new real NVML implementation.
func NewReal() *Real {
	return &Real{
		initialized: false,
	}
}

// Init initializes the NVML library.
func (r *Real) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before NVML init: %w", err)
	}

	if r.initialized {
		return nil
	}

	ret := nvml.Init()
	if ret != nvml.SUCCESS {
		return fmt.Errorf("failed to initialize NVML: %s", nvml.ErrorString(ret))
	}

	r.initialized = true
	return nil
}

// GetDeviceCount returns the number of GPU devices.
func (r *Real) GetDeviceCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	if !r.initialized {
		return 0, fmt.Errorf("NVML not initialized")
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to get device count: %s",
			nvml.ErrorString(ret))
	}

	return count, nil
}

// GetDeviceByIndex returns a Device handle for the given index.
func (r *Real) GetDeviceByIndex(ctx context.Context, idx int) (Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	if !r.initialized {
		return nil, fmt.Errorf("NVML not initialized")
	}

	device, ret := nvml.DeviceGetHandleByIndex(idx)
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get device %d: %s", idx,
			nvml.ErrorString(ret))
	}

	return &RealDevice{device: device}, nil
}

// RealDevice is a real implementation of the Device interface.
type RealDevice struct {
	device nvml.Device
}

// GetTemperature returns the current temperature in Celsius.
func (d *RealDevice) GetTemperature(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	temp, ret := d.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to get temperature: %s",
			nvml.ErrorString(ret))
	}
	return temp, nil
}

// GetPowerUsage returns the current power usage in milliwatts.
func (d *RealDevice) GetPowerUsage(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	power, ret := d.device.GetPowerUsage()
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to get power usage: %s",
			nvml.ErrorString(ret))
	}
	return power, nil
}

// GetPowerManagementLimit returns the power management limit in milliwatts.
func (d *RealDevice) GetPowerManagementLimit(
	ctx context.Context,
) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	limit, ret := d.device.GetPowerManagementLimit()
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to get power limit: %s",
			nvml.ErrorString(ret))
	}
	return limit, nil
}

// GetClockInfo returns the current graphics (SM) clock in MHz.
func (d *RealDevice) GetClockInfo(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	clock, ret := d.device.GetClockInfo(nvml.CLOCK_GRAPHICS)
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to get clock info: %s",
			nvml.ErrorString(ret))
	}
	return clock, nil
}
