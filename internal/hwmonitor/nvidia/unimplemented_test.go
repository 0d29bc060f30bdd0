// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package nvidia

import (
	"context"
	"errors"
	"testing"
)

func TestUnimplementedInterface_ReturnsErrNotImplemented(t *testing.T) {
	var iface Interface = UnimplementedInterface{}
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Init", func() error { return iface.Init(ctx) }},
		{"GetDeviceCount", func() error { _, err := iface.GetDeviceCount(ctx); return err }},
		{"GetDeviceByIndex", func() error { _, err := iface.GetDeviceByIndex(ctx, 0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, ErrNotImplemented) {
				t.Errorf("%s: expected ErrNotImplemented, got %v", tt.name, err)
			}
		})
	}
}

func TestUnimplementedDevice_ReturnsErrNotImplemented(t *testing.T) {
	var dev Device = UnimplementedDevice{}
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"GetTemperature", func() error { _, err := dev.GetTemperature(ctx); return err }},
		{"GetPowerUsage", func() error { _, err := dev.GetPowerUsage(ctx); return err }},
		{"GetPowerManagementLimit", func() error { _, err := dev.GetPowerManagementLimit(ctx); return err }},
		{"GetClockInfo", func() error { _, err := dev.GetClockInfo(ctx); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, ErrNotImplemented) {
				t.Errorf("%s: expected ErrNotImplemented, got %v", tt.name, err)
			}
		})
	}
}

// TestForwardCompatibility verifies that embedding UnimplementedInterface
// allows new methods to be added without breaking existing implementations.
func TestForwardCompatibility(t *testing.T) {
	// Verify Mock embeds UnimplementedInterface (compiles = passes)
	var _ Interface = &Mock{}

	// Verify MockDevice embeds UnimplementedDevice (compiles = passes)
	var _ Device = &MockDevice{}

	// The embedded types don't interfere with existing implementations
	m := NewMock(1)
	ctx := context.Background()

	if err := m.Init(ctx); err != nil {
		t.Errorf("Mock.Init failed: %v", err)
	}

	count, err := m.GetDeviceCount(ctx)
	if err != nil || count != 1 {
		t.Errorf("Mock.GetDeviceCount failed: count=%d, err=%v", count, err)
	}

	dev, err := m.GetDeviceByIndex(ctx, 0)
	if err != nil {
		t.Errorf("Mock.GetDeviceByIndex failed: %v", err)
	}

	temp, err := dev.GetTemperature(ctx)
	if err != nil {
		t.Errorf("MockDevice.GetTemperature failed: temp=%d, err=%v", temp, err)
	}
}
