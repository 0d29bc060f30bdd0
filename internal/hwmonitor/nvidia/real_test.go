// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

//go:build integration && cgo
// +build integration,cgo

package nvidia

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRealNVML_Integration tests real NVML with actual GPU hardware.
// Run with: go test -tags=integration ./internal/hwmonitor/nvidia/
// Requires: NVIDIA GPU with driver installed
func TestRealNVML_Integration(t *testing.T) {
	real := NewReal()
	ctx := context.Background()

	err := real.Init(ctx)
	require.NoError(t, err, "NVML initialization should succeed with GPU present")

	count, err := real.GetDeviceCount(ctx)
	require.NoError(t, err)
	assert.Greater(t, count, 0, "Should have at least one GPU")

	t.Logf("Found %d GPU device(s)", count)

	device, err := real.GetDeviceByIndex(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, device)

	temp, err := device.GetTemperature(ctx)
	require.NoError(t, err)
	assert.Greater(t, temp, uint32(0))
	assert.Less(t, temp, uint32(150), "Temperature should be reasonable")
	t.Logf("GPU 0 Temperature: %d°C", temp)

	power, err := device.GetPowerUsage(ctx)
	require.NoError(t, err)
	assert.Greater(t, power, uint32(0))
	t.Logf("GPU 0 Power: %.1fW", float64(power)/1000.0)

	limit, err := device.GetPowerManagementLimit(ctx)
	require.NoError(t, err)
	assert.Greater(t, limit, uint32(0))
	t.Logf("GPU 0 Power Limit: %.1fW", float64(limit)/1000.0)

	clock, err := device.GetClockInfo(ctx)
	require.NoError(t, err)
	t.Logf("GPU 0 Graphics Clock: %d MHz", clock)
}

func TestRealNVML_ContextCancellation(t *testing.T) {
	real := NewReal()
	ctx := context.Background()

	err := real.Init(ctx)
	require.NoError(t, err)

	// Create cancelled context
	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	// Operations should fail with context error
	_, err = real.GetDeviceCount(cancelledCtx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

func TestRealNVML_Timeout(t *testing.T) {
	real := NewReal()
	ctx := context.Background()

	err := real.Init(ctx)
	require.NoError(t, err)

	// Create context with very short timeout
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure timeout fires

	// Operations should fail with timeout
	_, err = real.GetDeviceCount(timeoutCtx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}

func TestRealNVML_InvalidIndex(t *testing.T) {
	real := NewReal()
	ctx := context.Background()

	err := real.Init(ctx)
	require.NoError(t, err)

	// Try to get device with invalid index
	_, err = real.GetDeviceByIndex(ctx, 999)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get device")
}

func TestRealNVML_UninitializedAccess(t *testing.T) {
	real := NewReal()
	ctx := context.Background()

	// Try to use without initialization
	_, err := real.GetDeviceCount(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

// TestRealNVML_ConcurrentInit verifies that concurrent Init calls are safe.
// Run with: go test -race -tags=integration ./internal/hwmonitor/nvidia/
func TestRealNVML_ConcurrentInit(t *testing.T) {
	real := NewReal()
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	errors := make(chan error, goroutines)

	// Launch multiple concurrent Init calls
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := real.Init(ctx); err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	// All Init calls should succeed (or be no-ops)
	for err := range errors {
		t.Errorf("concurrent Init failed: %v", err)
	}

	// Verify NVML is functional after concurrent init
	count, err := real.GetDeviceCount(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 0)
}
