// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/hwmonitor/nvidia"
)

func TestSMISourceReadParsesCSVWithUnits(t *testing.T) {
	s := &SMISource{runner: func(ctx context.Context, args ...string) ([]byte, error) {
		return []byte("45 C, 1200 MHz, 55.25 W, 115.00 W\n"), nil
	}}

	reading, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, reading.TempC)
	assert.Equal(t, 1200, reading.FreqMHz)
	assert.InDelta(t, 55.25, reading.PowerW, 0.001)
	assert.InDelta(t, 115.0, reading.PowerLimitW, 0.001)
}

func TestSMISourcePowerLimitsParsesThreeFields(t *testing.T) {
	s := &SMISource{runner: func(ctx context.Context, args ...string) ([]byte, error) {
		return []byte("60.00 W, 115.00 W, 115.00 W\n"), nil
	}}

	lim, ok := s.PowerLimits(context.Background())
	require.True(t, ok)
	assert.InDelta(t, 60.0, lim.MinW, 0.001)
	assert.InDelta(t, 115.0, lim.MaxW, 0.001)
}

func TestNvidiaFallbackPrefersNVMLWhenAvailable(t *testing.T) {
	mock := nvidia.NewMock(1)
	f := NewNvidiaDGPUSource(mock)

	assert.True(t, f.Available(context.Background()))
	reading, err := f.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, reading.Present)
}

func TestNvidiaFallbackUsesSMIWhenNVMLUnavailable(t *testing.T) {
	fb := &nvidiaFallback{
		nvml: NewNVMLSource(&failingInit{}),
		smi: &SMISource{runner: func(ctx context.Context, args ...string) ([]byte, error) {
			return []byte("50 C, 900 MHz, 30.00 W, 80.00 W\n"), nil
		}},
	}

	reading, err := fb.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, reading.TempC)
}

// failingInit is a minimal nvidia.Interface whose Init always fails,
// forcing the fallback path.
type failingInit struct {
	nvidia.UnimplementedInterface
}

func (f *failingInit) Init(ctx context.Context) error { return errors.New("nvml init failed") }
