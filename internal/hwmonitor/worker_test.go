// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

type countingDGPU struct {
	reads int
}

func (c *countingDGPU) Available(ctx context.Context) bool { return true }
func (c *countingDGPU) Read(ctx context.Context) (GPUReading, error) {
	c.reads++
	return GPUReading{Present: true, TempC: 50}, nil
}

func TestWorkerPublishesGPUInfoEveryTick(t *testing.T) {
	snap := snapshot.New()
	dgpu := &countingDGPU{}
	w := NewWorker(hwio.NewMock(hwio.VariantUniwill), snap, nil, dgpu)

	w.tick(context.Background())
	w.tick(context.Background())

	assert.Equal(t, 2, dgpu.reads)
	assert.Contains(t, snap.GPUInfoJSON(), `"tempC":50`)
}

func TestWorkerSamplesCPUPowerEveryThirdTick(t *testing.T) {
	snap := snapshot.New()
	w := NewWorker(hwio.NewMock(hwio.VariantUniwill), snap, nil, nil)

	for i := 0; i < 3; i++ {
		w.tick(context.Background())
	}

	// The energy meter needs two samples before it reports a value; a
	// real RAPL path won't exist in the test sandbox, so this only
	// exercises that the staggered counter fires without panicking.
	assert.Equal(t, 3, w.tickCount)
}

func TestWorkerSamplesPrimeSelectEveryTwelfthTick(t *testing.T) {
	snap := snapshot.New()
	w := NewWorker(hwio.NewMock(hwio.VariantUniwill), snap, nil, nil)
	w.prime = func(ctx context.Context) (string, error) { return "hybrid", nil }

	for i := 0; i < 11; i++ {
		w.tick(context.Background())
	}
	assert.Empty(t, snap.PrimeState())

	w.tick(context.Background())
	assert.Equal(t, "hybrid", snap.PrimeState())
}

func TestWorkerPublishesWebcamState(t *testing.T) {
	snap := snapshot.New()
	mock := hwio.NewMock(hwio.VariantUniwill)
	_ = mock.SetWebcam(context.Background(), true)
	w := NewWorker(mock, snap, nil, nil)

	w.tick(context.Background())

	assert.True(t, snap.WebcamEnabled())
}
