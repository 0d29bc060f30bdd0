// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/hwmonitor/nvidia"
	"github.com/tuxedocomputers/uccd/internal/metrics"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

// tickInterval is the §4.8 fixed cadence every leg of the worker is
// staggered against.
const tickInterval = 800 * time.Millisecond

// gpuInfo is the combined iGPU/dGPU payload published as one JSON
// blob, minimizing the number of RPC round trips a client needs for a
// full hardware snapshot.
type gpuInfo struct {
	IGPU GPUReading `json:"igpu"`
	DGPU GPUReading `json:"dgpu"`
}

// Worker runs the §4.8 hardware-monitor loop: every tick refreshes
// GPU and webcam state, every 3rd tick refreshes CPU package power,
// every 12th tick refreshes the prime-select mode.
type Worker struct {
	io   hwio.DeviceInterface
	snap *snapshot.DbusData

	igpu     iGPUSource
	dgpu     dGPUSource
	cpuPower *CPUPowerSampler
	prime    PrimeSelectRunner

	tickCount int
}

// NewWorker wires the worker against already-detected GPU sources.
// igpu/dgpu may be nil when the corresponding hardware wasn't found;
// the worker simply skips that leg.
func NewWorker(io hwio.DeviceInterface, snap *snapshot.DbusData, igpu iGPUSource, dgpu dGPUSource) *Worker {
	return &Worker{
		io:       io,
		snap:     snap,
		igpu:     igpu,
		dgpu:     dgpu,
		cpuPower: NewCPUPowerSampler(),
		prime:    RunPrimeSelectQuery,
	}
}

// DetectGPUs probes the conventional sysfs/NVML locations and returns
// the iGPU/dGPU sources to hand to NewWorker. nvml is the already
// constructed NVML binding (nvidia.Real or nvidia.Mock); its Init is
// only invoked lazily, the first time the dGPU leg is sampled.
func DetectGPUs(ctx context.Context, nvml nvidia.Interface) (igpu iGPUSource, dgpu dGPUSource) {
	intel := NewIntelIGPUReader()
	amdDirs := findHwmonByName("amdgpu")

	if intel.Available(ctx) {
		igpu = intel
	} else if len(amdDirs) > 0 {
		igpu = NewAMDHwmonReader(amdDirs[0])
		amdDirs = amdDirs[1:]
	}

	if nvml != nil {
		dgpu = NewNvidiaDGPUSource(nvml)
	} else if len(amdDirs) > 0 {
		dgpu = NewAMDHwmonReader(amdDirs[0])
	}

	return igpu, dgpu
}

// Name identifies this worker for logs and metrics labels.
func (w *Worker) Name() string { return "hwmonitor" }

// Run ticks the hardware-monitor loop until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			w.tick(ctx)
			metrics.WorkerTickDuration.WithLabelValues("hwmonitor").Observe(time.Since(start).Seconds())
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	w.tickCount++

	w.sampleGPUsAndWebcam(ctx)

	if w.tickCount%3 == 0 {
		if cp, ok := w.cpuPower.Sample(ctx); ok {
			w.snap.SetCPUPowerJSON(cp.JSON())
		}
	}

	if w.tickCount%12 == 0 {
		raw, err := w.prime(ctx)
		w.snap.SetPrimeState(ParsePrimeSelectOutput(raw, err))
	}
}

func (w *Worker) sampleGPUsAndWebcam(ctx context.Context) {
	info := gpuInfo{}

	if w.igpu != nil && w.igpu.Available(ctx) {
		info.IGPU = w.igpu.Read(ctx)
	}

	if w.dgpu != nil && w.dgpu.Available(ctx) {
		if r, err := w.dgpu.Read(ctx); err == nil {
			info.DGPU = r
		} else {
			metrics.WorkerTickErrors.WithLabelValues("hwmonitor").Inc()
		}

		if lim, ok := w.dgpu.(nvidiaLimitsSource); ok {
			if limits, lok := lim.PowerLimits(ctx); lok {
				if b, err := json.Marshal(limits); err == nil {
					w.snap.SetNvidiaPowerLimitsJSON(string(b))
				}
			}
		}
	}

	if b, err := json.Marshal(info); err == nil {
		w.snap.SetGPUInfoJSON(string(b))
	}

	if w.io != nil {
		if enabled, err := w.io.Webcam(ctx); err == nil {
			w.snap.SetWebcamEnabled(enabled)
		}
	}
}
