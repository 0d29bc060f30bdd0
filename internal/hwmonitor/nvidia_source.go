// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/tuxedocomputers/uccd/internal/hwmonitor/nvidia"
)

// NVMLSource is the primary NVIDIA dGPU path: direct go-nvml bindings
// against device index 0. initErr is sticky for the process lifetime —
// if nvml.Init() fails once (driver/library absent) the worker falls
// back to nvidia-smi rather than retrying every tick.
type NVMLSource struct {
	nvml nvidia.Interface

	initOnce sync.Once
	initErr  error
}

// NewNVMLSource wraps an already-constructed nvidia.Interface (Real in
// production, Mock in tests).
func NewNVMLSource(nvml nvidia.Interface) *NVMLSource {
	return &NVMLSource{nvml: nvml}
}

func (s *NVMLSource) ensureInit(ctx context.Context) error {
	s.initOnce.Do(func() { s.initErr = s.nvml.Init(ctx) })
	return s.initErr
}

func (s *NVMLSource) Available(ctx context.Context) bool {
	if err := s.ensureInit(ctx); err != nil {
		return false
	}
	n, err := s.nvml.GetDeviceCount(ctx)
	return err == nil && n > 0
}

func (s *NVMLSource) device(ctx context.Context) (nvidia.Device, error) {
	return s.nvml.GetDeviceByIndex(ctx, 0)
}

func (s *NVMLSource) Read(ctx context.Context) (GPUReading, error) {
	dev, err := s.device(ctx)
	if err != nil {
		return GPUReading{}, err
	}
	reading := GPUReading{Present: true}
	if t, err := dev.GetTemperature(ctx); err == nil {
		reading.TempC = int(t)
	}
	if f, err := dev.GetClockInfo(ctx); err == nil {
		reading.FreqMHz = int(f)
	}
	if p, err := dev.GetPowerUsage(ctx); err == nil {
		reading.PowerW = float64(p) / 1000
	}
	if limit, err := dev.GetPowerManagementLimit(ctx); err == nil {
		reading.PowerLimitW = float64(limit) / 1000
	}
	return reading, nil
}

func (s *NVMLSource) PowerLimits(ctx context.Context) (PowerLimits, bool) {
	dev, err := s.device(ctx)
	if err != nil {
		return PowerLimits{}, false
	}
	limit, err := dev.GetPowerManagementLimit(ctx)
	if err != nil {
		return PowerLimits{}, false
	}
	w := float64(limit) / 1000
	return PowerLimits{MinW: w, MaxW: w, DefaultW: w}, true
}

var (
	_ dGPUSource         = (*NVMLSource)(nil)
	_ nvidiaLimitsSource = (*NVMLSource)(nil)
)

// SMISource shells out to nvidia-smi, the §4.8 fallback used when
// go-nvml's Init fails (library or kernel driver absent but the
// nvidia-smi binary still works, e.g. a userspace-only driver repair
// state).
type SMISource struct {
	runner func(ctx context.Context, args ...string) ([]byte, error)
}

// NewSMISource builds a source that shells out to the real
// nvidia-smi binary on PATH.
func NewSMISource() *SMISource {
	return &SMISource{runner: runNvidiaSMI}
}

func runNvidiaSMI(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "nvidia-smi", args...).Output()
}

func (s *SMISource) query(ctx context.Context, fields string) (string, error) {
	out, err := s.runner(ctx, "--query-gpu="+fields, "--format=csv,noheader")
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return "", nvidia.ErrNotSupported
	}
	return lines[0], nil
}

func (s *SMISource) Available(ctx context.Context) bool {
	_, err := s.query(ctx, "index")
	return err == nil
}

func (s *SMISource) Read(ctx context.Context) (GPUReading, error) {
	line, err := s.query(ctx, "temperature.gpu,clocks.sm,power.draw,power.limit")
	if err != nil {
		return GPUReading{}, err
	}
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return GPUReading{}, nvidia.ErrNotSupported
	}
	reading := GPUReading{Present: true}
	if v, ok := parseMetricValue(fields[0]); ok {
		reading.TempC = int(v)
	}
	if v, ok := parseMetricValue(fields[1]); ok {
		reading.FreqMHz = int(v)
	}
	if v, ok := parseMetricValue(fields[2]); ok {
		reading.PowerW = v
	}
	if v, ok := parseMetricValue(fields[3]); ok {
		reading.PowerLimitW = v
	}
	return reading, nil
}

func (s *SMISource) PowerLimits(ctx context.Context) (PowerLimits, bool) {
	line, err := s.query(ctx, "power.min_limit,power.max_limit,power.default_limit")
	if err != nil {
		return PowerLimits{}, false
	}
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return PowerLimits{}, false
	}
	lim := PowerLimits{}
	ok := true
	if v, fok := parseMetricValue(fields[0]); fok {
		lim.MinW = v
	} else {
		ok = false
	}
	if v, fok := parseMetricValue(fields[1]); fok {
		lim.MaxW = v
	} else {
		ok = false
	}
	if v, fok := parseMetricValue(fields[2]); fok {
		lim.DefaultW = v
	} else {
		ok = false
	}
	return lim, ok
}

var (
	_ dGPUSource         = (*SMISource)(nil)
	_ nvidiaLimitsSource = (*SMISource)(nil)
)

// nvidiaFallback wraps an NVMLSource and an SMISource behind one
// dGPUSource, preferring NVML whenever it reports itself available and
// otherwise deferring to nvidia-smi, matching spec.md §4.8's described
// fallback order.
type nvidiaFallback struct {
	nvml *NVMLSource
	smi  *SMISource
}

// NewNvidiaDGPUSource builds the combined NVML-primary/nvidia-smi-
// fallback dGPU source.
func NewNvidiaDGPUSource(nvml nvidia.Interface) dGPUSource {
	return &nvidiaFallback{nvml: NewNVMLSource(nvml), smi: NewSMISource()}
}

func (f *nvidiaFallback) active(ctx context.Context) dGPUSource {
	if f.nvml.Available(ctx) {
		return f.nvml
	}
	return f.smi
}

func (f *nvidiaFallback) Available(ctx context.Context) bool {
	return f.nvml.Available(ctx) || f.smi.Available(ctx)
}

func (f *nvidiaFallback) Read(ctx context.Context) (GPUReading, error) {
	return f.active(ctx).Read(ctx)
}

func (f *nvidiaFallback) PowerLimits(ctx context.Context) (PowerLimits, bool) {
	src := f.active(ctx)
	lim, ok := src.(nvidiaLimitsSource)
	if !ok {
		return PowerLimits{}, false
	}
	return lim.PowerLimits(ctx)
}

var (
	_ dGPUSource         = (*nvidiaFallback)(nil)
	_ nvidiaLimitsSource = (*nvidiaFallback)(nil)
)
