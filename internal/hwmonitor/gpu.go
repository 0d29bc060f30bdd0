// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"

	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

// GPUReading is one {temp, freq, power} sample for either the
// integrated or discrete GPU, published as part of the combined GPU
// info JSON blob.
type GPUReading struct {
	Present     bool    `json:"present"`
	TempC       int     `json:"tempC,omitempty"`
	FreqMHz     int     `json:"freqMHz,omitempty"`
	PowerW      float64 `json:"powerW,omitempty"`
	PowerLimitW float64 `json:"powerLimitW,omitempty"`
}

// PowerLimits describes the min/max/default power envelope a dGPU
// vendor tool can report, used for the §3 nvidiaPowerLimitsJSON field.
type PowerLimits struct {
	MinW     float64 `json:"minW"`
	MaxW     float64 `json:"maxW"`
	DefaultW float64 `json:"defaultW"`
}

// iGPUSource reads the integrated GPU's temperature/frequency/power.
type iGPUSource interface {
	Available(ctx context.Context) bool
	Read(ctx context.Context) GPUReading
}

// dGPUSource reads the discrete GPU's temperature/frequency/power.
type dGPUSource interface {
	Available(ctx context.Context) bool
	Read(ctx context.Context) (GPUReading, error)
}

// nvidiaLimitsSource is implemented by whichever dGPUSource also knows
// how to report the power envelope (both the NVML and nvidia-smi
// backed sources do).
type nvidiaLimitsSource interface {
	PowerLimits(ctx context.Context) (PowerLimits, bool)
}

// IntelIGPUReader reads the integrated GPU via the Intel RAPL GT power
// domain (power) and the DRM sysfs current-frequency node (freq), per
// spec.md §4.8.
type IntelIGPUReader struct {
	energy *EnergyMeter
	freq   sysfs.Node
}

// NewIntelIGPUReader builds a reader against the conventional
// card0/rapl:0:0 (GT) paths.
func NewIntelIGPUReader() *IntelIGPUReader {
	return &IntelIGPUReader{
		energy: NewEnergyMeter("/sys/class/powercap/intel-rapl:0/intel-rapl:0:0"),
		freq:   sysfs.At("/sys/class/drm/card0/gt_cur_freq_mhz"),
	}
}

func (r *IntelIGPUReader) Available(ctx context.Context) bool {
	return r.freq.IsAvailable(ctx) || r.energy.Available(ctx)
}

func (r *IntelIGPUReader) Read(ctx context.Context) GPUReading {
	reading := GPUReading{Present: true}
	if freq, ok := r.freq.ReadInt(ctx); ok {
		reading.FreqMHz = freq
	}
	if w, ok := r.energy.SampleWatts(ctx); ok {
		reading.PowerW = w
	}
	return reading
}

// AMDHwmonReader reads an AMD GPU (integrated or discrete) through its
// hwmon directory: temp1_input (m°C), power1_average (µW), and
// pp_dpm_sclk's asterisk-marked active entry for frequency.
type AMDHwmonReader struct {
	dir string
}

// NewAMDHwmonReader builds a reader over an already-located hwmon
// directory (see findHwmonByName).
func NewAMDHwmonReader(dir string) *AMDHwmonReader {
	return &AMDHwmonReader{dir: dir}
}

func (r *AMDHwmonReader) Available(ctx context.Context) bool {
	return sysfs.At(r.dir + "/temp1_input").IsAvailable(ctx)
}

func (r *AMDHwmonReader) Read(ctx context.Context) (GPUReading, error) {
	reading := GPUReading{Present: true}
	if milliC, ok := sysfs.At(r.dir + "/temp1_input").ReadInt(ctx); ok {
		reading.TempC = milliC / 1000
	}
	if microW, ok := sysfs.At(r.dir + "/power1_average").ReadInt(ctx); ok {
		reading.PowerW = float64(microW) / 1e6
	}
	if s, ok := sysfs.At(r.dir + "/pp_dpm_sclk").ReadString(ctx); ok {
		if mhz, ok := parseActiveDPMFreqMHz(s); ok {
			reading.FreqMHz = mhz
		}
	}
	return reading, nil
}
