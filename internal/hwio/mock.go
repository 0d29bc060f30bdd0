// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwio

import (
	"context"
	"fmt"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// Mock is an in-memory DeviceInterface standing in for a real WMI
// device in tests. It tracks fan speeds, webcam, ODM profile and TDP
// state exactly as asked, without touching any hardware.
type Mock struct {
	variant Variant

	numberFans       int
	fansMinSpeed     int
	fansOffAvailable bool
	fanAuto          bool
	fanSpeed         []int
	fanTemp          []int

	webcamEnabled bool

	odmProfiles       []string
	odmCurrent        string
	odmDefault        string

	tdpDescriptors []string
	tdpMin         []int
	tdpMax         []int
	tdpCurrent     []int
}

var _ DeviceInterface = (*Mock)(nil)

// NewMock builds a Mock preloaded with laptop-shaped defaults: 2 fans,
// 3 ODM profiles (quiet/balanced/enthusiast) and 2 TDP descriptors
// (cpu, gpu), mirroring a typical Uniwill board.
func NewMock(variant Variant) *Mock {
	return &Mock{
		variant:          variant,
		numberFans:       2,
		fansMinSpeed:     0,
		fansOffAvailable: true,
		fanAuto:          true,
		fanSpeed:         []int{0, 0},
		fanTemp:          []int{45, 42},
		odmProfiles:      []string{"quiet", "balanced", "enthusiast"},
		odmCurrent:       "balanced",
		odmDefault:       "balanced",
		tdpDescriptors:   []string{"cpu", "gpu"},
		tdpMin:           []int{10, 10},
		tdpMax:           []int{65, 80},
		tdpCurrent:       []int{45, 60},
	}
}

func (m *Mock) Identify(_ context.Context) (bool, bool) { return true, m.variant != VariantNone }
func (m *Mock) Variant() Variant                        { return m.variant }

func (m *Mock) InterfaceIDStr(_ context.Context) (string, error) { return "mock-iface-1", nil }
func (m *Mock) ModelIDStr(_ context.Context) (string, error)     { return "mock-model-1", nil }

func (m *Mock) SetEnableModeSet(_ context.Context, _ bool) error { return nil }

func (m *Mock) NumberFans(_ context.Context) (int, error)       { return m.numberFans, nil }
func (m *Mock) FansMinSpeed(_ context.Context) (int, error)     { return m.fansMinSpeed, nil }
func (m *Mock) FansOffAvailable(_ context.Context) (bool, error) { return m.fansOffAvailable, nil }

func (m *Mock) SetFansAuto(_ context.Context) error {
	m.fanAuto = true
	return nil
}

func (m *Mock) SetFanSpeedPercent(_ context.Context, fanIdx, percent int) error {
	if fanIdx < 0 || fanIdx >= m.numberFans {
		return fmt.Errorf("fan index %d: %w", fanIdx, hwerr.ErrArgumentInvalid)
	}
	if percent < 0 || percent > 100 {
		return fmt.Errorf("fan percent %d: %w", percent, hwerr.ErrArgumentInvalid)
	}
	m.fanAuto = false
	m.fanSpeed[fanIdx] = percent
	return nil
}

func (m *Mock) FanSpeedPercent(_ context.Context, fanIdx int) (int, error) {
	if fanIdx < 0 || fanIdx >= m.numberFans {
		return 0, fmt.Errorf("fan index %d: %w", fanIdx, hwerr.ErrArgumentInvalid)
	}
	return m.fanSpeed[fanIdx], nil
}

func (m *Mock) FanTemperature(_ context.Context, fanIdx int) (int, error) {
	if fanIdx < 0 || fanIdx >= m.numberFans {
		return 0, fmt.Errorf("fan index %d: %w", fanIdx, hwerr.ErrArgumentInvalid)
	}
	return m.fanTemp[fanIdx], nil
}

// SetFanTemperature lets a test drive the simulated sensor reading.
func (m *Mock) SetFanTemperature(fanIdx, celsius int) { m.fanTemp[fanIdx] = celsius }

func (m *Mock) SetWebcam(_ context.Context, enable bool) error {
	m.webcamEnabled = enable
	return nil
}

func (m *Mock) Webcam(_ context.Context) (bool, error) { return m.webcamEnabled, nil }

func (m *Mock) AvailableODMPerformanceProfiles(_ context.Context) ([]string, error) {
	return append([]string(nil), m.odmProfiles...), nil
}

func (m *Mock) SetODMPerformanceProfile(_ context.Context, name string) error {
	for _, p := range m.odmProfiles {
		if p == name {
			m.odmCurrent = name
			return nil
		}
	}
	return fmt.Errorf("odm profile %q: %w", name, hwerr.ErrArgumentInvalid)
}

func (m *Mock) DefaultODMPerformanceProfile(_ context.Context) (string, error) {
	return m.odmDefault, nil
}

func (m *Mock) NumberTDPs(_ context.Context) (int, error) { return len(m.tdpDescriptors), nil }

func (m *Mock) TDPDescriptors(_ context.Context) ([]string, error) {
	return append([]string(nil), m.tdpDescriptors...), nil
}

func (m *Mock) TDPMin(_ context.Context, index int) (int, error) {
	if index < 0 || index >= len(m.tdpMin) {
		return 0, fmt.Errorf("tdp index %d: %w", index, hwerr.ErrArgumentInvalid)
	}
	return m.tdpMin[index], nil
}

func (m *Mock) TDPMax(_ context.Context, index int) (int, error) {
	if index < 0 || index >= len(m.tdpMax) {
		return 0, fmt.Errorf("tdp index %d: %w", index, hwerr.ErrArgumentInvalid)
	}
	return m.tdpMax[index], nil
}

func (m *Mock) TDP(_ context.Context, index int) (int, error) {
	if index < 0 || index >= len(m.tdpCurrent) {
		return 0, fmt.Errorf("tdp index %d: %w", index, hwerr.ErrArgumentInvalid)
	}
	return m.tdpCurrent[index], nil
}

func (m *Mock) SetTDP(_ context.Context, index, watts int) error {
	if index < 0 || index >= len(m.tdpCurrent) {
		return fmt.Errorf("tdp index %d: %w", index, hwerr.ErrArgumentInvalid)
	}
	if watts < m.tdpMin[index] || watts > m.tdpMax[index] {
		return fmt.Errorf("tdp watts %d out of [%d,%d]: %w", watts, m.tdpMin[index], m.tdpMax[index], hwerr.ErrArgumentInvalid)
	}
	m.tdpCurrent[index] = watts
	return nil
}
