// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot holds the single runtime snapshot every worker
// publishes into and the RPC surface reads from (§3.4). Struct-shaped
// fields share one mutex; scalar booleans and integers read far more
// often than written live in atomics so a hot RPC getter never blocks
// on a worker mid-tick.
package snapshot

import (
	"sync"
	"sync/atomic"
)

// FanReading is one fan's most recently published {speed,
// temperature, timestamp} triple.
type FanReading struct {
	Speed       int
	Temperature int
	TimestampUnixMilli int64
}

// DeviceCapabilities mirrors the "many Get*Available/Get*Supported
// RPC calls backed by one struct populated once at startup" shape
// (SPEC_FULL.md §3 supplement), analogous to the teacher's GPUInfo.
type DeviceCapabilities struct {
	FansOffAvailable      bool
	WaterCoolerSupported  bool
	ODMProfilesSupported  bool
	TDPSupported          bool
	KeyboardBacklightSupported bool
	DGPUPresent           bool
	ChargingPrioritySupported bool
	ChargeThresholdSupported  bool
	FnLockSupported       bool
}

// DbusData is the mutex/atomic-protected runtime snapshot described in
// §3.4.
type DbusData struct {
	mu sync.RWMutex

	deviceName          string
	displayModes        []string
	fans                []FanReading
	gpuInfoJSON         string
	cpuPowerJSON        string
	primeState          string
	activeProfileJSON   string
	profileCatalogJSON  string
	settingsJSON        string
	chargingState       string
	nvidiaPowerLimitsJSON string
	capabilities        DeviceCapabilities

	webcamEnabled              atomic.Bool
	fnLock                     atomic.Bool
	waterCoolerAvailable       atomic.Bool
	waterCoolerConnected       atomic.Bool
	waterCoolerScanningEnabled atomic.Bool
}

// New returns an empty snapshot. Every string field reads as "" and
// every fan slice as nil until a worker populates it; RPC getters
// treat that as "not yet known" rather than an error.
func New() *DbusData {
	return &DbusData{}
}

func (d *DbusData) SetDeviceName(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deviceName = v
}

func (d *DbusData) DeviceName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.deviceName
}

func (d *DbusData) SetDisplayModes(v []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.displayModes = append([]string(nil), v...)
}

func (d *DbusData) DisplayModes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.displayModes...)
}

// SetFans replaces the whole per-fan reading slice. Workers publish a
// full slice per tick rather than mutating individual indices so
// readers never observe a partially updated set.
func (d *DbusData) SetFans(v []FanReading) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fans = append([]FanReading(nil), v...)
}

func (d *DbusData) Fans() []FanReading {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]FanReading(nil), d.fans...)
}

func (d *DbusData) SetGPUInfoJSON(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gpuInfoJSON = v
}

func (d *DbusData) GPUInfoJSON() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gpuInfoJSON
}

func (d *DbusData) SetCPUPowerJSON(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cpuPowerJSON = v
}

func (d *DbusData) CPUPowerJSON() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cpuPowerJSON
}

func (d *DbusData) SetPrimeState(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primeState = v
}

func (d *DbusData) PrimeState() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.primeState
}

func (d *DbusData) SetActiveProfileJSON(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeProfileJSON = v
}

func (d *DbusData) ActiveProfileJSON() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeProfileJSON
}

func (d *DbusData) SetProfileCatalogJSON(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profileCatalogJSON = v
}

func (d *DbusData) ProfileCatalogJSON() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.profileCatalogJSON
}

func (d *DbusData) SetSettingsJSON(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settingsJSON = v
}

func (d *DbusData) SettingsJSON() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settingsJSON
}

func (d *DbusData) SetChargingState(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chargingState = v
}

func (d *DbusData) ChargingState() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.chargingState
}

func (d *DbusData) SetNvidiaPowerLimitsJSON(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nvidiaPowerLimitsJSON = v
}

func (d *DbusData) NvidiaPowerLimitsJSON() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nvidiaPowerLimitsJSON
}

func (d *DbusData) SetCapabilities(v DeviceCapabilities) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.capabilities = v
}

func (d *DbusData) Capabilities() DeviceCapabilities {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.capabilities
}

func (d *DbusData) SetWebcamEnabled(v bool)        { d.webcamEnabled.Store(v) }
func (d *DbusData) WebcamEnabled() bool            { return d.webcamEnabled.Load() }
func (d *DbusData) SetFnLock(v bool)               { d.fnLock.Store(v) }
func (d *DbusData) FnLock() bool                   { return d.fnLock.Load() }
func (d *DbusData) SetWaterCoolerAvailable(v bool) { d.waterCoolerAvailable.Store(v) }
func (d *DbusData) WaterCoolerAvailable() bool      { return d.waterCoolerAvailable.Load() }
func (d *DbusData) SetWaterCoolerConnected(v bool) { d.waterCoolerConnected.Store(v) }
func (d *DbusData) WaterCoolerConnected() bool      { return d.waterCoolerConnected.Load() }
func (d *DbusData) SetWaterCoolerScanningEnabled(v bool) {
	d.waterCoolerScanningEnabled.Store(v)
}
func (d *DbusData) WaterCoolerScanningEnabled() bool { return d.waterCoolerScanningEnabled.Load() }
