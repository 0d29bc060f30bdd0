// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfileDefaults(t *testing.T) {
	p := DefaultProfile("p1", "Test")
	assert.Equal(t, 100, p.Display.Brightness)
	assert.Equal(t, "powersave", p.CPU.Governor)
	assert.Equal(t, "balance_performance", p.CPU.EnergyPerformancePreference)
	assert.True(t, p.Webcam.Status)
	assert.True(t, p.Webcam.UseStatus)
	assert.Equal(t, PresetBalanced, p.Fan.FanProfile)
	assert.Equal(t, -1, p.ChargeStartThreshold)
	assert.Equal(t, -1, p.ChargeEndThreshold)
	assert.Nil(t, p.CPU.OnlineCores)
}

func TestUnmarshalJSONLenient(t *testing.T) {
	raw := []byte(`{"id":"p2","name":"Custom","cpu":{"governor":"performance"},"unknownField":123}`)
	var p Profile
	require.NoError(t, json.Unmarshal(raw, &p))

	assert.Equal(t, "p2", p.ID)
	assert.Equal(t, "performance", p.CPU.Governor)
	// Fields absent from the JSON keep their §3.1 defaults.
	assert.Equal(t, "balance_performance", p.CPU.EnergyPerformancePreference)
	assert.Equal(t, 100, p.Display.Brightness)
	assert.True(t, p.Fan.UseControl)
}

func TestUnmarshalJSONRoundTrip(t *testing.T) {
	original := DefaultProfile("p3", "Round Trip")
	original.Fan.TableCPU = []FanPoint{{Temp: 20, Speed: 0}, {Temp: 60, Speed: 50}, {Temp: 100, Speed: 100}}
	original.CPU.Governor = "performance"
	offset := 500000
	original.CPU.ScalingMaxFrequency = &offset

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Profile
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestIsFanTableMonotone(t *testing.T) {
	assert.True(t, IsFanTableMonotone([]FanPoint{{20, 0}, {40, 50}, {60, 50}, {100, 100}}))
	assert.False(t, IsFanTableMonotone([]FanPoint{{20, 50}, {40, 10}}))
	assert.False(t, IsFanTableMonotone([]FanPoint{{40, 10}, {20, 50}}))
}

func TestIsPumpTableValid(t *testing.T) {
	assert.True(t, IsPumpTableValid(pumpThresholds(30, 45, 60)))
	assert.False(t, IsPumpTableValid([]FanPoint{{30, 1}, {30, 2}}))
	assert.False(t, IsPumpTableValid([]FanPoint{{30, 1}, {45, 2}, {60, 3}, {70, 4}}))
}

func TestChargeThresholdsValid(t *testing.T) {
	assert.True(t, ChargeThresholdsValid(-1, -1))
	assert.True(t, ChargeThresholdsValid(20, 80))
	assert.False(t, ChargeThresholdsValid(80, 20))
	assert.True(t, ChargeThresholdsValid(-1, 80))
}

func TestClampPumpPoint(t *testing.T) {
	assert.Equal(t, FanPoint{Temp: 30, Speed: 4}, ClampPumpPoint(FanPoint{Temp: 30, Speed: 9}))
	assert.Equal(t, FanPoint{Temp: 30, Speed: 0}, ClampPumpPoint(FanPoint{Temp: 30, Speed: -2}))
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile("p4", "Valid")
	require.NoError(t, p.Validate())

	p.Fan.OffsetFanspeed = 50
	assert.Error(t, p.Validate())
}

func TestFanPresetCatalogInvariants(t *testing.T) {
	for name, preset := range FanPresetCatalog {
		assert.Len(t, preset.CPU, 17, name)
		assert.Len(t, preset.GPU, 17, name)
		assert.Len(t, preset.WaterFan, 17, name)
		assert.True(t, IsFanTableMonotone(preset.CPU), name)
		assert.True(t, IsFanTableMonotone(preset.GPU), name)
		assert.True(t, IsFanTableMonotone(preset.WaterFan), name)
		assert.True(t, IsPumpTableValid(preset.Pump), name)
		assert.Len(t, preset.Pump, 3, name)
	}
}

func TestIsBuiltinID(t *testing.T) {
	assert.True(t, IsBuiltinID(IDLegacySilent))
	assert.True(t, IsBuiltinID(IDCustomTemplate))
	assert.True(t, IsBuiltinID("tuxedo-ibpx14-maxenergysave"))
	assert.False(t, IsBuiltinID("abc123"))
}
