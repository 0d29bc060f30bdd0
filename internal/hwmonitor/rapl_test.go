// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRAPLDomain(t *testing.T, energyUJ, maxRangeUJ uint64) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "energy_uj"), []byte(itoa(energyUJ)), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "max_energy_range_uj"), []byte(itoa(maxRangeUJ)), 0644))
	return dir
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func TestEnergyMeterFirstSampleHasNoBaseline(t *testing.T) {
	dir := writeRAPLDomain(t, 1_000_000, 200_000_000)
	m := NewEnergyMeter(dir)

	_, ok := m.SampleWatts(context.Background())
	assert.False(t, ok)
}

func TestEnergyMeterComputesWattsFromDelta(t *testing.T) {
	dir := writeRAPLDomain(t, 1_000_000, 200_000_000)
	m := NewEnergyMeter(dir)
	m.SampleWatts(context.Background())

	m.lastAt = time.Now().Add(-1 * time.Second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "energy_uj"), []byte(itoa(11_000_000)), 0644))

	watts, ok := m.SampleWatts(context.Background())
	require.True(t, ok)
	assert.InDelta(t, 10.0, watts, 0.5)
}

func TestEnergyMeterHandlesWraparound(t *testing.T) {
	dir := writeRAPLDomain(t, 190_000_000, 200_000_000)
	m := NewEnergyMeter(dir)
	m.SampleWatts(context.Background())

	m.lastAt = time.Now().Add(-1 * time.Second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "energy_uj"), []byte(itoa(5_000_000)), 0644))

	watts, ok := m.SampleWatts(context.Background())
	require.True(t, ok)
	assert.InDelta(t, 15.0, watts, 0.5)
}
