// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package kbdlight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeZone(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brightness"), []byte("0"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "multi_intensity"), []byte(""), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "device", "controls"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "device", "controls", "buffer_input"), []byte("0"), 0644))
	return dir
}

func TestApplyWritesBrightnessAndRGBZones(t *testing.T) {
	zone0, zone1 := newFakeZone(t), newFakeZone(t)
	c := NewController([]string{zone0, zone1}, Capabilities{Zones: 2, RGB: true, MaxBrightness: 0xFF})

	state := []ZoneState{{Brightness: 128, R: 1, G: 2, B: 3}, {Brightness: 128, R: 4, G: 5, B: 6}}
	require.NoError(t, c.Apply(context.Background(), state))

	b, err := os.ReadFile(filepath.Join(zone0, "brightness"))
	require.NoError(t, err)
	assert.Equal(t, "128", string(b))

	mi0, err := os.ReadFile(filepath.Join(zone0, "multi_intensity"))
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", string(mi0))

	mi1, err := os.ReadFile(filepath.Join(zone1, "multi_intensity"))
	require.NoError(t, err)
	assert.Equal(t, "4 5 6", string(mi1))

	assert.Equal(t, state, c.State())
}

func TestApplyDroppedWhenDisabledKeepsLastState(t *testing.T) {
	zone0 := newFakeZone(t)
	c := NewController([]string{zone0}, Capabilities{Zones: 1, MaxBrightness: 0xFF})

	first := []ZoneState{{Brightness: 50}}
	require.NoError(t, c.Apply(context.Background(), first))

	c.SetEnabled(false)
	require.NoError(t, c.Apply(context.Background(), []ZoneState{{Brightness: 255}}))

	assert.Equal(t, first, c.State())
	b, _ := os.ReadFile(filepath.Join(zone0, "brightness"))
	assert.Equal(t, "50", string(b))
}

func TestApplyWithNoZonesIsUnsupported(t *testing.T) {
	c := NewController(nil, Capabilities{})
	err := c.Apply(context.Background(), []ZoneState{{Brightness: 1}})
	assert.Error(t, err)
}
