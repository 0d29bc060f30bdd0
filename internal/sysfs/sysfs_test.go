// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package sysfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) Node {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return At(p)
}

func TestReadInt(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name     string
		content  string
		expected int
		ok       bool
	}{
		{"simple", "42\n", 42, true},
		{"negative", "-5", -5, true},
		{"not a number", "powersave", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := writeTemp(t, dir, tt.name, tt.content)
			v, ok := n.ReadInt(ctx)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestReadIntMissing(t *testing.T) {
	n := At(filepath.Join(t.TempDir(), "absent"))
	_, ok := n.ReadInt(context.Background())
	assert.False(t, ok)
	assert.False(t, n.IsAvailable(context.Background()))
}

func TestReadBool(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	on := writeTemp(t, dir, "on", "1\n")
	v, ok := on.ReadBool(ctx)
	require.True(t, ok)
	assert.True(t, v)

	off := writeTemp(t, dir, "off", "0\n")
	v, ok = off.ReadBool(ctx)
	require.True(t, ok)
	assert.False(t, v)

	bogus := writeTemp(t, dir, "bogus", "maybe\n")
	_, ok = bogus.ReadBool(ctx)
	assert.False(t, ok)
}

func TestReadIntList(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	n := writeTemp(t, dir, "freqs", "800000 1200000 2400000\n")
	v, ok := n.ReadIntList(ctx)
	require.True(t, ok)
	assert.Equal(t, []int{800000, 1200000, 2400000}, v)
}

func TestReadStringList(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	n := writeTemp(t, dir, "governors", "powersave performance\n")
	v, ok := n.ReadStringList(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"powersave", "performance"}, v)
}

func TestWriteInt(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	n := At(filepath.Join(dir, "scaling_min_freq"))
	require.True(t, n.WriteInt(ctx, 800000))

	v, ok := n.ReadInt(ctx)
	require.True(t, ok)
	assert.Equal(t, 800000, v)
}

func TestWriteBool(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	n := At(filepath.Join(dir, "online"))
	require.True(t, n.WriteBool(ctx, true))
	v, ok := n.ReadBool(ctx)
	require.True(t, ok)
	assert.True(t, v)
}

func TestJoin(t *testing.T) {
	n := Join("/sys/devices/system/cpu", "cpu0/", "/cpufreq/scaling_governor")
	assert.Equal(t, "/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor", n.Path)
}
