// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package kbdlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStateEmptyBlobIsNil(t *testing.T) {
	zones, err := DecodeState("")
	require.NoError(t, err)
	assert.Nil(t, zones)

	zones, err = DecodeState("{}")
	require.NoError(t, err)
	assert.Nil(t, zones)
}

func TestEncodeDecodeStateRoundTrips(t *testing.T) {
	in := []ZoneState{{Brightness: 200, R: 10, G: 20, B: 30}, {Brightness: 200, R: 0, G: 0, B: 255}}
	out, err := DecodeState(EncodeState(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTrailingIndexSortsByNumericSuffix(t *testing.T) {
	paths := []string{"rgb:kbd_backlight10", "rgb:kbd_backlight2", "rgb:kbd_backlight1"}
	assert.Equal(t, 10, trailingIndex(paths[0]))
	assert.Equal(t, 2, trailingIndex(paths[1]))
	assert.Equal(t, 1, trailingIndex(paths[2]))
}
