// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package ble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuxedocomputers/uccd/internal/hwio"
)

func TestEncodeFanFrameOn(t *testing.T) {
	f := EncodeFanFrame(75)
	assert.Equal(t, [8]byte{0xFE, 0x1B, 1, 75, 0, 0, 0, 0xEF}, f)
}

func TestEncodeFanFrameOff(t *testing.T) {
	f := EncodeFanFrame(0)
	assert.Equal(t, [8]byte{0xFE, 0x1B, 0, 0, 0, 0, 0, 0xEF}, f)
}

func TestEncodeFanFrameClampsOver100(t *testing.T) {
	f := EncodeFanFrame(150)
	assert.Equal(t, byte(100), f[3])
}

func TestEncodePumpFrameOff(t *testing.T) {
	f := EncodePumpFrame(hwio.PumpOff)
	assert.Equal(t, [8]byte{0xFE, 0x1C, 0, 0, 0, 0, 0, 0xEF}, f)
}

func TestEncodePumpFrameOn(t *testing.T) {
	f := EncodePumpFrame(hwio.Pump11V)
	assert.Equal(t, [8]byte{0xFE, 0x1C, 1, 60, byte(hwio.Pump11V), 0, 0, 0xEF}, f)
}

func TestEncodeRGBFrame(t *testing.T) {
	f := EncodeRGBFrame(10, 20, 30, LEDBreathe)
	assert.Equal(t, [8]byte{0xFE, 0x1E, 1, 10, 20, 30, byte(LEDBreathe), 0xEF}, f)
}

func TestEncodeRGBOffFrame(t *testing.T) {
	f := EncodeRGBOffFrame()
	assert.Equal(t, [8]byte{0xFE, 0x1E, 0, 0, 0, 0, 0, 0xEF}, f)
}

func TestEncodeResetFrame(t *testing.T) {
	f := EncodeResetFrame()
	assert.Equal(t, [8]byte{0xFE, 0x19, 1, 0, 0, 0, 0, 0xEF}, f)
}
