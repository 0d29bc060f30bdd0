// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package ble

import "github.com/tuxedocomputers/uccd/internal/hwio"

// command identifies the frame's CMD byte.
type command byte

const (
	cmdReset command = 0x19
	cmdFan   command = 0x1B
	cmdPump  command = 0x1C
	cmdRGB   command = 0x1E
)

const (
	frameStart byte = 0xFE
	frameEnd   byte = 0xEF
)

// LEDMode selects the water-cooler RGB animation. Temperature mode has
// no on-device representation and is mapped to Static at the daemon
// boundary (callers should resolve it before calling EncodeRGBFrame).
type LEDMode byte

const (
	LEDStatic LEDMode = iota
	LEDBreathe
	LEDColorful
	LEDBreatheColor
)

func buildFrame(cmd command, en byte, p1, p2, p3, p4 byte) [8]byte {
	return [8]byte{frameStart, byte(cmd), en, p1, p2, p3, p4, frameEnd}
}

// EncodeResetFrame builds the adapter/controller reset command.
func EncodeResetFrame() [8]byte {
	return buildFrame(cmdReset, 1, 0, 0, 0, 0)
}

// EncodeFanFrame builds a fan-speed command; dutyPercent is clamped to
// [0,100]. A duty of 0 disables the fan (EN=0).
func EncodeFanFrame(dutyPercent int) [8]byte {
	if dutyPercent <= 0 {
		return buildFrame(cmdFan, 0, 0, 0, 0, 0)
	}
	if dutyPercent > 100 {
		dutyPercent = 100
	}
	return buildFrame(cmdFan, 1, byte(dutyPercent), 0, 0, 0)
}

// EncodePumpFrame builds a pump command at a fixed 60% duty cycle per
// §4.7; level Off disables the pump (EN=0).
func EncodePumpFrame(level hwio.PumpLevel) [8]byte {
	if level == hwio.PumpOff {
		return buildFrame(cmdPump, 0, 0, 0, 0, 0)
	}
	return buildFrame(cmdPump, 1, 60, byte(level), 0, 0)
}

// EncodeRGBFrame builds an RGB command; mode is resolved by the caller
// (Temperature maps to LEDStatic before reaching here).
func EncodeRGBFrame(r, g, b byte, mode LEDMode) [8]byte {
	return buildFrame(cmdRGB, 1, r, g, b, byte(mode))
}

// EncodeRGBOffFrame disables the LED.
func EncodeRGBOffFrame() [8]byte {
	return buildFrame(cmdRGB, 0, 0, 0, 0, 0)
}
