// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package ble implements the water-cooler BLE state machine (§4.7):
// discovery/connect/reconnect over a fixed Nordic UART service, an
// 8-byte command frame protocol, write throttling and de-duplication,
// and the failure-driven backoff/adapter-reset policy. The state
// machine itself is built against a narrow Adapter/Link interface —
// mirroring the pattern internal/hwio uses for its WMI device — so it
// can be driven by a Mock in tests without real Bluetooth hardware.
package ble

import (
	"context"
	"time"
)

// Peripheral is one discovered BLE advertisement relevant to the
// water-cooler scan filter.
type Peripheral struct {
	Address string
	Name    string
}

// Adapter is the narrow surface the state machine needs from the
// local Bluetooth controller.
type Adapter interface {
	Enable(ctx context.Context) error

	// Scan runs a discovery pass for up to timeout, invoking onAdvert
	// for every advertisement seen. onAdvert returns true to stop the
	// scan early (the §4.7 "first lct match" behavior).
	Scan(ctx context.Context, timeout time.Duration, onAdvert func(Peripheral) (stop bool)) error

	// Connect opens a GATT link to address, discovers the Nordic UART
	// service, and enables RX notifications.
	Connect(ctx context.Context, address string, timeout time.Duration) (Link, error)

	// ResetPowerCycle power-cycles the local adapter out-of-process.
	ResetPowerCycle(ctx context.Context) error
}

// Link is an established GATT connection to the water cooler's UART
// service.
type Link interface {
	// WriteTX writes an 8-byte command frame to the TX characteristic.
	// withResponse selects write-with-response (pump, RGB) vs
	// write-without-response (fan).
	WriteTX(ctx context.Context, frame [8]byte, withResponse bool) error

	// IsConnected is safe to call from any goroutine per the §4.7
	// thread-safety contract.
	IsConnected() bool

	Disconnect() error
}

// Nordic UART service/characteristic UUIDs, per §4.7.
const (
	UARTServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	UARTTXCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
	UARTRXCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e"
)
