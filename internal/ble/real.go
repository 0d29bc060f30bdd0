// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package ble

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// RealAdapter drives the host's default Bluetooth controller via
// tinygo.org/x/bluetooth, which talks to BlueZ over D-Bus on Linux —
// the same transport already wired for the RPC surface.
type RealAdapter struct {
	adapter *bluetooth.Adapter
}

var _ Adapter = (*RealAdapter)(nil)

// NewRealAdapter wraps the process-wide default adapter.
func NewRealAdapter() *RealAdapter {
	return &RealAdapter{adapter: bluetooth.DefaultAdapter}
}

func (a *RealAdapter) Enable(_ context.Context) error {
	if err := a.adapter.Enable(); err != nil {
		return fmt.Errorf("enable bluetooth adapter: %w", err)
	}
	return nil
}

func (a *RealAdapter) Scan(ctx context.Context, timeout time.Duration, onAdvert func(Peripheral) (stop bool)) error {
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- a.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			p := Peripheral{Address: result.Address.String(), Name: result.LocalName()}
			if onAdvert(p) {
				_ = adapter.StopScan()
			}
		})
	}()

	select {
	case <-scanCtx.Done():
		_ = a.adapter.StopScan()
		<-done
		return nil
	case err := <-done:
		return err
	}
}

func (a *RealAdapter) Connect(ctx context.Context, address string, timeout time.Duration) (Link, error) {
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", address, hwerr.ErrArgumentInvalid)
	}

	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		dev bluetooth.Device
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		dev, err := a.adapter.Connect(bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}, bluetooth.ConnectionParams{})
		resCh <- result{dev, err}
	}()

	select {
	case <-connCtx.Done():
		return nil, fmt.Errorf("connect to %s: %w", address, hwerr.ErrTransient)
	case res := <-resCh:
		if res.err != nil {
			return nil, fmt.Errorf("connect to %s: %w", address, res.err)
		}
		return newRealLink(res.dev)
	}
}

func (a *RealAdapter) ResetPowerCycle(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "bluetoothctl", "power", "off").Run(); err != nil {
		return fmt.Errorf("bluetoothctl power off: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	if err := exec.CommandContext(ctx, "bluetoothctl", "power", "on").Run(); err != nil {
		return fmt.Errorf("bluetoothctl power on: %w", err)
	}
	time.Sleep(time.Second)
	return nil
}

// RealLink wraps an established tinygo.org/x/bluetooth device
// connection to the Nordic UART service.
type RealLink struct {
	mu  sync.Mutex
	dev bluetooth.Device
	tx  bluetooth.DeviceCharacteristic

	connected bool
}

var _ Link = (*RealLink)(nil)

func newRealLink(dev bluetooth.Device) (*RealLink, error) {
	uartSvc, err := bluetooth.ParseUUID(UARTServiceUUID)
	if err != nil {
		return nil, err
	}
	txUUID, err := bluetooth.ParseUUID(UARTTXCharUUID)
	if err != nil {
		return nil, err
	}
	rxUUID, err := bluetooth.ParseUUID(UARTRXCharUUID)
	if err != nil {
		return nil, err
	}

	services, err := dev.DiscoverServices([]bluetooth.UUID{uartSvc})
	if err != nil || len(services) == 0 {
		return nil, fmt.Errorf("discover UART service: %w", hwerr.ErrTransient)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txUUID, rxUUID})
	if err != nil {
		return nil, fmt.Errorf("discover UART characteristics: %w", hwerr.ErrTransient)
	}

	l := &RealLink{dev: dev, connected: true}
	for _, c := range chars {
		if c.UUID() == txUUID {
			l.tx = c
		}
		if c.UUID() == rxUUID {
			if err := c.EnableNotifications(func(_ []byte) {}); err != nil {
				return nil, fmt.Errorf("enable RX notifications: %w", hwerr.ErrTransient)
			}
		}
	}
	if l.tx.UUID().String() == "" {
		return nil, fmt.Errorf("TX characteristic not found: %w", hwerr.ErrUnsupported)
	}
	return l, nil
}

func (l *RealLink) WriteTX(_ context.Context, frame [8]byte, withResponse bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var err error
	if withResponse {
		_, err = l.tx.Write(frame[:])
	} else {
		_, err = l.tx.WriteWithoutResponse(frame[:])
	}
	return err
}

func (l *RealLink) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *RealLink) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = false
	return l.dev.Disconnect()
}
