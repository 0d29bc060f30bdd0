// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package ble

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// MockAdapter is an in-memory Adapter standing in for a real Bluetooth
// controller in tests.
type MockAdapter struct {
	mu sync.Mutex

	Advertisements []Peripheral
	ConnectAddr    string
	ConnectOK      bool
	ResetCalls     int

	Link *MockLink
}

var _ Adapter = (*MockAdapter)(nil)

func (a *MockAdapter) Enable(_ context.Context) error { return nil }

func (a *MockAdapter) Scan(ctx context.Context, _ time.Duration, onAdvert func(Peripheral) (stop bool)) error {
	for _, p := range a.Advertisements {
		if onAdvert(p) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

func (a *MockAdapter) Connect(_ context.Context, address string, _ time.Duration) (Link, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ConnectAddr = address
	if !a.ConnectOK {
		return nil, fmt.Errorf("mock connect refused: %w", hwerr.ErrTransient)
	}
	if a.Link == nil {
		a.Link = &MockLink{connected: true}
	}
	a.Link.connected = true
	return a.Link, nil
}

func (a *MockAdapter) ResetPowerCycle(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ResetCalls++
	return nil
}

// MockLink is an in-memory Link recording every frame written to it.
type MockLink struct {
	mu        sync.Mutex
	connected bool
	Writes    [][8]byte
}

var _ Link = (*MockLink)(nil)

func (l *MockLink) WriteTX(_ context.Context, frame [8]byte, _ bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Writes = append(l.Writes, frame)
	return nil
}

func (l *MockLink) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *MockLink) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = false
	return nil
}
