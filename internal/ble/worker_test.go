// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package ble

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

func newTestWorker(a *MockAdapter) (*Worker, *snapshot.DbusData) {
	snap := snapshot.New()
	w := NewWorker(a, snap)
	return w, snap
}

func TestDiscoveryFindsLCTDeviceAndConnects(t *testing.T) {
	a := &MockAdapter{
		Advertisements: []Peripheral{{Address: "AA:BB:CC:DD:EE:FF", Name: "LCT-Cooler-1"}},
		ConnectOK:      true,
	}
	w, snap := newTestWorker(a)
	ctx := context.Background()

	w.tickDisconnected(ctx) // -> Discovering (first call, no cached address)
	require.Equal(t, Discovering, w.state)

	w.tickDiscovering(ctx) // -> Connecting
	require.Equal(t, Connecting, w.state)
	assert.True(t, snap.WaterCoolerAvailable())

	w.tickConnectAttempt(ctx, false, connectingTimeoutSecs) // -> Connected
	require.Equal(t, Connected, w.state)

	w.tickConnected(ctx)
	assert.True(t, snap.WaterCoolerConnected())
	assert.Equal(t, initialFanSpeedPercent, w.LastFanSpeed())
	assert.Equal(t, int(hwio.PumpOff), w.LastPumpLevel())
	assert.Equal(t, 0, w.failures)
}

func TestDiscoveringWithNoMatchReturnsToDisconnected(t *testing.T) {
	a := &MockAdapter{Advertisements: []Peripheral{{Address: "11:22:33:44:55:66", Name: "SomeOtherDevice"}}}
	w, snap := newTestWorker(a)

	w.enter(Discovering)
	w.tickDiscovering(context.Background())

	assert.Equal(t, Disconnected, w.state)
	assert.False(t, snap.WaterCoolerAvailable())
}

func TestReconnectUsesCachedAddressWithoutDiscovery(t *testing.T) {
	a := &MockAdapter{ConnectOK: true}
	w, _ := newTestWorker(a)
	w.lastKnownAddress = "AA:BB:CC:DD:EE:FF"

	w.tickDisconnected(context.Background())
	assert.Equal(t, Reconnecting, w.state)

	w.tickConnectAttempt(context.Background(), true, reconnectingTimeoutSecs)
	assert.Equal(t, Connected, w.state)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", a.ConnectAddr)
}

func TestRepeatedConnectFailuresEscalateToError(t *testing.T) {
	a := &MockAdapter{ConnectOK: false}
	w, _ := newTestWorker(a)
	w.lastKnownAddress = "AA:BB:CC:DD:EE:FF"

	for i := 0; i < adapterResetFailureThreshold; i++ {
		w.enter(Reconnecting)
		w.tickConnectAttempt(context.Background(), true, reconnectingTimeoutSecs)
	}

	assert.Equal(t, Error, w.state)
	assert.Equal(t, adapterResetFailureThreshold, w.failures)
}

func TestErrorStateResetsAdapterAfterThreshold(t *testing.T) {
	a := &MockAdapter{}
	w, _ := newTestWorker(a)
	w.failures = adapterResetFailureThreshold
	w.enter(Error)
	w.stateEntry = w.stateEntry.Add(-time.Minute * 10)

	w.tickError(context.Background())

	assert.Equal(t, 1, a.ResetCalls)
	assert.Equal(t, 0, w.failures)
	assert.Equal(t, Disconnected, w.state)
}

func TestLinkLossReturnsToDisconnected(t *testing.T) {
	link := &MockLink{connected: true}
	a := &MockAdapter{ConnectOK: true, Link: link}
	w, snap := newTestWorker(a)
	w.link = link
	w.enter(Connected)

	link.Disconnect()
	w.tickConnected(context.Background())

	assert.Equal(t, Disconnected, w.state)
	assert.False(t, snap.WaterCoolerConnected())
	assert.Equal(t, 1, w.failures)
}

func TestSetFanSpeedDedupesAgainstLastValue(t *testing.T) {
	link := &MockLink{connected: true}
	w, _ := newTestWorker(&MockAdapter{})
	w.link = link
	w.lastFanSpeed.Store(50)

	go func() { (<-w.commands)() }()
	w.SetFanSpeed(context.Background(), 50)

	assert.Empty(t, link.Writes)
}

func TestSetFanSpeedWritesOnNewValue(t *testing.T) {
	link := &MockLink{connected: true}
	w, _ := newTestWorker(&MockAdapter{})
	w.link = link
	w.lastFanSpeed.Store(50)

	go func() { (<-w.commands)() }()
	w.SetFanSpeed(context.Background(), 75)

	require.Len(t, link.Writes, 1)
	assert.Equal(t, EncodeFanFrame(75), link.Writes[0])
	assert.Equal(t, 75, w.LastFanSpeed())
}

func TestScanningDisabledSuppressesStateMachine(t *testing.T) {
	a := &MockAdapter{}
	w, snap := newTestWorker(a)
	snap.SetWaterCoolerScanningEnabled(false)

	w.tick(context.Background())

	assert.Equal(t, Disconnected, w.state)
}
