// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package rpcserver exposes the daemon's system-bus RPC surface
// (§4.11): one well-known name, one object path, one interface of
// ~80 methods plus two signals. It is a thin adaptor — every method
// here is a read of a snapshot/store or a narrow call into the owning
// worker/controller; no method blocks on hardware itself, matching
// §4.12's dispatcher-thread rule.
//
// The method table is keyed by D-Bus member name and every entry
// passes through wrap (wrap.go) before being handed to
// dbus.ExportMethodTable, the same "registry plus a metrics/logging
// wrapper applied uniformly to every entry" shape as an MCP server's
// tool dispatch, rebuilt here on
// github.com/godbus/dbus/v5 instead of a stdio JSON-RPC transport.
package rpcserver

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/ble"
	"github.com/tuxedocomputers/uccd/internal/cpuctl"
	"github.com/tuxedocomputers/uccd/internal/fanctl"
	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/kbdlight"
	"github.com/tuxedocomputers/uccd/internal/orchestrator"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

const (
	busName    = "com.uniwill.uccd"
	objectPath = dbus.ObjectPath("/com/uniwill/uccd")
	ifaceName  = "com.uniwill.uccd"
)

// Config collects every component the RPC surface reads from or
// dispatches work to. New checks only Snapshot. Orchestrator may be
// supplied later through AttachOrchestrator; BLE, CPU and Keyboard may
// be nil, and the handlers that use them then degrade instead of
// failing. DeviceModel only affects the profile-catalog getters'
// fallback behavior.
type Config struct {
	Orchestrator *orchestrator.Orchestrator
	Snapshot     *snapshot.DbusData
	BLE          *ble.Worker
	Fan          *fanctl.Controller
	Keyboard     *kbdlight.Controller
	CPU          *cpuctl.Controller
	Device       hwio.DeviceInterface
	DeviceModel  string
}

// Server implements worker.Worker so the main supervisor can treat
// the bus listener like any other long-running component, even
// though — unlike the polling workers — it has nothing to tick: once
// exported, godbus dispatches incoming calls on its own goroutines,
// so Run just blocks until shutdown.
type Server struct {
	cfg  Config
	conn *dbus.Conn

	// sensorDataCollection and dgpuD0Metrics back the two diagnostic
	// toggles the GUI exposes (§4.11 FnLock/sensors group) that have
	// no hardware or worker counterpart to drive — see DESIGN.md.
	sensorDataCollection atomic.Bool
	dgpuD0Metrics        atomic.Bool
}

// New validates cfg and returns a Server not yet attached to a bus
// connection. Call Export to attach it.
//
// cfg.Orchestrator may be left nil: the Server itself implements
// orchestrator.Signaler, so cmd/uccd constructs the Server before the
// Orchestrator and wires the two together with AttachOrchestrator
// once both exist.
func New(cfg Config) (*Server, error) {
	if cfg.Snapshot == nil {
		return nil, fmt.Errorf("rpcserver: Snapshot is required")
	}
	return &Server{cfg: cfg}, nil
}

// AttachOrchestrator completes the Server's wiring once the
// Orchestrator it signals for has been constructed. Must be called
// before Export.
func (s *Server) AttachOrchestrator(o *orchestrator.Orchestrator) {
	s.cfg.Orchestrator = o
}

// Export builds the method table and binds it to conn at the well-
// known object path and interface, then requests the well-known bus
// name. It does not block; call Run (or just let ctx cancellation
// close conn) to keep the process alive.
func (s *Server) Export(conn *dbus.Conn) error {
	s.conn = conn

	methods := map[string]interface{}{}
	for _, table := range []map[string]interface{}{
		s.deviceMethods(),
		s.fanMethods(),
		s.displayWebcamMethods(),
		s.gpuCPUMethods(),
		s.profileMethods(),
		s.settingsMethods(),
		s.odmNvidiaMethods(),
		s.keyboardMethods(),
		s.chargingMethods(),
		s.fnlockSensorMethods(),
		s.waterCoolerMethods(),
	} {
		for name, fn := range table {
			methods[name] = wrap(name, fn)
		}
	}

	if err := conn.ExportMethodTable(methods, objectPath, ifaceName); err != nil {
		return fmt.Errorf("export method table: %w", err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request bus name %s: %w", busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already owned", busName)
	}
	return nil
}

// Name identifies this component for logs and metrics labels.
func (s *Server) Name() string { return "rpcserver" }

// Run blocks until ctx is canceled, then releases the bus name.
// godbus's own read loop (started when conn was opened) delivers
// method calls to the exported table independently of this
// goroutine.
func (s *Server) Run(ctx context.Context) {
	<-ctx.Done()
	if s.conn != nil {
		if _, err := s.conn.ReleaseName(busName); err != nil {
			klog.ErrorS(err, "release bus name failed", "name", busName)
		}
	}
}

// EmitProfileChanged and EmitPowerStateChanged implement
// orchestrator.Signaler, firing the two §4.11 signals in the order
// the orchestrator already calls them in.
func (s *Server) EmitProfileChanged(profileID string) {
	s.emit("ProfileChanged", profileID)
}

func (s *Server) EmitPowerStateChanged(state string) {
	s.emit("PowerStateChanged", state)
}

func (s *Server) emit(signal string, args ...interface{}) {
	if s.conn == nil {
		return
	}
	if err := s.conn.Emit(objectPath, ifaceName+"."+signal, args...); err != nil {
		klog.ErrorS(err, "emit signal failed", "signal", signal)
	}
}
