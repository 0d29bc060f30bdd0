// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for uccd, the Uniwill/Clevo laptop
// control-plane daemon.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/godbus/dbus/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/ble"
	"github.com/tuxedocomputers/uccd/internal/cpuctl"
	"github.com/tuxedocomputers/uccd/internal/daemonlock"
	"github.com/tuxedocomputers/uccd/internal/fanctl"
	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/hwmonitor"
	"github.com/tuxedocomputers/uccd/internal/hwmonitor/nvidia"
	"github.com/tuxedocomputers/uccd/internal/info"
	"github.com/tuxedocomputers/uccd/internal/kbdlight"
	"github.com/tuxedocomputers/uccd/internal/logging"
	"github.com/tuxedocomputers/uccd/internal/orchestrator"
	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/rpcserver"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
	"github.com/tuxedocomputers/uccd/internal/worker"
)

const lockPath = "/run/uccd.pid"

func main() {
	var (
		stop        bool
		debug       bool
		showVersion bool
		logLevel    string
		metricsAddr string
		settingsDir string
		mock        bool
	)

	root := &cobra.Command{
		Use:   "uccd",
		Short: "Uniwill/Clevo laptop control-plane daemon",
		// No subcommands: every mode is a flag, matching the daemon's
		// historical `--start|--stop|--debug` calling convention.
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("uccd version %s (commit %s)\n", info.Version(), info.GitCommit())
				return nil
			}
			if stop {
				return doStop()
			}
			return doStart(debug, logLevel, metricsAddr, settingsDir, mock)
		},
	}
	root.Flags().BoolVar(&stop, "stop", false, "stop the running daemon instance")
	root.Flags().BoolVar(&debug, "debug", false, "run in foreground with console logging")
	root.Flags().BoolVar(&showVersion, "version", false, "print version information and exit")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9393", "Prometheus metrics listen address")
	root.Flags().StringVar(&settingsDir, "settings-dir", "/etc/ucc", "directory for persisted profiles and settings")
	root.Flags().Bool("start", true, "start the daemon (default)")
	root.Flags().BoolVar(&mock, "mock", false, "run against simulated hardware instead of real sysfs/WMI/NVML")

	if err := root.Execute(); err != nil {
		logging.Fatal("uccd exited with error", logging.Fields{"error": err.Error()})
	}
}

// doStop signals a running instance to shut down via the PID stamped
// in the lock file, mirroring --start's own lock-file convention.
func doStop() error {
	pid, ok := daemonlock.HolderPID(lockPath)
	if !ok {
		return fmt.Errorf("uccd: no running instance found at %s", lockPath)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("uccd: find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("uccd: signal process %d: %w", pid, err)
	}
	logging.Info("sent stop signal", logging.Fields{"pid": pid})
	return nil
}

func doStart(debug bool, logLevelFlag, metricsAddr, settingsDir string, mock bool) error {
	if debug && logLevelFlag == "info" {
		logLevelFlag = "debug"
	}
	effectiveLevel := logging.ResolveLevel(logLevelFlag)
	logging.SetKlogVerbosity(effectiveLevel)

	lock := daemonlock.New(lockPath)
	if err := lock.Acquire(); err != nil {
		logging.Error("failed to acquire instance lock", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer lock.Release()

	logging.Info("starting uccd", logging.Fields{
		"version":   info.Version(),
		"commit":    info.GitCommit(),
		"log_level": effectiveLevel,
		"debug":     debug,
		"mock":      mock,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- run(ctx, settingsDir, metricsAddr, mock) }()

	select {
	case sig := <-sigCh:
		logging.Info("received signal", logging.Fields{"signal": sig.String()})
		if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
			logging.Warn("sd_notify STOPPING failed", logging.Fields{"error": err.Error()})
		}
		cancel()
	case err := <-done:
		// run exited on its own, before any signal — nothing left to
		// wait for.
		if err != nil {
			logging.Error("daemon exited with error", logging.Fields{"error": err.Error()})
		}
		return err
	}

	<-done
	logging.Info("shutdown complete", nil)
	return nil
}

// run wires every subsystem and blocks until ctx is canceled. Errors
// returned here are init-time failures; once the supervisor starts,
// per-worker failures are logged and retried rather than propagated.
func run(ctx context.Context, settingsDir, metricsAddr string, mock bool) error {
	io, variant, err := buildHWIO(mock)
	if err != nil {
		return fmt.Errorf("init hardware interface: %w", err)
	}
	logging.Info("hardware interface ready", logging.Fields{"variant": variant, "mock": mock})

	store := profile.NewStore(settingsDir, variant)
	autosave := profile.NewAutosaveStore(settingsDir)
	snap := snapshot.New()

	fan, err := fanctl.NewController(ctx, io, snap)
	if err != nil {
		return fmt.Errorf("init fan controller: %w", err)
	}

	var cpu *cpuctl.Controller
	if c, err := cpuctl.Discover(ctx); err != nil {
		logging.Warn("cpu frequency control unavailable", logging.Fields{"error": err.Error()})
	} else {
		cpu = c
	}

	zones, kbdCaps, _ := kbdlight.Detect(ctx)
	kbd := kbdlight.NewController(zones, kbdCaps)
	kbdWorker := kbdlight.NewWorker(kbd)

	var nvmlClient nvidia.Interface
	if mock {
		nvmlClient = nvidia.NewMock(1)
	} else {
		nvmlClient = nvidia.NewReal()
	}
	igpu, dgpu := hwmonitor.DetectGPUs(ctx, nvmlClient)
	hwWorker := hwmonitor.NewWorker(io, snap, igpu, dgpu)

	var bleAdapter ble.Adapter
	if mock {
		bleAdapter = &ble.MockAdapter{}
	} else {
		bleAdapter = ble.NewRealAdapter()
	}
	bleWorker := ble.NewWorker(bleAdapter, snap)

	rpc, err := rpcserver.New(rpcserver.Config{
		Snapshot:    snap,
		BLE:         bleWorker,
		Fan:         fan,
		Keyboard:    kbd,
		CPU:         cpu,
		Device:      io,
		DeviceModel: variant,
	})
	if err != nil {
		return fmt.Errorf("init rpc server: %w", err)
	}

	// The Orchestrator needs rpc as its Signaler, and every worker that
	// reapplies profile settings needs the Orchestrator as its
	// ActiveProfileSource — rpc is built first and completed with
	// AttachOrchestrator once the cycle closes.
	var cpuApplier orchestrator.CPUApplier = noopCPUApplier{}
	if cpu != nil {
		cpuApplier = cpu
	}
	orch, err := orchestrator.New(ctx, store, io, cpuApplier, kbd, autosave, snap, rpc, orchestrator.DetectAC(ctx))
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}
	rpc.AttachOrchestrator(orch)

	workers := []worker.Worker{
		fanctl.NewWorker(fan, orch),
		kbdWorker,
		hwWorker,
		bleWorker,
		orch,
		rpc,
	}
	if cpu != nil {
		workers = append(workers, cpuctl.NewWorker(cpu, orch))
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer conn.Close()
	if err := rpc.Export(conn); err != nil {
		return fmt.Errorf("export rpc surface: %w", err)
	}
	logging.Info("rpc surface exported", logging.Fields{"bus_name": "com.uniwill.uccd"})

	// No-op (returns ok=false) outside a systemd unit with Type=notify;
	// under one, this is what flips the unit from "activating" to
	// "active" once the bus name is actually claimed.
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("sd_notify READY failed", logging.Fields{"error": err.Error()})
	} else if ok {
		logging.Info("sd_notify READY sent", nil)
	}

	go serveMetrics(ctx, metricsAddr)

	worker.NewSupervisor(workers...).Run(ctx)
	return nil
}

// noopCPUApplier stands in for orchestrator.CPUApplier on machines
// where cpuctl.Discover found no cpufreq sysfs tree to drive, so the
// orchestrator's profile-apply step always has something to call.
type noopCPUApplier struct{}

func (noopCPUApplier) ApplyCPUSettings(context.Context, profile.CPUSettings) error { return nil }

func buildHWIO(mock bool) (hwio.DeviceInterface, string, error) {
	if mock {
		return hwio.NewMock(hwio.VariantUniwill), "uniwill-mock", nil
	}
	real, err := hwio.NewReal()
	if err != nil {
		return nil, "", err
	}
	if _, identified := real.Identify(context.Background()); !identified {
		_ = real.Close()
		return hwio.Null{}, "unknown", nil
	}
	if real.Variant() == hwio.VariantUniwill {
		return real, "uniwill", nil
	}
	return real, "clevo", nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logging.Info("metrics listener started", logging.Fields{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		klog.ErrorS(err, "metrics listener failed", "addr", addr)
	}
}
