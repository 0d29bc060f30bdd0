// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package cpuctl

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/metrics"
	"github.com/tuxedocomputers/uccd/internal/profile"
)

// maxReapplyAttempts is the §4.10 MAX_REAPPLY_ATTEMPTS: after this
// many consecutive failed reapplies the validator stops reapplying
// until a later validation finds live state already matching, which
// re-arms it.
const maxReapplyAttempts = 3

const validationInterval = 10 * time.Second

// ActiveProfileSource gives the validator loop read access to
// whatever resolves the currently active profile, normally the
// orchestrator.
type ActiveProfileSource interface {
	ActiveProfile() profile.Profile
}

// Worker re-reads live cpufreq/EPP/online-core/no_turbo state every
// 10s and reapplies the active profile's CPU settings if it
// disagrees, per §4.10's per-worker reapply/validation loop — this
// catches a competing service (power-profiles-daemon, TLP) silently
// overwriting the daemon's settings.
type Worker struct {
	controller *Controller
	profiles   ActiveProfileSource

	consecutiveFailures int
	gaveUp              bool
}

// NewWorker builds a validator Worker over an already-discovered
// Controller.
func NewWorker(controller *Controller, profiles ActiveProfileSource) *Worker {
	return &Worker{controller: controller, profiles: profiles}
}

// Name identifies this worker for logs and metrics labels.
func (w *Worker) Name() string { return "cpuctl" }

// Run validates and reapplies on a fixed 10s cadence until ctx is
// canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(validationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			w.validate(ctx)
			metrics.WorkerTickDuration.WithLabelValues("cpuctl").Observe(time.Since(start).Seconds())
		}
	}
}

func (w *Worker) validate(ctx context.Context) {
	want := w.profiles.ActiveProfile().CPU
	if w.controller.MatchesCPUSettings(ctx, want) {
		w.consecutiveFailures = 0
		w.gaveUp = false
		return
	}
	if w.gaveUp {
		return
	}

	if err := w.controller.ApplyCPUSettings(ctx, want); err != nil {
		w.consecutiveFailures++
		metrics.WorkerTickErrors.WithLabelValues("cpuctl").Inc()
		klog.InfoS("cpu settings drifted, reapply failed", "attempt", w.consecutiveFailures, "err", err)
		if w.consecutiveFailures >= maxReapplyAttempts {
			w.gaveUp = true
			klog.InfoS("cpu settings reapply giving up after max attempts", "attempts", w.consecutiveFailures)
		}
		return
	}
	w.consecutiveFailures = 0
	klog.InfoS("cpu settings drifted, reapplied")
}
