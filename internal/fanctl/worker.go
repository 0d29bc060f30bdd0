// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/metrics"
	"github.com/tuxedocomputers/uccd/internal/profile"
)

// ActiveProfileSource gives the Worker read access to whatever resolves
// the currently active profile and fan-control gate, normally the
// orchestrator. Kept as a narrow interface so fanctl doesn't depend on
// the orchestrator package.
type ActiveProfileSource interface {
	ActiveProfile() profile.Profile
	FanControlEnabled() bool
}

// Worker drives Controller.Tick on a fixed 1 s cadence, the loop
// cmd/uccd supervises as one of the daemon's workers.
type Worker struct {
	controller *Controller
	profiles   ActiveProfileSource
}

// NewWorker builds a Worker over an already-initialized Controller.
func NewWorker(controller *Controller, profiles ActiveProfileSource) *Worker {
	return &Worker{controller: controller, profiles: profiles}
}

// Name identifies this worker for logs and metrics labels.
func (w *Worker) Name() string { return "fanctl" }

// Run ticks the fan controller once a second until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p := w.profiles.ActiveProfile()
			if err := w.controller.Tick(ctx, p, w.profiles.FanControlEnabled()); err != nil {
				metrics.WorkerTickErrors.WithLabelValues("fanctl").Inc()
				klog.ErrorS(err, "fan control tick failed")
			}
		}
	}
}
