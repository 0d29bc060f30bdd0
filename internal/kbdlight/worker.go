// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package kbdlight

import "context"

// Worker adapts Controller to worker.Worker purely for uniform
// supervision from cmd/uccd. Unlike fanctl/hwmonitor/cpuctl, the
// keyboard-backlight listener has no periodic cadence of its own —
// every state change arrives via Controller.Apply from the RPC
// surface or the profile-apply orchestrator — so Run simply blocks
// until shutdown.
type Worker struct {
	controller *Controller
}

// NewWorker wraps an already-built Controller.
func NewWorker(controller *Controller) *Worker { return &Worker{controller: controller} }

// Name identifies this worker for logs and metrics labels.
func (w *Worker) Name() string { return "kbdlight" }

// Run blocks until ctx is canceled; the keyboard-backlight listener
// does no polling of its own.
func (w *Worker) Run(ctx context.Context) {
	<-ctx.Done()
}
