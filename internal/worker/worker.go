// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package worker defines the small interface every periodic daemon
// loop implements, so cmd/uccd can start and supervise them uniformly.
package worker

import "context"

// Worker runs until ctx is canceled. Implementations own their own
// ticker/cadence internally; Run blocks for the worker's lifetime.
type Worker interface {
	Run(ctx context.Context)
	// Name identifies the worker for logs and the
	// uccd_worker_tick_duration_seconds/uccd_worker_tick_errors_total
	// metric label.
	Name() string
}

// Supervisor starts every registered Worker in its own goroutine and
// waits for all of them to return after ctx is canceled.
type Supervisor struct {
	workers []Worker
}

// NewSupervisor builds a Supervisor over the given workers.
func NewSupervisor(workers ...Worker) *Supervisor {
	return &Supervisor{workers: workers}
}

// Run starts every worker and blocks until all of them have returned,
// which happens once ctx is canceled.
func (s *Supervisor) Run(ctx context.Context) {
	done := make(chan struct{}, len(s.workers))
	for _, w := range s.workers {
		go func(w Worker) {
			w.Run(ctx)
			done <- struct{}{}
		}(w)
	}
	for range s.workers {
		<-done
	}
}
