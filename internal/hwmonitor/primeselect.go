// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"context"
	"os/exec"
	"strings"
)

// primeSelectStates are the only values spec.md §4.8 recognizes;
// anything else (including a query error) collapses to "unknown".
var primeSelectStates = map[string]bool{
	"on-demand": true,
	"nvidia":    true,
	"intel":     true,
	"hybrid":    true,
}

// PrimeSelectRunner shells out to query the active GPU-switching mode.
// A function type rather than an interface so tests can swap in a
// canned runner without a mock type.
type PrimeSelectRunner func(ctx context.Context) (string, error)

// RunPrimeSelectQuery invokes the real prime-select binary.
func RunPrimeSelectQuery(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "prime-select", "query").Output()
	return string(out), err
}

// ParsePrimeSelectOutput normalizes prime-select's stdout into one of
// the §4.8 recognized states, or "unknown".
func ParsePrimeSelectOutput(raw string, err error) string {
	if err != nil {
		return "unknown"
	}
	s := strings.TrimSpace(raw)
	if primeSelectStates[s] {
		return s
	}
	return "unknown"
}
