// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package hwerr defines the error taxonomy shared by every hardware-
// facing package in the daemon. Callers use errors.Is to classify a
// failure; no error type is exposed over the RPC surface beyond the
// success/failure booleans the taxonomy maps to (see §7 of
// SPEC_FULL.md).
package hwerr

import "errors"

var (
	// ErrUnsupported indicates the hardware or kernel interface backing
	// an operation is not present. The caller degrades gracefully:
	// skip the write, omit the field from a snapshot, return a neutral
	// value to the RPC caller.
	ErrUnsupported = errors.New("hardware interface not supported")

	// ErrTransient indicates a retryable failure: a BLE link flake, a
	// single sysfs validator disagreement. Subject to debounce or
	// backoff, never surfaced to RPC callers directly.
	ErrTransient = errors.New("transient hardware error")

	// ErrPersistentConflict indicates a competing userspace service is
	// fighting the daemon for the same resource (e.g. another process
	// also writing cpufreq sysfs nodes). After a bounded number of
	// attempts the daemon yields and logs once.
	ErrPersistentConflict = errors.New("persistent conflict with another service")

	// ErrCorrupt indicates a persisted file failed to parse. Triggers
	// backup recovery in the profile store.
	ErrCorrupt = errors.New("persisted state is corrupt")

	// ErrArgumentInvalid indicates a caller-supplied value was out of
	// the accepted range or otherwise malformed. RPC setters return
	// false to the caller rather than propagating this.
	ErrArgumentInvalid = errors.New("argument invalid")

	// ErrNotImplemented marks an interface method that exists for
	// forward compatibility but has no backing implementation yet.
	ErrNotImplemented = errors.New("not implemented")
)
