// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package daemonlock enforces the single-instance rule behind uccd's
// --start/--stop CLI surface: an advisory flock on a well-known path,
// with the holder's PID written alongside it so --stop knows who to
// signal. Grounded on the pack's process-lock pattern (a CLI fighting
// itself over shared state), rebuilt here for one long-running daemon
// rather than short-lived CLI invocations.
package daemonlock

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// Lock is an exclusive flock on path, held for the daemon's lifetime.
type Lock struct {
	path string
	file *os.File
}

// New returns a Lock bound to path, not yet acquired.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Acquire takes a non-blocking exclusive flock on the lock file and
// stamps it with the current PID. ErrHeld wraps the holder's PID when
// another instance already owns the lock.
func (l *Lock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("daemonlock: open %s: %w", l.path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err == syscall.EWOULDBLOCK {
			return &ErrHeld{PID: readPID(l.path)}
		}
		return fmt.Errorf("daemonlock: flock %s: %w", l.path, err)
	}
	if err := f.Truncate(0); err == nil {
		f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
	}
	l.file = f
	return nil
}

// Release drops the flock and removes the lock file. Safe to call on
// an unacquired Lock.
func (l *Lock) Release() {
	if l.file == nil {
		return
	}
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
}

// HolderPID reads the PID stamped in path without taking the lock,
// for --stop to target.
func HolderPID(path string) (int, bool) {
	pid := readPID(path)
	return pid, pid > 0
}

func readPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// ErrHeld is returned by Acquire when another process already holds
// the lock.
type ErrHeld struct{ PID int }

func (e *ErrHeld) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("daemonlock: already running (pid %d)", e.PID)
	}
	return "daemonlock: already running"
}
