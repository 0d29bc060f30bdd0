// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package logging carries the daemon's two logging registers: raw
// JSON lines to stderr for startup/shutdown/fatal lifecycle events
// (the cmd/uccd entry point's register, mirroring how the teacher's
// cmd/agent/main.go logs around its own server lifecycle), and
// k8s.io/klog/v2 for the high-frequency per-tick messages every
// worker already emits. This package owns the level-resolution rule
// and the klog verbosity wiring shared by both registers; it does not
// wrap klog's own call sites, which callers invoke directly.
package logging

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"k8s.io/klog/v2"
)

// ValidLevels are the accepted --log-level / LOG_LEVEL values.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// IsValid reports whether level is one of ValidLevels.
func IsValid(level string) bool {
	for _, v := range ValidLevels {
		if level == v {
			return true
		}
	}
	return false
}

// ResolveLevel determines the effective log level: the LOG_LEVEL
// environment variable takes priority over flagValue, which takes
// priority over the daemon's "info" default. An invalid env value is
// reported on stderr and ignored rather than rejected outright, the
// same fail-soft rule the teacher's resolveLogLevel uses.
func ResolveLevel(flagValue string) string {
	if env := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); env != "" {
		if IsValid(env) {
			return env
		}
		Warn("invalid LOG_LEVEL env var", Fields{"value": env, "using": flagValue})
	}
	if !IsValid(flagValue) {
		return "info"
	}
	return flagValue
}

// SetKlogVerbosity maps level onto klog's -v verbosity threshold: only
// "debug" unlocks the V(2) per-tick call sites scattered across the
// worker packages; every other level leaves them suppressed.
func SetKlogVerbosity(level string) {
	v := "0"
	if level == "debug" {
		v = "2"
	}
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Parse([]string{"-v=" + v})
}

// Fields is a flat set of extra JSON keys attached to a lifecycle log
// line.
type Fields map[string]interface{}

type lifecycleLine struct {
	Level string                 `json:"level"`
	Msg   string                 `json:"msg"`
	Extra map[string]interface{} `json:"-"`
}

func (l lifecycleLine) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(l.Extra)+2)
	for k, v := range l.Extra {
		m[k] = v
	}
	m["level"] = l.Level
	m["msg"] = l.Msg
	return json.Marshal(m)
}

func emit(level, msg string, fields Fields) {
	line, err := json.Marshal(lifecycleLine{Level: level, Msg: msg, Extra: fields})
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"level":%q,"msg":%q}`+"\n", level, msg)
		return
	}
	fmt.Fprintln(os.Stderr, string(line))
}

// Info logs a startup/shutdown lifecycle event as a single JSON line,
// the cmd/uccd register.
func Info(msg string, fields Fields) { emit("info", msg, fields) }

// Warn logs a recoverable lifecycle problem.
func Warn(msg string, fields Fields) { emit("warn", msg, fields) }

// Error logs a lifecycle failure that does not itself stop the
// daemon.
func Error(msg string, fields Fields) { emit("error", msg, fields) }

// Fatal logs a lifecycle failure and exits(1), mirroring the
// teacher's log.Fatalf JSON-line-then-exit pattern.
func Fatal(msg string, fields Fields) {
	emit("fatal", msg, fields)
	os.Exit(1)
}
