// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"reflect"
	"time"

	"github.com/godbus/dbus/v5"
	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/metrics"
)

// wrap adapts fn — any exported method value whose last return is
// *dbus.Error, the shape every handler below has — into an equivalent
// function that additionally records uccd_rpc_calls_total /
// uccd_rpc_call_duration_seconds and a V(2) log line. Every entry in
// the method table passed to dbus.ExportMethodTable goes through
// this, so no handler has to remember to instrument itself.
func wrap(name string, fn interface{}) interface{} {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		start := time.Now()
		out := fv.Call(args)

		status := "ok"
		if n := len(out); n > 0 {
			if dbusErr, ok := out[n-1].Interface().(*dbus.Error); ok && dbusErr != nil {
				status = "error"
			}
		}

		metrics.RecordRPCCall(name, status, time.Since(start).Seconds())
		klog.V(2).InfoS("rpc call", "method", name, "status", status)
		return out
	}).Interface()
}

// argErr and unsupportedErr build the two *dbus.Error flavors every
// setter in this package returns: an out-of-range/malformed argument,
// or hardware that can't service the call. Neither ever reaches the
// caller as a Go error type, per §4.11's "no error type beyond
// success/failure booleans and capability flags" policy.
func argErr(detail string) *dbus.Error {
	return dbus.NewError("com.uniwill.uccd.Error.InvalidArgument", []interface{}{detail})
}

func unsupportedErr(detail string) *dbus.Error {
	return dbus.NewError("com.uniwill.uccd.Error.Unsupported", []interface{}{detail})
}
