// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package rpcserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/fanctl"
	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/kbdlight"
	"github.com/tuxedocomputers/uccd/internal/orchestrator"
	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

type fakeCPUApplier struct{}

func (fakeCPUApplier) ApplyCPUSettings(context.Context, profile.CPUSettings) error { return nil }

type fakeKeyboardApplier struct{}

func (fakeKeyboardApplier) Apply(context.Context, []kbdlight.ZoneState) error { return nil }

type fakeSignaler struct {
	profileChanges []string
	stateChanges   []string
}

func (f *fakeSignaler) EmitProfileChanged(id string)   { f.profileChanges = append(f.profileChanges, id) }
func (f *fakeSignaler) EmitPowerStateChanged(s string) { f.stateChanges = append(f.stateChanges, s) }

type fakeACDetector struct{ onAC bool }

func (f fakeACDetector) OnAC(context.Context) bool { return f.onAC }

// newTestServer wires a Server against a real Orchestrator, fanctl
// Controller and kbdlight Controller, all backed by hwio.Mock and a
// temp-dir settings store — the same fakes-around-real-components
// shape internal/orchestrator's own tests use. BLE and CPU are left
// nil: every handler that reaches them is guarded to degrade instead
// of panicking, mirroring how the daemon runs on hardware that lacks
// a water cooler or exposes no cpufreq sysfs tree.
func newTestServer(t *testing.T) (*Server, *hwio.Mock, *snapshot.DbusData) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	store := profile.NewStore(dir, "")
	io := hwio.NewMock(hwio.VariantUniwill)
	snap := snapshot.New()
	autosave := profile.NewAutosaveStore(dir)

	orch, err := orchestrator.New(ctx, store, io, fakeCPUApplier{}, fakeKeyboardApplier{}, autosave, snap, &fakeSignaler{}, fakeACDetector{onAC: true})
	require.NoError(t, err)

	fan, err := fanctl.NewController(ctx, io, snap)
	require.NoError(t, err)

	kbd := kbdlight.NewController([]string{}, kbdlight.Capabilities{})

	srv, err := New(Config{
		Orchestrator: orch,
		Snapshot:     snap,
		Fan:          fan,
		Keyboard:     kbd,
		Device:       io,
		DeviceModel:  "uniwill-test",
	})
	require.NoError(t, err)
	return srv, io, snap
}

func TestNewRejectsMissingRequiredFields(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestGetDeviceNameReadsSnapshot(t *testing.T) {
	srv, _, snap := newTestServer(t)
	snap.SetDeviceName("Polaris 15 Gen6")

	name, derr := srv.GetDeviceName()
	require.Nil(t, derr)
	assert.Equal(t, "Polaris 15 Gen6", name)
}

func TestGetFanDataCPUReflectsPublishedReading(t *testing.T) {
	srv, _, snap := newTestServer(t)
	snap.SetFans([]snapshot.FanReading{{Speed: 42, Temperature: 55, TimestampUnixMilli: 1000}})

	data, derr := srv.GetFanDataCPU()
	require.Nil(t, derr)
	require.Equal(t, int32(42), data["speed"]["data"].Value())
	require.Equal(t, int32(55), data["temp"]["data"].Value())
}

func TestGetFanDataGPU2AbsentYieldsZeroTimestamp(t *testing.T) {
	srv, _, snap := newTestServer(t)
	snap.SetFans([]snapshot.FanReading{{Speed: 42, Temperature: 55, TimestampUnixMilli: 1000}})

	data, derr := srv.GetFanDataGPU2()
	require.Nil(t, derr)
	assert.Equal(t, int64(0), data["speed"]["timestamp"].Value())
}

func TestSetWebcamUpdatesSnapshot(t *testing.T) {
	srv, _, snap := newTestServer(t)

	ok, derr := srv.SetWebcam(true)
	require.Nil(t, derr)
	assert.True(t, ok)
	assert.True(t, snap.WebcamEnabled())
}

func TestApplyProfileRejectsInvalidJSON(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ok, derr := srv.ApplyProfile("not json")
	assert.False(t, ok)
	require.NotNil(t, derr)
}

func TestApplyProfileRejectsInvalidProfile(t *testing.T) {
	srv, _, _ := newTestServer(t)
	p := profile.DefaultProfile("bad", "bad")
	p.Fan.TableCPU = []profile.FanPoint{{Temp: 80}, {Temp: 40}} // non-monotone
	b, err := json.Marshal(p)
	require.NoError(t, err)

	ok, derr := srv.ApplyProfile(string(b))
	assert.False(t, ok)
	require.NotNil(t, derr)
}

func TestAddAndGetCustomProfile(t *testing.T) {
	srv, _, _ := newTestServer(t)
	p := profile.DefaultProfile("custom-1", "My Custom")
	b, err := json.Marshal(p)
	require.NoError(t, err)

	ok, derr := srv.AddCustomProfile(string(b))
	require.Nil(t, derr)
	assert.True(t, ok)

	listJSON, derr := srv.GetCustomProfilesJSON()
	require.Nil(t, derr)
	var got []profile.Profile
	require.NoError(t, json.Unmarshal([]byte(listJSON), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "custom-1", got[0].ID)
}

func TestSaveCustomProfileUpdatesExisting(t *testing.T) {
	srv, _, _ := newTestServer(t)
	p := profile.DefaultProfile("custom-1", "My Custom")
	b, _ := json.Marshal(p)
	_, derr := srv.AddCustomProfile(string(b))
	require.Nil(t, derr)

	p.Name = "Renamed"
	b2, _ := json.Marshal(p)
	ok, derr := srv.SaveCustomProfile(string(b2))
	require.Nil(t, derr)
	assert.True(t, ok)

	listJSON, _ := srv.GetCustomProfilesJSON()
	var got []profile.Profile
	require.NoError(t, json.Unmarshal([]byte(listJSON), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Name)
}

func TestDeleteCustomProfile(t *testing.T) {
	srv, _, _ := newTestServer(t)
	p := profile.DefaultProfile("custom-1", "My Custom")
	b, _ := json.Marshal(p)
	_, derr := srv.AddCustomProfile(string(b))
	require.Nil(t, derr)

	ok, derr := srv.DeleteCustomProfile("custom-1")
	require.Nil(t, derr)
	assert.True(t, ok)

	listJSON, _ := srv.GetCustomProfilesJSON()
	var got []profile.Profile
	require.NoError(t, json.Unmarshal([]byte(listJSON), &got))
	assert.Empty(t, got)
}

func TestSetStateMapRejectsUnknownState(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ok, derr := srv.SetStateMap("power_tornado", "some-id")
	assert.False(t, ok)
	require.NotNil(t, derr)
}

func TestSetStateMapRejectsUnknownProfile(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ok, derr := srv.SetStateMap("power_ac", "does-not-exist")
	assert.False(t, ok)
	require.Nil(t, derr)
}

func TestGetPowerStateReflectsOrchestrator(t *testing.T) {
	srv, _, _ := newTestServer(t)

	state, derr := srv.GetPowerState()
	require.Nil(t, derr)
	assert.Equal(t, "power_ac", state)
}

func TestWaterCoolerMethodsDegradeGracefullyWithoutBLE(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ok, derr := srv.EnableWaterCooler(true)
	assert.False(t, ok)
	require.NotNil(t, derr)

	speed, derr := srv.GetWaterCoolerFanSpeed()
	require.Nil(t, derr)
	assert.Equal(t, int32(0), speed)
}

func TestFnLockRoundTrips(t *testing.T) {
	srv, _, snap := newTestServer(t)

	ok, derr := srv.SetFnLockStatus(true)
	require.Nil(t, derr)
	assert.True(t, ok)
	assert.True(t, snap.FnLock())

	status, derr := srv.GetFnLockStatus()
	require.Nil(t, derr)
	assert.True(t, status)
}

func TestSensorDataCollectionToggleIsServerLocal(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ok, derr := srv.SetSensorDataCollectionStatus(true)
	require.Nil(t, derr)
	assert.True(t, ok)

	status, derr := srv.GetSensorDataCollectionStatus()
	require.Nil(t, derr)
	assert.True(t, status)
}

func TestGetChargingProfilesAvailableIsNonEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	profiles, derr := srv.GetChargingProfilesAvailable()
	require.Nil(t, derr)
	assert.NotEmpty(t, profiles)
}

func TestGetFanProfileNamesCoversBuiltinCatalog(t *testing.T) {
	srv, _, _ := newTestServer(t)

	names, derr := srv.GetFanProfileNames()
	require.Nil(t, derr)
	assert.Equal(t, len(profile.FanPresetCatalog), len(names))
}

func TestWrapPreservesCallBehavior(t *testing.T) {
	srv, _, snap := newTestServer(t)
	snap.SetDeviceName("Polaris 15 Gen6")

	table := srv.deviceMethods()
	fn, ok := table["GetDeviceName"].(func() (string, *dbus.Error))
	require.True(t, ok)

	wrapped := wrap("GetDeviceName", fn).(func() (string, *dbus.Error))
	name, derr := wrapped()
	require.Nil(t, derr)
	assert.Equal(t, "Polaris 15 Gen6", name)
}
