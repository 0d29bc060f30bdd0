// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	"github.com/tuxedocomputers/uccd/internal/cpuctl"
	"github.com/tuxedocomputers/uccd/internal/fanctl"
	"github.com/tuxedocomputers/uccd/internal/hwerr"
	"github.com/tuxedocomputers/uccd/internal/hwio"
	"github.com/tuxedocomputers/uccd/internal/kbdlight"
	"github.com/tuxedocomputers/uccd/internal/metrics"
	"github.com/tuxedocomputers/uccd/internal/profile"
	"github.com/tuxedocomputers/uccd/internal/snapshot"
)

// Orchestrator is consumed by fanctl and cpuctl purely through these
// narrow interfaces — neither package imports this one.
var (
	_ fanctl.ActiveProfileSource = (*Orchestrator)(nil)
	_ cpuctl.ActiveProfileSource = (*Orchestrator)(nil)
)

const pollInterval = time.Second

// CPUApplier is the slice of cpuctl.Controller this package needs —
// narrowed the same way fanctl/cpuctl's own ActiveProfileSource
// interfaces are, so a fake can stand in for tests without a real
// discovered Controller.
type CPUApplier interface {
	ApplyCPUSettings(ctx context.Context, s profile.CPUSettings) error
}

// KeyboardApplier is the slice of kbdlight.Controller this package
// needs.
type KeyboardApplier interface {
	Apply(ctx context.Context, state []kbdlight.ZoneState) error
}

// Signaler emits the two RPC signals §4.10 fires on a power-state
// change, in order. Implemented by internal/rpcserver; kept here as a
// narrow interface so this package never imports the bus layer.
type Signaler interface {
	EmitProfileChanged(profileID string)
	EmitPowerStateChanged(state string)
}

// Orchestrator owns profile resolution and the AC/BAT/WC power-state
// machine, and drives every subsystem's profile-apply step. It
// satisfies fanctl.ActiveProfileSource and cpuctl.ActiveProfileSource
// structurally, so neither of those packages imports this one.
type Orchestrator struct {
	store    *profile.Store
	io       hwio.DeviceInterface
	cpu      CPUApplier
	kbd      KeyboardApplier
	display  *DisplayController
	charging *ChargeController
	autosave *profile.AutosaveStore
	snap     *snapshot.DbusData
	signaler Signaler
	acDet    ACDetector

	mu            sync.RWMutex
	settings      profile.Settings
	activeID      string
	activeProfile profile.Profile
	state         PowerState
	wc            wcDebouncer

	// modeReapplyPending backs ConsumeModeReapplyPending (rpcaccess.go).
	modeReapplyPending atomic.Bool
}

// New builds an Orchestrator, loading persisted settings and resolving
// the initial power state and active profile synchronously so the
// very first RPC call already sees a coherent snapshot.
func New(
	ctx context.Context,
	store *profile.Store,
	io hwio.DeviceInterface,
	cpu CPUApplier,
	kbd KeyboardApplier,
	autosave *profile.AutosaveStore,
	snap *snapshot.DbusData,
	signaler Signaler,
	acDet ACDetector,
) (*Orchestrator, error) {
	settings, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	o := &Orchestrator{
		store:    store,
		io:       io,
		cpu:      cpu,
		kbd:      kbd,
		display:  DetectDisplay(ctx),
		charging: DetectCharging(ctx),
		autosave: autosave,
		snap:     snap,
		signaler: signaler,
		acDet:    acDet,
		settings: settings,
	}

	state := o.computeState(ctx, time.Now())
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
	if err := o.applyForState(ctx, state); err != nil {
		klog.ErrorS(err, "initial profile apply failed")
	}
	return o, nil
}

// Name identifies this worker for logs and metrics labels.
func (o *Orchestrator) Name() string { return "orchestrator" }

// Run polls the power-state inputs once per second, applying the
// mapped profile on every accepted state transition. Not named among
// §5's fixed per-subsystem cadences because the state machine itself
// is event-driven (AC plug, WC connect) rather than a hardware
// sampling loop; a 1 s poll is fast enough to catch a plug event
// without adding a dedicated interrupt path.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.poll(ctx)
		}
	}
}

func (o *Orchestrator) poll(ctx context.Context) {
	now := time.Now()
	newState := o.computeState(ctx, now)

	o.mu.Lock()
	changed := newState != o.state
	if changed {
		o.state = newState
	}
	o.mu.Unlock()

	if !changed {
		return
	}
	if err := o.applyForState(ctx, newState); err != nil {
		klog.ErrorS(err, "profile apply on state change failed", "state", newState)
		return
	}
}

// computeState implements §4.10's resolution order: WC (opted-in and
// debounced-connected) takes priority over AC, which takes priority
// over BAT.
func (o *Orchestrator) computeState(ctx context.Context, now time.Time) PowerState {
	o.mu.Lock()
	raw := o.snap.WaterCoolerConnected()
	accepted := o.wc.Evaluate(now, raw)
	wcOptIn := o.activeProfile.Fan.AutoControlWC
	o.mu.Unlock()

	if accepted && wcOptIn {
		return PowerWC
	}
	if o.acDet.OnAC(ctx) {
		return PowerAC
	}
	return PowerBAT
}

// applyForState resolves state's mapped profile id from the current
// settings and applies it, then emits both signals per §4.10's
// ordering: ProfileChanged before PowerStateChanged.
func (o *Orchestrator) applyForState(ctx context.Context, state PowerState) error {
	o.mu.RLock()
	id := o.stateMapID(state)
	o.mu.RUnlock()

	if err := o.ApplyProfileByID(ctx, id); err != nil {
		return err
	}
	o.signaler.EmitPowerStateChanged(state.String())
	metrics.RecordProfileApply(state.String())
	return nil
}

func (o *Orchestrator) stateMapID(state PowerState) string {
	switch state {
	case PowerAC:
		return o.settings.StateMap.PowerAC
	case PowerWC:
		return o.settings.StateMap.PowerWC
	default:
		return o.settings.StateMap.PowerBAT
	}
}

// ActiveProfile returns the currently active profile. Satisfies
// fanctl.ActiveProfileSource and cpuctl.ActiveProfileSource.
func (o *Orchestrator) ActiveProfile() profile.Profile {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.activeProfile
}

// FanControlEnabled reports the settings-level fan control master
// toggle. Satisfies fanctl.ActiveProfileSource.
func (o *Orchestrator) FanControlEnabled() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.settings.FanControlEnabled
}

// PowerState reports the currently resolved power state.
func (o *Orchestrator) PowerState() PowerState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// ActiveProfileID reports the id of the profile last applied.
func (o *Orchestrator) ActiveProfileID() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.activeID
}

// resolveProfile scans the built-in catalog plus custom profiles for
// id. profile.Store has no single-id lookup of its own, only
// GetAllProfiles, so the scan lives here.
func (o *Orchestrator) resolveProfile(ctx context.Context, id string) (profile.Profile, error) {
	all, err := o.store.GetAllProfiles(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return profile.Profile{}, fmt.Errorf("profile id %q not found: %w", id, hwerr.ErrArgumentInvalid)
}

// ApplyProfileByID resolves id and applies it, persisting it as the
// active profile for the caller to query back via ActiveProfile but
// without touching settings.stateMap — the RPC-level distinction
// between this and SetActiveProfile (which additionally persists the
// stateMap entry) lives in internal/rpcserver.
func (o *Orchestrator) ApplyProfileByID(ctx context.Context, id string) error {
	p, err := o.resolveProfile(ctx, id)
	if err != nil {
		return err
	}
	return o.ApplyProfile(ctx, p)
}

// SetActiveProfile persists id as the mapped profile for the current
// power state, then applies it — the `SetActiveProfile(id)` RPC
// method's full semantics (§4.11), distinct from SetTempProfileById's
// apply-without-persisting behavior which callers get from
// ApplyProfileByID directly.
func (o *Orchestrator) SetActiveProfile(ctx context.Context, id string) error {
	if _, err := o.resolveProfile(ctx, id); err != nil {
		return err
	}

	cfg, err := o.store.Load(ctx)
	if err != nil {
		return err
	}
	state := o.PowerState()
	switch state {
	case PowerAC:
		cfg.StateMap.PowerAC = id
	case PowerWC:
		cfg.StateMap.PowerWC = id
	default:
		cfg.StateMap.PowerBAT = id
	}
	if err := o.store.Save(ctx, cfg); err != nil {
		return err
	}

	o.mu.Lock()
	o.settings = cfg
	o.mu.Unlock()

	return o.applyForState(ctx, state)
}

// ApplyProfile runs the full §4.10 seven-step apply sequence against
// an arbitrary profile value, without touching persisted settings.
// This is both SetTempProfileById's and ApplyProfile(json)'s RPC
// backing, and the state-change reapply path.
func (o *Orchestrator) ApplyProfile(ctx context.Context, p profile.Profile) error {
	o.mu.RLock()
	cpuEnabled := o.settings.CPUSettingsEnabled
	kbdEnabled := o.settings.KeyboardBacklightControlEnabled
	kbdStates := o.settings.KeyboardBacklightStates
	o.mu.RUnlock()

	// 1. CPU governor/EPP/frequencies/online-core count/no_turbo.
	if cpuEnabled {
		if err := o.cpu.ApplyCPUSettings(ctx, p.CPU); err != nil {
			klog.InfoS("cpu settings apply failed", "profile", p.ID, "err", err)
		}
	}

	// 2. Fan-control parameters: fanctl.Worker reads p fresh every
	// tick via ActiveProfile(), so nothing to push here beyond
	// publishing p as active below.

	// 3. ODM WMI profile/TDP (the NVIDIA cTGP offset is not applied;
	// see applyODM).
	o.applyODM(ctx, p)

	// 4. Webcam.
	if p.Webcam.UseStatus {
		if err := o.io.SetWebcam(ctx, p.Webcam.Status); err != nil {
			klog.InfoS("webcam apply failed", "profile", p.ID, "err", err)
		}
	}

	// 5. Display brightness, persisted to autosave.
	if p.Display.UseBrightness {
		if err := o.display.SetBrightnessPercent(ctx, p.Display.Brightness); err != nil {
			klog.InfoS("display brightness apply failed", "profile", p.ID, "err", err)
		} else if o.autosave != nil {
			_ = o.autosave.Save(ctx, profile.Autosave{DisplayBrightness: p.Display.Brightness})
		}
	}

	// 6. Charging.
	o.charging.Apply(ctx, p)

	// 7. Keyboard: selectedKeyboardProfile names a stored zone-state
	// blob in settings.keyboardBacklightStates.
	if kbdEnabled && p.Keyboard.KeyboardProfileName != "" {
		if raw, ok := kbdStates[p.Keyboard.KeyboardProfileName]; ok {
			if zones, err := kbdlight.DecodeState(raw); err == nil {
				if err := o.kbd.Apply(ctx, zones); err != nil {
					klog.InfoS("keyboard backlight apply failed", "profile", p.ID, "err", err)
				}
			}
		}
	}

	o.mu.Lock()
	o.activeID = p.ID
	o.activeProfile = p
	o.mu.Unlock()

	o.signaler.EmitProfileChanged(p.ID)
	return nil
}

// applyODM pushes the ODM performance profile name and every requested
// TDP limit. The profile's NVIDIA cTGP offset is not applied:
// hwio.DeviceInterface has no method that writes it.
func (o *Orchestrator) applyODM(ctx context.Context, p profile.Profile) {
	if p.ODMProfile.Name != nil {
		if err := o.io.SetODMPerformanceProfile(ctx, *p.ODMProfile.Name); err != nil {
			klog.InfoS("odm performance profile apply failed", "profile", p.ID, "err", err)
		} else {
			o.markModeReapplyPending()
		}
	}
	for i, watts := range p.ODMPowerLimits.TDPValues {
		if err := o.io.SetTDP(ctx, i, watts); err != nil {
			klog.InfoS("tdp apply failed", "profile", p.ID, "index", i, "err", err)
		}
	}
}
