// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
	"github.com/tuxedocomputers/uccd/internal/profile"
)

// The methods in this file exist purely to give internal/rpcserver a
// surface to call: every RPC method in §4.11 that isn't a bare
// snapshot read needs one of these. Keeping them out of
// orchestrator.go keeps the apply-sequence file focused on the apply
// sequence itself.

// Store exposes the settings/profile store so the RPC layer can back
// the profile-CRUD methods without this package re-wrapping every one
// of profile.Store's methods individually.
func (o *Orchestrator) Store() *profile.Store { return o.store }

// Settings returns a copy of the currently loaded settings.
func (o *Orchestrator) Settings() profile.Settings {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.settings
}

// SetStateMap persists profileID as state's mapped profile, the
// `SetStateMap(state, profileId)` RPC method. Unlike SetActiveProfile
// it never applies anything — it only ever touches the mapping table,
// even when state is the currently active one.
func (o *Orchestrator) SetStateMap(ctx context.Context, state PowerState, profileID string) error {
	if _, err := o.resolveProfile(ctx, profileID); err != nil {
		return err
	}
	cfg, err := o.store.Load(ctx)
	if err != nil {
		return err
	}
	switch state {
	case PowerAC:
		cfg.StateMap.PowerAC = profileID
	case PowerWC:
		cfg.StateMap.PowerWC = profileID
	default:
		cfg.StateMap.PowerBAT = profileID
	}
	if err := o.store.Save(ctx, cfg); err != nil {
		return err
	}
	o.mu.Lock()
	o.settings = cfg
	o.mu.Unlock()
	return nil
}

// DisplayBrightnessPercent reads the current backlight level back in
// [0,100].
func (o *Orchestrator) DisplayBrightnessPercent(ctx context.Context) (int, bool) {
	return o.display.BrightnessPercent(ctx)
}

// SetDisplayBrightnessPercent applies an ad-hoc brightness change
// outside of a full profile apply, persisting it to autosave the same
// way step 5 of ApplyProfile does.
func (o *Orchestrator) SetDisplayBrightnessPercent(ctx context.Context, pct int) error {
	if err := o.display.SetBrightnessPercent(ctx, pct); err != nil {
		return err
	}
	if o.autosave != nil {
		_ = o.autosave.Save(ctx, profile.Autosave{DisplayBrightness: pct})
	}
	return nil
}

// ChargeStartThreshold, ChargeEndThreshold, ChargeType, ChargingProfile
// and ChargingPriority read the corresponding charging node back.
func (o *Orchestrator) ChargeStartThreshold(ctx context.Context) (int, bool) {
	return o.charging.StartThreshold(ctx)
}

func (o *Orchestrator) ChargeEndThreshold(ctx context.Context) (int, bool) {
	return o.charging.EndThreshold(ctx)
}

func (o *Orchestrator) ChargeType(ctx context.Context) (string, bool) {
	return o.charging.ChargeType(ctx)
}

func (o *Orchestrator) ChargingProfile(ctx context.Context) (string, bool) {
	return o.charging.Profile(ctx)
}

func (o *Orchestrator) ChargingPriority(ctx context.Context) (string, bool) {
	return o.charging.Priority(ctx)
}

// SetChargeStartThreshold, SetChargeEndThreshold, SetChargeType,
// SetChargingProfile and SetChargingPriority back the §4.11 ad-hoc
// charging setters. SetChargingProfile and SetChargingPriority also
// record the choice in settings; the threshold and charge-type setters
// write the node only. The charging fields in settings are advisory
// state for the GUI, not applied directly: ApplyProfile step 6 writes
// the profile's own charging fields, so a later profile apply can
// overwrite any of these ad-hoc values.
func (o *Orchestrator) SetChargeStartThreshold(ctx context.Context, v int) error {
	if !o.charging.SetStartThreshold(ctx, v) {
		return fmt.Errorf("write charge start threshold: %w", hwerr.ErrUnsupported)
	}
	return nil
}

func (o *Orchestrator) SetChargeEndThreshold(ctx context.Context, v int) error {
	if !o.charging.SetEndThreshold(ctx, v) {
		return fmt.Errorf("write charge end threshold: %w", hwerr.ErrUnsupported)
	}
	return nil
}

func (o *Orchestrator) SetChargeType(ctx context.Context, t string) error {
	if !o.charging.SetChargeType(ctx, t) {
		return fmt.Errorf("write charge type: %w", hwerr.ErrUnsupported)
	}
	return nil
}

func (o *Orchestrator) SetChargingProfile(ctx context.Context, desc string) error {
	if !o.charging.SetProfile(ctx, desc) {
		return fmt.Errorf("write charging profile: %w", hwerr.ErrUnsupported)
	}
	return o.persistSettingsChange(ctx, func(cfg *profile.Settings) { cfg.ChargingProfile = &desc })
}

func (o *Orchestrator) SetChargingPriority(ctx context.Context, desc string) error {
	if !o.charging.SetPriority(ctx, desc) {
		return fmt.Errorf("write charging priority: %w", hwerr.ErrUnsupported)
	}
	return o.persistSettingsChange(ctx, func(cfg *profile.Settings) { cfg.ChargingPriority = &desc })
}

// SetKeyboardBacklightStates replaces the named zone-state presets the
// GUI's keyboard-backlight page lists, backing
// `SetKeyboardBacklightStatesJSON`.
func (o *Orchestrator) SetKeyboardBacklightStates(ctx context.Context, states map[string]string) error {
	return o.persistSettingsChange(ctx, func(cfg *profile.Settings) { cfg.KeyboardBacklightStates = states })
}

func (o *Orchestrator) persistSettingsChange(ctx context.Context, mutate func(*profile.Settings)) error {
	cfg, err := o.store.Load(ctx)
	if err != nil {
		return err
	}
	mutate(&cfg)
	if err := o.store.Save(ctx, cfg); err != nil {
		return err
	}
	o.mu.Lock()
	o.settings = cfg
	o.mu.Unlock()
	return nil
}

// ConsumeModeReapplyPending reports and clears the one-shot flag set
// whenever a WMI mode change (ODM profile switch) requires the GUI to
// re-poll derived state such as available TDP ranges. It is consumed
// at most once per change, per §4.11's `ConsumeModeReapplyPending`.
func (o *Orchestrator) ConsumeModeReapplyPending() bool {
	return o.modeReapplyPending.Swap(false)
}

func (o *Orchestrator) markModeReapplyPending() {
	o.modeReapplyPending.Store(true)
}
