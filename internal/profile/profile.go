// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package profile defines the persistent Profile and Settings models
// and the on-disk store backing them (§3.1-3.3 / §4.4). Parsing is
// lenient: a Profile is decoded on top of an already-defaulted value
// so any field missing from the JSON keeps its documented default
// rather than falling back to the Go zero value.
package profile

import (
	"encoding/json"
	"fmt"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

func errProfileInvalid(reason string) error {
	return fmt.Errorf("%s: %w", reason, hwerr.ErrArgumentInvalid)
}

// FanPoint is one {temp, speed} entry of a fan curve. For pump
// tables, Speed is a discrete level in [0,4] meaning
// {Off, 7V, 8V, 11V, 12V}.
type FanPoint struct {
	Temp  int `json:"temp"`
	Speed int `json:"speed"`
}

// ClampPumpPoint clamps a pump table entry's level into [0,4], the
// daemon-side safety net for a GUI that is expected never to emit
// level 4 itself.
func ClampPumpPoint(p FanPoint) FanPoint {
	if p.Speed < 0 {
		p.Speed = 0
	}
	if p.Speed > 4 {
		p.Speed = 4
	}
	return p
}

type DisplaySettings struct {
	Brightness    int  `json:"brightness"`
	UseBrightness bool `json:"useBrightness"`
	RefreshRate   int  `json:"refreshRate"`
	UseRefRate    bool `json:"useRefRate"`
	XResolution   int  `json:"xResolution"`
	YResolution   int  `json:"yResolution"`
	UseResolution bool `json:"useResolution"`
}

type CPUSettings struct {
	OnlineCores                 *int   `json:"onlineCores,omitempty"`
	ScalingMinFrequency         *int   `json:"scalingMinFrequency,omitempty"`
	ScalingMaxFrequency         *int   `json:"scalingMaxFrequency,omitempty"`
	Governor                    string `json:"governor"`
	EnergyPerformancePreference string `json:"energyPerformancePreference"`
	NoTurbo                     bool   `json:"noTurbo"`
}

type WebcamSettings struct {
	Status    bool `json:"status"`
	UseStatus bool `json:"useStatus"`
}

type FanSettings struct {
	UseControl          bool       `json:"useControl"`
	FanProfile           string     `json:"fanProfile"`
	OffsetFanspeed       int        `json:"offsetFanspeed"`
	SameSpeed            bool       `json:"sameSpeed"`
	AutoControlWC        bool       `json:"autoControlWC"`
	TableCPU             []FanPoint `json:"tableCPU,omitempty"`
	TableGPU             []FanPoint `json:"tableGPU,omitempty"`
	TablePump            []FanPoint `json:"tablePump,omitempty"`
	TableWaterCoolerFan  []FanPoint `json:"tableWaterCoolerFan,omitempty"`
}

type ODMProfileSettings struct {
	Name *string `json:"name,omitempty"`
}

type ODMPowerLimits struct {
	TDPValues []int `json:"tdpValues,omitempty"`
}

type NvidiaPowerCTRLProfile struct {
	CTGPOffset *int `json:"cTGPOffset,omitempty"`
}

type KeyboardSettings struct {
	KeyboardProfileData string `json:"keyboardProfileData"`
	KeyboardProfileName string `json:"keyboardProfileName"`
}

// Profile is a named, persistent settings bundle per §3.1.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Display                DisplaySettings        `json:"display"`
	CPU                    CPUSettings            `json:"cpu"`
	Webcam                 WebcamSettings         `json:"webcam"`
	Fan                    FanSettings            `json:"fan"`
	ODMProfile             ODMProfileSettings     `json:"odmProfile"`
	ODMPowerLimits         ODMPowerLimits         `json:"odmPowerLimits"`
	NvidiaPowerCTRLProfile NvidiaPowerCTRLProfile `json:"nvidiaPowerCTRLProfile"`

	ChargingProfile      string `json:"chargingProfile"`
	ChargingPriority     string `json:"chargingPriority"`
	ChargeType           string `json:"chargeType"`
	ChargeStartThreshold int    `json:"chargeStartThreshold"`
	ChargeEndThreshold   int    `json:"chargeEndThreshold"`

	Keyboard KeyboardSettings `json:"keyboard"`
}

// DefaultProfile returns a Profile carrying every default listed in
// §3.1, for the given id/name. It doubles as the seed value unmarshal
// decodes on top of, and as the "new profile" custom template when
// called with the reserved custom-template id.
func DefaultProfile(id, name string) Profile {
	return Profile{
		ID:   id,
		Name: name,
		Display: DisplaySettings{
			Brightness:    100,
			UseBrightness: false,
		},
		CPU: CPUSettings{
			Governor:                    "powersave",
			EnergyPerformancePreference: "balance_performance",
			NoTurbo:                     false,
		},
		Webcam: WebcamSettings{Status: true, UseStatus: true},
		Fan: FanSettings{
			UseControl:     true,
			FanProfile:     "fan-balanced",
			OffsetFanspeed: 0,
			SameSpeed:      true,
			AutoControlWC:  true,
		},
		ChargeStartThreshold: -1,
		ChargeEndThreshold:   -1,
		Keyboard: KeyboardSettings{
			KeyboardProfileData: "{}",
		},
	}
}

// UnmarshalJSON decodes onto a defaulted copy of the receiver so that
// any field absent from data keeps its §3.1 default (or, if the
// receiver was already partially populated, its existing value)
// instead of the Go zero value. Unknown fields are ignored, matching
// encoding/json's default behavior.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type alias Profile
	seed := alias(DefaultProfile(p.ID, p.Name))
	if err := json.Unmarshal(data, &seed); err != nil {
		return err
	}
	*p = Profile(seed)
	return nil
}

// IsFanTableMonotone reports whether a fan curve is non-decreasing in
// both temperature and speed, the invariant the curve editor is
// expected to enforce and the daemon must preserve.
func IsFanTableMonotone(points []FanPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Temp < points[i-1].Temp || points[i].Speed < points[i-1].Speed {
			return false
		}
	}
	return true
}

// IsPumpTableValid reports whether a pump table has at most 3 entries
// strictly increasing in temperature.
func IsPumpTableValid(points []FanPoint) bool {
	if len(points) > 3 {
		return false
	}
	for i := 1; i < len(points); i++ {
		if points[i].Temp <= points[i-1].Temp {
			return false
		}
	}
	return true
}

// ChargeThresholdsValid reports whether start/end obey
// start ≤ end whenever both are set (≥0).
func ChargeThresholdsValid(start, end int) bool {
	if start >= 0 && end >= 0 {
		return start <= end
	}
	return true
}

// Validate checks the invariants from §3.1 that the daemon itself is
// responsible for preserving (not the subset left to the GUI's curve
// editor to enforce on entry).
func (p Profile) Validate() error {
	if p.Fan.OffsetFanspeed < -30 || p.Fan.OffsetFanspeed > 30 {
		return errProfileInvalid("offsetFanspeed out of [-30,30]")
	}
	if !IsFanTableMonotone(p.Fan.TableCPU) {
		return errProfileInvalid("tableCPU not monotone")
	}
	if !IsFanTableMonotone(p.Fan.TableGPU) {
		return errProfileInvalid("tableGPU not monotone")
	}
	if !IsFanTableMonotone(p.Fan.TableWaterCoolerFan) {
		return errProfileInvalid("tableWaterCoolerFan not monotone")
	}
	if !IsPumpTableValid(p.Fan.TablePump) {
		return errProfileInvalid("tablePump invalid")
	}
	if !ChargeThresholdsValid(p.ChargeStartThreshold, p.ChargeEndThreshold) {
		return errProfileInvalid("chargeStartThreshold > chargeEndThreshold")
	}
	return nil
}
