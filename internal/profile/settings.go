// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package profile

// StateMap maps a power state to the profile id active in it, per
// §3.2.
type StateMap struct {
	PowerAC  string `json:"power_ac"`
	PowerBAT string `json:"power_bat"`
	PowerWC  string `json:"power_wc"`
}

// YCbCr420PortOverride is one display-port entry of a
// ycbcr420Workaround card override.
type YCbCr420PortOverride struct {
	Port    int  `json:"port"`
	Enabled bool `json:"enabled"`
}

// YCbCr420CardOverride groups port overrides under one DRM card
// index. The workaround itself is reserved data: nothing applies it,
// and rpcserver's GetForceYUV420OutputSwitchAvailable reports false.
type YCbCr420CardOverride struct {
	Card  int                     `json:"card"`
	Ports []YCbCr420PortOverride `json:"ports"`
}

// Settings is the single persistent file at /etc/ucc/settings (§3.2).
type Settings struct {
	Fahrenheit bool                `json:"fahrenheit"`
	StateMap   StateMap            `json:"stateMap"`
	Profiles   map[string]Profile `json:"profiles"`

	ShutdownTime *string `json:"shutdownTime,omitempty"`

	CPUSettingsEnabled               bool `json:"cpuSettingsEnabled"`
	FanControlEnabled                bool `json:"fanControlEnabled"`
	KeyboardBacklightControlEnabled  bool `json:"keyboardBacklightControlEnabled"`

	YCbCr420Workaround []YCbCr420CardOverride `json:"ycbcr420Workaround,omitempty"`

	ChargingProfile  *string `json:"chargingProfile,omitempty"`
	ChargingPriority *string `json:"chargingPriority,omitempty"`

	// KeyboardBacklightStates stores named keyboard zone-state blobs
	// opaquely, as the daemon never interprets them (§3.1 keyboard
	// field notes).
	KeyboardBacklightStates map[string]string `json:"keyboardBacklightStates,omitempty"`
}

// DefaultSettings returns a Settings value with every subsystem
// toggle on and an empty custom-profile set, the state a fresh
// install starts from.
func DefaultSettings() Settings {
	return Settings{
		StateMap: StateMap{
			PowerAC:  IDCustomTemplate,
			PowerBAT: IDCustomTemplate,
			PowerWC:  IDCustomTemplate,
		},
		Profiles:                        map[string]Profile{},
		CPUSettingsEnabled:               true,
		FanControlEnabled:                true,
		KeyboardBacklightControlEnabled:  true,
	}
}
