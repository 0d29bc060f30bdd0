// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package profile

// Sentinel ids for the built-in catalog. Custom profiles never
// collide with these because custom ids are random base-36 strings
// generated outside this fixed namespace.
const (
	IDLegacySilent  = "legacy-silent"
	IDLegacyBalanced = "legacy-balanced"
	IDLegacyCool    = "legacy-cool"

	IDCustomTemplate = "custom-template"
)

// Device-keyed built-in ids, one family per supported chassis.
const (
	IDMaxEnergySaveSuffix   = "-maxenergysave"
	IDQuietSuffix           = "-quiet"
	IDOfficeSuffix          = "-office"
	IDHighPerformanceSuffix = "-highperformance"
)

// Fan preset names referenced by Profile.Fan.FanProfile.
const (
	PresetSilent   = "fan-silent"
	PresetQuiet    = "fan-quiet"
	PresetBalanced = "fan-balanced"
	PresetCool     = "fan-cool"
	PresetFreezy   = "fan-freezy"
)

// FanPreset is one named, complete fan-curve bundle: CPU/GPU/water-
// cooler-fan curves plus a pump threshold table, per §3.1.
type FanPreset struct {
	Name      string
	CPU       []FanPoint
	GPU       []FanPoint
	Pump      []FanPoint
	WaterFan  []FanPoint
}

// fanTempPoints returns the 17 temperatures 20..100°C step 5 used by
// every built-in preset curve.
func fanTempPoints() []int {
	pts := make([]int, 0, 17)
	for t := 20; t <= 100; t += 5 {
		pts = append(pts, t)
	}
	return pts
}

// linearCurve builds a 17-point curve interpolating speed linearly
// from startSpeed at 20°C to endSpeed at 100°C. Intermediate speeds
// use integer division, so they are truncated toward zero; inputs are
// not clamped.
func linearCurve(startSpeed, endSpeed int) []FanPoint {
	temps := fanTempPoints()
	n := len(temps) - 1
	out := make([]FanPoint, len(temps))
	for i, t := range temps {
		speed := startSpeed + (endSpeed-startSpeed)*i/n
		out[i] = FanPoint{Temp: t, Speed: speed}
	}
	return out
}

// pumpThresholds builds the 3-entry ascending pump table a preset
// uses, with levels fixed at 1,2,3 in temperature order per §3.1.
func pumpThresholds(t1, t2, t3 int) []FanPoint {
	return []FanPoint{
		{Temp: t1, Speed: 1},
		{Temp: t2, Speed: 2},
		{Temp: t3, Speed: 3},
	}
}

// FanPresetCatalog is the fixed set of built-in fan presets. Every
// curve is strictly non-decreasing per IsFanTableMonotone, and every
// pump table satisfies IsPumpTableValid.
var FanPresetCatalog = map[string]FanPreset{
	PresetSilent: {
		Name:     PresetSilent,
		CPU:      linearCurve(0, 60),
		GPU:      linearCurve(0, 60),
		Pump:     pumpThresholds(40, 55, 70),
		WaterFan: linearCurve(0, 50),
	},
	PresetQuiet: {
		Name:     PresetQuiet,
		CPU:      linearCurve(10, 75),
		GPU:      linearCurve(10, 75),
		Pump:     pumpThresholds(35, 50, 65),
		WaterFan: linearCurve(10, 65),
	},
	PresetBalanced: {
		Name:     PresetBalanced,
		CPU:      linearCurve(20, 90),
		GPU:      linearCurve(20, 90),
		Pump:     pumpThresholds(32, 45, 60),
		WaterFan: linearCurve(20, 80),
	},
	PresetCool: {
		Name:     PresetCool,
		CPU:      linearCurve(35, 100),
		GPU:      linearCurve(35, 100),
		Pump:     pumpThresholds(28, 40, 55),
		WaterFan: linearCurve(35, 90),
	},
	PresetFreezy: {
		Name:     PresetFreezy,
		CPU:      linearCurve(50, 100),
		GPU:      linearCurve(50, 100),
		Pump:     pumpThresholds(25, 35, 50),
		WaterFan: linearCurve(50, 100),
	},
}

// deviceProfile builds one device-keyed built-in Profile variant,
// seeded from the default template and carrying the given fan
// preset and description.
func deviceProfile(id, name, description, fanPreset string) Profile {
	p := DefaultProfile(id, name)
	p.Description = description
	p.Fan.FanProfile = fanPreset
	return p
}

// knownDeviceModels lists the chassis keys with a published device-
// keyed catalog. An unrecognized deviceModel falls back to
// LegacyCatalog rather than inventing a 4-profile set for hardware
// nobody has validated fan curves against.
var knownDeviceModels = map[string]bool{
	"tuxedo-ibpx14": true,
	"tuxedo-ibpx15": true,
	"tuxedo-polaris": true,
	"tuxedo-stellaris": true,
}

// DeviceCatalog returns the 4 device-specific built-in profiles
// (MaxEnergySave / Quiet / Office / HighPerformance) for the given
// device model key, id-namespaced under that key so the same model
// catalog never collides with another chassis's ids. Returns nil for
// an unrecognized deviceModel; callers fall back to LegacyCatalog.
func DeviceCatalog(deviceModel string) []Profile {
	if !knownDeviceModels[deviceModel] {
		return nil
	}
	return []Profile{
		deviceProfile(deviceModel+IDMaxEnergySaveSuffix, "Max Energy Save",
			"Longest battery life, quietest fans.", PresetSilent),
		deviceProfile(deviceModel+IDQuietSuffix, "Quiet",
			"Low fan noise for everyday use.", PresetQuiet),
		deviceProfile(deviceModel+IDOfficeSuffix, "Office",
			"Balanced performance and noise.", PresetBalanced),
		deviceProfile(deviceModel+IDHighPerformanceSuffix, "High Performance",
			"Maximum performance, fans run loud.", PresetCool),
	}
}

// LegacyCatalog returns the 3 legacy fallback profiles used when no
// device-keyed catalog matches the running chassis.
func LegacyCatalog() []Profile {
	return []Profile{
		deviceProfile(IDLegacySilent, "Silent", "Legacy quiet fallback.", PresetSilent),
		deviceProfile(IDLegacyBalanced, "Balanced", "Legacy balanced fallback.", PresetBalanced),
		deviceProfile(IDLegacyCool, "Cool", "Legacy performance fallback.", PresetCool),
	}
}

// CustomTemplate returns the default template profile that seeds the
// "new profile" workflow and that deleteCustomProfile falls back to
// when a referenced custom profile is removed.
func CustomTemplate() Profile {
	return DefaultProfile(IDCustomTemplate, "New Profile")
}

// BuiltinCatalog returns every built-in profile for deviceModel: the
// device-keyed table if non-empty, else the legacy fallback, plus the
// custom template (always present so getAllProfiles always offers a
// "new profile" seed).
func BuiltinCatalog(deviceModel string) []Profile {
	var out []Profile
	if dc := DeviceCatalog(deviceModel); len(dc) > 0 {
		out = append(out, dc...)
	} else {
		out = append(out, LegacyCatalog()...)
	}
	out = append(out, CustomTemplate())
	return out
}

// IsBuiltinID reports whether id belongs to the built-in catalog
// (device-keyed, legacy, or the custom template), making it ineligible
// for update/delete through the custom-profile store operations.
func IsBuiltinID(id string) bool {
	switch id {
	case IDLegacySilent, IDLegacyBalanced, IDLegacyCool, IDCustomTemplate:
		return true
	}
	for _, suffix := range []string{IDMaxEnergySaveSuffix, IDQuietSuffix, IDOfficeSuffix, IDHighPerformanceSuffix} {
		if len(id) > len(suffix) && id[len(id)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
