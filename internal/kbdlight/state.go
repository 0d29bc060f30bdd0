// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package kbdlight

import "encoding/json"

// ZoneState is one keyboard zone's {brightness, r, g, b} record, per
// §4.9. Brightness is shared across all zones in practice (only zone
// 0's value is ever written to hardware) but carried per zone so the
// wire format matches what profile.KeyboardSettings persists.
type ZoneState struct {
	Brightness int `json:"brightness"`
	R          int `json:"r"`
	G          int `json:"g"`
	B          int `json:"b"`
}

// DecodeState parses a keyboardProfileData-style JSON blob into a
// zone-state slice. An empty or "{}" blob decodes to nil, not an
// error, matching profile.KeyboardSettings's "{}" zero value.
func DecodeState(raw string) ([]ZoneState, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var zones []ZoneState
	if err := json.Unmarshal([]byte(raw), &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// EncodeState serializes a zone-state slice back to the wire format
// profile.KeyboardSettings.KeyboardProfileData stores.
func EncodeState(zones []ZoneState) string {
	b, err := json.Marshal(zones)
	if err != nil {
		return "[]"
	}
	return string(b)
}
