// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"strconv"
	"strings"
)

// parseActiveDPMFreqMHz extracts the clock frequency, in MHz, of the
// asterisk-marked active entry from an AMD pp_dpm_sclk dump, e.g.:
//
//	0: 300Mhz
//	1: 1900Mhz *
func parseActiveDPMFreqMHz(dump string) (int, bool) {
	for _, line := range strings.Split(dump, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mhzField := strings.TrimSuffix(strings.ToLower(fields[1]), "mhz")
		v, err := strconv.Atoi(mhzField)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// parseMetricValue parses a token carrying a known unit suffix, as
// nvidia-smi's CSV output does ("45 C", "1200 MHz", "120.50 W"), and
// returns the bare numeric value.
func parseMetricValue(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	for _, suffix := range []string{"MHz", "W", "C", "%"} {
		if strings.HasSuffix(token, suffix) {
			token = strings.TrimSpace(strings.TrimSuffix(token, suffix))
			break
		}
	}
	if token == "" || token == "[N/A]" || token == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
