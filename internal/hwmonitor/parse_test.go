// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMetricValueStripsKnownSuffixes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"45 C", 45},
		{"1200 MHz", 1200},
		{"120.50 W", 120.5},
		{"73 %", 73},
	}
	for _, tt := range tests {
		v, ok := parseMetricValue(tt.in)
		assert.True(t, ok, tt.in)
		assert.InDelta(t, tt.want, v, 0.001, tt.in)
	}
}

func TestParseMetricValueRejectsNotAvailable(t *testing.T) {
	_, ok := parseMetricValue("[N/A]")
	assert.False(t, ok)
}

func TestParseActiveDPMFreqMHzFindsStarredLine(t *testing.T) {
	dump := "0: 300Mhz\n1: 1200Mhz\n2: 1900Mhz *\n"
	v, ok := parseActiveDPMFreqMHz(dump)
	assert.True(t, ok)
	assert.Equal(t, 1900, v)
}

func TestParseActiveDPMFreqMHzNoStarredLine(t *testing.T) {
	_, ok := parseActiveDPMFreqMHz("0: 300Mhz\n1: 1200Mhz\n")
	assert.False(t, ok)
}
