// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package fanctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEWMAFirstSampleInitializes(t *testing.T) {
	e := NewEWMA(0.5, 0.15)
	assert.False(t, e.HasValue())
	assert.Equal(t, -1, e.Value())

	e.Feed(70)
	assert.True(t, e.HasValue())
	assert.Equal(t, 70, e.Value())
}

func TestEWMAUsesRisingAlpha(t *testing.T) {
	e := NewEWMA(0.5, 0.15)
	e.Feed(50)
	e.Feed(60)
	// state += 0.5*(60-50) = 55
	assert.Equal(t, 55, e.Value())
}

func TestEWMAUsesFallingAlpha(t *testing.T) {
	e := NewEWMA(0.5, 0.15)
	e.Feed(60)
	e.Feed(50)
	// state += 0.15*(50-60) = 58.5 -> rounds to 58 or 59
	assert.InDelta(t, 58.5, float64(e.Value()), 0.5)
}

func TestEWMAConvergesUnderConstantInput(t *testing.T) {
	e := NewEWMA(0.5, 0.15)
	e.Feed(40)
	for i := 0; i < 30; i++ {
		e.Feed(70)
	}
	assert.InDelta(t, 70, e.Value(), 1)
}
