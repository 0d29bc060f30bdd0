// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/profile"
)

func TestBuildHWIOMockReturnsUniwillMock(t *testing.T) {
	io, variant, err := buildHWIO(true)
	require.NoError(t, err)
	assert.NotNil(t, io)
	assert.Equal(t, "uniwill-mock", variant)
}

func TestNoopCPUApplierAcceptsAnySettings(t *testing.T) {
	var a noopCPUApplier
	assert.NoError(t, a.ApplyCPUSettings(context.Background(), profile.CPUSettings{}))
}
