// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

func TestSysfsACDetectorReadsOnlineFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "online")

	require.NoError(t, os.WriteFile(p, []byte("1"), 0644))
	det := &SysfsACDetector{node: sysfs.At(p), ok: true}
	assert.True(t, det.OnAC(context.Background()))

	require.NoError(t, os.WriteFile(p, []byte("0"), 0644))
	assert.False(t, det.OnAC(context.Background()))
}

func TestSysfsACDetectorDefaultsOnNoNode(t *testing.T) {
	det := &SysfsACDetector{}
	assert.True(t, det.OnAC(context.Background()), "no recognized AC node found: assume mains")
}
