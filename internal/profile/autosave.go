// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// Autosave is the single-field /etc/ucc/autosave file (§3.3), kept
// separate from Settings so brightness restores across reboots
// independently of whatever profile ends up active.
type Autosave struct {
	DisplayBrightness int `json:"displayBrightness"`
}

// AutosaveStore reads and writes the autosave file. It has no backup/
// recovery behavior: a corrupt autosave file only loses one brightness
// value, not the whole configuration, so §3.2's recovery machinery is
// not worth its complexity here.
type AutosaveStore struct {
	path string
}

func NewAutosaveStore(dir string) *AutosaveStore {
	return &AutosaveStore{path: filepath.Join(dir, "autosave")}
}

func (s *AutosaveStore) Load(_ context.Context) (Autosave, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Autosave{}, nil
	}
	if err != nil {
		return Autosave{}, fmt.Errorf("read autosave: %w: %w", err, hwerr.ErrTransient)
	}
	var a Autosave
	if err := json.Unmarshal(data, &a); err != nil {
		return Autosave{}, fmt.Errorf("parse autosave: %w: %w", err, hwerr.ErrCorrupt)
	}
	return a, nil
}

func (s *AutosaveStore) Save(_ context.Context, a Autosave) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode autosave: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write autosave: %w: %w", err, hwerr.ErrTransient)
	}
	return nil
}
