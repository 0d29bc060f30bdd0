// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// Store is the on-disk settings store described in §3.2/§4.4: a
// single JSON file with a backup-before-overwrite write path and
// corrupted-primary recovery on read.
type Store struct {
	mu          sync.Mutex
	dir         string
	deviceModel string
	clock       func() time.Time
}

// NewStore creates a Store rooted at dir (conventionally /etc/ucc)
// for the given device model key, used to select the built-in
// device-keyed catalog.
func NewStore(dir, deviceModel string) *Store {
	return &Store{dir: dir, deviceModel: deviceModel, clock: time.Now}
}

func (s *Store) settingsPath() string { return filepath.Join(s.dir, "settings") }
func (s *Store) backupPath() string   { return filepath.Join(s.dir, "settings.backup") }

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w: %w", s.dir, err, hwerr.ErrTransient)
	}
	return nil
}

// Load reads the settings file, falling back to the backup (and
// snapshotting the corrupted primary) if the primary fails to parse,
// and to DefaultSettings if no file exists yet.
func (s *Store) Load(_ context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	primary, err := os.ReadFile(s.settingsPath())
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w: %w", err, hwerr.ErrTransient)
	}

	var cfg Settings
	if jerr := json.Unmarshal(primary, &cfg); jerr == nil {
		if cfg.Profiles == nil {
			cfg.Profiles = map[string]Profile{}
		}
		return cfg, nil
	}

	backup, berr := os.ReadFile(s.backupPath())
	if berr != nil {
		return Settings{}, fmt.Errorf("parse settings (no usable backup): %w", hwerr.ErrCorrupt)
	}
	var bcfg Settings
	if jerr := json.Unmarshal(backup, &bcfg); jerr != nil {
		return Settings{}, fmt.Errorf("parse settings and backup: %w", hwerr.ErrCorrupt)
	}

	snapshot := filepath.Join(s.dir, fmt.Sprintf("settings.corrupted_%s", s.clock().Format("20060102_150405")))
	_ = os.WriteFile(snapshot, primary, 0644)

	if bcfg.Profiles == nil {
		bcfg.Profiles = map[string]Profile{}
	}
	return bcfg, nil
}

// Save backs up the current primary file (if any) to settings.backup
// before writing the new content.
func (s *Store) Save(_ context.Context, cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(); err != nil {
		return err
	}
	if current, err := os.ReadFile(s.settingsPath()); err == nil {
		_ = os.WriteFile(s.backupPath(), current, 0644)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.settingsPath(), data, 0644); err != nil {
		return fmt.Errorf("write settings: %w: %w", err, hwerr.ErrTransient)
	}
	return nil
}

// AddCustomProfile fails if id collides with an existing custom or
// built-in profile.
func (s *Store) AddCustomProfile(ctx context.Context, p Profile) error {
	if IsBuiltinID(p.ID) {
		return fmt.Errorf("profile id %q is reserved: %w", p.ID, hwerr.ErrArgumentInvalid)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := cfg.Profiles[p.ID]; exists {
		return fmt.Errorf("profile id %q already exists: %w", p.ID, hwerr.ErrArgumentInvalid)
	}
	cfg.Profiles[p.ID] = p
	return s.Save(ctx, cfg)
}

// UpdateCustomProfile matches by id and fails on built-in ids.
func (s *Store) UpdateCustomProfile(ctx context.Context, p Profile) error {
	if IsBuiltinID(p.ID) {
		return fmt.Errorf("profile id %q is built-in: %w", p.ID, hwerr.ErrArgumentInvalid)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := cfg.Profiles[p.ID]; !exists {
		return fmt.Errorf("profile id %q not found: %w", p.ID, hwerr.ErrArgumentInvalid)
	}
	cfg.Profiles[p.ID] = p
	return s.Save(ctx, cfg)
}

// DeleteCustomProfile refuses built-ins; any stateMap entry pointing
// at the deleted profile is rewritten to the custom template id
// before the delete commits.
func (s *Store) DeleteCustomProfile(ctx context.Context, id string) error {
	if IsBuiltinID(id) {
		return fmt.Errorf("profile id %q is built-in: %w", id, hwerr.ErrArgumentInvalid)
	}
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := cfg.Profiles[id]; !exists {
		return fmt.Errorf("profile id %q not found: %w", id, hwerr.ErrArgumentInvalid)
	}

	tmplID := CustomTemplate().ID
	if cfg.StateMap.PowerAC == id {
		cfg.StateMap.PowerAC = tmplID
	}
	if cfg.StateMap.PowerBAT == id {
		cfg.StateMap.PowerBAT = tmplID
	}
	if cfg.StateMap.PowerWC == id {
		cfg.StateMap.PowerWC = tmplID
	}

	delete(cfg.Profiles, id)
	return s.Save(ctx, cfg)
}

// GetAllProfiles concatenates the built-in catalog with the custom
// set, sorted by id for a stable RPC response ordering.
func (s *Store) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := append([]Profile{}, BuiltinCatalog(s.deviceModel)...)
	for _, p := range cfg.Profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
