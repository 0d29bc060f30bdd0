// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

package hwmonitor

import (
	"os"
	"path/filepath"
	"strings"
)

// findHwmonByName returns the sysfs directories of every
// /sys/class/hwmon/hwmonN whose "name" file equals name, in
// directory-name (lexical) order, so hwmon10 sorts before hwmon2. AMD laptops expose both the integrated and
// discrete GPU under the "amdgpu" hwmon name; callers distinguish them
// by discovery order (first is the iGPU, second the dGPU), matching
// the PCI enumeration order the kernel uses.
func findHwmonByName(name string) []string {
	entries, err := os.ReadDir("/sys/class/hwmon")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		dir := filepath.Join("/sys/class/hwmon", e.Name())
		raw, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(raw)) == name {
			out = append(out, dir)
		}
	}
	return out
}
