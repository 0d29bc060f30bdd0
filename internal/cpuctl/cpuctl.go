// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

// Package cpuctl drives per-core cpufreq, EPP and online-core state
// under /sys/devices/system/cpu, the way internal/hwio drives the WMI
// ioctl device: typed accessors over internal/sysfs, every failure
// absorbed into the internal/hwerr taxonomy rather than a raw error.
package cpuctl

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
	"github.com/tuxedocomputers/uccd/internal/sysfs"
)

const cpuRoot = "/sys/devices/system/cpu"

// ScalingDriver classifies the kernel's active cpufreq driver.
type ScalingDriver int

const (
	DriverUnknown ScalingDriver = iota
	DriverACPICpufreq
	DriverIntelPstate
	DriverAMDPstate
	DriverAMDPstateEPP
)

func (d ScalingDriver) String() string {
	switch d {
	case DriverACPICpufreq:
		return "acpi_cpufreq"
	case DriverIntelPstate:
		return "intel_pstate"
	case DriverAMDPstate:
		return "amd_pstate"
	case DriverAMDPstateEPP:
		return "amd_pstate_epp"
	default:
		return "unknown"
	}
}

// ClassifyScalingDriver maps the raw scaling_driver sysfs string onto
// the driver enum the rest of the package reasons about.
func ClassifyScalingDriver(name string) ScalingDriver {
	switch name {
	case "acpi-cpufreq", "acpi_cpufreq":
		return DriverACPICpufreq
	case "intel_pstate":
		return DriverIntelPstate
	case "amd-pstate", "amd_pstate":
		return DriverAMDPstate
	case "amd-pstate-epp", "amd_pstate_epp":
		return DriverAMDPstateEPP
	default:
		return DriverUnknown
	}
}

// Sentinel frequency values accepted by SetGovernorScalingMaxFrequency
// and SetGovernorScalingMinFrequency.
const (
	MaxFreqReduced = -1 // median of available frequencies
	MinFreqMax     = -2 // pin min to the hardware max
)

// core holds every accessor for one logical CPU.
type core struct {
	id                  int
	online              sysfs.Node
	curFreq             sysfs.Node
	minFreq             sysfs.Node
	maxFreq             sysfs.Node
	availFreqs          sysfs.Node
	governor            sysfs.Node
	scalingDriver       sysfs.Node
	eppPreference       sysfs.Node
	eppAvailable        sysfs.Node
	cpuinfoMinFreq      sysfs.Node
	cpuinfoMaxFreq      sysfs.Node
}

// Controller manages the cpufreq/online surface for every core
// discovered at startup.
type Controller struct {
	cores     []core
	noTurbo   sysfs.Node
	boost     sysfs.Node
}

// Discover probes /sys/devices/system/cpu/possible ∩ present and
// builds accessors for the resulting core set. Every core gets an
// online accessor, but core 0's is never used: UseCores and
// OnlineCoreCount skip it, since the kernel exposes no online switch
// for it.
func Discover(ctx context.Context) (*Controller, error) {
	possible, ok := parseCPURange(sysfs.At(cpuRoot + "/possible"), ctx)
	if !ok {
		return nil, fmt.Errorf("read cpu possible list: %w", hwerr.ErrUnsupported)
	}
	present, ok := parseCPURange(sysfs.At(cpuRoot + "/present"), ctx)
	if !ok {
		return nil, fmt.Errorf("read cpu present list: %w", hwerr.ErrUnsupported)
	}

	ids := intersect(possible, present)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no cpus in possible ∩ present: %w", hwerr.ErrUnsupported)
	}

	c := &Controller{
		noTurbo: sysfs.At("/sys/devices/system/cpu/intel_pstate/no_turbo"),
		boost:   sysfs.At(cpuRoot + "/cpufreq/boost"),
	}
	for _, id := range ids {
		base := fmt.Sprintf("%s/cpu%d", cpuRoot, id)
		c.cores = append(c.cores, core{
			id:             id,
			online:         sysfs.At(base + "/online"),
			curFreq:        sysfs.At(base + "/cpufreq/scaling_cur_freq"),
			minFreq:        sysfs.At(base + "/cpufreq/scaling_min_freq"),
			maxFreq:        sysfs.At(base + "/cpufreq/scaling_max_freq"),
			availFreqs:     sysfs.At(base + "/cpufreq/scaling_available_frequencies"),
			governor:       sysfs.At(base + "/cpufreq/scaling_governor"),
			scalingDriver:  sysfs.At(base + "/cpufreq/scaling_driver"),
			eppPreference:  sysfs.At(base + "/cpufreq/energy_performance_preference"),
			eppAvailable:   sysfs.At(base + "/cpufreq/energy_performance_available_preferences"),
			cpuinfoMinFreq: sysfs.At(base + "/cpufreq/cpuinfo_min_freq"),
			cpuinfoMaxFreq: sysfs.At(base + "/cpufreq/cpuinfo_max_freq"),
		})
	}
	return c, nil
}

// NumberCores reports how many logical CPUs were discovered.
func (c *Controller) NumberCores() int { return len(c.cores) }

// UseCores brings cores [1, n) online and takes [n, len) offline; core
// 0 has no online switch and is always active.
func (c *Controller) UseCores(ctx context.Context, n int) error {
	if n < 1 || n > len(c.cores) {
		return fmt.Errorf("use cores %d out of [1,%d]: %w", n, len(c.cores), hwerr.ErrArgumentInvalid)
	}
	for i := 1; i < len(c.cores); i++ {
		want := i < n
		if !c.cores[i].online.WriteBool(ctx, want) {
			return fmt.Errorf("set cpu%d online=%v: %w", c.cores[i].id, want, hwerr.ErrTransient)
		}
	}
	return nil
}

func (c *Controller) coreAt(idx int) (*core, error) {
	if idx < 0 || idx >= len(c.cores) {
		return nil, fmt.Errorf("core index %d: %w", idx, hwerr.ErrArgumentInvalid)
	}
	return &c.cores[idx], nil
}

// GetScalingDriverEnum classifies the scaling driver active on the
// given core.
func (c *Controller) GetScalingDriverEnum(ctx context.Context, idx int) (ScalingDriver, error) {
	cc, err := c.coreAt(idx)
	if err != nil {
		return DriverUnknown, err
	}
	name, ok := cc.scalingDriver.ReadString(ctx)
	if !ok {
		return DriverUnknown, fmt.Errorf("read scaling driver: %w", hwerr.ErrUnsupported)
	}
	return ClassifyScalingDriver(name), nil
}

// SetGovernorScalingMinFrequency clamps to [cpuinfo_min, cpuinfo_max],
// snaps to the nearest available frequency when the kernel publishes
// one, and honors the MinFreqMax sentinel ("pin to hardware max").
func (c *Controller) SetGovernorScalingMinFrequency(ctx context.Context, idx, v int) error {
	cc, err := c.coreAt(idx)
	if err != nil {
		return err
	}
	cmin, cmax, ok := cpuinfoRange(ctx, cc)
	if !ok {
		return fmt.Errorf("read cpuinfo freq range: %w", hwerr.ErrUnsupported)
	}

	target := v
	if v == MinFreqMax {
		target = cmax
	}
	target = clamp(target, cmin, cmax)
	if avail, ok := cc.availFreqs.ReadIntList(ctx); ok && len(avail) > 0 {
		target = nearest(avail, target)
	}
	if !cc.minFreq.WriteInt(ctx, target) {
		return fmt.Errorf("write scaling_min_freq: %w", hwerr.ErrTransient)
	}
	return nil
}

// SetGovernorScalingMaxFrequency mirrors SetGovernorScalingMinFrequency,
// additionally implementing the MaxFreqReduced sentinel: pick the
// median of the available frequencies, except on a boost-capable
// acpi_cpufreq system where the hardware max is kept and boost is
// disabled instead.
func (c *Controller) SetGovernorScalingMaxFrequency(ctx context.Context, idx, v int) error {
	cc, err := c.coreAt(idx)
	if err != nil {
		return err
	}
	cmin, cmax, ok := cpuinfoRange(ctx, cc)
	if !ok {
		return fmt.Errorf("read cpuinfo freq range: %w", hwerr.ErrUnsupported)
	}

	avail, hasAvail := cc.availFreqs.ReadIntList(ctx)

	target := v
	if v == MaxFreqReduced {
		driver := ClassifyScalingDriver(readOr(ctx, cc.scalingDriver, ""))
		if driver == DriverACPICpufreq && c.boost.IsAvailable(ctx) {
			target = cmax
			_ = c.boost.WriteBool(ctx, false)
		} else if hasAvail && len(avail) > 0 {
			target = median(avail)
		} else {
			target = (cmin + cmax) / 2
		}
	}
	target = clamp(target, cmin, cmax)
	if hasAvail && len(avail) > 0 {
		target = nearest(avail, target)
	}
	if !cc.maxFreq.WriteInt(ctx, target) {
		return fmt.Errorf("write scaling_max_freq: %w", hwerr.ErrTransient)
	}
	return nil
}

// SetNoTurbo writes the shared (not per-core) intel_pstate no_turbo
// toggle. A no-op (returning ErrUnsupported) on CPUs without
// intel_pstate, where turbo is instead disabled via the boost sysctl
// from SetGovernorScalingMaxFrequency's MaxFreqReduced path.
func (c *Controller) SetNoTurbo(ctx context.Context, disable bool) error {
	if !c.noTurbo.IsAvailable(ctx) {
		return fmt.Errorf("no_turbo not available: %w", hwerr.ErrUnsupported)
	}
	if !c.noTurbo.WriteBool(ctx, disable) {
		return fmt.Errorf("write no_turbo: %w", hwerr.ErrTransient)
	}
	return nil
}

// NoTurbo reads back the shared no_turbo toggle.
func (c *Controller) NoTurbo(ctx context.Context) (bool, error) {
	v, ok := c.noTurbo.ReadBool(ctx)
	if !ok {
		return false, fmt.Errorf("read no_turbo: %w", hwerr.ErrUnsupported)
	}
	return v, nil
}

// GovernorAt reads back core idx's current governor.
func (c *Controller) GovernorAt(ctx context.Context, idx int) (string, error) {
	cc, err := c.coreAt(idx)
	if err != nil {
		return "", err
	}
	v, ok := cc.governor.ReadString(ctx)
	if !ok {
		return "", fmt.Errorf("read scaling_governor: %w", hwerr.ErrUnsupported)
	}
	return v, nil
}

// EPPAt reads back core idx's current energy_performance_preference.
func (c *Controller) EPPAt(ctx context.Context, idx int) (string, error) {
	cc, err := c.coreAt(idx)
	if err != nil {
		return "", err
	}
	v, ok := cc.eppPreference.ReadString(ctx)
	if !ok {
		return "", fmt.Errorf("read energy_performance_preference: %w", hwerr.ErrUnsupported)
	}
	return v, nil
}

// FrequencyLimits is core idx's hardware and currently configured
// frequency envelope, backing the RPC surface's
// `GetCpuFrequencyLimitsJSON`.
type FrequencyLimits struct {
	ScalingMinFreq int `json:"scalingMinFreq"`
	ScalingMaxFreq int `json:"scalingMaxFreq"`
	CpuinfoMinFreq int `json:"cpuinfoMinFreq"`
	CpuinfoMaxFreq int `json:"cpuinfoMaxFreq"`
}

// FrequencyLimitsAt reads back core idx's scaling and hardware
// frequency bounds.
func (c *Controller) FrequencyLimitsAt(ctx context.Context, idx int) (FrequencyLimits, error) {
	cc, err := c.coreAt(idx)
	if err != nil {
		return FrequencyLimits{}, err
	}
	var l FrequencyLimits
	l.ScalingMinFreq, _ = cc.minFreq.ReadInt(ctx)
	l.ScalingMaxFreq, _ = cc.maxFreq.ReadInt(ctx)
	l.CpuinfoMinFreq, _ = cc.cpuinfoMinFreq.ReadInt(ctx)
	l.CpuinfoMaxFreq, _ = cc.cpuinfoMaxFreq.ReadInt(ctx)
	return l, nil
}

// OnlineCoreCount counts cores whose online file reads true, plus
// core 0 which has no online switch and is always counted.
func (c *Controller) OnlineCoreCount(ctx context.Context) int {
	n := 1
	for i := 1; i < len(c.cores); i++ {
		if v, ok := c.cores[i].online.ReadBool(ctx); ok && v {
			n++
		}
	}
	return n
}

// SetGovernor writes name to core idx's scaling_governor. The only
// validation is rejecting an empty name: name is not checked against
// scaling_available_governors (the list AvailableGovernors reads and
// DefaultGovernor/PerformanceGovernor choose from).
func (c *Controller) SetGovernor(ctx context.Context, idx int, name string) error {
	cc, err := c.coreAt(idx)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("empty governor name: %w", hwerr.ErrArgumentInvalid)
	}
	if !cc.governor.WriteString(ctx, name) {
		return fmt.Errorf("write scaling_governor: %w", hwerr.ErrTransient)
	}
	return nil
}

// SetEnergyPerformancePreference writes only if name is in the per-
// core available list.
func (c *Controller) SetEnergyPerformancePreference(ctx context.Context, idx int, name string) error {
	cc, err := c.coreAt(idx)
	if err != nil {
		return err
	}
	avail, ok := cc.eppAvailable.ReadStringList(ctx)
	if !ok {
		return fmt.Errorf("read epp available preferences: %w", hwerr.ErrUnsupported)
	}
	if !contains(avail, name) {
		return fmt.Errorf("epp preference %q not available: %w", name, hwerr.ErrArgumentInvalid)
	}
	if !cc.eppPreference.WriteString(ctx, name) {
		return fmt.Errorf("write energy_performance_preference: %w", hwerr.ErrTransient)
	}
	return nil
}

// DefaultGovernor implements the default-governor policy: the
// kernel-mandated "powersave" for intel_pstate/amd_pstate_epp, else
// the first available of {ondemand, schedutil, conservative}.
func DefaultGovernor(ctx context.Context, cc AvailableGovernorsReader, driver ScalingDriver) (string, bool) {
	if driver == DriverIntelPstate || driver == DriverAMDPstateEPP {
		return "powersave", true
	}
	return firstAvailable(ctx, cc, "ondemand", "schedutil", "conservative")
}

// PerformanceGovernor implements the performance-governor policy:
// "performance" for intel_pstate/amd_pstate_epp, else the first
// available of {performance}.
func PerformanceGovernor(ctx context.Context, cc AvailableGovernorsReader, driver ScalingDriver) (string, bool) {
	if driver == DriverIntelPstate || driver == DriverAMDPstateEPP {
		return "performance", true
	}
	return firstAvailable(ctx, cc, "performance")
}

// AvailableGovernorsReader is satisfied by anything exposing the
// scaling_available_governors list; kept minimal so DefaultGovernor/
// PerformanceGovernor don't need a full Controller to be tested.
type AvailableGovernorsReader interface {
	AvailableGovernors(ctx context.Context) ([]string, bool)
}

// AvailableGovernors reads scaling_available_governors for core 0.
func (c *Controller) AvailableGovernors(ctx context.Context) ([]string, bool) {
	if len(c.cores) == 0 {
		return nil, false
	}
	base := fmt.Sprintf("%s/cpu%d/cpufreq/scaling_available_governors", cpuRoot, c.cores[0].id)
	return sysfs.At(base).ReadStringList(ctx)
}

func firstAvailable(ctx context.Context, r AvailableGovernorsReader, candidates ...string) (string, bool) {
	avail, ok := r.AvailableGovernors(ctx)
	if !ok {
		return "", false
	}
	for _, c := range candidates {
		if contains(avail, c) {
			return c, true
		}
	}
	return "", false
}

func cpuinfoRange(ctx context.Context, cc *core) (min, max int, ok bool) {
	min, ok1 := cc.cpuinfoMinFreq.ReadInt(ctx)
	max, ok2 := cc.cpuinfoMaxFreq.ReadInt(ctx)
	return min, max, ok1 && ok2
}

func readOr(ctx context.Context, n sysfs.Node, fallback string) string {
	if s, ok := n.ReadString(ctx); ok {
		return s
	}
	return fallback
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nearest(avail []int, target int) int {
	best := avail[0]
	bestDiff := absInt(best - target)
	for _, v := range avail[1:] {
		if d := absInt(v - target); d < bestDiff {
			best, bestDiff = v, d
		}
	}
	return best
}

func median(values []int) int {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func intersect(a, b []int) []int {
	set := make(map[int]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []int
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// parseCPURange parses the kernel's cpulist range syntax
// ("0-3,6,8-9") used by .../cpu/possible and .../cpu/present.
func parseCPURange(n sysfs.Node, ctx context.Context) ([]int, bool) {
	s, ok := n.ReadString(ctx)
	if !ok {
		return nil, false
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, isRange := splitRange(part); isRange {
			for v := lo; v <= hi; v++ {
				out = append(out, v)
			}
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func splitRange(s string) (lo, hi int, ok bool) {
	i := strings.IndexByte(s, '-')
	if i < 0 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(s[:i])
	hi, err2 := strconv.Atoi(s[i+1:])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
