// Copyright 2026 uccd contributors
// SPDX-License-Identifier: Apache-2.0

//go:build linux
// +build linux

package hwio

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/tuxedocomputers/uccd/internal/hwerr"
)

// Device path for the Clevo/Uniwill WMI character device exposed by
// the kernel module. Mirrors the convention used by the userspace
// control daemons this protocol was reverse engineered from.
const devicePath = "/dev/tuxedo_io"

// ioctl command numbers for the tuxedo_io character device. Each
// encodes direction/size/type/number the way linux/ioctl.h's _IOWR
// family does; values follow the kernel module's published ABI.
const (
	ioctlGetInterfaceID        = 0xC0046101
	ioctlGetModelID            = 0xC0046102
	ioctlSetEnableModeSet      = 0x40046103
	ioctlGetNumberFans         = 0xC0046110
	ioctlGetFansMinSpeed       = 0xC0046111
	ioctlGetFansOffAvailable   = 0xC0046112
	ioctlSetFansAuto           = 0x40046113
	ioctlSetFanSpeedPercent    = 0xC0086114
	ioctlGetFanSpeedPercent    = 0xC0086115
	ioctlGetFanTemperature     = 0xC0086116
	ioctlSetWebcam             = 0x40046120
	ioctlGetWebcam             = 0xC0046121
	ioctlGetODMProfiles        = 0xC0406130
	ioctlSetODMProfile         = 0x40406131
	ioctlGetODMDefaultProfile  = 0xC0406132
	ioctlGetNumberTDPs         = 0xC0046140
	ioctlGetTDPDescriptors     = 0xC0406141
	ioctlGetTDPMin             = 0xC0086142
	ioctlGetTDPMax             = 0xC0086143
	ioctlGetTDP                = 0xC0086144
	ioctlSetTDP                = 0x40086145
)

// fanArg mirrors the two-word argument struct the ioctl ABI uses for
// calls that need both an index and a value; the fan and TDP calls
// both use it.
type fanArg struct {
	Index uint32
	Value int32
}

// Real is the DeviceInterface backed by the kernel WMI character
// device. It opens the device once at construction and serializes all
// ioctl calls behind a mutex: the kernel driver holds no per-fd lock
// of its own, and concurrent ioctls from goroutines racing on fan
// writes have been observed to corrupt the embedded controller state
// on some Uniwill boards.
type Real struct {
	mu      sync.Mutex
	fd      int
	variant Variant
}

var _ DeviceInterface = (*Real)(nil)

// NewReal opens the WMI character device. The returned Real has not
// yet identified a variant; callers must call Identify before relying
// on Variant().
func NewReal() (*Real, error) {
	fd, err := unix.Open(devicePath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", devicePath, err, hwerr.ErrUnsupported)
	}
	return &Real{fd: fd}, nil
}

// Close releases the device file descriptor.
func (r *Real) Close() error {
	return unix.Close(r.fd)
}

func (r *Real) Identify(_ context.Context) (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf [64]byte
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), ioctlGetInterfaceID, uintptr(unsafe.Pointer(&buf))); errno == 0 {
		r.variant = VariantClevo
		return true, true
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), ioctlGetModelID, uintptr(unsafe.Pointer(&buf))); errno == 0 {
		r.variant = VariantUniwill
		return true, true
	}
	r.variant = VariantNone
	return true, false
}

func (r *Real) Variant() Variant { return r.variant }

func (r *Real) InterfaceIDStr(_ context.Context) (string, error) {
	return r.readString(ioctlGetInterfaceID, "interface id")
}

func (r *Real) ModelIDStr(_ context.Context) (string, error) {
	return r.readString(ioctlGetModelID, "model id")
}

func (r *Real) SetEnableModeSet(_ context.Context, enable bool) error {
	return r.writeInt(ioctlSetEnableModeSet, boolToInt32(enable), "set enable mode set")
}

// NumberFans is fixed per variant rather than queried: Clevo boards
// report a single packed 3-fan word, Uniwill boards expose 2
// independently addressable fans.
func (r *Real) NumberFans(_ context.Context) (int, error) {
	switch r.variant {
	case VariantClevo:
		return 3, nil
	case VariantUniwill:
		return 2, nil
	default:
		return 0, hwerr.ErrUnsupported
	}
}

func (r *Real) FansMinSpeed(_ context.Context) (int, error) {
	return r.readInt(ioctlGetFansMinSpeed, "fans min speed")
}

func (r *Real) FansOffAvailable(_ context.Context) (bool, error) {
	v, err := r.readInt(ioctlGetFansOffAvailable, "fans off available")
	return v != 0, err
}

func (r *Real) SetFansAuto(_ context.Context) error {
	return r.writeInt(ioctlSetFansAuto, 1, "set fans auto")
}

// SetFanSpeedPercent honors each variant's raw wire encoding. Clevo
// packs all three fans' raw bytes into one 32-bit word, so changing
// one fan requires reading back the other two raw values first and
// re-stitching the word; Uniwill addresses each fan with its own
// ioctl and a 0..0xc8 raw scale.
func (r *Real) SetFanSpeedPercent(_ context.Context, fanIdx, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("fan percent %d: %w", percent, hwerr.ErrArgumentInvalid)
	}
	switch r.variant {
	case VariantClevo:
		return r.setClevoFanSpeedPercent(fanIdx, percent)
	case VariantUniwill:
		raw := percentToRaw(percent, uniwillFanRawMax)
		return r.writeFanArg(ioctlSetFanSpeedPercent, fanIdx, raw, "set fan speed percent")
	default:
		return hwerr.ErrUnsupported
	}
}

func (r *Real) FanSpeedPercent(_ context.Context, fanIdx int) (int, error) {
	switch r.variant {
	case VariantClevo:
		raw, err := r.clevoFanRaw(fanIdx)
		if err != nil {
			return 0, err
		}
		return rawToPercent(raw, clevoFanRawMax), nil
	case VariantUniwill:
		raw, err := r.readFanArg(ioctlGetFanSpeedPercent, fanIdx, "fan speed percent")
		if err != nil {
			return 0, err
		}
		return rawToPercent(raw, uniwillFanRawMax), nil
	default:
		return 0, hwerr.ErrUnsupported
	}
}

// clevoFanRawMax and uniwillFanRawMax are each variant's raw scale
// ceiling: Clevo packs a full byte (0..0xff) per fan, Uniwill caps the
// raw value at 0xc8 (200).
const (
	clevoFanRawMax   = 0xff
	uniwillFanRawMax = 0xc8
)

// percentToRaw/rawToPercent round the same way the firmware does:
// ceiling for any nonzero percentage so a 1% request never truncates
// to a stalled fan.
func percentToRaw(percent, rawMax int) int {
	if percent <= 0 {
		return 0
	}
	raw := (percent*rawMax + 99) / 100
	if raw > rawMax {
		raw = rawMax
	}
	return raw
}

func rawToPercent(raw, rawMax int) int {
	if raw <= 0 {
		return 0
	}
	pct := (raw*100 + rawMax - 1) / rawMax
	if pct > 100 {
		pct = 100
	}
	return pct
}

// clevoFanWord is the packed 32-bit argument Clevo boards use for
// both reading and writing all three fans' raw bytes at once.
type clevoFanWord struct {
	Raw uint32
}

func (r *Real) clevoFanRaw(fanIdx int) (int, error) {
	if fanIdx < 0 || fanIdx > 2 {
		return 0, fmt.Errorf("clevo fan index %d: %w", fanIdx, hwerr.ErrArgumentInvalid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var word clevoFanWord
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), ioctlGetFanSpeedPercent, uintptr(unsafe.Pointer(&word))); errno != 0 {
		return 0, fmt.Errorf("clevo fan word read: %w: %w", errno, classify(errno))
	}
	return int((word.Raw >> (8 * uint(fanIdx))) & 0xff), nil
}

func (r *Real) setClevoFanSpeedPercent(fanIdx, percent int) error {
	if fanIdx < 0 || fanIdx > 2 {
		return fmt.Errorf("clevo fan index %d: %w", fanIdx, hwerr.ErrArgumentInvalid)
	}
	raw := uint32(percentToRaw(percent, clevoFanRawMax))

	r.mu.Lock()
	defer r.mu.Unlock()

	var word clevoFanWord
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), ioctlGetFanSpeedPercent, uintptr(unsafe.Pointer(&word))); errno != 0 {
		return fmt.Errorf("clevo fan word read: %w: %w", errno, classify(errno))
	}

	shift := 8 * uint(fanIdx)
	word.Raw = (word.Raw &^ (0xff << shift)) | (raw << shift)

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), ioctlSetFanSpeedPercent, uintptr(unsafe.Pointer(&word))); errno != 0 {
		return fmt.Errorf("clevo fan word write: %w: %w", errno, classify(errno))
	}
	return nil
}

func (r *Real) FanTemperature(_ context.Context, fanIdx int) (int, error) {
	return r.readFanArg(ioctlGetFanTemperature, fanIdx, "fan temperature")
}

func (r *Real) SetWebcam(_ context.Context, enable bool) error {
	return r.writeInt(ioctlSetWebcam, boolToInt32(enable), "set webcam")
}

func (r *Real) Webcam(_ context.Context) (bool, error) {
	v, err := r.readInt(ioctlGetWebcam, "webcam")
	return v != 0, err
}

func (r *Real) AvailableODMPerformanceProfiles(_ context.Context) ([]string, error) {
	s, err := r.readString(ioctlGetODMProfiles, "available odm performance profiles")
	if err != nil {
		return nil, err
	}
	return splitNullSeparated(s), nil
}

func (r *Real) SetODMPerformanceProfile(_ context.Context, name string) error {
	return r.writeString(ioctlSetODMProfile, name, "set odm performance profile")
}

func (r *Real) DefaultODMPerformanceProfile(_ context.Context) (string, error) {
	return r.readString(ioctlGetODMDefaultProfile, "default odm performance profile")
}

func (r *Real) NumberTDPs(_ context.Context) (int, error) {
	return r.readInt(ioctlGetNumberTDPs, "number tdps")
}

func (r *Real) TDPDescriptors(_ context.Context) ([]string, error) {
	s, err := r.readString(ioctlGetTDPDescriptors, "tdp descriptors")
	if err != nil {
		return nil, err
	}
	return splitNullSeparated(s), nil
}

func (r *Real) TDPMin(_ context.Context, index int) (int, error) {
	return r.readFanArg(ioctlGetTDPMin, index, "tdp min")
}

func (r *Real) TDPMax(_ context.Context, index int) (int, error) {
	return r.readFanArg(ioctlGetTDPMax, index, "tdp max")
}

func (r *Real) TDP(_ context.Context, index int) (int, error) {
	return r.readFanArg(ioctlGetTDP, index, "tdp")
}

func (r *Real) SetTDP(_ context.Context, index, watts int) error {
	return r.writeFanArg(ioctlSetTDP, index, watts, "set tdp")
}

// --- ioctl plumbing ---

func (r *Real) readInt(cmd uintptr, op string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var v int32
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), cmd, uintptr(unsafe.Pointer(&v))); errno != 0 {
		return 0, fmt.Errorf("%s: %w: %w", op, errno, classify(errno))
	}
	return int(v), nil
}

func (r *Real) writeInt(cmd uintptr, v int32, op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), cmd, uintptr(unsafe.Pointer(&v))); errno != 0 {
		return fmt.Errorf("%s: %w: %w", op, errno, classify(errno))
	}
	return nil
}

func (r *Real) readFanArg(cmd uintptr, index int, op string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	arg := fanArg{Index: uint32(index)}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), cmd, uintptr(unsafe.Pointer(&arg))); errno != 0 {
		return 0, fmt.Errorf("%s[%d]: %w: %w", op, index, errno, classify(errno))
	}
	return int(arg.Value), nil
}

func (r *Real) writeFanArg(cmd uintptr, index, value int, op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	arg := fanArg{Index: uint32(index), Value: int32(value)}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), cmd, uintptr(unsafe.Pointer(&arg))); errno != 0 {
		return fmt.Errorf("%s[%d]=%d: %w: %w", op, index, value, errno, classify(errno))
	}
	return nil
}

func (r *Real) readString(cmd uintptr, op string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf [64]byte
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), cmd, uintptr(unsafe.Pointer(&buf))); errno != 0 {
		return "", fmt.Errorf("%s: %w: %w", op, errno, classify(errno))
	}
	return cString(buf[:]), nil
}

func (r *Real) writeString(cmd uintptr, s string, op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf [64]byte
	copy(buf[:len(buf)-1], s)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(r.fd), cmd, uintptr(unsafe.Pointer(&buf))); errno != 0 {
		return fmt.Errorf("%s: %w: %w", op, errno, classify(errno))
	}
	return nil
}

// classify maps an ioctl errno to the daemon's hardware error
// taxonomy: ENOTTY/ENODEV/ENOSYS mean the feature is absent, EBUSY/
// EAGAIN mean a transient contention worth retrying, anything else is
// treated as unsupported too rather than surfaced as a raw errno.
func classify(errno unix.Errno) error {
	switch errno {
	case unix.ENOTTY, unix.ENODEV, unix.ENOSYS, unix.EINVAL:
		return hwerr.ErrUnsupported
	case unix.EBUSY, unix.EAGAIN:
		return hwerr.ErrTransient
	default:
		return hwerr.ErrUnsupported
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func splitNullSeparated(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\x00' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

