package evdev

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	goevdev "github.com/holoplot/go-evdev"
	"github.com/iancoleman/strcase"

	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
)

// key codes used as defaults
const (
	KeyReserved  = uint16(goevdev.KEY_RESERVED)
	KeyEsc       = uint16(goevdev.KEY_ESC)
	Key1         = uint16(goevdev.KEY_1)
	KeyQ         = uint16(goevdev.KEY_Q)
	KeyW         = uint16(goevdev.KEY_W)
	KeyA         = uint16(goevdev.KEY_A)
	KeyS         = uint16(goevdev.KEY_S)
	KeyLeftshift = uint16(goevdev.KEY_LEFTSHIFT)
	KeyKp1       = uint16(goevdev.KEY_KP1)
	KeyKp2       = uint16(goevdev.KEY_KP2)
	KeyKp8       = uint16(goevdev.KEY_KP8)
	KeyKp9       = uint16(goevdev.KEY_KP9)
	KeyF12       = uint16(goevdev.KEY_F12)
	KeyUp        = uint16(goevdev.KEY_UP)
	KeyDown      = uint16(goevdev.KEY_DOWN)
	KeyMax       = uint16(goevdev.KEY_MAX)
)

// KeyName returns the kernel name of a key code, e.g. "KEY_UP". Of
// several names for one code the first is used.
func KeyName(code uint16) string {
	if name, ok := goevdev.KEYToString[goevdev.EvCode(code)]; ok && len(name) > 0 {
		name, _, _ = strings.Cut(name, `/`)
		return name
	}
	return fmt.Sprintf(`KEY_0x%03x`, code)
}

var keyCodesByNorm = func() map[string]uint16 {
	m := make(map[string]uint16, len(goevdev.KEYFromString))
	for name, code := range goevdev.KEYFromString {
		if uint16(code) > KeyMax {
			continue
		}
		m[normKeyName(name)] = uint16(code)
	}
	return m
}()

func normKeyName(s string) string {
	s = strcase.ToScreamingSnake(strings.TrimSpace(s))
	return strings.ReplaceAll(s, `_`, ``)
}

// ParseKey resolves a key given by kernel name ("KEY_UP"), by a short
// name in any case style ("up", "leftShift", "left-shift", "dpad_up") or by
// its numeric code ("103", "0x67"). Bare names are looked up as KEY_ first,
// then as BTN_, so "1" is KEY_1 and not code 1.
func ParseKey(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, errors.Errorf(`%w: empty`, consts.ErrUnknownKey)
	}
	n := normKeyName(s)
	for _, cand := range []string{n, `KEY` + n, `BTN` + n} {
		if code, ok := keyCodesByNorm[cand]; ok {
			return code, nil
		}
	}
	if code, err := strconv.ParseUint(s, 0, 16); err == nil {
		if code > uint64(KeyMax) {
			return 0, errors.Errorf(`%w: code %d out of range`, consts.ErrUnknownKey, code)
		}
		return uint16(code), nil
	}
	return 0, errors.Errorf(`%w: %q`, consts.ErrUnknownKey, s)
}

// KnownKeys returns all key codes with a name, in ascending order.
func KnownKeys() []uint16 {
	codes := make([]uint16, 0, len(goevdev.KEYToString))
	for code := range goevdev.KEYToString {
		if uint16(code) <= KeyMax {
			codes = append(codes, uint16(code))
		}
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}
