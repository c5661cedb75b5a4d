package keyboard

import (
	"slices"
	"strings"

	"github.com/srlehn/fbpong/evdev"
	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/pong"
)

// KeyMap binds evdev key codes to game controls. Several codes may be
// bound to the same control.
type KeyMap map[uint16]pong.Key

// AutoKeys is the key map description that selects [AutoKeyMap].
const AutoKeys = `auto`

// DefaultKeyMap binds W/S to the left paddle and the arrow keys to the
// right one.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		evdev.KeyW:    pong.P1Up,
		evdev.KeyS:    pong.P1Down,
		evdev.KeyUp:   pong.P2Up,
		evdev.KeyDown: pong.P2Down,
	}
}

// autoOrder is the order in which the lowest supported key codes are
// assigned by AutoKeyMap.
var autoOrder = [...]pong.Key{pong.P2Down, pong.P1Up, pong.P1Down, pong.P2Up}

// AutoKeyMap assigns the four lowest of the supported key codes below
// KEY_MAX to P2Down, P1Up, P1Down and P2Up, in that order.
func AutoKeyMap(supported []uint16) (KeyMap, error) {
	codes := slices.DeleteFunc(slices.Clone(supported), func(c uint16) bool { return c >= evdev.KeyMax })
	slices.Sort(codes)
	codes = slices.Compact(codes)
	if len(codes) < len(autoOrder) {
		return nil, errors.Errorf(`%w: %d of %d`, consts.ErrNotEnoughKeys, len(codes), len(autoOrder))
	}
	km := make(KeyMap, len(autoOrder))
	for i, k := range autoOrder {
		km[codes[i]] = k
	}
	return km, nil
}

// ParseKeyMap parses a comma separated list of the keys for p1-up,
// p1-down, p2-up and p2-down, e.g. "w,s,up,down". Alternatives for one
// control are separated by "|" ("w|kp8,s|kp2,up,down").
// An empty string yields [DefaultKeyMap], "auto" yields a nil map.
func ParseKeyMap(s string) (KeyMap, error) {
	s = strings.TrimSpace(s)
	switch {
	case len(s) == 0:
		return DefaultKeyMap(), nil
	case strings.EqualFold(s, AutoKeys):
		return nil, nil
	}
	fields := strings.Split(s, `,`)
	if len(fields) != len(pong.Keys) {
		return nil, errors.Errorf(`key map %q: want %d comma separated keys, got %d`, s, len(pong.Keys), len(fields))
	}
	km := make(KeyMap, len(fields))
	for i, field := range fields {
		for _, name := range strings.Split(field, `|`) {
			code, err := evdev.ParseKey(name)
			if err != nil {
				return nil, errors.WrapPrefix(err, `key map `+pong.Keys[i].String(), 0)
			}
			if prev, ok := km[code]; ok {
				return nil, errors.Errorf(`key map: %s bound to both %s and %s`, evdev.KeyName(code), prev, pong.Keys[i])
			}
			km[code] = pong.Keys[i]
		}
	}
	return km, nil
}

// Codes returns the codes bound to k in ascending order.
func (km KeyMap) Codes(k pong.Key) []uint16 {
	var codes []uint16
	for code, key := range km {
		if key == k {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

// String formats the map the way ParseKeyMap reads it.
func (km KeyMap) String() string {
	if km == nil {
		return AutoKeys
	}
	fields := make([]string, 0, len(pong.Keys))
	for _, k := range pong.Keys {
		codes := km.Codes(k)
		names := make([]string, 0, len(codes))
		for _, code := range codes {
			names = append(names, strings.ToLower(strings.TrimPrefix(evdev.KeyName(code), `KEY_`)))
		}
		fields = append(fields, strings.Join(names, `|`))
	}
	return strings.Join(fields, `,`)
}
