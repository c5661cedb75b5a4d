package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/fbpong/evdev"
	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/keyboard"
	"github.com/srlehn/fbpong/pong"
)

func TestParseKeyMap(t *testing.T) {
	km, err := keyboard.ParseKeyMap(``)
	require.NoError(t, err)
	assert.Equal(t, keyboard.DefaultKeyMap(), km)

	km, err = keyboard.ParseKeyMap(`Auto`)
	require.NoError(t, err)
	assert.Nil(t, km)

	km, err = keyboard.ParseKeyMap(`w,s,up,down`)
	require.NoError(t, err)
	assert.Equal(t, keyboard.DefaultKeyMap(), km)

	km, err = keyboard.ParseKeyMap(`KEY_Q|kp8, a ,0x49,kp2|kp_1`)
	require.NoError(t, err)
	assert.Equal(t, []uint16{evdev.KeyQ, evdev.KeyKp8}, km.Codes(pong.P1Up))
	assert.Equal(t, []uint16{evdev.KeyA}, km.Codes(pong.P1Down))
	assert.Equal(t, []uint16{evdev.KeyKp9}, km.Codes(pong.P2Up))
	assert.Equal(t, []uint16{evdev.KeyKp1, evdev.KeyKp2}, km.Codes(pong.P2Down))
	assert.Equal(t, `q|kp8,a,kp9,kp1|kp2`, km.String())

	for _, bad := range []string{`w,s,up`, `w,s,up,down,x`, `w,,up,down`, `w,s,up,nosuchkey`, `w,w,up,down`} {
		_, err := keyboard.ParseKeyMap(bad)
		assert.Error(t, err, bad)
	}
	_, err = keyboard.ParseKeyMap(`w,s,up,nosuchkey`)
	assert.ErrorIs(t, err, consts.ErrUnknownKey)
}

func TestKeyMapString(t *testing.T) {
	assert.Equal(t, `w,s,up,down`, keyboard.DefaultKeyMap().String())
	assert.Equal(t, `auto`, keyboard.KeyMap(nil).String())
}

func TestAutoKeyMap(t *testing.T) {
	km, err := keyboard.AutoKeyMap([]uint16{30, 2, 2, 17, 1, 100})
	require.NoError(t, err)
	assert.Equal(t, keyboard.KeyMap{1: pong.P2Down, 2: pong.P1Up, 17: pong.P1Down, 30: pong.P2Up}, km)

	km, err = keyboard.AutoKeyMap([]uint16{evdev.KeyMax, 3, 0, 0xffff, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, keyboard.KeyMap{0: pong.P2Down, 1: pong.P1Up, 2: pong.P1Down, 3: pong.P2Up}, km)

	_, err = keyboard.AutoKeyMap([]uint16{1, 1, 1, 1})
	assert.ErrorIs(t, err, consts.ErrNotEnoughKeys)
	_, err = keyboard.AutoKeyMap([]uint16{1, 2, 3, evdev.KeyMax})
	assert.ErrorIs(t, err, consts.ErrNotEnoughKeys)
}
