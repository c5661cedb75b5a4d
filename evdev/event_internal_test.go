package evdev

import (
	"io"
	"syscall"
	"testing"
	"time"

	goevdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// chanReader hands out the events sent on evs and fails with err once
// evs is closed.
type chanReader struct {
	evs chan *goevdev.InputEvent
	err error
}

func (r *chanReader) ReadOne() (*goevdev.InputEvent, error) {
	ev, ok := <-r.evs
	if !ok {
		return nil, r.err
	}
	return ev, nil
}

func keyEvent(code uint16, value int32) *goevdev.InputEvent {
	return &goevdev.InputEvent{
		Time:  syscall.Timeval{Sec: 1700000000, Usec: 250000},
		Type:  goevdev.EvType(EvKey),
		Code:  goevdev.EvCode(code),
		Value: value,
	}
}

func TestEventFrom(t *testing.T) {
	ev := eventFrom(keyEvent(KeyUp, KeyPressed))
	assert.True(t, time.Unix(1700000000, 250*int64(time.Millisecond)).Equal(ev.Time))
	assert.Equal(t, Event{Time: ev.Time, Type: EvKey, Code: KeyUp, Value: KeyPressed}, ev)
}

func TestPumpDrain(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &chanReader{evs: make(chan *goevdev.InputEvent), err: io.EOF}
	p := startPump(r, 8)

	evs, err := p.drain()
	require.NoError(t, err)
	assert.Empty(t, evs)

	r.evs <- keyEvent(KeyW, KeyPressed)
	r.evs <- keyEvent(KeyW, KeyRepeated)
	r.evs <- keyEvent(KeyW, KeyReleased)
	var got []Event
	require.Eventually(t, func() bool {
		evs, err := p.drain()
		assert.NoError(t, err)
		got = append(got, evs...)
		return len(got) == 3
	}, time.Second, time.Millisecond)
	for i, v := range []int32{KeyPressed, KeyRepeated, KeyReleased} {
		assert.Equal(t, KeyW, got[i].Code)
		assert.Equal(t, v, got[i].Value)
	}

	r.evs <- keyEvent(KeyS, KeyPressed)
	close(r.evs)
	got = nil
	require.Eventually(t, func() bool {
		evs, err := p.drain()
		got = append(got, evs...)
		return err != nil
	}, time.Second, time.Millisecond)
	require.Len(t, got, 1, `events before the error are delivered`)
	assert.Equal(t, KeyS, got[0].Code)

	evs, err = p.drain()
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, evs)
	p.close()
}

func TestPumpCloseWhileFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &chanReader{evs: make(chan *goevdev.InputEvent), err: io.EOF}
	p := startPump(r, 1)
	r.evs <- keyEvent(KeyW, KeyPressed)
	r.evs <- keyEvent(KeyW, KeyReleased) // blocks the pump on the full buffer
	p.close()
	p.close()
	close(r.evs)
}

func TestPressed(t *testing.T) {
	state := goevdev.StateMap{
		goevdev.EvCode(KeyW):   true,
		goevdev.EvCode(KeyUp):  true,
		goevdev.EvCode(KeyS):   false,
		goevdev.EvCode(KeyEsc): true,
	}
	state[goevdev.EvCode(KeyMax+1)] = true
	assert.Equal(t, []uint16{KeyEsc, KeyW, KeyUp}, pressed(state))
	assert.Empty(t, pressed(nil))
}
