// Package keyboard provides the game controls from a linux input device.
package keyboard

import (
	"log/slog"

	"github.com/srlehn/fbpong/evdev"
	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/logx"
	"github.com/srlehn/fbpong/pong"
)

// EventSource is implemented by [evdev.Device].
type EventSource interface {
	Name() string
	HasEventType(typ uint16) bool
	HasKey(code uint16) bool
	Keys() []uint16
	ReadEvents() ([]evdev.Event, error)
	PressedKeys() ([]uint16, error)
}

var _ EventSource = (*evdev.Device)(nil)

// Keyboard tracks which of the mapped keys are held down.
type Keyboard struct {
	src     EventSource
	keys    KeyMap
	held    map[uint16]bool
	dropped bool
	logger  *slog.Logger
}

var (
	_ pong.Input          = (*Keyboard)(nil)
	_ logx.LoggerProvider = (*Keyboard)(nil)
)

// New returns the controls read from src. A nil key map assigns the
// lowest supported key codes with [AutoKeyMap].
func New(src EventSource, km KeyMap, logger *slog.Logger) (*Keyboard, error) {
	if src == nil {
		return nil, errors.NilParam()
	}
	if !src.HasEventType(evdev.EvKey) {
		return nil, errors.Errorf(`%w: %s`, consts.ErrNotKeyboard, src.Name())
	}
	if km == nil {
		var err error
		if km, err = AutoKeyMap(src.Keys()); err != nil {
			return nil, errors.WrapPrefix(err, src.Name(), 0)
		}
	} else {
		for code, k := range km {
			if !src.HasKey(code) {
				return nil, errors.Errorf(`%w: %s (%s) on %s`, consts.ErrKeyUnsupported, evdev.KeyName(code), k, src.Name())
			}
		}
	}
	kb := &Keyboard{
		src:    src,
		keys:   km,
		held:   make(map[uint16]bool, len(km)),
		logger: logger,
	}
	logx.Info(`key map`, kb, `device`, src.Name(), `keys`, km.String())
	if err := kb.resync(); err != nil {
		logx.Warn(`could not query key state`, kb, `error`, err)
	}
	return kb, nil
}

func (k *Keyboard) KeyMap() KeyMap { return k.keys }

// Poll consumes all pending events. After the kernel reports dropped
// events, everything up to the next SYN_REPORT is discarded and the key
// state is queried from the device.
func (k *Keyboard) Poll() error {
	if k == nil {
		return errors.NilReceiver()
	}
	evs, err := k.src.ReadEvents()
	for _, ev := range evs {
		switch {
		case ev.Type == evdev.EvSyn && ev.Code == evdev.SynDropped:
			logx.Debug(`input events dropped`, k)
			k.dropped = true
		case k.dropped:
			if ev.Type != evdev.EvSyn || ev.Code != evdev.SynReport {
				continue
			}
			k.dropped = false
			if errResync := k.resync(); errResync != nil {
				err = errors.Join(err, errResync)
			}
		case ev.Type == evdev.EvKey:
			if _, ok := k.keys[ev.Code]; ok {
				k.held[ev.Code] = ev.Value != evdev.KeyReleased
			}
		}
	}
	return errors.New(err)
}

func (k *Keyboard) resync() error {
	pressed, err := k.src.PressedKeys()
	if err != nil {
		return err
	}
	clear(k.held)
	for _, code := range pressed {
		if _, ok := k.keys[code]; ok {
			k.held[code] = true
		}
	}
	return nil
}

// Active reports whether any key bound to key is held down.
func (k *Keyboard) Active(key pong.Key) bool {
	if k == nil {
		return false
	}
	for code, held := range k.held {
		if held && k.keys[code] == key {
			return true
		}
	}
	return false
}

func (k *Keyboard) Logger() *slog.Logger {
	if k == nil {
		return nil
	}
	return k.logger
}
