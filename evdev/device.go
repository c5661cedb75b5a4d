// Package evdev reads linux input event devices (/dev/input/event*).
package evdev

import (
	"fmt"
	"log/slog"
	"slices"

	goevdev "github.com/holoplot/go-evdev"

	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/logx"
)

// ID mirrors struct input_id.
type ID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

func (id ID) String() string {
	return fmt.Sprintf(`bus 0x%04x vendor 0x%04x product 0x%04x version 0x%04x`,
		id.BusType, id.Vendor, id.Product, id.Version)
}

// Device is an opened input event device.
//
// Events are read in the background and collected by ReadEvents without
// blocking. When the background buffer is full, reading stops and the
// kernel reports the overflow with SYN_DROPPED.
type Device struct {
	path    string
	dev     *goevdev.InputDevice
	name    string
	id      ID
	version string
	types   []uint16
	keys    []uint16
	grabbed bool
	events  *pump
	logger  *slog.Logger
}

var _ logx.LoggerProvider = (*Device)(nil)

const eventBuffer = 256

// Open opens the event device at path and queries its capabilities.
func Open(path string, opts ...Option) (_ *Device, err error) {
	if len(path) == 0 {
		path = consts.DefaultInput
	}
	d := &Device{path: path}
	if err := d.SetOptions(opts...); err != nil {
		return nil, err
	}
	d.dev, err = goevdev.Open(path)
	if err != nil {
		return nil, errors.WrapPrefix(err, `could not open input device `+path, 0)
	}
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()

	if d.name, err = d.dev.Name(); err != nil {
		return nil, errors.WrapPrefix(err, `EVIOCGNAME`, 0)
	}
	if id, err := d.dev.InputID(); err != nil {
		logx.Debug(`EVIOCGID failed`, d, `device`, path, `error`, err)
	} else {
		d.id = ID{BusType: id.BusType, Vendor: id.Vendor, Product: id.Product, Version: id.Version}
	}
	major, minor, micro := d.dev.DriverVersion()
	d.version = fmt.Sprintf(`%d.%d.%d`, major, minor, micro)

	for _, typ := range d.dev.CapableTypes() {
		d.types = append(d.types, uint16(typ))
	}
	slices.Sort(d.types)
	if d.HasEventType(EvKey) {
		for _, code := range d.dev.CapableEvents(goevdev.EV_KEY) {
			if uint16(code) <= KeyMax {
				d.keys = append(d.keys, uint16(code))
			}
		}
		slices.Sort(d.keys)
	}

	d.events = startPump(d.dev, eventBuffer)
	logx.Info(`input device opened`, d, `device`, path, `name`, d.name)
	return d, nil
}

func (d *Device) Path() string { return d.path }
func (d *Device) Name() string { return d.name }
func (d *Device) ID() ID       { return d.id }

// Version is the evdev driver version, e.g. "1.0.1".
func (d *Device) Version() string { return d.version }

// HasEventType reports whether the device emits events of type typ.
func (d *Device) HasEventType(typ uint16) bool {
	if d == nil {
		return false
	}
	_, ok := slices.BinarySearch(d.types, typ)
	return ok
}

// EventTypes returns the supported event types in ascending order.
func (d *Device) EventTypes() []uint16 {
	if d == nil {
		return nil
	}
	return slices.Clone(d.types)
}

// HasKey reports whether the device can emit key code code.
func (d *Device) HasKey(code uint16) bool {
	if d == nil {
		return false
	}
	_, ok := slices.BinarySearch(d.keys, code)
	return ok
}

// Keys returns the supported key codes in ascending order.
func (d *Device) Keys() []uint16 {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// PressedKeys queries the kernel for the keys currently held down.
func (d *Device) PressedKeys() ([]uint16, error) {
	if d == nil || d.dev == nil {
		return nil, errors.New(consts.ErrClosed)
	}
	state, err := d.dev.State(goevdev.EV_KEY)
	if err != nil {
		return nil, errors.WrapPrefix(err, `EVIOCGKEY`, 0)
	}
	return pressed(state), nil
}

func pressed(state goevdev.StateMap) []uint16 {
	var codes []uint16
	for code, down := range state {
		if down && uint16(code) <= KeyMax {
			codes = append(codes, uint16(code))
		}
	}
	slices.Sort(codes)
	return codes
}

// Grab takes exclusive access to the device: while grabbed, its events
// don't reach the console or other readers.
func (d *Device) Grab(grab bool) error {
	if d == nil || d.dev == nil {
		return errors.New(consts.ErrClosed)
	}
	if grab == d.grabbed {
		return nil
	}
	var err error
	if grab {
		err = d.dev.Grab()
	} else {
		err = d.dev.Ungrab()
	}
	if err != nil {
		return errors.WrapPrefix(err, `EVIOCGRAB`, 0)
	}
	d.grabbed = grab
	logx.Debug(`input device grab`, d, `device`, d.path, `grabbed`, grab)
	return nil
}

// ReadEvents returns all events that arrived since the last call without
// blocking. A read error is returned after the events preceding it and
// again on every later call.
func (d *Device) ReadEvents() ([]Event, error) {
	if d == nil || d.dev == nil {
		return nil, errors.New(consts.ErrClosed)
	}
	evs, err := d.events.drain()
	if err != nil {
		return evs, errors.WrapPrefix(err, `read `+d.path, 0)
	}
	return evs, nil
}

// Close releases a grab and closes the device, which ends the background
// reader.
func (d *Device) Close() error {
	if d == nil || d.dev == nil {
		return nil
	}
	var errs []error
	if d.events != nil {
		d.events.close()
	}
	if d.grabbed {
		errs = append(errs, d.Grab(false))
	}
	errs = append(errs, errors.New(d.dev.Close()))
	d.dev = nil
	return errors.Join(errs...)
}

func (d *Device) Logger() *slog.Logger {
	if d == nil {
		return nil
	}
	return d.logger
}
