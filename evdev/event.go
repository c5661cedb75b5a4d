package evdev

import (
	"fmt"
	"sync"
	"time"

	goevdev "github.com/holoplot/go-evdev"
)

// event types
const (
	EvSyn = uint16(goevdev.EV_SYN)
	EvKey = uint16(goevdev.EV_KEY)
)

// EV_SYN codes
const (
	SynReport  = uint16(goevdev.SYN_REPORT)
	SynDropped = uint16(goevdev.SYN_DROPPED)
)

// EV_KEY values
const (
	KeyReleased = 0
	KeyPressed  = 1
	KeyRepeated = 2
)

// EventTypeName returns the kernel name of an event type.
func EventTypeName(typ uint16) string {
	if name, ok := goevdev.EVToString[goevdev.EvType(typ)]; ok {
		return name
	}
	return fmt.Sprintf(`EV_0x%02x`, typ)
}

// Event is a decoded struct input_event.
type Event struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

func (e Event) String() string {
	code := fmt.Sprintf(`0x%x`, e.Code)
	if e.Type == EvKey {
		code = KeyName(e.Code)
	}
	return fmt.Sprintf(`%s %s %d`, EventTypeName(e.Type), code, e.Value)
}

func eventFrom(e *goevdev.InputEvent) Event {
	return Event{
		Time:  time.Unix(int64(e.Time.Sec), int64(e.Time.Usec)*int64(time.Microsecond)),
		Type:  uint16(e.Type),
		Code:  uint16(e.Code),
		Value: e.Value,
	}
}

type eventReader interface {
	ReadOne() (*goevdev.InputEvent, error)
}

// pump moves events from a blocking reader into a buffered channel so they
// can be collected without blocking.
type pump struct {
	events chan Event
	errc   chan error
	done   chan struct{}
	once   sync.Once
	err    error
}

func startPump(r eventReader, buffer int) *pump {
	p := &pump{
		events: make(chan Event, buffer),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go p.run(r)
	return p
}

func (p *pump) run(r eventReader) {
	for {
		ev, err := r.ReadOne()
		if err != nil {
			p.errc <- err
			return
		}
		if ev == nil {
			continue
		}
		select {
		case p.events <- eventFrom(ev):
		case <-p.done:
			return
		}
	}
}

// drain returns the buffered events. The read error that ended the pump
// is only reported once the events before it are drained.
func (p *pump) drain() ([]Event, error) {
	var evs []Event
	for {
		select {
		case ev := <-p.events:
			evs = append(evs, ev)
			continue
		default:
		}
		if p.err == nil {
			select {
			case p.err = <-p.errc:
				// events sent before the error are buffered by now
				continue
			default:
			}
		}
		return evs, p.err
	}
}

// close stops forwarding events. A reader blocked in ReadOne returns when
// the device is closed.
func (p *pump) close() { p.once.Do(func() { close(p.done) }) }
