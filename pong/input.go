package pong

import (
	"fmt"
	"image"
)

// Key is a logical game control.
type Key int

const (
	P1Up Key = iota
	P1Down
	P2Up
	P2Down
)

// Keys lists all controls.
var Keys = [...]Key{P1Up, P1Down, P2Up, P2Down}

func (k Key) String() string {
	switch k {
	case P1Up:
		return `p1-up`
	case P1Down:
		return `p1-down`
	case P2Up:
		return `p2-up`
	case P2Down:
		return `p2-down`
	}
	return fmt.Sprintf(`key(%d)`, int(k))
}

// Input provides the state of the game controls.
type Input interface {
	// Poll consumes pending input without blocking.
	Poll() error
	// Active reports whether the control is currently held down.
	Active(Key) bool
}

// Display shows rendered frames.
type Display interface {
	Bounds() image.Rectangle
	Present(frame *image.RGBA) error
}
