package consts

import (
	"errors"
)

var (
	ErrNilReceiver          = errors.New(`nil receiver`)
	ErrNilParam             = errors.New(`nil parameter`)
	ErrPlatformNotSupported = errors.New(`platform not supported`)
	ErrNotConsole           = errors.New(`not a linux console`)
	ErrPixelFormat          = errors.New(`unsupported pixel format`)
	ErrNotKeyboard          = errors.New(`device does not look like a keyboard`)
	ErrKeyUnsupported       = errors.New(`key not supported by input device`)
	ErrNotEnoughKeys        = errors.New(`not enough keys found`)
	ErrUnknownKey           = errors.New(`unknown key name`)
	ErrClosed               = errors.New(`device closed`)
)

const (
	ProgramName = `fbpong`

	DefaultFramebuffer = `/dev/fb0`
	DefaultInput       = `/dev/input/event0`
	DefaultTTY         = `/dev/tty`
)
