package evdev

import (
	"log/slog"

	"github.com/srlehn/fbpong/internal/errors"
)

type Option interface {
	ApplyOption(d *Device) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Device) error

func (o OptFunc) ApplyOption(d *Device) error { return o(d) }

func (d *Device) SetOptions(opts ...Option) error {
	if d == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(d); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

func SetLogger(logger *slog.Logger) Option {
	return OptFunc(func(d *Device) error { d.logger = logger; return nil })
}
