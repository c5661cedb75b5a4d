package framebuffer

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

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(d *Device) error { return d.SetOptions([]Option(o)...) }

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

// SetPageFlip requests page flipping through a doubled virtual height.
func SetPageFlip(enable bool) Option {
	return OptFunc(func(d *Device) error { d.pageFlip = enable; return nil })
}

// SetDoubleBuffer disables the back buffer if false: drawing then goes
// straight to the visible screen.
func SetDoubleBuffer(enable bool) Option {
	return OptFunc(func(d *Device) error { d.doubleBuffer = enable; return nil })
}

func SetLogger(logger *slog.Logger) Option {
	return OptFunc(func(d *Device) error { d.logger = logger; return nil })
}
