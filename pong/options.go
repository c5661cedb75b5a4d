package pong

import (
	"image/color"
	"log/slog"
	"time"

	"github.com/srlehn/fbpong/internal/errors"
)

const (
	DefaultPoints      = 5
	DefaultInterval    = 100 * time.Millisecond
	DefaultSpeedFactor = 0.02
	DefaultLinger      = time.Second
)

var (
	DefaultBackground color.Color = color.Black
	DefaultForeground color.Color = color.White
)

type Option interface {
	ApplyOption(g *Game) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Game) error

func (o OptFunc) ApplyOption(g *Game) error { return o(g) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(g *Game) error { return g.SetOptions([]Option(o)...) }

func (g *Game) SetOptions(opts ...Option) error {
	if g == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(g); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// CheckOptions reports the first invalid option without creating a game.
func CheckOptions(opts ...Option) error { return (&Game{}).SetOptions(opts...) }

// SetPoints sets the score that ends the game.
func SetPoints(points int) Option {
	return OptFunc(func(g *Game) error {
		if points < 1 {
			return errors.Errorf(`points must be positive, got %d`, points)
		}
		g.points = points
		return nil
	})
}

// SetInterval sets the duration of a frame.
func SetInterval(interval time.Duration) Option {
	return OptFunc(func(g *Game) error {
		if interval <= 0 {
			return errors.Errorf(`interval must be positive, got %s`, interval)
		}
		g.interval = interval
		return nil
	})
}

// SetSpeedFactor sets the horizontal ball speed per frame as a fraction
// of the field width.
func SetSpeedFactor(factor float64) Option {
	return OptFunc(func(g *Game) error {
		if factor <= 0 || factor >= 0.5 {
			return errors.Errorf(`speed factor must be in (0, 0.5), got %g`, factor)
		}
		g.speedFactor = factor
		return nil
	})
}

// SetPaddleStep sets how far a paddle moves per frame while its key is
// held. Zero derives the step from the field height.
func SetPaddleStep(step int) Option {
	return OptFunc(func(g *Game) error {
		if step < 0 {
			return errors.Errorf(`paddle step must not be negative, got %d`, step)
		}
		g.paddleStep = step
		return nil
	})
}

// SetLinger sets how long the final score stays on screen.
func SetLinger(d time.Duration) Option {
	return OptFunc(func(g *Game) error { g.linger = max(0, d); return nil })
}

// SetRandom replaces the source of the random vertical serve speed. rnd
// must return values in [0, 1).
func SetRandom(rnd func() float64) Option {
	return OptFunc(func(g *Game) error {
		if rnd == nil {
			return errors.NilParam()
		}
		g.rnd = rnd
		return nil
	})
}

func SetColors(background, foreground color.Color) Option {
	return OptFunc(func(g *Game) error {
		if background == nil || foreground == nil {
			return errors.NilParam()
		}
		g.background, g.foreground = background, foreground
		return nil
	})
}

func SetLogger(logger *slog.Logger) Option {
	return OptFunc(func(g *Game) error { g.logger = logger; return nil })
}
