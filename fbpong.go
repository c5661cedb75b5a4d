// Package fbpong plays two player pong on a linux framebuffer, controlled
// by a keyboard input event device.
package fbpong

import (
	"context"
	"log/slog"

	"github.com/srlehn/fbpong/evdev"
	"github.com/srlehn/fbpong/framebuffer"
	"github.com/srlehn/fbpong/internal"
	"github.com/srlehn/fbpong/internal/config"
	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/linux"
	"github.com/srlehn/fbpong/internal/logx"
	"github.com/srlehn/fbpong/keyboard"
	"github.com/srlehn/fbpong/pong"
)

// Play opens the devices named by cfg and plays one game until it is over
// or ctx is done. All devices are restored before Play returns.
func Play(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	if cfg == nil {
		return errors.NilParam()
	}
	if logger == nil {
		logger = logx.Discard
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	km, err := cfg.KeyMap()
	if err != nil {
		return err
	}
	lp := logx.Prov(logger)

	closer := internal.NewCloser()
	defer func() { err = errors.Join(err, closer.Close()) }()

	if cfg.Console.Raw || cfg.Console.Graphics {
		con, err := linux.OpenConsole(cfg.Console.TTY, cfg.Console.Raw, cfg.Console.Graphics, logger)
		if !logx.IsErr(err, lp, slog.LevelWarn, `tty`, cfg.Console.TTY) {
			closer.AddClosers(con)
		}
	}

	in, err := evdev.Open(cfg.Input, evdev.SetLogger(logger))
	if err != nil {
		return err
	}
	closer.AddClosers(in)
	if cfg.Grab {
		if err := in.Grab(true); err != nil {
			return err
		}
	}
	kb, err := keyboard.New(in, km, logger)
	if km != nil && errors.Is(err, consts.ErrKeyUnsupported) {
		logx.Warn(`falling back to automatic key map`, lp, `error`, err)
		kb, err = keyboard.New(in, nil, logger)
	}
	if err != nil {
		return err
	}

	fb, err := framebuffer.Open(cfg.Framebuffer,
		framebuffer.SetPageFlip(cfg.PageFlip),
		framebuffer.SetLogger(logger))
	if err != nil {
		return err
	}
	closer.AddClosers(fb)

	game, err := pong.New(kb, fb, append(cfg.GameOptions(), pong.SetLogger(logger))...)
	if err != nil {
		return err
	}
	closer.AddClosers(game)

	return game.Run(ctx)
}
