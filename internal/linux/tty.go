package linux

import (
	"log/slog"
	"os"

	"github.com/containerd/console"

	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/exc"
	"github.com/srlehn/fbpong/internal/logx"
)

// Console is the controlling terminal while the game owns the screen.
// Raw mode keeps key presses from being echoed over the playfield, graphics
// mode keeps the kernel from drawing the text cursor into the framebuffer.
type Console struct {
	file     *os.File
	con      console.Console
	origKD   KDMode
	kdSwitch bool
	logger   *slog.Logger
}

var _ logx.LoggerProvider = (*Console)(nil)

// OpenConsole opens the terminal at path (default /dev/tty).
func OpenConsole(path string, raw, graphics bool, logger *slog.Logger) (_ *Console, err error) {
	if len(path) == 0 {
		path = consts.DefaultTTY
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.New(err)
	}
	c := &Console{file: f, origKD: -1, logger: logger}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()
	if raw {
		con, err := consoleFromFile(f)
		if err != nil {
			return nil, err
		}
		c.con = con
		if err := c.con.SetRaw(); err != nil {
			return nil, errors.New(err)
		}
		logx.Debug(`terminal set to raw mode`, c, `tty`, path)
	}
	if graphics {
		mode, isConsole, err := KDGetMode(f.Fd())
		if err != nil {
			return nil, err
		}
		if !isConsole {
			return nil, errors.New(consts.ErrNotConsole)
		}
		if err := KDSetMode(f.Fd(), KDGraphics); err != nil {
			return nil, err
		}
		c.origKD = mode
		c.kdSwitch = true
		logx.Debug(`console switched to graphics mode`, c, `tty`, path, `previous`, mode.String())
	}
	return c, nil
}

func consoleFromFile(f *os.File) (_ console.Console, err error) {
	defer func() {
		// containerd/console panics on some platforms
		if r := recover(); r != nil {
			err = errors.New(r)
		}
	}()
	con, err := console.ConsoleFromFile(f)
	if err != nil {
		return nil, errors.New(err)
	}
	return con, nil
}

func (c *Console) Logger() *slog.Logger {
	if c == nil {
		return nil
	}
	return c.logger
}

// Close restores the console mode and the terminal settings.
func (c *Console) Close() error {
	if c == nil || c.file == nil {
		return nil
	}
	var errs []error
	if c.kdSwitch {
		errs = append(errs, KDSetMode(c.file.Fd(), c.origKD))
		c.kdSwitch = false
	}
	if c.con != nil {
		if err := c.con.Reset(); err != nil {
			logx.Warn(`terminal reset failed, trying stty`, c, `error`, err)
			// fallback
			errs = append(errs, exc.SttySane(c.file))
		}
		c.con = nil
	}
	errs = append(errs, c.file.Close())
	c.file = nil
	return errors.Join(errs...)
}
