package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/fbpong"
	"github.com/srlehn/fbpong/internal/config"
	"github.com/srlehn/fbpong/internal/logx"
)

var (
	configFlag      string
	pointsFlag      int
	intervalFlag    time.Duration
	speedFactorFlag float64
	paddleStepFlag  int
	lingerFlag      time.Duration
	keysFlag        string
	grabFlag        bool
	pageFlipFlag    bool
	kdGraphicsFlag  bool
	rawTTYFlag      bool
	ttyFlag         string
	saveConfigFlag  bool
)

func init() {
	def := config.Default()
	fl := rootCmd.Flags()
	fl.StringVarP(&configFlag, `config`, `c`, ``, `config file (default `+config.DefaultPath()+`)`)
	fl.IntVarP(&pointsFlag, `points`, `p`, def.Points, `winning score`)
	fl.DurationVarP(&intervalFlag, `interval`, `i`, def.Interval, `frame interval`)
	fl.Float64Var(&speedFactorFlag, `speed-factor`, def.SpeedFactor, `horizontal ball speed per frame relative to the screen width`)
	fl.IntVar(&paddleStepFlag, `paddle-step`, def.PaddleStep, `paddle movement per frame in pixels, 0 for height/30`)
	fl.DurationVar(&lingerFlag, `linger`, def.Linger, `how long the final score stays on screen`)
	fl.StringVarP(&keysFlag, `keys`, `k`, def.Keys, `keys for p1-up,p1-down,p2-up,p2-down or "auto"`)
	fl.BoolVarP(&grabFlag, `grab`, `g`, def.Grab, `grab the input device exclusively`)
	fl.BoolVar(&pageFlipFlag, `page-flip`, def.PageFlip, `flip between two framebuffer pages if the driver allows it`)
	fl.BoolVar(&kdGraphicsFlag, `kd-graphics`, def.Console.Graphics, `switch the console to graphics mode while playing`)
	fl.BoolVar(&rawTTYFlag, `raw-tty`, def.Console.Raw, `put the terminal into raw mode while playing`)
	fl.StringVar(&ttyFlag, `tty`, def.Console.TTY, `controlling terminal`)
	fl.BoolVar(&saveConfigFlag, `save-config`, false, `write the resulting settings to the config file and exit`)
}

// loadConfig reads the config file and applies the flags that were set
// explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Framebuffer = args[0]
	}
	if len(args) > 1 {
		cfg.Input = args[1]
	}
	fl := cmd.Flags()
	for name, apply := range map[string]func(){
		`points`:       func() { cfg.Points = pointsFlag },
		`interval`:     func() { cfg.Interval = intervalFlag },
		`speed-factor`: func() { cfg.SpeedFactor = speedFactorFlag },
		`paddle-step`:  func() { cfg.PaddleStep = paddleStepFlag },
		`linger`:       func() { cfg.Linger = lingerFlag },
		`keys`:         func() { cfg.Keys = keysFlag },
		`grab`:         func() { cfg.Grab = grabFlag },
		`page-flip`:    func() { cfg.PageFlip = pageFlipFlag },
		`kd-graphics`:  func() { cfg.Console.Graphics = kdGraphicsFlag },
		`raw-tty`:      func() { cfg.Console.Raw = rawTTYFlag },
		`tty`:          func() { cfg.Console.TTY = ttyFlag },
	} {
		if fl.Changed(name) {
			apply()
		}
	}
	return cfg, cfg.Validate()
}

func playFunc(cmd *cobra.Command, args []string) runFunc {
	return func(ctx context.Context, logger *slog.Logger) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		if saveConfigFlag {
			path := configFlag
			if len(path) == 0 {
				path = config.DefaultPath()
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			logx.Info(`config saved`, logx.Prov(logger), `path`, path)
			return nil
		}
		return fbpong.Play(ctx, cfg, logger)
	}
}
