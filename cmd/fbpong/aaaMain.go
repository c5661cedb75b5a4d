package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/logx"
)

var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]) + ` [fbdev] [evdev]`,
	Short: `pong on the linux framebuffer`,
	Long: `pong on the linux framebuffer

Two players share one keyboard, by default W/S move the left paddle and
the arrow keys the right one. The first player to reach the winning score
wins. The framebuffer defaults to $FRAMEBUFFER or /dev/fb0, the input
device to /dev/input/event0.`,
	Args:             cobra.MaximumNArgs(2),
	SilenceUsage:     true,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		run(playFunc(cmd, args))
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, `debug`, `d`, false, `debug errors and log level`)
	rootCmd.PersistentFlags().BoolVarP(&silentFlag, `silent`, `s`, false, `silence errors and logs`)
	rootCmd.PersistentFlags().StringVarP(&logFileFlag, `log-file`, `l`, ``, `log file`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	debugFlag   bool
	silentFlag  bool
	logFileFlag string
)

type runFunc func(ctx context.Context, logger *slog.Logger) error

func run(fn runFunc) {
	var exitCode int
	defer func() {
		// devices are restored by the deferred closers, only report
		if r := recover(); r != nil {
			exitCode = 1
			if !silentFlag {
				if stackFramer, ok := r.(interface{ ErrorStack() string }); ok {
					fmt.Fprintln(os.Stderr, "\n"+stackFramer.ErrorStack())
				} else {
					fmt.Fprintln(os.Stderr, r)
					debug.PrintStack()
				}
			}
		}
		os.Exit(exitCode)
	}()

	var err error
	if fn == nil {
		err = errors.NilParam()
	}
	logger := logx.Discard
	if err == nil {
		var closeLog func() error
		logger, closeLog, err = newLogger()
		if closeLog != nil {
			defer closeLog()
		}
	}
	if err == nil {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = fn(ctx, logger)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}
	if err != nil {
		logx.IsErr(err, logx.Prov(logger), slog.LevelError)
		exitCode = 1
		if !silentFlag {
			if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
				fmt.Fprintln(os.Stderr, "\n"+stackFramer.ErrorStack())
			} else {
				fmt.Fprintln(os.Stderr, err.Error())
			}
		}
	}
}

func newLogger() (*slog.Logger, func() error, error) {
	if len(logFileFlag) > 0 {
		f, err := os.OpenFile(logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, errors.New(err)
		}
		return logx.NewLogger(f, debugFlag), f.Close, nil
	}
	var w io.Writer = os.Stderr
	if silentFlag {
		w = io.Discard
	}
	return logx.NewLogger(w, debugFlag), nil, nil
}
