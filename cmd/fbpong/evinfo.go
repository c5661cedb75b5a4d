package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/fbpong/evdev"
	"github.com/srlehn/fbpong/internal/consts"
)

var (
	watchFlag  bool
	evGrabFlag bool
)

func init() {
	evInfoCmd.Flags().BoolVarP(&watchFlag, `watch`, `w`, false, `print events until interrupted`)
	evInfoCmd.Flags().BoolVarP(&evGrabFlag, `grab`, `g`, false, `grab the device while watching`)
	rootCmd.AddCommand(evInfoCmd)
}

var evInfoCmd = &cobra.Command{
	Use:              evInfoCmdStr + ` [evdev]`,
	Short:            `print input device capabilities`,
	Long:             `print name, id, event types and key codes of an input event device (default ` + consts.DefaultInput + `)`,
	Args:             cobra.MaximumNArgs(1),
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		run(evInfoFunc(cmd, args))
	},
}

var evInfoCmdStr = `evinfo`

func evInfoFunc(cmd *cobra.Command, args []string) runFunc {
	return func(ctx context.Context, logger *slog.Logger) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		dev, err := evdev.Open(path, evdev.SetLogger(logger))
		if err != nil {
			return err
		}
		defer dev.Close()

		fmt.Printf("device:  %s\n", dev.Path())
		fmt.Printf("name:    %q\n", dev.Name())
		fmt.Printf("id:      %s\n", dev.ID())
		fmt.Printf("version: %s\n", dev.Version())
		var types []string
		for _, typ := range dev.EventTypes() {
			types = append(types, evdev.EventTypeName(typ))
		}
		fmt.Printf("events:  %s\n", strings.Join(types, ` `))
		keys := dev.Keys()
		fmt.Printf("keys:    %d\n", len(keys))
		for _, code := range keys {
			fmt.Printf("  %3d  %s\n", code, evdev.KeyName(code))
		}
		if !watchFlag {
			return nil
		}

		if evGrabFlag {
			if err := dev.Grab(true); err != nil {
				return err
			}
		}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			evs, err := dev.ReadEvents()
			for _, ev := range evs {
				fmt.Printf("%s.%06d %s\n", ev.Time.Format(`15:04:05`), ev.Time.Nanosecond()/1000, ev)
			}
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}
