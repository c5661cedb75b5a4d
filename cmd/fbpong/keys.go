package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/srlehn/fbpong/evdev"
)

func init() {
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   keysCmdStr,
	Short: `list key names`,
	Long: `list the key names accepted by --keys

Names are matched without the KEY_ or BTN_ prefix and in any case style,
"up", "KEY_UP" and "Up" are the same key. Numeric codes are accepted too.`,
	Args:             cobra.NoArgs,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		run(keysFunc(cmd, args))
	},
}

var keysCmdStr = `keys`

func keysFunc(cmd *cobra.Command, args []string) runFunc {
	return func(ctx context.Context, logger *slog.Logger) error {
		for _, code := range evdev.KnownKeys() {
			fmt.Printf("0x%03x  %s\n", code, evdev.KeyName(code))
		}
		return nil
	}
}
