package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/srlehn/fbpong/framebuffer"
)

var (
	doubleYResFlag bool
	restoreFlag    bool
)

func init() {
	fbInfoCmd.Flags().BoolVar(&doubleYResFlag, `double-yres`, false, `try to double the virtual vertical resolution`)
	fbInfoCmd.Flags().BoolVar(&restoreFlag, `restore`, true, `restore the screen info after --double-yres`)
	rootCmd.AddCommand(fbInfoCmd)
}

var fbInfoCmd = &cobra.Command{
	Use:   fbInfoCmdStr + ` [fbdev]`,
	Short: `print framebuffer screen info`,
	Long: `print the fixed and variable screen info of a framebuffer device

With --double-yres the driver is asked for a virtual height of twice the
visible height, which page flipping needs, and the screen info is printed
again as requested and as accepted.`,
	Args:             cobra.MaximumNArgs(1),
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		run(fbInfoFunc(cmd, args))
	},
}

var fbInfoCmdStr = `fbinfo`

func fbInfoFunc(cmd *cobra.Command, args []string) runFunc {
	return func(ctx context.Context, logger *slog.Logger) error {
		var dev string
		if len(args) > 0 {
			dev = args[0]
		}
		info, err := framebuffer.ReadInfo(dev)
		if info != nil {
			fmt.Print(info.String())
		}
		if err != nil {
			return err
		}
		if !doubleYResFlag {
			return nil
		}
		_, requested, after, err := framebuffer.DoubleVirtualHeight(dev, restoreFlag)
		fmt.Println()
		fmt.Println(`requested:`)
		fmt.Print(requested.String())
		fmt.Println()
		fmt.Println(`accepted:`)
		fmt.Print(after.String())
		if err != nil {
			return err
		}
		if after.YResVirtual < requested.YResVirtual {
			fmt.Printf("\ndriver refused virtual height %d, kept %d\n", requested.YResVirtual, after.YResVirtual)
		}
		return nil
	}
}
