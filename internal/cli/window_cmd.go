package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/clockbar/clockbar/internal/daemon/server"
	"github.com/clockbar/clockbar/internal/models"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show, hide and inspect the popover window",
}

var (
	clickX int
	clickY int
)

var windowToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the popover as if the tray icon was clicked",
	Long: `Toggle the popover window.

With --x and --y the window is placed for a tray click at that physical
screen position. Without them it toggles in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		atPoint := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
		return withHost(func(ctx context.Context, c *server.Client) error {
			if atPoint {
				return c.TrayClicked(ctx, clickX, clickY)
			}
			return c.ToggleWindow(ctx)
		})
	},
}

var windowStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the popover window state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHost(func(ctx context.Context, c *server.Client) error {
			state, err := c.WindowState(ctx)
			if err != nil {
				return err
			}
			fmt.Println(formatWindowState(*state))
			return nil
		})
	},
}

var windowWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print popover window state changes until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connectHost()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		err = client.WatchWindow(ctx, func(s models.WindowState) error {
			fmt.Println(formatWindowState(s))
			return nil
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	windowToggleCmd.Flags().IntVar(&clickX, "x", 0, "Tray click X in physical pixels")
	windowToggleCmd.Flags().IntVar(&clickY, "y", 0, "Tray click Y in physical pixels")

	windowCmd.AddCommand(windowStateCmd)
	windowCmd.AddCommand(windowToggleCmd)
	windowCmd.AddCommand(windowWatchCmd)
}

func formatWindowState(s models.WindowState) string {
	if !s.Visible {
		return "hidden"
	}
	focus := "unfocused"
	if s.Focused {
		focus = "focused"
	}
	return fmt.Sprintf("visible at (%d, %d), %s", s.Position.X, s.Position.Y, focus)
}
