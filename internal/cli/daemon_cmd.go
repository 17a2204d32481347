package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clockbar/clockbar/internal/config"
	"github.com/clockbar/clockbar/internal/daemon/server"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tray host",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tray host status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var quitCmd = &cobra.Command{
	Use:     "quit",
	Aliases: []string{"stop"},
	Short:   "Quit the tray host",
	Args:    cobra.NoArgs,
	RunE:    runQuit,
}

func runStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsInstanceRunning()
	if err != nil {
		return fmt.Errorf("failed to check clockbard status: %w", err)
	}

	if running && info != nil {
		fmt.Printf("clockbard is already running (PID %d, port %d).\n", info.PID, info.Port)
		return nil
	}

	fmt.Print("Starting clockbard...")
	if startErr := startHost(); startErr != nil {
		fmt.Println()
		return startErr
	}

	// Fetch fresh status to display
	_, freshInfo, err := config.IsInstanceRunning()
	if err != nil || freshInfo == nil {
		fmt.Println(" started.")
		return nil
	}

	fmt.Printf(" started (PID %d, port %d).\n", freshInfo.PID, freshInfo.Port)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsInstanceRunning()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Println("clockbard is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)

	fmt.Println(styleSuccess.Render("clockbard is running."))
	printField("Host", info.Host)
	printField("Port", fmt.Sprint(info.Port))
	printField("PID", fmt.Sprint(info.PID))
	printField("Uptime", uptime.String())

	// Live details are best effort
	_ = withHost(func(ctx context.Context, c *server.Client) error {
		st, err := c.Status(ctx)
		if err != nil {
			fmt.Printf("  %s\n", styleWarning.Render("Bridge unreachable: "+err.Error()))
			return err
		}
		printField("Version", st.Version)
		printField("Platform", st.Platform)
		printField("Settings", st.SettingsPath)

		if ws, err := c.WindowState(ctx); err == nil {
			window := "hidden"
			if ws.Visible {
				window = fmt.Sprintf("visible at (%d, %d)", ws.Position.X, ws.Position.Y)
			}
			printField("Window", window)
		}

		if st.UpdateAvailable {
			fmt.Printf("\n  %s v%s %s\n", styleUpdate.Render("Update available:"), st.LatestVersion, styleHint.Render(st.ReleaseURL))
		}
		return nil
	})

	return nil
}

func runQuit(cmd *cobra.Command, args []string) error {
	running, _, err := config.IsInstanceRunning()
	if err != nil {
		return fmt.Errorf("failed to check clockbard status: %w", err)
	}
	if !running {
		fmt.Println("clockbard is not running.")
		return nil
	}

	if err := withHost(func(ctx context.Context, c *server.Client) error {
		return c.Exit(ctx)
	}); err != nil {
		return fmt.Errorf("failed to ask clockbard to quit: %w", err)
	}

	if err := waitForExit(); err != nil {
		return err
	}
	fmt.Println("clockbard stopped.")
	return nil
}

// printField prints an aligned "Label: value" status line.
func printField(label, value string) {
	fmt.Printf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", label+":")), styleValue.Render(value))
}
