package cli

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clockbar/clockbar/internal/daemon/server"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Drive the tray icon, tooltip and title",
}

var trayTooltipCmd = &cobra.Command{
	Use:   "tooltip <text>",
	Short: "Set the tray tooltip",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.UpdateTooltip(ctx, strings.Join(args, " "))
		})
	},
}

var trayTitleCmd = &cobra.Command{
	Use:   "title [text]",
	Short: "Set the text next to the tray icon (empty clears it)",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.UpdateTitle(ctx, strings.Join(args, " "))
		})
	},
}

var trayStateCmd = &cobra.Command{
	Use:       "state <idle|active|onhold>",
	Short:     "Switch to a bundled tray icon",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"idle", "active", "onhold"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.UpdateIconState(ctx, args[0])
		})
	},
}

var trayBitmapCmd = &cobra.Command{
	Use:   "bitmap <png-file>",
	Short: "Replace the tray icon with an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rgba, width, height, err := loadRGBA(args[0])
		if err != nil {
			return err
		}
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.UpdateBitmap(ctx, rgba, width, height)
		})
	},
}

var (
	timerSince   string
	timerElapsed time.Duration
	timerIssue   string
)

var trayTimerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run the tray title timer",
}

var trayTimerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start counting up in the tray title",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		startedAt, err := timerStart(time.Now(), timerSince, timerElapsed)
		if err != nil {
			return err
		}
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.StartTimer(ctx, &server.StartTimerRequest{StartedAt: startedAt, IssueKey: timerIssue})
		})
	},
}

var trayTimerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the title timer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.StopTimer(ctx)
		})
	},
}

var trayNotifyCmd = &cobra.Command{
	Use:   "notify <title> [body]",
	Short: "Show a desktop notification",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := ""
		if len(args) > 1 {
			body = args[1]
		}
		return withHost(func(ctx context.Context, c *server.Client) error {
			return c.Notify(ctx, args[0], body)
		})
	},
}

func init() {
	trayTimerStartCmd.Flags().StringVar(&timerSince, "since", "", "Start time (RFC 3339); defaults to now")
	trayTimerStartCmd.Flags().DurationVar(&timerElapsed, "elapsed", 0, "Time already elapsed, e.g. 25m")
	trayTimerStartCmd.Flags().StringVar(&timerIssue, "issue", "", "Issue key shown after the time")
	trayTimerStartCmd.MarkFlagsMutuallyExclusive("since", "elapsed")

	trayTimerCmd.AddCommand(trayTimerStartCmd)
	trayTimerCmd.AddCommand(trayTimerStopCmd)

	trayCmd.AddCommand(trayBitmapCmd)
	trayCmd.AddCommand(trayNotifyCmd)
	trayCmd.AddCommand(trayStateCmd)
	trayCmd.AddCommand(trayTimerCmd)
	trayCmd.AddCommand(trayTitleCmd)
	trayCmd.AddCommand(trayTooltipCmd)
}

// timerStart resolves the --since/--elapsed flags against now.
func timerStart(now time.Time, since string, elapsed time.Duration) (time.Time, error) {
	switch {
	case since != "":
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --since: %w", err)
		}
		return t, nil
	case elapsed < 0:
		return time.Time{}, fmt.Errorf("--elapsed must not be negative")
	default:
		return now.Add(-elapsed), nil
	}
}

// loadRGBA decodes a PNG file into a row-major RGBA buffer.
func loadRGBA(path string) ([]byte, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return toRGBA(img)
}

func toRGBA(img image.Image) ([]byte, int, int, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, 0, 0, fmt.Errorf("image is empty")
	}
	// Non-premultiplied, which is what the tray host expects.
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix, b.Dx(), b.Dy(), nil
}
