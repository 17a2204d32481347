// Package cmd implements the clockbard command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	foreground bool
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "clockbard",
	Short: "Clockbar tray host",
	Long: `clockbard owns the Clockbar tray icon and popover window state.
The popover UI and the clockbar CLI drive it over a loopback bridge.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(runOptions{Foreground: foreground, Port: port})
	},
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground without a system tray (for development)")
	rootCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (0 for dynamic allocation)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
