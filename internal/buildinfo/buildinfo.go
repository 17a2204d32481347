// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// BundleID is the reverse-DNS application identifier. It names the
// per-user application data directory and the autostart entries.
const BundleID = "io.clockbar.app"

// AppName is the human readable application name.
const AppName = "Clockbar"
