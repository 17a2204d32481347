//go:build !darwin && !windows

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clockbar/clockbar/internal/buildinfo"
	"github.com/clockbar/clockbar/internal/config"
)

// xdgAutostart writes a desktop entry into the XDG autostart directory.
type xdgAutostart struct {
	exe  string
	path string
}

func newManager(exe, home string) Manager {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(home, ".config")
	}
	return &xdgAutostart{
		exe:  exe,
		path: filepath.Join(dir, "autostart", buildinfo.BundleID+".desktop"),
	}
}

func (x *xdgAutostart) Enable() error {
	return config.WriteFileAtomic(x.path, []byte(desktopEntry(x.exe)), 0644)
}

func (x *xdgAutostart) Disable() error {
	if err := os.Remove(x.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (x *xdgAutostart) IsEnabled() (bool, error) {
	return config.FileExists(x.path), nil
}

// desktopEntry renders a desktop entry that launches exe. Exec arguments
// are quoted per the Desktop Entry specification.
func desktopEntry(exe string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`).Replace(exe)
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec="%s"
X-GNOME-Autostart-enabled=true
NoDisplay=true
`, buildinfo.AppName, quoted)
}
