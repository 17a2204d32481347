// Package autostart registers the tray host to launch at user login.
package autostart

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/clockbar/clockbar/internal/models"
)

// Manager enables or disables launch at login for one executable.
type Manager interface {
	Enable() error
	Disable() error
	IsEnabled() (bool, error)
}

// Apply enables or disables autostart to match settings. Failures are
// logged and returned; callers treat them as non-fatal.
func Apply(m Manager, settings *models.Settings) error {
	var err error
	if settings.LaunchAtStartup {
		err = m.Enable()
	} else {
		err = m.Disable()
	}
	if err != nil {
		log.Printf("[autostart] Failed to apply launchAtStartup=%t: %v", settings.LaunchAtStartup, err)
		return err
	}
	return nil
}

// New returns the manager for the current OS, launching the running
// executable.
func New() (Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to find executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return newManager(exe, home), nil
}
