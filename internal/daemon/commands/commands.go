// Package commands implements the operations the popover UI invokes on the
// tray host. Every dependency is an explicit handle passed to New.
package commands

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/clockbar/clockbar/internal/daemon/autostart"
	"github.com/clockbar/clockbar/internal/daemon/notify"
	"github.com/clockbar/clockbar/internal/daemon/tray"
	"github.com/clockbar/clockbar/internal/daemon/window"
	"github.com/clockbar/clockbar/internal/models"
)

// SettingsStore loads and saves the settings document.
type SettingsStore interface {
	Load() *models.Settings
	Save(*models.Settings) error
}

// Deps are the handles the command layer operates on.
type Deps struct {
	Store     SettingsStore
	Presenter tray.Presenter
	Window    *window.Controller
	Autostart autostart.Manager
	Notifier  notify.Notifier
	// Exit asks the host to shut down.
	Exit func()
}

// Commands serializes UI requests against the tray host.
type Commands struct {
	mu    sync.Mutex
	deps  Deps
	timer *tray.TitleTimer
}

// New creates the command layer.
func New(deps Deps) *Commands {
	c := &Commands{deps: deps}
	c.timer = tray.NewTitleTimer(deps.Presenter.SetTitle)
	return c
}

// GetSettings returns the persisted settings, or defaults when none can be
// read.
func (c *Commands) GetSettings() *models.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deps.Store.Load()
}

// SaveSettings replaces the settings document and re-applies autostart.
func (c *Commands) SaveSettings(settings *models.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings document is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.deps.Store.Save(settings); err != nil {
		log.Printf("Error writing settings: %v", err)
		return err
	}
	log.Printf("Settings saved (launchAtStartup=%t)", settings.LaunchAtStartup)

	if c.deps.Autostart != nil {
		_ = autostart.Apply(c.deps.Autostart, settings)
	}
	return nil
}

// ApplyAutostart re-applies the persisted launchAtStartup preference.
func (c *Commands) ApplyAutostart() {
	if c.deps.Autostart == nil {
		return
	}
	_ = autostart.Apply(c.deps.Autostart, c.GetSettings())
}

// UpdateTrayBitmap replaces the tray icon with a raw RGBA bitmap. The
// title is cleared because the bitmap is expected to carry the text.
func (c *Commands) UpdateTrayBitmap(rgba []byte, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timer.Cancel()
	c.deps.Presenter.SetTitle("")

	png, err := tray.EncodeBitmap(rgba, width, height)
	if err != nil {
		log.Printf("[tray] Ignoring bitmap: %v", err)
		return
	}
	c.deps.Presenter.SetIcon(png)
}

// UpdateTrayTooltip sets the tray tooltip.
func (c *Commands) UpdateTrayTooltip(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps.Presenter.SetTooltip(text)
}

// UpdateTrayIconState switches to one of the bundled icons. Unknown state
// names select the idle icon.
func (c *Commands) UpdateTrayIconState(state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps.Presenter.SetIcon(tray.IconFor(tray.ParseIconState(state)))
}

// UpdateTrayTitle sets the text next to the tray icon, replacing any
// running title timer.
func (c *Commands) UpdateTrayTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.Cancel()
	c.deps.Presenter.SetTitle(title)
}

// StartTitleTimer keeps the tray title counting up from startedAt.
func (c *Commands) StartTitleTimer(startedAt time.Time, issueKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.Start(startedAt, issueKey)
}

// StopTitleTimer stops the title timer and shows the idle title.
func (c *Commands) StopTitleTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.Stop()
}

// Notify shows a desktop notification.
func (c *Commands) Notify(title, body string) error {
	if c.deps.Notifier == nil {
		return fmt.Errorf("notifications are not available")
	}
	if err := c.deps.Notifier.Notify(title, body); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// TrayClicked toggles the window for a tray icon click at (x, y).
func (c *Commands) TrayClicked(x, y int) {
	c.deps.Window.TrayClicked(models.Point{X: x, Y: y})
}

// ToggleWindow toggles the window without moving it.
func (c *Commands) ToggleWindow() {
	c.deps.Window.ToggleFromMenu()
}

// CloseRequested hides the window; the close itself is always prevented.
func (c *Commands) CloseRequested() bool {
	return c.deps.Window.CloseRequested()
}

// FocusChanged hides the window on focus loss.
func (c *Commands) FocusChanged(focused bool) {
	c.deps.Window.FocusChanged(focused)
}

// ExitApp shuts the application down.
func (c *Commands) ExitApp() {
	c.mu.Lock()
	c.timer.Cancel()
	c.mu.Unlock()

	log.Println("Exit requested")
	if c.deps.Exit != nil {
		c.deps.Exit()
	}
}
