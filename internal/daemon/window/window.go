// Package window controls the visibility and placement of the popover
// window that opens from the tray icon.
package window

import (
	"log"
	"sync"

	"github.com/clockbar/clockbar/internal/daemon/platform"
	"github.com/clockbar/clockbar/internal/models"
)

// Window is the popover window as seen by the controller.
type Window interface {
	IsVisible() bool
	Show()
	Hide()
	Focus()
	SetPosition(models.Point)
}

// Controller turns tray and window events into window actions. The window
// is either hidden or shown near the tray icon; it never closes.
type Controller struct {
	mu       sync.Mutex
	win      Window
	platform platform.Platform
	size     models.Size
}

// NewController creates a controller for win.
func NewController(win Window, p platform.Platform) *Controller {
	return &Controller{
		win:      win,
		platform: p,
		size:     models.WindowSize(),
	}
}

// TrayClicked handles a left click on the tray icon at click. A visible
// window is hidden; a hidden one is placed next to the click and shown.
func (c *Controller) TrayClicked(click models.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.win.IsVisible() {
		c.win.Hide()
		return
	}

	pos := c.platform.PopoverOrigin(click, c.size)
	log.Printf("[window] Showing at %d,%d (click %d,%d)", pos.X, pos.Y, click.X, click.Y)
	c.win.SetPosition(pos)
	c.win.Show()
	c.win.Focus()
}

// ToggleFromMenu handles the Show/Hide menu item. The window keeps its
// last position.
func (c *Controller) ToggleFromMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.win.IsVisible() {
		c.win.Hide()
		return
	}
	c.win.Show()
	c.win.Focus()
}

// CloseRequested hides the window instead of closing it. It always returns
// true: the close is prevented.
func (c *Controller) CloseRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.win.Hide()
	return true
}

// FocusChanged hides the window when it loses focus.
func (c *Controller) FocusChanged(focused bool) {
	if focused {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.win.Hide()
}
