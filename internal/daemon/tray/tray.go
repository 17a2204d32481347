package tray

import (
	"log"

	"github.com/getlantern/systray"

	"github.com/clockbar/clockbar/internal/buildinfo"
	"github.com/clockbar/clockbar/internal/daemon/platform"
)

// Options configures the tray host.
type Options struct {
	Platform platform.Platform
	// OnReady is called once the tray icon exists (start the bridge here).
	OnReady func(h *Host)
	// OnToggle is called when the Show/Hide menu item is clicked.
	OnToggle func()
	// OnQuit is called when the Quit menu item is clicked.
	OnQuit func()
	// OnExit is called when the tray exits (cleanup here).
	OnExit func()
}

// Host owns the system tray icon. It implements Presenter.
type Host struct {
	opts       Options
	toggleItem *systray.MenuItem
	quitItem   *systray.MenuItem
	done       chan struct{}
}

// Run starts the system tray. This blocks the calling goroutine (must be main).
func Run(opts Options) {
	h := &Host{opts: opts, done: make(chan struct{})}
	systray.Run(h.onReady, h.onExit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func (h *Host) onReady() {
	h.setStateIcon(StateIdle)
	h.SetTooltip(buildinfo.AppName)

	header := systray.AddMenuItem(buildinfo.AppName, "")
	header.Disable()

	systray.AddSeparator()

	h.toggleItem = systray.AddMenuItem("Show/Hide", "Toggle the "+buildinfo.AppName+" window")
	h.quitItem = systray.AddMenuItem("Quit", "Quit "+buildinfo.AppName)

	if h.opts.OnReady != nil {
		h.opts.OnReady(h)
	}

	go h.handleClicks()
}

func (h *Host) onExit() {
	close(h.done)
	if h.opts.OnExit != nil {
		h.opts.OnExit()
	}
}

func (h *Host) handleClicks() {
	for {
		select {
		case <-h.done:
			return
		case <-h.toggleItem.ClickedCh:
			if h.opts.OnToggle != nil {
				h.opts.OnToggle()
			}
		case <-h.quitItem.ClickedCh:
			if h.opts.OnQuit != nil {
				h.opts.OnQuit()
			} else {
				Quit()
			}
		}
	}
}

// Seams over systray so icon handling can be tested without a tray.
var (
	systraySetIcon         = systray.SetIcon
	systraySetTemplateIcon = systray.SetTemplateIcon
)

func (h *Host) setStateIcon(state IconState) {
	h.SetIcon(IconFor(state))
}

// SetIcon replaces the tray icon with a PNG image. Where the platform tints
// tray icons itself, every icon is installed as a template image; a plain
// systray.SetIcon would clear the template flag.
func (h *Host) SetIcon(png []byte) {
	data, err := h.opts.Platform.EncodeIcon(png)
	if err != nil {
		log.Printf("[tray] Failed to encode icon: %v", err)
		return
	}
	if h.opts.Platform.TemplateIcon() {
		systraySetTemplateIcon(data, data)
		return
	}
	systraySetIcon(data)
}

// SetTooltip sets the tray tooltip, truncated to the platform limit.
func (h *Host) SetTooltip(text string) {
	systray.SetTooltip(TruncateTooltip(text, h.opts.Platform.TooltipLimit()))
}

// SetTitle sets the text shown next to the tray icon. Only macOS and some
// Linux trays render it.
func (h *Host) SetTitle(text string) {
	systray.SetTitle(text)
}
