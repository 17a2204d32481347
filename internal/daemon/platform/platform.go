// Package platform holds the per-OS presentation rules for the tray and
// popover window. Exactly one implementation is compiled in per target.
package platform

import (
	"github.com/clockbar/clockbar/internal/models"
)

// Platform describes how the current OS presents the tray and popover.
type Platform interface {
	// Name returns the GOOS-style platform name.
	Name() string
	// PopoverOrigin returns the top-left corner of a popover of the given
	// size opened from a tray click at click.
	PopoverOrigin(click models.Point, size models.Size) models.Point
	// TemplateIcon reports whether tray icons are rendered as template
	// (monochrome, tinted by the system) images.
	TemplateIcon() bool
	// EncodeIcon converts a PNG into the format the tray host expects.
	EncodeIcon(png []byte) ([]byte, error)
	// TooltipLimit is the maximum tooltip width in cells.
	TooltipLimit() int
}

// Current returns the platform compiled into this binary.
func Current() Platform {
	return current
}

// defaultTooltipLimit matches the Win32 NOTIFYICONDATA szTip buffer.
const defaultTooltipLimit = 127

// BelowMenuBar centers a popover horizontally on the click and places it
// just under a top menu bar.
func BelowMenuBar(click models.Point, size models.Size) models.Point {
	return models.Point{
		X: click.X - size.Width/2,
		Y: click.Y + 1,
	}
}

// AboveTaskbar centers a popover horizontally on the click and places its
// bottom edge on the click, above a bottom taskbar.
func AboveTaskbar(click models.Point, size models.Size) models.Point {
	return models.Point{
		X: click.X - size.Width/2,
		Y: click.Y - size.Height,
	}
}
