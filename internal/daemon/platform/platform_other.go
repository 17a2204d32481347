//go:build !darwin && !windows

package platform

import "github.com/clockbar/clockbar/internal/models"

var current Platform = desktop{}

// desktop covers Linux and the BSDs (StatusNotifierItem/AppIndicator trays).
type desktop struct{}

func (desktop) Name() string { return "linux" }

func (desktop) PopoverOrigin(click models.Point, size models.Size) models.Point {
	return AboveTaskbar(click, size)
}

func (desktop) TemplateIcon() bool { return false }

func (desktop) EncodeIcon(png []byte) ([]byte, error) { return png, nil }

func (desktop) TooltipLimit() int { return defaultTooltipLimit }
