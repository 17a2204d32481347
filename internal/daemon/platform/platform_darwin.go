//go:build darwin

package platform

import "github.com/clockbar/clockbar/internal/models"

var current Platform = darwin{}

type darwin struct{}

func (darwin) Name() string { return "darwin" }

func (darwin) PopoverOrigin(click models.Point, size models.Size) models.Point {
	return BelowMenuBar(click, size)
}

func (darwin) TemplateIcon() bool { return true }

func (darwin) EncodeIcon(png []byte) ([]byte, error) { return png, nil }

func (darwin) TooltipLimit() int { return defaultTooltipLimit }
