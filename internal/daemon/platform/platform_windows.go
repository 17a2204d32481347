//go:build windows

package platform

import (
	"bytes"
	"fmt"
	"image/png"

	ico "github.com/sergeymakinen/go-ico"

	"github.com/clockbar/clockbar/internal/models"
)

var current Platform = windows{}

type windows struct{}

func (windows) Name() string { return "windows" }

func (windows) PopoverOrigin(click models.Point, size models.Size) models.Point {
	return AboveTaskbar(click, size)
}

func (windows) TemplateIcon() bool { return false }

// EncodeIcon wraps the PNG into an ICO container; the Win32 tray only
// loads icon resources.
func (windows) EncodeIcon(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode ico: %w", err)
	}
	return buf.Bytes(), nil
}

func (windows) TooltipLimit() int { return defaultTooltipLimit }
