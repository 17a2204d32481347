package tray

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Presenter is the mutable visual state of the tray icon. Implementations
// are best effort: failures are logged, never returned.
type Presenter interface {
	SetIcon(png []byte)
	SetTooltip(text string)
	SetTitle(text string)
}

// EncodeBitmap converts a raw, non-premultiplied RGBA pixel buffer into a
// PNG image.
func EncodeBitmap(rgba []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid bitmap size %dx%d", width, height)
	}
	if want := width * height * 4; len(rgba) != want {
		return nil, fmt.Errorf("bitmap buffer is %d bytes, want %d for %dx%d RGBA", len(rgba), want, width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, rgba)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// TruncateTooltip shortens text to at most limit cells, ending with an
// ellipsis when cut.
func TruncateTooltip(text string, limit int) string {
	if limit <= 0 || ansi.StringWidth(text) <= limit {
		return text
	}
	return ansi.Truncate(text, limit, "…")
}

// Headless is a Presenter without a tray icon, used when running in the
// foreground. It keeps the last values so they can be reported.
type Headless struct {
	mu      sync.Mutex
	icon    []byte
	tooltip string
	title   string
}

// NewHeadless creates a headless presenter.
func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) SetIcon(png []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.icon = png
	log.Printf("[tray] icon updated (%d bytes)", len(png))
}

func (h *Headless) SetTooltip(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tooltip = text
	log.Printf("[tray] tooltip: %q", text)
}

func (h *Headless) SetTitle(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.title = text
}

// Icon returns the last icon set.
func (h *Headless) Icon() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.icon
}

// Tooltip returns the last tooltip set.
func (h *Headless) Tooltip() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tooltip
}

// Title returns the last title set.
func (h *Headless) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}
