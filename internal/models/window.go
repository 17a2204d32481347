package models

// Popover window dimensions in physical pixels.
const (
	WindowWidth  = 302
	WindowHeight = 540
)

// Point is a screen coordinate in physical pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in physical pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSize returns the fixed popover window size.
func WindowSize() Size {
	return Size{Width: WindowWidth, Height: WindowHeight}
}

// WindowState is the observable state of the popover window.
type WindowState struct {
	Visible  bool  `json:"visible"`
	Focused  bool  `json:"focused"`
	Position Point `json:"position"`
}
