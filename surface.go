package main

import (
	"image"
)

// DisplaySurface is where frames are presented
type DisplaySurface interface {
	// Size is the current drawable area in pixels, queried on every render
	Size() (width, height int)
	// Present replaces whatever image the surface is showing
	Present(img image.Image)
}

// Render backends for termSurface
const (
	renderHalfBlock = "halfblock"
	renderKitty     = "kitty"
)

// termSurface draws frames into a rectangle of terminal cells.
// It keeps exactly one image alive: the one currently on screen.
type termSurface struct {
	cols, rows int
	mode       string
	cellWidth  int // pixels per cell in kitty mode
	cellHeight int

	current image.Image
	encoded string
}

func newTermSurface(mode string, cellWidth, cellHeight int) *termSurface {
	return &termSurface{mode: mode, cellWidth: cellWidth, cellHeight: cellHeight}
}

// Resize sets the cell area available to the canvas
func (s *termSurface) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	s.cols, s.rows = cols, rows
}

// Configure switches render backend; the current image is re-encoded
func (s *termSurface) Configure(mode string, cellWidth, cellHeight int) {
	s.mode, s.cellWidth, s.cellHeight = mode, cellWidth, cellHeight
	if s.current != nil {
		s.encoded = s.encode(s.current)
	}
}

func (s *termSurface) Size() (int, int) {
	if s.mode == renderKitty {
		return s.cols * s.cellWidth, s.rows * s.cellHeight
	}
	// Each cell shows two vertically stacked pixels
	return s.cols, s.rows * 2
}

func (s *termSurface) Present(img image.Image) {
	s.current = img
	s.encoded = s.encode(img)
}

// Current returns the image on screen, or nil before the first frame
func (s *termSurface) Current() image.Image {
	return s.current
}

// Encoded is the terminal output for the current image
func (s *termSurface) Encoded() string {
	return s.encoded
}

func (s *termSurface) encode(img image.Image) string {
	if img == nil || img.Bounds().Empty() {
		return ""
	}
	if s.mode == renderKitty {
		out, err := encodeFrameForKitty(img, s.cols)
		if err != nil {
			return ""
		}
		return out
	}
	return encodeHalfBlocks(img)
}
