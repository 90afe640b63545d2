package main

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"
	"time"
)

// generateTestImage creates a simple test image with specified dimensions and colors
func generateTestImage(width, height int, fillColor color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fillColor)
		}
	}
	return img
}

// generateGradientImage creates a vertical gradient test image
func generateGradientImage(width, height int, startColor, endColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		ratio := float64(y) / float64(height)
		r := uint8(float64(startColor.R)*(1-ratio) + float64(endColor.R)*ratio)
		g := uint8(float64(startColor.G)*(1-ratio) + float64(endColor.G)*ratio)
		b := uint8(float64(startColor.B)*(1-ratio) + float64(endColor.B)*ratio)
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return img
}

// solidFrame builds a BGR24 frame filled with one colour
func solidFrame(width, height int, r, g, b byte) Frame {
	pix := make([]byte, width*height*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = b, g, r
	}
	return Frame{Width: width, Height: height, Pix: pix}
}

// assertNoError is a test helper that fails the test if an error occurred
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// assertEqual is a generic test helper for comparing values
func assertEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// isValidHexColor checks if a string is a valid hex color (e.g., "#RRGGBB")
func isValidHexColor(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for i := 1; i < 7; i++ {
		c := color[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource yields total 2x2 frames and records whether it was closed
type fakeSource struct {
	total    int
	position int
	closed   bool
	readErr  error // returned instead of a frame when set
}

func (s *fakeSource) FrameCount() int { return s.total }
func (s *fakeSource) Position() int   { return s.position }

func (s *fakeSource) Read() (Frame, error) {
	if s.readErr != nil {
		return Frame{}, s.readErr
	}
	if s.closed || s.position >= s.total {
		return Frame{}, ErrStreamExhausted
	}
	s.position++
	return solidFrame(2, 2, 200, 40, 40), nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

// fakeOpener hands out fakeSources for any path except those listed in missing
type fakeOpener struct {
	frames  int
	missing map[string]bool
	opened  []*fakeSource
}

func (o *fakeOpener) Open(path string) (Source, error) {
	if path == "" || o.missing[path] {
		return nil, ErrSourceOpen
	}
	src := &fakeSource{total: o.frames}
	o.opened = append(o.opened, src)
	return src, nil
}

// openCount is the number of sources not yet closed
func (o *fakeOpener) openCount() int {
	n := 0
	for _, s := range o.opened {
		if !s.closed {
			n++
		}
	}
	return n
}

// fakeSurface records presented images
type fakeSurface struct {
	width, height int
	current       image.Image
	presents      int
}

func (s *fakeSurface) Size() (int, int) { return s.width, s.height }

func (s *fakeSurface) Present(img image.Image) {
	s.current = img
	s.presents++
}

type fakeWindow struct {
	fullscreen []bool
	closes     int
}

func (w *fakeWindow) SetFullscreen(on bool) { w.fullscreen = append(w.fullscreen, on) }
func (w *fakeWindow) Close()                { w.closes++ }

type manualCall struct {
	id    TimerID
	delay time.Duration
	fn    func()
}

// manualTimer is a Timer whose calls only run when a test fires them
type manualTimer struct {
	nextID    TimerID
	pending   []manualCall
	scheduled []time.Duration
	cancelled []TimerID
}

func (t *manualTimer) After(d time.Duration, fn func()) TimerID {
	t.nextID++
	t.pending = append(t.pending, manualCall{id: t.nextID, delay: d, fn: fn})
	t.scheduled = append(t.scheduled, d)
	return t.nextID
}

// Cancel only records ids that were still pending
func (t *manualTimer) Cancel(id TimerID) {
	for i, c := range t.pending {
		if c.id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			t.cancelled = append(t.cancelled, id)
			return
		}
	}
}

// FireNext runs the oldest pending call and reports whether there was one
func (t *manualTimer) FireNext() bool {
	if len(t.pending) == 0 {
		return false
	}
	call := t.pending[0]
	t.pending = t.pending[1:]
	call.fn()
	return true
}

func (t *manualTimer) lastDelay() time.Duration {
	if len(t.scheduled) == 0 {
		return 0
	}
	return t.scheduled[len(t.scheduled)-1]
}

type controllerFixture struct {
	ctrl    *PlaybackController
	opener  *fakeOpener
	surface *fakeSurface
	timer   *manualTimer
	window  *fakeWindow
}

func newControllerFixture(frames, rate int) *controllerFixture {
	f := &controllerFixture{
		opener:  &fakeOpener{frames: frames, missing: map[string]bool{}},
		surface: &fakeSurface{width: 8, height: 6},
		timer:   &manualTimer{},
		window:  &fakeWindow{},
	}
	f.ctrl = NewPlaybackController(f.opener, f.surface, f.timer, f.window, discardLogger(), ControllerOptions{
		Rate:       rate,
		Fullscreen: true,
		Scaler:     scalerNearest,
	})
	return f
}
