package main

import (
	"errors"
	"image"
	"log/slog"
)

// Window is the top-level display the controller can put in fullscreen or close
type Window interface {
	SetFullscreen(on bool)
	Close()
}

// Progress mirrors the progress bar: Value frames played out of Max
type Progress struct {
	Value int
	Max   int
}

// Button labels for the VR toggle
const (
	vrLabel     = "VR Mode"
	vrExitLabel = "Exit VR Mode"
)

// PlaybackController owns the open source and drives the decode-render-reschedule
// cycle. Every method must be called from the UI goroutine; nothing here locks.
type PlaybackController struct {
	opener  SourceOpener
	surface DisplaySurface
	timer   Timer
	window  Window
	logger  *slog.Logger
	scaler  string

	path       string
	source     Source
	rate       int
	paused     bool
	fullscreen bool
	vr         bool
	progress   Progress
	generation int
	closed     bool

	pending    TimerID
	hasPending bool
}

// ControllerOptions holds the startup state of a PlaybackController
type ControllerOptions struct {
	Rate       int
	Fullscreen bool
	Scaler     string
}

// NewPlaybackController wires a controller to its collaborators
func NewPlaybackController(opener SourceOpener, surface DisplaySurface, timer Timer, window Window, logger *slog.Logger, opts ControllerOptions) *PlaybackController {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackController{
		opener:     opener,
		surface:    surface,
		timer:      timer,
		window:     window,
		logger:     logger,
		scaler:     opts.Scaler,
		rate:       clampRate(opts.Rate),
		fullscreen: opts.Fullscreen,
	}
}

// SelectSource remembers the path to open on the next Play. A source that is
// already playing keeps playing.
func (c *PlaybackController) SelectSource(path string) {
	c.path = path
	c.logger.Debug("source selected", "path", path)
}

// Play releases any open source and starts playing the selected path from the first frame
func (c *PlaybackController) Play() {
	c.cancelPending()
	c.release()

	src, err := c.opener.Open(c.path)
	if err != nil {
		c.logger.Error("unable to open video", "path", c.path, "err", err)
		return
	}

	c.source = src
	c.generation++
	c.progress = Progress{Value: 0, Max: src.FrameCount()}
	c.logger.Info("playback started", "path", c.path, "frames", c.progress.Max, "rate", c.rate)

	c.UpdateCycle()
}

// UpdateCycle decodes and shows the next frame, then schedules itself again.
// It is the only place a tick is scheduled, and at most one is ever pending.
func (c *PlaybackController) UpdateCycle() {
	c.cancelPending()
	if c.paused || c.source == nil {
		return
	}

	frame, err := c.source.Read()
	if err != nil {
		if !errors.Is(err, ErrStreamExhausted) {
			// Treat a broken stream like its end so a bad frame can't spin the loop
			c.logger.Warn("frame decode failed", "path", c.path, "err", err)
		} else {
			c.logger.Info("playback finished", "path", c.path, "frames", c.progress.Value)
		}
		c.release()
		return
	}

	c.RenderFrame(frame)
	c.progress.Value = c.source.Position()
	c.schedule()
}

// AdjustRate changes the target frame rate. A playing source restarts its cadence
// immediately; its position is unaffected.
func (c *PlaybackController) AdjustRate(rate int) {
	if rate < 0 {
		rate = 0
	}
	c.rate = rate
	if c.source == nil {
		return
	}
	c.cancelPending()
	c.UpdateCycle()
}

// RenderFrame scales a frame to the surface's current size and presents it
func (c *PlaybackController) RenderFrame(frame Frame) {
	w, h := c.surface.Size()
	var img image.Image = bgrToRGBA(frame)
	img = scaleImage(img, w, h, c.scaler)
	c.surface.Present(img)
}

// SetScaler selects the interpolation used from the next frame on
func (c *PlaybackController) SetScaler(scaler string) {
	c.scaler = scaler
}

// ToggleVRMode gates the Play control; it has no effect on rendering
func (c *PlaybackController) ToggleVRMode() {
	c.vr = !c.vr
}

// ToggleFullscreen flips fullscreen and applies it to the window
func (c *PlaybackController) ToggleFullscreen() {
	c.fullscreen = !c.fullscreen
	c.window.SetFullscreen(c.fullscreen)
}

// TogglePause freezes or resumes the update cycle
func (c *PlaybackController) TogglePause() {
	c.paused = !c.paused
	if c.paused {
		c.cancelPending()
		return
	}
	if c.source != nil && !c.hasPending {
		c.UpdateCycle()
	}
}

// Shutdown releases the source and closes the window. Later calls do nothing.
func (c *PlaybackController) Shutdown() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancelPending()
	c.release()
	c.window.Close()
}

func (c *PlaybackController) schedule() {
	c.pending = c.timer.After(FrameInterval(c.rate), c.UpdateCycle)
	c.hasPending = true
}

func (c *PlaybackController) cancelPending() {
	if !c.hasPending {
		return
	}
	c.timer.Cancel(c.pending)
	c.hasPending = false
}

func (c *PlaybackController) release() {
	if c.source == nil {
		return
	}
	if err := c.source.Close(); err != nil {
		c.logger.Warn("failed to release source", "path", c.path, "err", err)
	}
	c.source = nil
}

func (c *PlaybackController) Path() string { return c.path }

func (c *PlaybackController) Rate() int { return c.rate }

func (c *PlaybackController) Paused() bool { return c.paused }

func (c *PlaybackController) Fullscreen() bool { return c.fullscreen }

func (c *PlaybackController) VRMode() bool { return c.vr }

// Playing reports whether a source is open
func (c *PlaybackController) Playing() bool { return c.source != nil }

func (c *PlaybackController) Progress() Progress { return c.progress }

// Generation counts successful opens, so callers can tell sources apart
func (c *PlaybackController) Generation() int { return c.generation }

// PlayEnabled is false while VR mode is on
func (c *PlaybackController) PlayEnabled() bool { return !c.vr }

// VRLabel is the text of the VR toggle control
func (c *PlaybackController) VRLabel() string {
	if c.vr {
		return vrExitLabel
	}
	return vrLabel
}
