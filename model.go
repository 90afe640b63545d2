package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbletea"
)

// Rows taken by everything except the canvas: top bar, its gap, progress bar, help line
const chromeRows = 4

// Rate steps for the arrow keys
const (
	rateStepFine   = 1
	rateStepCoarse = 5
)

// model is the Bubble Tea model for the player. All playback state lives in the
// controller; the model routes input to it and draws what it exposes.
type model struct {
	ctrl    *PlaybackController
	timer   *teaTimer
	window  *teaWindow
	surface *termSurface
	picker  *filePicker
	logger  *slog.Logger

	color      string
	background string
	width      int
	height     int
	showHelp   bool

	kitty            bool // terminal speaks the Kitty graphics protocol
	accentGeneration int  // source generation the accent colour was taken from
	startDir         string
}

// resolveRenderMode turns render.mode into a concrete backend for this terminal
func resolveRenderMode(mode string, kitty bool) string {
	switch mode {
	case renderKitty, renderHalfBlock:
		return mode
	}
	if kitty {
		return renderKitty
	}
	return renderHalfBlock
}

func newModel(cfg Config, opener SourceOpener, logger *slog.Logger, kitty bool) model {
	timer := newTeaTimer()
	window := &teaWindow{}
	surface := newTermSurface(resolveRenderMode(cfg.Render.Mode, kitty), cfg.Render.CellWidthPx, cfg.Render.CellHeightPx)

	ctrl := NewPlaybackController(opener, surface, timer, window, logger, ControllerOptions{
		Rate:       cfg.Playback.DefaultRate,
		Fullscreen: cfg.Playback.StartFullscreen,
		Scaler:     cfg.Render.Scaler,
	})

	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}

	return model{
		ctrl:       ctrl,
		timer:      timer,
		window:     window,
		surface:    surface,
		logger:     logger,
		color:      cfg.UI.Color,
		background: cfg.UI.Background,
		kitty:      kitty,
		startDir:   startDir,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Video Player"),
		watchConfigCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var extra tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picker != nil {
			m.handlePickerKey(msg.String())
			return m, m.flush(nil)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.ctrl.Shutdown()
		case "o":
			m.openPicker()
		case "p", "enter":
			// Disabled while VR mode is on
			if m.ctrl.PlayEnabled() {
				m.ctrl.Play()
			}
		case "v":
			m.ctrl.ToggleVRMode()
		case "f":
			// Consumed here; nothing else sees the key
			m.ctrl.ToggleFullscreen()
			return m, m.flush(nil)
		case " ":
			m.ctrl.TogglePause()
		case "right":
			m.ctrl.AdjustRate(clampRate(m.ctrl.Rate() + rateStepFine))
		case "left":
			m.ctrl.AdjustRate(clampRate(m.ctrl.Rate() - rateStepFine))
		case "up":
			m.ctrl.AdjustRate(clampRate(m.ctrl.Rate() + rateStepCoarse))
		case "down":
			m.ctrl.AdjustRate(clampRate(m.ctrl.Rate() - rateStepCoarse))
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surface.Resize(m.canvasSize())

	case timerFiredMsg:
		m.timer.Fire(msg.id)

	case configReloadMsg:
		m.applyConfig(config.Get())
		extra = watchConfigCmd()
	}

	m.refreshAccent()
	return m, m.flush(extra)
}

func (m *model) handlePickerKey(key string) {
	if key == "ctrl+c" {
		m.picker = nil
		m.ctrl.Shutdown()
		return
	}
	result, path := m.picker.HandleKey(key)
	switch result {
	case pickerChosen:
		m.ctrl.SelectSource(path)
		m.startDir = filepath.Dir(path)
		m.picker = nil
	case pickerCancelled:
		m.picker = nil
	}
}

func (m *model) openPicker() {
	m.picker = newFilePicker(m.startDir, config.Get().Picker.Extensions)
}

// applyConfig picks up a live-reloaded configuration
func (m *model) applyConfig(cfg Config) {
	if cfg.UI.ColorMode == "manual" {
		m.color = cfg.UI.Color
	}
	m.background = cfg.UI.Background
	m.surface.Configure(resolveRenderMode(cfg.Render.Mode, m.kitty), cfg.Render.CellWidthPx, cfg.Render.CellHeightPx)
	m.ctrl.SetScaler(cfg.Render.Scaler)
	m.logger.Debug("config reloaded", "render", m.surface.mode, "scaler", cfg.Render.Scaler)
}

// refreshAccent takes the accent colour from the first frame of each new source
func (m *model) refreshAccent() {
	if config.Get().UI.ColorMode != "auto" {
		return
	}
	gen := m.ctrl.Generation()
	if gen == m.accentGeneration || m.surface.Current() == nil {
		return
	}
	m.accentGeneration = gen
	if c, err := extractAccentColor(m.surface.Current()); err == nil {
		m.color = c
	}
}

// canvasSize is the cell area left for video once the chrome is laid out
func (m model) canvasSize() (int, int) {
	rows := m.height - chromeRows
	if rows < 0 {
		rows = 0
	}
	return m.width, rows
}

// flush collects the commands the controller's collaborators queued during this update
func (m model) flush(extra tea.Cmd) tea.Cmd {
	return tea.Batch(m.timer.Flush(), m.window.Flush(), extra)
}
