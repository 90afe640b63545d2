package main

import (
	"github.com/charmbracelet/bubbletea"
)

// teaWindow implements Window by queueing bubbletea commands: fullscreen is the
// alternate screen and closing quits the program.
type teaWindow struct {
	queued []tea.Cmd
	closed bool
}

func (w *teaWindow) SetFullscreen(on bool) {
	if on {
		w.queued = append(w.queued, tea.EnterAltScreen)
	} else {
		w.queued = append(w.queued, tea.ExitAltScreen)
	}
}

func (w *teaWindow) Close() {
	w.closed = true
	w.queued = append(w.queued, tea.Quit)
}

// Flush returns the commands queued since the last call
func (w *teaWindow) Flush() tea.Cmd {
	if len(w.queued) == 0 {
		return nil
	}
	cmds := w.queued
	w.queued = nil
	return tea.Sequence(cmds...)
}
