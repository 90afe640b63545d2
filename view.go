package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Width of the rate slider track in cells
const sliderWidth = 15

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	color := lipgloss.Color(m.color)
	highlight := lipgloss.NewStyle().Foreground(color)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	sections := []string{
		m.renderTopBar(color),
		"",
		m.renderCanvas(highlight, mutedStyle),
		m.renderProgress(highlight),
		m.renderHelp(highlight, mutedStyle),
	}
	return strings.Join(sections, "\n")
}

func (m model) renderTopBar(color lipgloss.Color) string {
	bg := lipgloss.Color(m.background)
	bar := lipgloss.NewStyle().Background(bg).Width(m.width)
	button := lipgloss.NewStyle().
		Background(lipgloss.Color("244")).
		Foreground(lipgloss.Color("0")).
		Padding(0, 1).
		MarginRight(1)
	active := button.Background(color)
	disabled := button.Foreground(lipgloss.Color("238")).Background(lipgloss.Color("242"))

	play := button.Render("Play")
	if !m.ctrl.PlayEnabled() {
		play = disabled.Render("Play")
	}
	vr := button.Render(m.ctrl.VRLabel())
	if m.ctrl.VRMode() {
		vr = active.Render(m.ctrl.VRLabel())
	}
	fullscreen := button.Render("Fullscreen")
	if m.ctrl.Fullscreen() {
		fullscreen = active.Render("Fullscreen")
	}
	slider := lipgloss.NewStyle().
		Background(bg).
		Foreground(color).
		MarginRight(1).
		Render(fmt.Sprintf("%s %2d fps", renderSlider(m.ctrl.Rate(), sliderWidth), m.ctrl.Rate()))

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		button.Render("Browse"),
		play,
		vr,
		slider,
		fullscreen,
	)

	used := lipgloss.Width(buttons)
	if name := m.ctrl.Path(); name != "" && m.width-used > 8 {
		status := ""
		if m.ctrl.Paused() {
			status = " (paused)"
		}
		buttons += lipgloss.NewStyle().Background(bg).Render(" " + truncatePath(name, m.width-used-2-len(status)) + status)
	}

	return bar.Render(buttons)
}

func (m model) renderCanvas(highlight, muted lipgloss.Style) string {
	cols, rows := m.canvasSize()
	if rows == 0 {
		return ""
	}

	if m.picker != nil {
		return m.renderPicker(highlight, muted, cols, rows)
	}

	if encoded := m.surface.Encoded(); encoded != "" {
		if m.surface.mode == renderKitty {
			// Image floats over the cells; pad so the layout below stays put
			return encoded + strings.Repeat("\n", rows-1)
		}
		return lipgloss.NewStyle().Width(cols).Height(rows).MaxHeight(rows).Render(encoded)
	}

	placeholder := muted.Render("No video playing")
	if m.ctrl.Path() == "" {
		placeholder = muted.Render("Press ") + highlight.Render("o") + muted.Render(" to browse for a video")
	}
	canvas := lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, placeholder)
	if m.kitty {
		// Clear any frame left on screen from the last source
		return "\033_Ga=d,d=A\033\\" + canvas
	}
	return canvas
}

func (m model) renderPicker(highlight, muted lipgloss.Style, cols, rows int) string {
	var b strings.Builder
	b.WriteString(highlight.Bold(true).Render(truncatePath(m.picker.dir, cols)))

	listRows := rows - 1
	if m.picker.err != nil {
		b.WriteString("\n" + muted.Render(m.picker.err.Error()))
	} else if len(m.picker.entries) == 0 {
		b.WriteString("\n" + muted.Render("No video files here"))
	} else {
		start, end := m.picker.visibleRange(listRows)
		for i := start; i < end; i++ {
			entry := m.picker.entries[i]
			name := entry.name
			if entry.isDir {
				name += "/"
			}
			line := "  " + name
			if i == m.picker.cursor {
				line = highlight.Render("› " + name)
			} else if entry.isDir {
				line = muted.Render(line)
			}
			b.WriteString("\n" + line)
		}
	}

	return lipgloss.NewStyle().Width(cols).Height(rows).MaxHeight(rows).Render(b.String())
}

func (m model) renderProgress(highlight lipgloss.Style) string {
	p := m.ctrl.Progress()
	counter := " " + formatFrames(p)
	barWidth := m.width - lipgloss.Width(counter)
	if barWidth < 0 {
		barWidth = 0
	}
	filled := progressCells(p.Value, p.Max, barWidth)
	white := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	return highlight.Render(strings.Repeat("█", filled)) +
		white.Render(strings.Repeat("─", barWidth-filled)) +
		highlight.Render(counter)
}

func (m model) renderHelp(highlight, muted lipgloss.Style) string {
	if !m.showHelp {
		return muted.Render("Press ? for help")
	}
	if m.picker != nil {
		return lipgloss.JoinHorizontal(lipgloss.Center,
			"Move: "+highlight.Render("↑/↓"),
			"  Open: "+highlight.Render("enter"),
			"  Up a dir: "+highlight.Render("backspace"),
			"  Cancel: "+highlight.Render("esc"),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		"Browse: "+highlight.Render("o"),
		"  Play: "+highlight.Render("p"),
		"  Pause: "+highlight.Render("space"),
		"  Rate: "+highlight.Render("←/→ ↑/↓"),
		"  VR: "+highlight.Render("v"),
		"  Fullscreen: "+highlight.Render("f"),
		"  Quit: "+highlight.Render("q"),
		"  Hide: "+highlight.Render("?"),
	)
}
