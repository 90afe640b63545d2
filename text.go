package main

import (
	"fmt"
	"strings"
)

// formatFrames renders progress as "value/max"
func formatFrames(p Progress) string {
	return fmt.Sprintf("%d/%d", p.Value, p.Max)
}

// progressCells returns how many of width cells are filled for value out of max
func progressCells(value, max, width int) int {
	if max <= 0 || width <= 0 || value <= 0 {
		return 0
	}
	if value >= max {
		return width
	}
	return value * width / max
}

// renderSlider draws a 0..maxRate slider track of the given width with a knob at rate
func renderSlider(rate, width int) string {
	if width < 1 {
		return ""
	}
	knob := clampRate(rate) * (width - 1) / maxRate
	return strings.Repeat("━", knob) + "●" + strings.Repeat("─", width-1-knob)
}

// truncatePath keeps the tail of a path so the file name stays visible
func truncatePath(path string, max int) string {
	runes := []rune(path)
	switch {
	case len(runes) <= max:
		return path
	case max < 1:
		return ""
	}
	return "…" + string(runes[len(runes)-(max-1):])
}
