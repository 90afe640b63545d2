package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// pickerEntry is one row of the file picker
type pickerEntry struct {
	name  string
	isDir bool
}

// filePicker browses the filesystem for a video file. The extension filter only
// decides what is listed; nothing checks the chosen file against it.
type filePicker struct {
	dir        string
	extensions []string
	entries    []pickerEntry
	cursor     int
	err        error
}

// pickerResult reports the outcome of a key press
type pickerResult int

const (
	pickerBrowsing pickerResult = iota
	pickerChosen
	pickerCancelled
)

func newFilePicker(dir string, extensions []string) *filePicker {
	p := &filePicker{extensions: extensions}
	p.chdir(dir)
	return p
}

func (p *filePicker) chdir(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	p.dir = dir
	p.cursor = 0
	p.entries, p.err = listVideoDir(dir, p.extensions)
}

// listVideoDir returns subdirectories then matching files, each sorted by name.
// Hidden entries are skipped.
func listVideoDir(dir string, extensions []string) ([]pickerEntry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var dirs, files []pickerEntry
	for _, de := range des {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if de.IsDir() {
			dirs = append(dirs, pickerEntry{name: name, isDir: true})
			continue
		}
		if hasVideoExtension(name, extensions) {
			files = append(files, pickerEntry{name: name})
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return append(dirs, files...), nil
}

func hasVideoExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// HandleKey moves through the listing. On pickerChosen the returned path is the file picked.
func (p *filePicker) HandleKey(key string) (pickerResult, string) {
	switch key {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "backspace", "h", "left":
		p.chdir(filepath.Dir(p.dir))
	case "esc", "q":
		return pickerCancelled, ""
	case "enter", "l", "right":
		if len(p.entries) == 0 {
			break
		}
		entry := p.entries[p.cursor]
		target := filepath.Join(p.dir, entry.name)
		if entry.isDir {
			p.chdir(target)
			break
		}
		return pickerChosen, target
	}
	return pickerBrowsing, ""
}

// visibleRange returns the window of entries that fits in height rows, keeping the cursor in view
func (p *filePicker) visibleRange(height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if len(p.entries) <= height {
		return 0, len(p.entries)
	}
	start := p.cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(p.entries) {
		end = len(p.entries)
		start = end - height
	}
	return start, end
}
