package main

import (
	"os"
	"path/filepath"
	"testing"
)

func makePickerTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"b.mp4", "a.AVI", "notes.txt", ".hidden.mp4", "c.mkv"} {
		assertNoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}
	assertNoError(t, os.Mkdir(filepath.Join(root, "clips"), 0o755))
	assertNoError(t, os.WriteFile(filepath.Join(root, "clips", "inner.mp4"), nil, 0o644))
	return root
}

// TestListVideoDir checks filtering and ordering: directories first, then matching files
func TestListVideoDir(t *testing.T) {
	root := makePickerTree(t)

	entries, err := listVideoDir(root, []string{".mp4", ".avi"})
	assertNoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.name)
	}
	want := []string{"clips", "a.AVI", "b.mp4"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		assertEqual(t, names[i], want[i], "entry")
	}
	assertEqual(t, entries[0].isDir, true, "clips is dir")
}

func TestListVideoDirMissing(t *testing.T) {
	if _, err := listVideoDir(filepath.Join(t.TempDir(), "gone"), []string{".mp4"}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

// TestFilePickerNavigation walks into a directory, picks a file, and cancels
func TestFilePickerNavigation(t *testing.T) {
	root := makePickerTree(t)
	p := newFilePicker(root, []string{".mp4", ".avi"})

	// Cursor can't move above the first entry
	p.HandleKey("up")
	assertEqual(t, p.cursor, 0, "cursor")

	// Enter the clips directory
	result, _ := p.HandleKey("enter")
	assertEqual(t, result, pickerBrowsing, "result")
	assertEqual(t, p.dir, filepath.Join(root, "clips"), "dir")

	result, path := p.HandleKey("enter")
	assertEqual(t, result, pickerChosen, "result")
	assertEqual(t, path, filepath.Join(root, "clips", "inner.mp4"), "path")

	// Back up and pick the last file
	p.HandleKey("backspace")
	assertEqual(t, p.dir, root, "dir after backspace")
	p.HandleKey("down")
	p.HandleKey("down")
	p.HandleKey("down")
	assertEqual(t, p.cursor, 2, "cursor clamps at end")
	result, path = p.HandleKey("enter")
	assertEqual(t, result, pickerChosen, "result")
	assertEqual(t, path, filepath.Join(root, "b.mp4"), "path")

	result, _ = p.HandleKey("esc")
	assertEqual(t, result, pickerCancelled, "result")
}

// TestFilePickerEmptyDir checks enter on an empty listing does nothing
func TestFilePickerEmptyDir(t *testing.T) {
	p := newFilePicker(t.TempDir(), []string{".mp4"})
	result, path := p.HandleKey("enter")
	assertEqual(t, result, pickerBrowsing, "result")
	assertEqual(t, path, "", "path")
}

func TestFilePickerVisibleRange(t *testing.T) {
	p := &filePicker{entries: make([]pickerEntry, 20)}

	start, end := p.visibleRange(30)
	assertEqual(t, start, 0, "start when all fit")
	assertEqual(t, end, 20, "end when all fit")

	p.cursor = 10
	start, end = p.visibleRange(5)
	assertEqual(t, start, 8, "start centred")
	assertEqual(t, end, 13, "end centred")

	p.cursor = 19
	start, end = p.visibleRange(5)
	assertEqual(t, start, 15, "start at bottom")
	assertEqual(t, end, 20, "end at bottom")
}
