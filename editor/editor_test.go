package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0644))
}

func TestOpenAndText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}")

	ed := New(root)
	doc, err := ed.Open("main.go")
	require.NoError(t, err)

	assert.Equal(t, 3, doc.LineCount())
	assert.Equal(t, "package main", doc.Line(0))
	assert.Equal(t, "package main\n\nfunc main() {}", doc.Text())
}

func TestOpenMissingFile(t *testing.T) {
	ed := New(t.TempDir())
	_, err := ed.Open("missing.go")
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	doc := &Document{lines: []string{"hello", "hi"}}

	tests := []struct {
		name string
		in   Position
		want Position
	}{
		{"in bounds", Position{0, 3}, Position{0, 3}},
		{"line too large", Position{10, 0}, Position{1, 0}},
		{"char too large", Position{1, 99}, Position{1, 2}},
		{"negative", Position{-1, -5}, Position{0, 0}},
		{"both out", Position{99, 99}, Position{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Clamp(tt.in))
		})
	}
}

func TestReplaceSingleLine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello world")

	ed := New(root)
	err := ed.Replace("a.txt", Position{0, 6}, Position{0, 11}, "scribe")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello scribe", string(data))
}

func TestReplaceMultiLine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "one\ntwo\nthree\nfour")

	ed := New(root)
	err := ed.Replace("a.txt", Position{1, 0}, Position{2, 5}, "TWO\nTHREE")
	require.NoError(t, err)

	data, _ := os.ReadFile(filepath.Join(root, "a.txt"))
	assert.Equal(t, "one\nTWO\nTHREE\nfour", string(data))
}

func TestReplaceOutOfRangeClamped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "short\nfile")

	ed := New(root)
	// Range far beyond the document clamps to the last valid position.
	err := ed.Replace("a.txt", Position{50, 0}, Position{99, 99}, "end")
	require.NoError(t, err)

	data, _ := os.ReadFile(filepath.Join(root, "a.txt"))
	assert.Equal(t, "short\nend", string(data))
}

func TestInsertAtCursor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "ab")

	ed := New(root)
	require.NoError(t, ed.SetActive("a.txt"))
	ed.SetCursor(Position{0, 1})

	require.NoError(t, ed.Insert("X"))

	data, _ := os.ReadFile(filepath.Join(root, "a.txt"))
	assert.Equal(t, "aXb", string(data))
}

func TestInsertNoActiveEditor(t *testing.T) {
	ed := New(t.TempDir())
	assert.Error(t, ed.Insert("x"))
}

func TestCloseClearsActive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "content")

	ed := New(root)
	require.NoError(t, ed.SetActive("a.txt"))
	require.NotNil(t, ed.Active())

	ed.Close("a.txt")
	assert.Nil(t, ed.Active())
	assert.False(t, ed.IsOpen("a.txt"))
}

func TestSelectionText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "one\ntwo\nthree")

	ed := New(root)
	require.NoError(t, ed.SetActive("a.txt"))

	ed.SetSelection(Position{0, 1}, Position{2, 3})
	assert.Equal(t, "ne\ntwo\nthr", ed.SelectionText())

	ed.SetSelection(Position{1, 0}, Position{1, 3})
	assert.Equal(t, "two", ed.SelectionText())
}
