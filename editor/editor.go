// Package editor is the in-process stand-in for the host editor surface.
// It tracks open documents, the active document and the cursor, and applies
// position-based text edits with bounds clamping so an out-of-range edit
// from the model never fails outright.
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Position is a zero-based line/character location in a document.
type Position struct {
	Line      int
	Character int
}

// Document is an open text file split into lines.
type Document struct {
	Path  string // relative to the workspace root
	lines []string
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the content of the given line, or "" if out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Text returns the full document content.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// Clamp constrains a position to the document's actual bounds.
func (d *Document) Clamp(pos Position) Position {
	if len(d.lines) == 0 {
		return Position{}
	}
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(d.lines) {
		pos.Line = len(d.lines) - 1
	}
	if pos.Character < 0 {
		pos.Character = 0
	}
	if pos.Character > len(d.lines[pos.Line]) {
		pos.Character = len(d.lines[pos.Line])
	}
	return pos
}

// Editor manages open documents for one workspace.
type Editor struct {
	root   string
	docs   map[string]*Document
	active string
	cursor Position

	selStart Position
	selEnd   Position
}

// New creates an editor rooted at the given workspace path.
func New(root string) *Editor {
	return &Editor{
		root: root,
		docs: make(map[string]*Document),
	}
}

// Open returns the document for relPath, reading it from disk on first open.
func (e *Editor) Open(relPath string) (*Document, error) {
	if doc, ok := e.docs[relPath]; ok {
		return doc, nil
	}

	data, err := os.ReadFile(filepath.Join(e.root, relPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", relPath, err)
	}

	doc := &Document{
		Path:  relPath,
		lines: strings.Split(string(data), "\n"),
	}
	e.docs[relPath] = doc
	return doc, nil
}

// IsOpen reports whether the document is currently open.
func (e *Editor) IsOpen(relPath string) bool {
	_, ok := e.docs[relPath]
	return ok
}

// Close discards an open document without saving. Closing the active
// document clears the active state.
func (e *Editor) Close(relPath string) {
	delete(e.docs, relPath)
	if e.active == relPath {
		e.active = ""
		e.cursor = Position{}
	}
}

// SetActive opens relPath and marks it as the active document.
func (e *Editor) SetActive(relPath string) error {
	if _, err := e.Open(relPath); err != nil {
		return err
	}
	e.active = relPath
	return nil
}

// Active returns the active document, or nil if there is none.
func (e *Editor) Active() *Document {
	if e.active == "" {
		return nil
	}
	return e.docs[e.active]
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() Position {
	return e.cursor
}

// SetCursor moves the cursor, clamped to the active document.
func (e *Editor) SetCursor(pos Position) {
	if doc := e.Active(); doc != nil {
		pos = doc.Clamp(pos)
	}
	e.cursor = pos
}

// SetSelection records a selection range in the active document.
func (e *Editor) SetSelection(start, end Position) {
	if doc := e.Active(); doc != nil {
		start = doc.Clamp(start)
		end = doc.Clamp(end)
	}
	e.selStart = start
	e.selEnd = end
}

// SelectionText returns the text covered by the current selection.
func (e *Editor) SelectionText() string {
	doc := e.Active()
	if doc == nil {
		return ""
	}
	return extract(doc, e.selStart, e.selEnd)
}

// Insert inserts text at the cursor in the active document and saves it.
func (e *Editor) Insert(text string) error {
	doc := e.Active()
	if doc == nil {
		return fmt.Errorf("no active editor")
	}

	pos := doc.Clamp(e.cursor)
	splice(doc, pos, pos, text)
	e.cursor = doc.Clamp(Position{Line: pos.Line, Character: pos.Character + len(text)})
	return e.save(doc)
}

// Replace applies a single replacement over [start, end) in the document at
// relPath. Both positions are clamped to the document bounds before the edit,
// so an over-long range replaces up to the last valid position.
func (e *Editor) Replace(relPath string, start, end Position, newText string) error {
	doc, err := e.Open(relPath)
	if err != nil {
		return err
	}

	start = doc.Clamp(start)
	end = doc.Clamp(end)
	if end.Line < start.Line || (end.Line == start.Line && end.Character < start.Character) {
		start, end = end, start
	}

	splice(doc, start, end, newText)
	return e.save(doc)
}

// splice replaces the span [start, end) with text, preserving the
// surrounding line content.
func splice(doc *Document, start, end Position, text string) {
	before := doc.lines[start.Line][:start.Character]
	after := doc.lines[end.Line][end.Character:]

	inserted := strings.Split(before+text+after, "\n")

	lines := make([]string, 0, len(doc.lines)-(end.Line-start.Line+1)+len(inserted))
	lines = append(lines, doc.lines[:start.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, doc.lines[end.Line+1:]...)
	doc.lines = lines
}

// extract returns the text in [start, end) without modifying the document.
func extract(doc *Document, start, end Position) string {
	start = doc.Clamp(start)
	end = doc.Clamp(end)
	if end.Line < start.Line || (end.Line == start.Line && end.Character < start.Character) {
		start, end = end, start
	}

	if start.Line == end.Line {
		return doc.lines[start.Line][start.Character:end.Character]
	}

	var b strings.Builder
	b.WriteString(doc.lines[start.Line][start.Character:])
	for i := start.Line + 1; i < end.Line; i++ {
		b.WriteString("\n")
		b.WriteString(doc.lines[i])
	}
	b.WriteString("\n")
	b.WriteString(doc.lines[end.Line][:end.Character])
	return b.String()
}

func (e *Editor) save(doc *Document) error {
	fullPath := filepath.Join(e.root, doc.Path)
	if err := os.WriteFile(fullPath, []byte(doc.Text()), 0644); err != nil {
		return fmt.Errorf("failed to save %s: %w", doc.Path, err)
	}
	return nil
}
