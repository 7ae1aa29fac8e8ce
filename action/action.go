// Package action defines the typed mutation contract between the model and
// the workspace: the tagged action union, the defensive parser that turns raw
// model text into it, and the executor that applies a parsed batch with
// confirmation gating and per-action failure isolation.
package action

import (
	"fmt"
)

// Type discriminates the action union.
type Type string

const (
	TypeCreateFolder Type = "createFolder"
	TypeCreateFile   Type = "createFile"
	TypeEditFile     Type = "editFile"
	TypeDeleteFile   Type = "deleteFile"
	TypeDeleteFolder Type = "deleteFolder"
	TypeInsertText   Type = "insertText"
)

// Range is a zero-based document span. End must not precede start.
type Range struct {
	StartLine      int `json:"startLine"`
	StartCharacter int `json:"startCharacter"`
	EndLine        int `json:"endLine"`
	EndCharacter   int `json:"endCharacter"`
}

// Action represents a single file-system or editor mutation requested by
// the model.
type Action struct {
	Type    Type   `json:"type"`
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
	Range   *Range `json:"range,omitempty"`
	NewText string `json:"newText,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Response is one parsed model reply: an ordered action batch plus a chat
// message for the user.
type Response struct {
	Actions []Action `json:"actions"`
	Message string   `json:"message"`
}

// Validate checks the required fields for the action's declared type.
func (a *Action) Validate() error {
	switch a.Type {
	case TypeCreateFolder, TypeDeleteFile, TypeDeleteFolder:
		if a.Path == "" {
			return fmt.Errorf("%s requires path", a.Type)
		}

	case TypeCreateFile:
		if a.Path == "" {
			return fmt.Errorf("createFile requires path")
		}

	case TypeEditFile:
		if a.Path == "" {
			return fmt.Errorf("editFile requires path")
		}
		if a.Range == nil || a.NewText == "" {
			return fmt.Errorf("editFile requires both range and newText")
		}
		if a.Range.StartLine < 0 || a.Range.StartCharacter < 0 || a.Range.EndLine < 0 || a.Range.EndCharacter < 0 {
			return fmt.Errorf("editFile range must be non-negative")
		}
		if a.Range.EndLine < a.Range.StartLine ||
			(a.Range.EndLine == a.Range.StartLine && a.Range.EndCharacter < a.Range.StartCharacter) {
			return fmt.Errorf("editFile range end precedes start")
		}

	case TypeInsertText:
		if a.Text == "" {
			return fmt.Errorf("insertText requires text")
		}

	default:
		return fmt.Errorf("unknown action type: %s", a.Type)
	}

	return nil
}

// Description returns a human-readable description of the action
func (a *Action) Description() string {
	switch a.Type {
	case TypeCreateFolder:
		return fmt.Sprintf("Create folder %s", a.Path)
	case TypeCreateFile:
		return fmt.Sprintf("Create file %s", a.Path)
	case TypeEditFile:
		if a.Range != nil {
			return fmt.Sprintf("Edit %s (lines %d-%d)", a.Path, a.Range.StartLine, a.Range.EndLine)
		}
		return fmt.Sprintf("Edit %s", a.Path)
	case TypeDeleteFile:
		return fmt.Sprintf("Delete file %s", a.Path)
	case TypeDeleteFolder:
		return fmt.Sprintf("Delete folder %s", a.Path)
	case TypeInsertText:
		return "Insert text at cursor"
	default:
		return fmt.Sprintf("Unknown action: %s", a.Type)
	}
}

// AllInsertText reports whether every action in the batch is a cursor-local
// insertText. Such batches are low-risk and bypass user confirmation.
func (r *Response) AllInsertText() bool {
	if len(r.Actions) == 0 {
		return false
	}
	for _, a := range r.Actions {
		if a.Type != TypeInsertText {
			return false
		}
	}
	return true
}

// TouchedPaths returns the file paths referenced by create/edit/delete
// actions, in batch order without duplicates.
func (r *Response) TouchedPaths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, a := range r.Actions {
		if a.Path == "" || seen[a.Path] {
			continue
		}
		seen[a.Path] = true
		paths = append(paths, a.Path)
	}
	return paths
}
