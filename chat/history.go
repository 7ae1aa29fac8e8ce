// Package chat owns the bounded conversation history and the pronoun-style
// reference tracking behind "that file" and "last error".
package chat

import (
	"bufio"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoReferent is returned when the request uses a reference phrase but no
// prior exchange tracked a matching referent. The caller must re-prompt the
// user rather than guess.
var ErrNoReferent = errors.New("no prior referent for reference phrase")

// Item is one completed user/assistant exchange.
type Item struct {
	ID        string   `json:"id"`
	User      string   `json:"user"`
	AI        string   `json:"ai"`
	Timestamp string   `json:"timestamp"` // RFC 3339
	Files     []string `json:"files,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// History is a bounded FIFO of exchanges persisted as JSONL.
type History struct {
	path  string
	max   int
	items []Item
}

var (
	thatFilePattern  = regexp.MustCompile(`(?i)\bthat file\b`)
	lastErrorPattern = regexp.MustCompile(`(?i)\blast error\b`)
)

// DefaultPath returns the global history file for a workspace, keyed by a
// hash of the workspace path so histories never collide across projects.
func DefaultPath(workspacePath string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(workspacePath))
	return filepath.Join(home, ".scribe", "history", fmt.Sprintf("%x.jsonl", sum[:8])), nil
}

// Load reads history from path, keeping only the newest max items.
// A missing file yields an empty history.
func Load(path string, max int) (*History, error) {
	if max <= 0 {
		max = 50
	}
	h := &History{path: path, max: max}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			continue // Skip invalid lines
		}
		h.items = append(h.items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(h.items) > h.max {
		h.items = h.items[len(h.items)-h.max:]
	}
	return h, nil
}

// AddExchange appends a completed exchange, evicts beyond the cap (oldest
// first) and persists the new item.
func (h *History) AddExchange(user, ai string, files, errs []string) error {
	item := Item{
		ID:        uuid.NewString(),
		User:      user,
		AI:        ai,
		Timestamp: time.Now().Format(time.RFC3339),
		Files:     files,
		Errors:    errs,
	}

	h.items = append(h.items, item)
	if len(h.items) > h.max {
		h.items = h.items[len(h.items)-h.max:]
	}

	return h.appendToFile(item)
}

// Items returns the in-memory history, oldest first.
func (h *History) Items() []Item {
	return h.items
}

// LastFile returns the most recently referenced file path, if any.
func (h *History) LastFile() (string, bool) {
	for i := len(h.items) - 1; i >= 0; i-- {
		if n := len(h.items[i].Files); n > 0 {
			return h.items[i].Files[n-1], true
		}
	}
	return "", false
}

// LastError returns the most recently referenced error snippet, if any.
func (h *History) LastError() (string, bool) {
	for i := len(h.items) - 1; i >= 0; i-- {
		if n := len(h.items[i].Errors); n > 0 {
			return h.items[i].Errors[n-1], true
		}
	}
	return "", false
}

// ResolveReference rewrites "that file" and "last error" phrases using the
// tracked referents. A phrase with no referent yields ErrNoReferent.
func (h *History) ResolveReference(text string) (string, error) {
	if thatFilePattern.MatchString(text) {
		file, ok := h.LastFile()
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrNoReferent, "that file")
		}
		text = thatFilePattern.ReplaceAllString(text, file)
	}

	if lastErrorPattern.MatchString(text) {
		errText, ok := h.LastError()
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrNoReferent, "last error")
		}
		text = lastErrorPattern.ReplaceAllString(text, errText)
	}

	return text, nil
}

// appendToFile writes one item as a JSONL line.
func (h *History) appendToFile(item Item) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal history item: %w", err)
	}

	_, err = file.Write(append(data, '\n'))
	return err
}
