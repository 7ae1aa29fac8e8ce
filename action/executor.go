package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"scribe/editor"
	"scribe/workspace"
)

// Sink receives user-facing output from the executor.
type Sink interface {
	// Say reports a normal message.
	Say(msg string)

	// Error reports a failure message.
	Error(msg string)

	// Confirm asks the user to approve the described changes. The returned
	// channel yields the answer; the executor bounds the wait itself.
	Confirm(prompt string) <-chan bool
}

// Options control executor behavior.
type Options struct {
	AutoApply      bool          // apply without confirmation
	SkipExisting   bool          // createFile skips existing files instead of overwriting
	ConfirmTimeout time.Duration // bounded confirmation wait; default 30s
}

// Result records the outcome of one action.
type Result struct {
	Action  Action
	Err     error
	Skipped bool
}

// Summary aggregates one Apply invocation.
type Summary struct {
	Results  []Result
	Applied  bool // the batch ran (possibly with per-action failures)
	Declined bool // the user rejected the batch; nothing was touched
}

// Failed returns the results that errored.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Executor applies parsed action batches to the live workspace.
type Executor struct {
	root   string
	editor *editor.Editor
	opts   Options
	logger *zap.Logger
}

// NewExecutor creates an executor rooted at the workspace path.
func NewExecutor(root string, ed *editor.Editor, opts Options, logger *zap.Logger) *Executor {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{root: root, editor: ed, opts: opts, logger: logger}
}

// Apply runs the batch: confirm, apply each action in order with per-action
// failure isolation, then report. A declined confirmation aborts with zero
// side effects. One bad action never prevents sibling actions from applying.
func (e *Executor) Apply(ctx context.Context, resp *Response, sink Sink) Summary {
	if len(resp.Actions) == 0 {
		sink.Say(resp.Message)
		return Summary{Applied: true}
	}

	if !e.confirm(ctx, resp, sink) {
		sink.Say("Changes discarded")
		return Summary{Declined: true}
	}

	summary := Summary{Applied: true}
	for _, act := range resp.Actions {
		result := Result{Action: act}
		result.Skipped, result.Err = e.applyAction(act)

		if result.Err != nil {
			e.logger.Warn("action failed",
				zap.String("action", act.Description()),
				zap.Error(result.Err))
			sink.Error(fmt.Sprintf("%s: %v", act.Description(), result.Err))
		}
		summary.Results = append(summary.Results, result)
	}

	sink.Say(resp.Message)

	if failed := summary.Failed(); len(failed) > 0 {
		sink.Error(fmt.Sprintf("Some changes could not be applied (%d of %d failed)", len(failed), len(summary.Results)))
	} else {
		sink.Say(fmt.Sprintf("Applied %d change(s)", len(summary.Results)))
	}

	return summary
}

// confirm gates the batch on user approval. All-insertText batches are
// cursor-local and low-risk, so they skip the prompt, as does auto-apply.
// The wait is bounded; on timeout the batch proceeds (silence is consent)
// so a human never blocks the pipeline indefinitely.
func (e *Executor) confirm(ctx context.Context, resp *Response, sink Sink) bool {
	if e.opts.AutoApply || resp.AllInsertText() {
		return true
	}

	prompt := e.buildPrompt(resp)

	select {
	case approved := <-sink.Confirm(prompt):
		return approved
	case <-time.After(e.opts.ConfirmTimeout):
		e.logger.Info("confirmation timed out, proceeding")
		return true
	case <-ctx.Done():
		return false
	}
}

// buildPrompt summarizes the batch with per-action diff previews.
func (e *Executor) buildPrompt(resp *Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Apply %d change(s)?\n", len(resp.Actions))
	for _, act := range resp.Actions {
		b.WriteString("  - ")
		b.WriteString(act.Description())
		b.WriteString("\n")
		if preview := e.previewAction(act); preview != "" {
			b.WriteString(preview)
		}
	}
	return b.String()
}

// applyAction executes one action. The returned error is isolated to this
// action; skipped reports a deliberate no-op (existing file with
// skip-existing configured).
func (e *Executor) applyAction(act Action) (skipped bool, err error) {
	switch act.Type {
	case TypeCreateFolder:
		return false, e.createFolder(act)
	case TypeCreateFile:
		return e.createFile(act)
	case TypeEditFile:
		return false, e.editFile(act)
	case TypeDeleteFile:
		return false, e.delete(act, false)
	case TypeDeleteFolder:
		return false, e.delete(act, true)
	case TypeInsertText:
		return false, e.editor.Insert(act.Text)
	default:
		return false, fmt.Errorf("unknown action type: %s", act.Type)
	}
}

// createFolder is idempotent: an existing directory is a no-op, not an error.
func (e *Executor) createFolder(act Action) error {
	_, full, err := e.securePath(act.Path)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(full); statErr == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("path exists and is not a directory: %s", act.Path)
	}

	return os.MkdirAll(full, 0755)
}

func (e *Executor) createFile(act Action) (skipped bool, err error) {
	rel, full, err := e.securePath(act.Path)
	if err != nil {
		return false, err
	}

	if _, statErr := os.Stat(full); statErr == nil && e.opts.SkipExisting {
		e.logger.Info("file exists, skipping", zap.String("path", rel))
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(act.Content), 0644); err != nil {
		return false, fmt.Errorf("failed to write file: %w", err)
	}

	// Keep any open copy of the document in sync with disk.
	if e.editor.IsOpen(rel) {
		e.editor.Close(rel)
	}
	return false, nil
}

// editFile opens the document and applies a single clamped replacement; an
// out-of-range edit is constrained to the document bounds, never a failure.
func (e *Executor) editFile(act Action) error {
	rel, _, err := e.securePath(act.Path)
	if err != nil {
		return err
	}

	start := editor.Position{Line: act.Range.StartLine, Character: act.Range.StartCharacter}
	end := editor.Position{Line: act.Range.EndLine, Character: act.Range.EndCharacter}

	if err := e.editor.Replace(rel, start, end, act.NewText); err != nil {
		return fmt.Errorf("failed to apply edit: %w", err)
	}
	return nil
}

// delete closes any open editor on the path first, then moves the target to
// the workspace trash.
func (e *Executor) delete(act Action, wantDir bool) error {
	rel, full, err := e.securePath(act.Path)
	if err != nil {
		return err
	}

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("path not found: %s", act.Path)
	}
	if wantDir != info.IsDir() {
		if wantDir {
			return fmt.Errorf("path is not a directory: %s", act.Path)
		}
		return fmt.Errorf("path is a directory: %s", act.Path)
	}

	if e.editor.IsOpen(rel) {
		e.editor.Close(rel)
	}

	return workspace.Trash(e.root, full)
}

// illegalPathChars are neutralized before the path joins the workspace root.
var illegalPathChars = strings.NewReplacer("<", "", ">", "", ":", "", "\"", "", "|", "", "?", "", "*", "", "\x00", "")

// securePath sanitizes a model-supplied path and confines it to the
// workspace root. It returns the cleaned relative path and the absolute one.
func (e *Executor) securePath(rel string) (string, string, error) {
	cleaned := illegalPathChars.Replace(rel)
	cleaned = filepath.ToSlash(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "/")

	// Drop traversal segments rather than erroring: the model frequently
	// prefixes paths with ./ or ../ noise.
	parts := strings.Split(cleaned, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	cleaned = strings.Join(kept, "/")

	if cleaned == "" {
		return "", "", fmt.Errorf("empty path after sanitization: %q", rel)
	}

	full := filepath.Join(e.root, filepath.FromSlash(cleaned))
	rootAbs, err := filepath.Abs(e.root)
	if err != nil {
		return "", "", err
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", "", err
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", "", fmt.Errorf("path escapes workspace: %q", rel)
	}

	return cleaned, full, nil
}
