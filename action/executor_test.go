package action

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribe/editor"
)

// fakeSink records output and scripts the confirmation answer.
type fakeSink struct {
	says          []string
	errs          []string
	prompts       []string
	confirmAnswer bool
	respond       bool // leave the confirmation unanswered when false
}

func (s *fakeSink) Say(msg string)   { s.says = append(s.says, msg) }
func (s *fakeSink) Error(msg string) { s.errs = append(s.errs, msg) }

func (s *fakeSink) Confirm(prompt string) <-chan bool {
	s.prompts = append(s.prompts, prompt)
	ch := make(chan bool, 1)
	if s.respond {
		ch <- s.confirmAnswer
	}
	return ch
}

func newTestExecutor(t *testing.T, opts Options) (*Executor, *editor.Editor, string) {
	t.Helper()
	root := t.TempDir()
	ed := editor.New(root)
	return NewExecutor(root, ed, opts, nil), ed, root
}

func TestApplyCreateFolderAndFiles(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true})
	sink := &fakeSink{}

	resp := &Response{
		Message: "scaffolded",
		Actions: []Action{
			{Type: TypeCreateFolder, Path: "todo_app"},
			{Type: TypeCreateFile, Path: "todo_app/index.html", Content: "<html></html>"},
			{Type: TypeCreateFile, Path: "todo_app/app.js", Content: "console.log('hi')"},
		},
	}

	summary := exec.Apply(context.Background(), resp, sink)
	assert.True(t, summary.Applied)
	assert.Empty(t, summary.Failed())

	data, err := os.ReadFile(filepath.Join(root, "todo_app", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
	assert.Contains(t, sink.says, "scaffolded")
	assert.Contains(t, sink.says, "Applied 3 change(s)")
}

func TestApplyAllInsertTextSkipsConfirmation(t *testing.T) {
	exec, ed, root := newTestExecutor(t, Options{})
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, ed.SetActive("a.txt"))

	sink := &fakeSink{} // would block forever if Confirm were consulted

	resp := &Response{Message: "ok", Actions: []Action{{Type: TypeInsertText, Text: "X"}}}
	summary := exec.Apply(context.Background(), resp, sink)

	assert.True(t, summary.Applied)
	assert.Empty(t, sink.prompts)
}

func TestApplyDeclinedZeroMutations(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{})
	sink := &fakeSink{respond: true, confirmAnswer: false}

	resp := &Response{
		Message: "changes",
		Actions: []Action{{Type: TypeCreateFile, Path: "new.txt", Content: "data"}},
	}

	summary := exec.Apply(context.Background(), resp, sink)
	assert.True(t, summary.Declined)
	assert.False(t, summary.Applied)
	assert.Contains(t, sink.says, "Changes discarded")

	_, err := os.Stat(filepath.Join(root, "new.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestApplyConfirmationTimeoutProceeds(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{ConfirmTimeout: 20 * time.Millisecond})
	sink := &fakeSink{respond: false} // silence

	resp := &Response{Message: "m", Actions: []Action{{Type: TypeCreateFile, Path: "f.txt", Content: "c"}}}
	summary := exec.Apply(context.Background(), resp, sink)

	assert.True(t, summary.Applied)
	_, err := os.Stat(filepath.Join(root, "f.txt"))
	assert.NoError(t, err)
}

func TestCreateFolderIdempotent(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true})
	resp := &Response{Message: "m", Actions: []Action{{Type: TypeCreateFolder, Path: "dir"}}}

	first := exec.Apply(context.Background(), resp, &fakeSink{})
	second := exec.Apply(context.Background(), resp, &fakeSink{})

	assert.Empty(t, first.Failed())
	assert.Empty(t, second.Failed())

	info, err := os.Stat(filepath.Join(root, "dir"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEditFileRangeClamped(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true})
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.txt"), []byte("one\ntwo"), 0644))

	resp := &Response{Message: "m", Actions: []Action{{
		Type:    TypeEditFile,
		Path:    "doc.txt",
		Range:   &Range{StartLine: 10, StartCharacter: 0, EndLine: 50, EndCharacter: 99},
		NewText: "three",
	}}}

	summary := exec.Apply(context.Background(), resp, &fakeSink{})
	assert.Empty(t, summary.Failed())

	data, _ := os.ReadFile(filepath.Join(root, "doc.txt"))
	assert.Equal(t, "one\nthree", string(data))
}

func TestDeleteFileClosesOpenEditor(t *testing.T) {
	exec, ed, root := newTestExecutor(t, Options{AutoApply: true})
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.txt"), []byte("bye"), 0644))
	require.NoError(t, ed.SetActive("old.txt"))
	require.True(t, ed.IsOpen("old.txt"))

	resp := &Response{Message: "m", Actions: []Action{{Type: TypeDeleteFile, Path: "old.txt"}}}
	summary := exec.Apply(context.Background(), resp, &fakeSink{})

	assert.Empty(t, summary.Failed())
	assert.False(t, ed.IsOpen("old.txt"))

	// Deleted file moved to trash, not removed outright.
	_, err := os.Stat(filepath.Join(root, "old.txt"))
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(filepath.Join(root, ".scribe", "trash"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestActionFailureIsolated(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true})
	sink := &fakeSink{}

	resp := &Response{Message: "m", Actions: []Action{
		{Type: TypeDeleteFile, Path: "missing.txt"},          // fails
		{Type: TypeCreateFile, Path: "ok.txt", Content: "c"}, // must still apply
		{Type: TypeInsertText, Text: "x"},                    // fails: no active editor
	}}

	summary := exec.Apply(context.Background(), resp, sink)
	assert.True(t, summary.Applied)
	assert.Len(t, summary.Failed(), 2)

	_, err := os.Stat(filepath.Join(root, "ok.txt"))
	assert.NoError(t, err)

	// One message per failed action plus the aggregate notice.
	assert.Len(t, sink.errs, 3)
	assert.Contains(t, sink.errs[2], "Some changes could not be applied")
}

func TestSecurePathTraversalNeutralized(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true})

	resp := &Response{Message: "m", Actions: []Action{{
		Type: TypeCreateFile, Path: "../../outside/../escape.txt", Content: "x",
	}}}

	summary := exec.Apply(context.Background(), resp, &fakeSink{})
	assert.Empty(t, summary.Failed())

	// Traversal segments are dropped; the file lands inside the workspace.
	_, err := os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)
}

func TestSecurePathIllegalCharacters(t *testing.T) {
	exec, _, _ := newTestExecutor(t, Options{})
	rel, _, err := exec.securePath(`dir/na<me>:"|?*.txt`)
	require.NoError(t, err)
	assert.Equal(t, "dir/name.txt", rel)
}

func TestCreateFileSkipExisting(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true, SkipExisting: true})
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("original"), 0644))

	resp := &Response{Message: "m", Actions: []Action{{Type: TypeCreateFile, Path: "keep.txt", Content: "clobber"}}}
	summary := exec.Apply(context.Background(), resp, &fakeSink{})

	require.Len(t, summary.Results, 1)
	assert.True(t, summary.Results[0].Skipped)
	assert.NoError(t, summary.Results[0].Err)

	data, _ := os.ReadFile(filepath.Join(root, "keep.txt"))
	assert.Equal(t, "original", string(data))
}

func TestCreateFileOverwritesByDefault(t *testing.T) {
	exec, _, root := newTestExecutor(t, Options{AutoApply: true})
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("old"), 0644))

	resp := &Response{Message: "m", Actions: []Action{{Type: TypeCreateFile, Path: "f.txt", Content: "new"}}}
	exec.Apply(context.Background(), resp, &fakeSink{})

	data, _ := os.ReadFile(filepath.Join(root, "f.txt"))
	assert.Equal(t, "new", string(data))
}

func TestApplyEmptyActionsJustSaysMessage(t *testing.T) {
	exec, _, _ := newTestExecutor(t, Options{})
	sink := &fakeSink{}

	summary := exec.Apply(context.Background(), &Response{Message: "just chatting"}, sink)
	assert.True(t, summary.Applied)
	assert.Equal(t, []string{"just chatting"}, sink.says)
	assert.Empty(t, sink.prompts)
}

func TestConfirmPromptListsActions(t *testing.T) {
	exec, _, _ := newTestExecutor(t, Options{})
	sink := &fakeSink{respond: true, confirmAnswer: true}

	resp := &Response{Message: "m", Actions: []Action{
		{Type: TypeCreateFolder, Path: "pkg"},
		{Type: TypeDeleteFile, Path: "junk.txt"},
	}}
	exec.Apply(context.Background(), resp, sink)

	require.Len(t, sink.prompts, 1)
	assert.Contains(t, sink.prompts[0], "Apply 2 change(s)?")
	assert.Contains(t, sink.prompts[0], "Create folder pkg")
	assert.Contains(t, sink.prompts[0], "Delete file junk.txt")
}
