package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHistory(t *testing.T, max int) *History {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	h, err := Load(path, max)
	require.NoError(t, err)
	return h
}

func TestLoadMissingFile(t *testing.T) {
	h := tempHistory(t, 10)
	assert.Empty(t, h.Items())
}

func TestAddExchangePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	h, err := Load(path, 10)
	require.NoError(t, err)

	require.NoError(t, h.AddExchange("make a todo app", "Created the app", []string{"todo_app/index.html"}, nil))
	require.NoError(t, h.AddExchange("fix the bug", "Fixed it", nil, []string{"file not found"}))

	reloaded, err := Load(path, 10)
	require.NoError(t, err)
	require.Len(t, reloaded.Items(), 2)
	assert.Equal(t, "make a todo app", reloaded.Items()[0].User)
	assert.Equal(t, "Fixed it", reloaded.Items()[1].AI)
	assert.NotEmpty(t, reloaded.Items()[0].ID)
	assert.NotEmpty(t, reloaded.Items()[0].Timestamp)
}

func TestHistoryEvictsOldestBeyondCap(t *testing.T) {
	h := tempHistory(t, 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.AddExchange(fmt.Sprintf("request %d", i), "ok", nil, nil))
	}

	items := h.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "request 2", items[0].User)
	assert.Equal(t, "request 4", items[2].User)
}

func TestLoadTrimsToCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	h, err := Load(path, 10)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		require.NoError(t, h.AddExchange(fmt.Sprintf("request %d", i), "ok", nil, nil))
	}

	reloaded, err := Load(path, 2)
	require.NoError(t, err)
	require.Len(t, reloaded.Items(), 2)
	assert.Equal(t, "request 4", reloaded.Items()[0].User)
}

func TestLoadSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"id":"a","user":"first","ai":"ok","timestamp":"2026-01-01T00:00:00Z"}
not json at all
{"id":"b","user":"second","ai":"ok","timestamp":"2026-01-01T00:00:01Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	h, err := Load(path, 10)
	require.NoError(t, err)
	require.Len(t, h.Items(), 2)
	assert.Equal(t, "first", h.Items()[0].User)
	assert.Equal(t, "second", h.Items()[1].User)
}

func TestResolveReferenceThatFile(t *testing.T) {
	h := tempHistory(t, 10)
	require.NoError(t, h.AddExchange("create it", "done", []string{"src/app.js", "src/util.js"}, nil))

	out, err := h.ResolveReference("add a header comment to that file")
	require.NoError(t, err)
	assert.Equal(t, "add a header comment to src/util.js", out)
}

func TestResolveReferenceLastError(t *testing.T) {
	h := tempHistory(t, 10)
	require.NoError(t, h.AddExchange("build", "failed", nil, []string{"undefined variable x"}))

	out, err := h.ResolveReference("explain the last error")
	require.NoError(t, err)
	assert.Equal(t, "explain the undefined variable x", out)
}

func TestResolveReferenceNoReferent(t *testing.T) {
	h := tempHistory(t, 10)

	_, err := h.ResolveReference("delete that file")
	assert.ErrorIs(t, err, ErrNoReferent)

	_, err = h.ResolveReference("what caused the last error")
	assert.ErrorIs(t, err, ErrNoReferent)
}

func TestResolveReferenceUsesNewestReferent(t *testing.T) {
	h := tempHistory(t, 10)
	require.NoError(t, h.AddExchange("a", "ok", []string{"old.txt"}, nil))
	require.NoError(t, h.AddExchange("b", "ok", []string{"new.txt"}, nil))

	out, err := h.ResolveReference("open that file")
	require.NoError(t, err)
	assert.Equal(t, "open new.txt", out)
}

func TestResolveReferencePassthrough(t *testing.T) {
	h := tempHistory(t, 10)

	out, err := h.ResolveReference("make a snake game")
	require.NoError(t, err)
	assert.Equal(t, "make a snake game", out)
}

func TestDefaultPathStablePerWorkspace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	a, err := DefaultPath("/projects/alpha")
	require.NoError(t, err)
	b, err := DefaultPath("/projects/alpha")
	require.NoError(t, err)
	c, err := DefaultPath("/projects/beta")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, filepath.Join(".scribe", "history"))
}
