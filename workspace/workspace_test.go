package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, root, findGitRoot(nested))
	assert.Equal(t, root, findGitRoot(root))
}

func TestFindGitRootNoRepo(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", findGitRoot(dir))
}

func TestEnsureScribeDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, EnsureScribeDir(dir))
	info, err := os.Stat(filepath.Join(dir, ".scribe"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op
	require.NoError(t, EnsureScribeDir(dir))
}

func TestTrash(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "todo.txt")
	require.NoError(t, os.WriteFile(target, []byte("buy milk"), 0644))

	require.NoError(t, Trash(dir, target))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(filepath.Join(dir, ".scribe", "trash"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "todo.txt")
}

func TestTrashDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "main.go"), []byte("package main"), 0644))

	require.NoError(t, Trash(dir, target))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestTrashMissingTarget(t *testing.T) {
	dir := t.TempDir()
	err := Trash(dir, filepath.Join(dir, "nope.txt"))
	assert.Error(t, err)
}
