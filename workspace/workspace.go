package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DetectRoot detects the workspace root directory.
// It tries to find the Git repository root, otherwise uses the current directory.
func DetectRoot() (string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	gitRoot := findGitRoot(pwd)
	if gitRoot != "" {
		return gitRoot, nil
	}

	return pwd, nil
}

// findGitRoot walks up the directory tree looking for a .git directory
func findGitRoot(startPath string) string {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			return currentPath
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			// Reached the root directory
			break
		}
		currentPath = parentPath
	}

	return ""
}

// EnsureScribeDir creates the .scribe directory if it doesn't exist
func EnsureScribeDir(workspacePath string) error {
	scribeDir := filepath.Join(workspacePath, ".scribe")

	if _, err := os.Stat(scribeDir); os.IsNotExist(err) {
		if err := os.MkdirAll(scribeDir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// Trash moves a file or directory into .scribe/trash instead of removing it,
// so model-driven deletions stay recoverable. The moved entry is prefixed with
// a timestamp to avoid collisions between repeated deletions of the same path.
func Trash(workspacePath, targetPath string) error {
	trashDir := filepath.Join(workspacePath, ".scribe", "trash")
	if err := os.MkdirAll(trashDir, 0755); err != nil {
		return fmt.Errorf("failed to create trash directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405.000"), filepath.Base(targetPath))
	dest := filepath.Join(trashDir, name)

	if err := os.Rename(targetPath, dest); err != nil {
		return fmt.Errorf("failed to move %s to trash: %w", targetPath, err)
	}

	return nil
}
