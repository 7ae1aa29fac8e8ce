// Package index builds a bounded, heuristic summary of workspace source
// symbols for use as model context. The index is rebuilt per request and
// returned to the caller; nothing is cached between calls.
package index

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Entry is one indexed file with its extracted symbol names.
type Entry struct {
	Path    string
	Symbols []string
}

// Options bound the size of the produced index.
type Options struct {
	MaxFiles          int   // total files in the index
	MaxSymbolsPerFile int   // symbols kept for non-active files
	ActiveFileSymbols int   // larger symbol slice for the active file
	MaxFileSize       int64 // files larger than this are skipped
}

// DefaultOptions returns the bounds used when no configuration is supplied.
func DefaultOptions() Options {
	return Options{
		MaxFiles:          10,
		MaxSymbolsPerFile: 15,
		ActiveFileSymbols: 40,
		MaxFileSize:       500 * 1024,
	}
}

// Scanner scans one workspace.
type Scanner struct {
	root    string
	opts    Options
	logger  *zap.Logger
	watcher *Watcher
}

// NewScanner creates a scanner for the workspace root.
func NewScanner(root string, opts Options, logger *zap.Logger) *Scanner {
	if opts.MaxFiles <= 0 {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{root: root, opts: opts, logger: logger}
}

// SetWatcher attaches a recency watcher; recently changed files are promoted
// ahead of cold files when the scan quota fills up.
func (s *Scanner) SetWatcher(w *Watcher) {
	s.watcher = w
}

// Scan walks the workspace and returns a bounded list of entries. The active
// file, if indexable, is always first and carries a larger symbol slice.
// Individual unreadable files are logged and skipped, never fatal.
func (s *Scanner) Scan(activePath string) ([]Entry, error) {
	var candidates []string

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files with errors
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if shouldSkipDirectory(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Size() > s.opts.MaxFileSize || !isSourceFile(rel) {
			return nil
		}

		if rel != activePath {
			candidates = append(candidates, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, s.opts.MaxFiles)

	if activePath != "" && isSourceFile(activePath) {
		if entry, ok := s.indexFile(activePath, s.opts.ActiveFileSymbols); ok {
			entries = append(entries, entry)
		}
	}

	for _, rel := range s.orderCandidates(candidates) {
		if len(entries) >= s.opts.MaxFiles {
			break
		}
		if entry, ok := s.indexFile(rel, s.opts.MaxSymbolsPerFile); ok {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// orderCandidates moves files the watcher saw change recently to the front,
// keeping traversal order for the rest.
func (s *Scanner) orderCandidates(candidates []string) []string {
	if s.watcher == nil {
		return candidates
	}

	recent := s.watcher.Recent()
	if len(recent) == 0 {
		return candidates
	}

	inCandidates := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		inCandidates[c] = true
	}

	ordered := make([]string, 0, len(candidates))
	promoted := make(map[string]bool)
	for _, r := range recent {
		if inCandidates[r] && !promoted[r] {
			ordered = append(ordered, r)
			promoted[r] = true
		}
	}
	for _, c := range candidates {
		if !promoted[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// indexFile reads one file and extracts its symbols.
func (s *Scanner) indexFile(rel string, maxSymbols int) (Entry, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		s.logger.Warn("skipping unreadable file", zap.String("path", rel), zap.Error(err))
		return Entry{}, false
	}

	return Entry{
		Path:    rel,
		Symbols: ExtractSymbols(string(data), maxSymbols),
	}, true
}

// Serialize renders entries as prompt context, one "path: symbols" line each.
func Serialize(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Path)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Symbols, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// shouldSkipDirectory checks if a directory should be skipped
func shouldSkipDirectory(relPath string) bool {
	skipDirs := []string{".git", "node_modules", "vendor", ".vscode", ".idea", "target", "dist", "build", "__pycache__", ".scribe"}

	dirName := filepath.Base(relPath)
	for _, skip := range skipDirs {
		if dirName == skip {
			return true
		}
	}
	return false
}

// isSourceFile filters to source-like extensions worth indexing.
func isSourceFile(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	sourceExts := []string{
		".go", ".js", ".ts", ".jsx", ".tsx", ".py", ".java",
		".c", ".cpp", ".cc", ".h", ".hpp", ".cs", ".rb", ".rs",
		".php", ".swift", ".kt", ".scala", ".lua", ".sh",
		".html", ".css", ".scss", ".json", ".yaml", ".yml", ".md",
	}

	for _, s := range sourceExts {
		if ext == s {
			return true
		}
	}
	return false
}
