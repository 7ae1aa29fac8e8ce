// Package logging builds the zap logger shared across scribe components.
// Logs go to a file under the workspace .scribe directory so they never
// interleave with the chat surface on stdout.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger writing to .scribe/scribe.log in the given workspace.
// If the log file cannot be opened the logger falls back to stderr.
func New(workspacePath string, debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	sink := zapcore.AddSync(os.Stderr)
	logDir := filepath.Join(workspacePath, ".scribe")
	if err := os.MkdirAll(logDir, 0755); err == nil {
		file, err := os.OpenFile(filepath.Join(logDir, "scribe.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			sink = zapcore.AddSync(file)
		}
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core), nil
}
