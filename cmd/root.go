package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scribe/action"
	"scribe/chat"
	"scribe/config"
	"scribe/editor"
	"scribe/engine"
	"scribe/generator"
	"scribe/index"
	"scribe/llm"
	"scribe/logging"
	"scribe/tui"
	"scribe/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe is a terminal-based, AI-driven coding assistant",
	Long: `Scribe runs inside any project folder and turns natural-language
requests into reviewable file actions. Common scaffolds (todo app,
calculator, snake, ...) are generated locally; everything else is
forwarded to the configured model together with a compact project index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var app *application
		err := tui.Start(func(sink engine.Sink) (*engine.Engine, error) {
			var buildErr error
			app, buildErr = newApplication(sink)
			if buildErr != nil {
				return nil, buildErr
			}
			return app.engine, nil
		})
		if app != nil {
			app.close()
		}
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// application bundles everything a command needs for one workspace session.
type application struct {
	workspacePath string
	cfg           *config.Config
	logger        *zap.Logger
	editor        *editor.Editor
	engine        *engine.Engine
	watcher       *index.Watcher
}

func newApplication(sink engine.Sink) (*application, error) {
	workspacePath, err := workspace.DetectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to detect workspace: %w", err)
	}
	if err := workspace.EnsureScribeDir(workspacePath); err != nil {
		return nil, err
	}

	cfg, err := config.Load(workspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(workspacePath, cfg.Debug)
	if err != nil {
		return nil, err
	}

	adapter, err := llm.NewAdapter(cfg.Provider, llm.AdapterConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.BaseURL,
		Timeout: llm.DefaultTimeout,
	})
	if err != nil {
		return nil, err
	}
	client := llm.NewClient(adapter, logger)

	registry, err := generator.NewDefaultRegistry(client, logger)
	if err != nil {
		return nil, err
	}

	opts := index.DefaultOptions()
	opts.MaxFiles = cfg.MaxIndexFiles
	opts.MaxSymbolsPerFile = cfg.MaxSymbols
	opts.MaxFileSize = cfg.MaxFileSize
	scanner := index.NewScanner(workspacePath, opts, logger)

	watcher := index.NewWatcher(workspacePath, logger)
	if err := watcher.Start(); err != nil {
		logger.Warn("file watching unavailable", zap.Error(err))
		watcher = nil
	} else {
		scanner.SetWatcher(watcher)
	}

	historyPath, err := chat.DefaultPath(workspacePath)
	if err != nil {
		return nil, err
	}
	history, err := chat.Load(historyPath, cfg.MaxHistory)
	if err != nil {
		return nil, err
	}

	ed := editor.New(workspacePath)
	exec := action.NewExecutor(workspacePath, ed, action.Options{
		AutoApply:    cfg.AutoApply,
		SkipExisting: cfg.SkipExisting,
	}, logger)

	return &application{
		workspacePath: workspacePath,
		cfg:           cfg,
		logger:        logger,
		editor:        ed,
		engine:        engine.New(scanner, registry, exec, ed, history, sink, logger),
		watcher:       watcher,
	}, nil
}

func (a *application) close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	_ = a.logger.Sync()
}

// consoleSink is the plain stdout/stderr sink for one-shot commands.
type consoleSink struct{}

func (consoleSink) Say(msg string) {
	fmt.Println(msg)
}

func (consoleSink) Error(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (consoleSink) Confirm(prompt string) <-chan bool {
	reply := make(chan bool, 1)
	fmt.Println(prompt)
	fmt.Print("[y/n] ")
	go func() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			reply <- false
			return
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		reply <- answer == "y" || answer == "yes"
	}()
	return reply
}
