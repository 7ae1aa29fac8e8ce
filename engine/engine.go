// Package engine orchestrates one request end to end: reference resolution,
// index scan, generator selection, action application and history tracking.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"scribe/action"
	"scribe/chat"
	"scribe/editor"
	"scribe/generator"
	"scribe/index"
	"scribe/llm"
)

// Sink is where the engine reports messages, failures and confirmation
// prompts. The executor shares the same surface.
type Sink = action.Sink

// settleWindow is how long a completed result keeps absorbing duplicate
// submissions of the same request.
const settleWindow = 500 * time.Millisecond

// Outcome describes what one handled request produced.
type Outcome struct {
	Generator string
	Response  *action.Response
	Summary   action.Summary
}

type settled struct {
	outcome *Outcome
	err     error
	at      time.Time
}

// Engine wires the pipeline together. One Engine serves one workspace.
type Engine struct {
	scanner  *index.Scanner
	registry *generator.Registry
	executor *action.Executor
	editor   *editor.Editor
	history  *chat.History
	sink     Sink
	logger   *zap.Logger

	group  singleflight.Group
	settle time.Duration

	mu     sync.Mutex
	recent map[string]settled
}

func New(scanner *index.Scanner, registry *generator.Registry, executor *action.Executor, ed *editor.Editor, history *chat.History, sink Sink, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		scanner:  scanner,
		registry: registry,
		executor: executor,
		editor:   ed,
		history:  history,
		sink:     sink,
		logger:   logger,
		settle:   settleWindow,
		recent:   make(map[string]settled),
	}
}

// Handle runs the full pipeline for one request. Duplicate submissions of
// the same text share a single in-flight run, and a completed result keeps
// answering duplicates for the settle window, so hammering enter does not
// multiply model calls.
func (e *Engine) Handle(ctx context.Context, text string) (*Outcome, error) {
	key := normalizeRequest(text)

	e.mu.Lock()
	if prev, ok := e.recent[key]; ok && time.Since(prev.at) < e.settle {
		e.mu.Unlock()
		e.logger.Debug("duplicate request settled", zap.String("key", key))
		return prev.outcome, prev.err
	}
	e.mu.Unlock()

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		outcome, err := e.handle(ctx, text)
		e.mu.Lock()
		e.recent[key] = settled{outcome: outcome, err: err, at: time.Now()}
		e.mu.Unlock()
		return outcome, err
	})
	if v == nil {
		return nil, err
	}
	return v.(*Outcome), err
}

func (e *Engine) handle(ctx context.Context, text string) (*Outcome, error) {
	resolved, err := e.history.ResolveReference(text)
	if err != nil {
		e.reportError(err)
		return nil, err
	}

	activePath := ""
	if doc := e.editor.Active(); doc != nil {
		activePath = doc.Path
	}
	entries, err := e.scanner.Scan(activePath)
	if err != nil {
		// A failed scan degrades context, it does not block the request.
		e.logger.Warn("index scan failed", zap.Error(err))
		entries = nil
	}

	g := e.registry.Find(resolved)
	e.logger.Debug("generator selected", zap.String("generator", g.Name()))

	resp, err := g.Generate(ctx, resolved, entries)
	if err != nil {
		e.reportError(err)
		return nil, err
	}

	summary := e.executor.Apply(ctx, resp, e.sink)

	files := resp.TouchedPaths()
	var errs []string
	for _, failed := range summary.Failed() {
		errs = append(errs, failed.Err.Error())
	}
	if !summary.Applied {
		files = nil
	}
	if err := e.history.AddExchange(text, resp.Message, files, errs); err != nil {
		e.logger.Warn("failed to persist history", zap.Error(err))
	}

	return &Outcome{Generator: g.Name(), Response: resp, Summary: summary}, nil
}

// Hello greets without touching the model. Useful as a smoke test that the
// pipeline and sink are wired.
func (e *Engine) Hello() {
	e.sink.Say("Hello! Describe a change and I will propose file actions, or ask me to scaffold something like a todo app.")
}

// ModifyProject handles a whole-project request as typed.
func (e *Engine) ModifyProject(ctx context.Context, request string) (*Outcome, error) {
	return e.Handle(ctx, request)
}

// EditSelection attaches the active editor selection to the request so the
// model edits the highlighted code rather than guessing a location.
func (e *Engine) EditSelection(ctx context.Context, request string) (*Outcome, error) {
	doc := e.editor.Active()
	if doc == nil {
		err := errors.New("no active file to edit")
		e.reportError(err)
		return nil, err
	}

	selection := e.editor.SelectionText()
	if selection == "" {
		selection = doc.Text()
	}
	prompt := fmt.Sprintf("In %s, change the following code as requested.\n\nCode:\n%s\n\nRequest: %s",
		doc.Path, selection, request)
	return e.Handle(ctx, prompt)
}

// SuggestAtCursor asks for an insertText continuation at the cursor.
func (e *Engine) SuggestAtCursor(ctx context.Context) (*Outcome, error) {
	doc := e.editor.Active()
	if doc == nil {
		err := errors.New("no active file to suggest into")
		e.reportError(err)
		return nil, err
	}

	cursor := e.editor.Cursor()
	prompt := fmt.Sprintf("Suggest code to insert at line %d, character %d of %s. Respond with a single insertText action.\n\nFile contents:\n%s",
		cursor.Line+1, cursor.Character+1, doc.Path, doc.Text())
	return e.Handle(ctx, prompt)
}

// Chat handles free-form conversation. The parser already degrades replies
// without actions to a plain message.
func (e *Engine) Chat(ctx context.Context, text string) (*Outcome, error) {
	return e.Handle(ctx, text)
}

// reportError renders an error through the sink in user terms.
func (e *Engine) reportError(err error) {
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		e.sink.Error("No API key configured. Set one with: scribe config set openai_api_key <key>")
	case errors.Is(err, llm.ErrRateLimited):
		e.sink.Error("The provider is rate limiting requests. Wait a moment and try again.")
	case errors.Is(err, chat.ErrNoReferent):
		e.sink.Error("I could not find an earlier file or error to resolve that reference. Please name it explicitly.")
	default:
		e.sink.Error(fmt.Sprintf("Request failed: %v", err))
	}
}

// normalizeRequest collapses case and whitespace so retyped duplicates
// share a debounce key.
func normalizeRequest(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
