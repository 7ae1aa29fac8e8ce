package generator

import (
	"context"

	"go.uber.org/zap"

	"scribe/action"
	"scribe/index"
	"scribe/llm"
)

// ModelGenerator is the catch-all responder. It forwards the request and
// the serialized project context to the configured model and parses the
// reply into actions.
type ModelGenerator struct {
	client *llm.Client
	logger *zap.Logger
}

func NewModelGenerator(client *llm.Client, logger *zap.Logger) *ModelGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelGenerator{client: client, logger: logger}
}

func (g *ModelGenerator) Name() string { return "model" }

func (g *ModelGenerator) Description() string {
	return "Forwards the request to the configured language model"
}

// Detect always matches. The registry consults this generator last.
func (g *ModelGenerator) Detect(string) bool { return true }

func (g *ModelGenerator) Generate(ctx context.Context, input string, entries []index.Entry) (*action.Response, error) {
	raw, err := g.client.Request(ctx, input, entries)
	if err != nil {
		return nil, err
	}
	return action.Parse(raw, g.logger), nil
}

// NewDefaultRegistry builds the standard registry: every embedded template
// generator in manifest order, then the model catch-all.
func NewDefaultRegistry(client *llm.Client, logger *zap.Logger) (*Registry, error) {
	registry := NewRegistry(NewModelGenerator(client, logger))

	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		registry.Register(t)
	}
	return registry, nil
}
