package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scribe/action"
	"scribe/index"
	"scribe/llm"
)

// canned is a minimal Adapter returning a fixed completion.
type canned struct {
	reply string
}

func (c *canned) Complete(_ context.Context, _ []llm.Message, _ int) (*llm.Message, error) {
	return &llm.Message{Role: "assistant", Content: c.reply}, nil
}

func (c *canned) ModelName() string { return "canned" }
func (c *canned) Available() bool   { return true }

func defaultRegistry(t *testing.T, reply string) *Registry {
	t.Helper()
	client := llm.NewClient(&canned{reply: reply}, zap.NewNop())
	registry, err := NewDefaultRegistry(client, zap.NewNop())
	require.NoError(t, err)
	return registry
}

func TestLoadTemplates(t *testing.T) {
	templates, err := LoadTemplates()
	require.NoError(t, err)

	names := make([]string, len(templates))
	for i, tmpl := range templates {
		names[i] = tmpl.Name()
	}
	assert.ElementsMatch(t, []string{"todo", "calculator", "notepad", "snake", "tictactoe", "react"}, names)
}

func TestTodoGeneratorScaffold(t *testing.T) {
	registry := defaultRegistry(t, "")

	g := registry.Find("make a todo app")
	require.Equal(t, "todo", g.Name())

	resp, err := g.Generate(context.Background(), "make a todo app", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)

	var folders, files int
	for _, act := range resp.Actions {
		switch act.Type {
		case action.TypeCreateFolder:
			folders++
			assert.Equal(t, "todo_app", act.Path)
		case action.TypeCreateFile:
			files++
			assert.True(t, strings.HasPrefix(act.Path, "todo_app/"), "file %q not under todo_app/", act.Path)
			assert.NotEmpty(t, act.Content)
		default:
			t.Fatalf("unexpected action type %q", act.Type)
		}
	}
	assert.Equal(t, 1, folders)
	assert.GreaterOrEqual(t, files, 3)
}

func TestDetectRequiresKeywordAndVerb(t *testing.T) {
	registry := defaultRegistry(t, "")

	tests := []struct {
		input string
		want  string
	}{
		{"make a todo app", "todo"},
		{"please build a to-do list for me", "todo"},
		{"create a calculator", "calculator"},
		{"build a snake game", "snake"},
		{"generate tic tac toe", "tictactoe"},
		{"scaffold a react app", "react"},
		{"make a notepad", "notepad"},
		// Keyword without a verb falls through to the model.
		{"my todo list is broken", "model"},
		// Verb without a keyword falls through too.
		{"make the header blue", "model"},
		{"explain this function", "model"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, registry.Find(tt.input).Name(), "input %q", tt.input)
	}
}

func TestRegistryFirstMatchWins(t *testing.T) {
	first := &templateGenerator{name: "first"}
	second := &templateGenerator{name: "second"}
	matchAll, err := wordPattern([]string{"x"})
	require.NoError(t, err)
	first.rules = []compiledRule{{keywords: matchAll, verbs: matchAll}}
	second.rules = []compiledRule{{keywords: matchAll, verbs: matchAll}}

	registry := NewRegistry(NewModelGenerator(nil, nil))
	registry.Register(first)
	registry.Register(second)

	assert.Equal(t, "first", registry.Find("x").Name())
}

func TestRegistryCatchAllLast(t *testing.T) {
	registry := defaultRegistry(t, "")

	generators := registry.Generators()
	require.NotEmpty(t, generators)
	assert.Equal(t, "model", generators[len(generators)-1].Name())
	for _, g := range generators[:len(generators)-1] {
		assert.NotEqual(t, "model", g.Name())
	}
}

func TestModelGeneratorParsesReply(t *testing.T) {
	reply := `{"actions":[{"type":"createFile","path":"notes.txt","content":"hi"}],"message":"Created notes.txt"}`
	client := llm.NewClient(&canned{reply: reply}, zap.NewNop())
	g := NewModelGenerator(client, zap.NewNop())

	resp, err := g.Generate(context.Background(), "create notes.txt", []index.Entry{{Path: "main.go", Symbols: []string{"main"}}})
	require.NoError(t, err)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, action.TypeCreateFile, resp.Actions[0].Type)
	assert.Equal(t, "Created notes.txt", resp.Message)
}

func TestModelGeneratorFallsBackToMessage(t *testing.T) {
	client := llm.NewClient(&canned{reply: "Just some prose, no JSON."}, zap.NewNop())
	g := NewModelGenerator(client, zap.NewNop())

	resp, err := g.Generate(context.Background(), "chat with me", nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Actions)
	assert.Equal(t, "Just some prose, no JSON.", resp.Message)
}
