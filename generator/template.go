package generator

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"scribe/action"
	"scribe/index"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// manifest is the on-disk shape of a canned generator.
type manifest struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Detect      []detectRule   `yaml:"detect"`
	Message     string         `yaml:"message"`
	Folder      string         `yaml:"folder"`
	Files       []manifestFile `yaml:"files"`
}

// detectRule matches when the input contains one of the keywords and one of
// the action verbs.
type detectRule struct {
	Keywords []string `yaml:"keywords"`
	Verbs    []string `yaml:"verbs"`
}

type manifestFile struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

type compiledRule struct {
	keywords *regexp.Regexp
	verbs    *regexp.Regexp
}

// templateGenerator serves one embedded manifest.
type templateGenerator struct {
	name        string
	description string
	rules       []compiledRule
	message     string
	folder      string
	files       []manifestFile
}

func (t *templateGenerator) Name() string        { return t.name }
func (t *templateGenerator) Description() string { return t.description }

func (t *templateGenerator) Detect(input string) bool {
	for _, rule := range t.rules {
		if rule.keywords.MatchString(input) && rule.verbs.MatchString(input) {
			return true
		}
	}
	return false
}

func (t *templateGenerator) Generate(_ context.Context, _ string, _ []index.Entry) (*action.Response, error) {
	resp := &action.Response{Message: t.message}
	if t.folder != "" {
		resp.Actions = append(resp.Actions, action.Action{
			Type: action.TypeCreateFolder,
			Path: t.folder,
		})
	}
	for _, f := range t.files {
		resp.Actions = append(resp.Actions, action.Action{
			Type:    action.TypeCreateFile,
			Path:    f.Path,
			Content: f.Content,
		})
	}
	return resp, nil
}

// LoadTemplates parses all embedded manifests, sorted by filename so
// registration order is deterministic.
func LoadTemplates() ([]Generator, error) {
	names, err := fs.Glob(templateFS, "templates/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var generators []Generator
	for _, name := range names {
		data, err := templateFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}

		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		g, err := compileManifest(&m)
		if err != nil {
			return nil, fmt.Errorf("invalid template %s: %w", name, err)
		}
		generators = append(generators, g)
	}
	return generators, nil
}

func compileManifest(m *manifest) (*templateGenerator, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("manifest has no name")
	}
	if len(m.Detect) == 0 {
		return nil, fmt.Errorf("manifest has no detect rules")
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest has no files")
	}

	t := &templateGenerator{
		name:        m.Name,
		description: m.Description,
		message:     m.Message,
		folder:      m.Folder,
		files:       m.Files,
	}
	for _, rule := range m.Detect {
		compiled, err := compileRule(rule)
		if err != nil {
			return nil, err
		}
		t.rules = append(t.rules, compiled)
	}
	return t, nil
}

func compileRule(rule detectRule) (compiledRule, error) {
	if len(rule.Keywords) == 0 || len(rule.Verbs) == 0 {
		return compiledRule{}, fmt.Errorf("detect rule needs keywords and verbs")
	}
	keywords, err := wordPattern(rule.Keywords)
	if err != nil {
		return compiledRule{}, err
	}
	verbs, err := wordPattern(rule.Verbs)
	if err != nil {
		return compiledRule{}, err
	}
	return compiledRule{keywords: keywords, verbs: verbs}, nil
}

// wordPattern builds a case-insensitive whole-word alternation.
func wordPattern(words []string) (*regexp.Regexp, error) {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
