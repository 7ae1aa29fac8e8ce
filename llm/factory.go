package llm

import "fmt"

// NewAdapter creates the adapter for the named provider.
func NewAdapter(provider string, config AdapterConfig) (Adapter, error) {
	switch provider {
	case "openai":
		return NewOpenAIAdapter(config), nil
	case "anthropic":
		return NewAnthropicAdapter(config), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
