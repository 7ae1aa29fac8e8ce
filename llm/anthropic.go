package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AnthropicAdapter implements Adapter for the Anthropic messages API
type AnthropicAdapter struct {
	client  *http.Client
	config  AdapterConfig
	baseURL string
}

// anthropicMessage represents a message in Anthropic API format
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicRequest represents a request to the Anthropic messages API
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicResponse represents a response from the Anthropic messages API
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewAnthropicAdapter creates a new Anthropic adapter
func NewAnthropicAdapter(config AdapterConfig) *AnthropicAdapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &AnthropicAdapter{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config:  config,
		baseURL: baseURL,
	}
}

// Complete implements Adapter.Complete. System messages are lifted into the
// top-level system field per the Anthropic wire contract.
func (a *AnthropicAdapter) Complete(ctx context.Context, messages []Message, maxTokens int) (*Message, error) {
	var system string
	anthropicMessages := make([]anthropicMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			system = msg.Content
			continue
		}
		anthropicMessages = append(anthropicMessages, anthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	request := anthropicRequest{
		Model:     a.config.Model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  anthropicMessages,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/messages", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("Anthropic: %w", ErrRateLimited)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Anthropic API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Extract text content from response
	var content string
	if len(response.Content) > 0 && response.Content[0].Type == "text" {
		content = response.Content[0].Text
	}

	return &Message{
		Role:      response.Role,
		Content:   content,
		Timestamp: time.Now(),
	}, nil
}

// ModelName implements Adapter.ModelName
func (a *AnthropicAdapter) ModelName() string {
	return a.config.Model
}

// Available implements Adapter.Available
func (a *AnthropicAdapter) Available() bool {
	return a.config.APIKey != "" && a.config.Model != ""
}
