package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter implements Adapter for the OpenAI chat completion API
type OpenAIAdapter struct {
	client *openai.Client
	config AdapterConfig
}

// NewOpenAIAdapter creates a new OpenAI adapter
func NewOpenAIAdapter(config AdapterConfig) *OpenAIAdapter {
	client := openai.NewClient(config.APIKey)

	// Set custom base URL if provided
	if config.BaseURL != "" {
		clientConfig := openai.DefaultConfig(config.APIKey)
		clientConfig.BaseURL = config.BaseURL
		client = openai.NewClientWithConfig(clientConfig)
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &OpenAIAdapter{
		client: client,
		config: config,
	}
}

// Complete implements Adapter.Complete
func (o *OpenAIAdapter) Complete(ctx context.Context, messages []Message, maxTokens int) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Messages:    openaiMessages,
		MaxTokens:   maxTokens,
		Temperature: o.config.Temperature,
	})

	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("OpenAI: %w", ErrRateLimited)
		}
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &Message{
		Role:      resp.Choices[0].Message.Role,
		Content:   resp.Choices[0].Message.Content,
		Timestamp: time.Now(),
	}, nil
}

// ModelName implements Adapter.ModelName
func (o *OpenAIAdapter) ModelName() string {
	return o.config.Model
}

// Available implements Adapter.Available
func (o *OpenAIAdapter) Available() bool {
	return o.config.APIKey != "" && o.config.Model != ""
}
