package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"scribe/index"
)

const (
	// maxAttempts bounds the transient-fault retry loop (first try included).
	maxAttempts = 3

	// backoffStep is the linear backoff unit: attempt n waits n steps.
	// This is a transient-fault policy, not exponential backoff.
	backoffStep = time.Second
)

// Client wraps an Adapter with prompt assembly, token budgeting and the
// bounded linear retry policy for transient network failures.
type Client struct {
	adapter Adapter
	logger  *zap.Logger
	backoff time.Duration
}

// NewClient creates a client around the given adapter.
func NewClient(adapter Adapter, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{adapter: adapter, logger: logger, backoff: backoffStep}
}

// Request sends the user prompt with the project index as system context and
// returns the raw assistant text. Error taxonomy:
//   - ErrNoAPIKey before any network call when the provider is unconfigured;
//   - ErrRateLimited on 429, never retried;
//   - timeout/connection-class failures retried up to maxAttempts with
//     linear backoff, then surfaced;
//   - anything else surfaced after the first failure.
func (c *Client) Request(ctx context.Context, prompt string, entries []index.Entry) (string, error) {
	if c.adapter == nil || !c.adapter.Available() {
		return "", ErrNoAPIKey
	}

	messages := []Message{
		{Role: "system", Content: BuildSystemPrompt(entries), Timestamp: time.Now()},
		{Role: "user", Content: prompt, Timestamp: time.Now()},
	}

	promptTokens := 0
	for _, m := range messages {
		promptTokens += EstimateTokens(m.Content)
	}
	maxTokens := BudgetTokens(c.adapter.ModelName(), promptTokens)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.adapter.Complete(ctx, messages, maxTokens)
		if err == nil {
			return resp.Content, nil
		}
		lastErr = err

		if errors.Is(err, ErrRateLimited) {
			c.logger.Warn("provider rate limited, not retrying")
			return "", err
		}
		if !isTransient(err) {
			return "", err
		}
		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(attempt) * c.backoff
		c.logger.Warn("transient provider error, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// ModelName returns the underlying adapter's model name.
func (c *Client) ModelName() string {
	if c.adapter == nil {
		return ""
	}
	return c.adapter.ModelName()
}

// isTransient reports whether an error is in the connection-timeout class
// worth a bounded retry.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := err.Error()
	for _, marker := range []string{"connection reset", "connection refused", "no such host", "broken pipe", "unexpected EOF"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
