package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/retry"
)

const logModule = "completion"

var ErrCompletionUnavailable = errors.New("completion unavailable")

// PromptPair is the input of one completion stage.
type PromptPair struct {
	SystemInstruction string
	UserMessage       string
}

func (p PromptPair) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: p.SystemInstruction},
		{Role: RoleUser, Content: p.UserMessage},
	}
}

// CompletionResult holds generated text. A zero value means no text was produced.
type CompletionResult struct {
	Text string
}

func (r CompletionResult) Present() bool {
	return r.Text != ""
}

// CompletionClient runs a PromptPair against a provider under a retry policy.
type CompletionClient struct {
	provider LLMProvider
	policy   retry.Policy
	logger   logger.ILogger
	opts     []Option
}

func NewCompletionClient(provider LLMProvider, policy retry.Policy, log logger.ILogger, opts ...Option) *CompletionClient {
	return &CompletionClient{provider: provider, policy: policy, logger: log, opts: opts}
}

// Complete fails with ErrCompletionUnavailable when the provider keeps
// erroring or keeps returning empty text.
func (c *CompletionClient) Complete(ctx context.Context, pair PromptPair) (CompletionResult, error) {
	start := time.Now()
	text, err := retry.Execute(ctx, c.policy, func(ctx context.Context) (string, error) {
		out, err := c.provider.Chat(ctx, pair.Messages(), c.opts...)
		if err != nil {
			return "", err
		}
		out = strings.TrimSpace(out)
		if out == "" {
			return "", ErrEmptyResponse
		}
		return out, nil
	})
	if err != nil {
		c.logger.Error(logModule, "completion failed", map[string]interface{}{
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return CompletionResult{}, fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}

	c.logger.Debug(logModule, "completion finished", map[string]interface{}{
		"chars":       len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return CompletionResult{Text: text}, nil
}
