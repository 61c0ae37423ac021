package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/retry"
	"citystyle-be/pkg/utils"
)

const logModule = "search"

// Client wraps a Provider with the retry policy and result normalization.
type Client struct {
	provider Provider
	policy   retry.Policy
	logger   logger.ILogger
}

func NewClient(provider Provider, policy retry.Policy, log logger.ILogger) *Client {
	return &Client{provider: provider, policy: policy, logger: log}
}

// Search fails with ErrSearchUnavailable once the provider has exhausted its retries.
func (c *Client) Search(ctx context.Context, query string, filters Filters) (GroundingResult, error) {
	if filters.NumResults <= 0 || filters.NumResults > MaxResults {
		filters.NumResults = MaxResults
	}

	start := time.Now()
	snippets, err := retry.Execute(ctx, c.policy, func(ctx context.Context) ([]Snippet, error) {
		return c.provider.Search(ctx, query, filters)
	})
	if err != nil {
		c.logger.Error(logModule, "search failed", map[string]interface{}{
			"query": utils.Preview(query, 80),
			"error": err.Error(),
		})
		return GroundingResult{}, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	result := GroundingResult{Snippets: normalize(snippets, filters.NumResults)}
	c.logger.Info(logModule, "search completed", map[string]interface{}{
		"query":         utils.Preview(query, 80),
		"results":       len(result.Snippets),
		"recency_floor": filters.StartPublishedDate,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return result, nil
}

func normalize(snippets []Snippet, limit int) []Snippet {
	out := make([]Snippet, 0, len(snippets))
	for _, s := range snippets {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
