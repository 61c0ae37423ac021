package imagegen

import (
	"context"
	"fmt"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/retry"

	"github.com/google/uuid"
)

const logModule = "imagegen"

type Client struct {
	provider  Provider
	publisher Publisher
	policy    retry.Policy
	logger    logger.ILogger
	newID     func() string
}

func NewClient(provider Provider, publisher Publisher, policy retry.Policy, log logger.ILogger) *Client {
	if publisher == nil {
		publisher = InlinePublisher{}
	}
	return &Client{
		provider:  provider,
		publisher: publisher,
		policy:    policy,
		logger:    log,
		newID:     uuid.NewString,
	}
}

// GenerateImages never returns an error. Any failure collapses into the
// Unavailable sentinel.
func (c *Client) GenerateImages(ctx context.Context, prompt string, count int, size Size) ImageSet {
	start := time.Now()
	urls, err := c.generate(ctx, prompt, count, size)
	if err != nil {
		c.logger.Warn(logModule, "ImageUnavailable", map[string]interface{}{
			"error":       fmt.Errorf("%w: %w", ErrImageUnavailable, err).Error(),
			"count":       count,
			"size":        string(size),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return UnavailableSet()
	}

	c.logger.Info(logModule, "images generated", map[string]interface{}{
		"count":       len(urls),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return urls
}

func (c *Client) generate(ctx context.Context, prompt string, count int, size Size) (ImageSet, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	prompt = TruncatePrompt(prompt)

	images, err := retry.Execute(ctx, c.policy, func(ctx context.Context) ([]Image, error) {
		imgs, err := c.provider.Generate(ctx, prompt, count, size)
		if err != nil {
			return nil, err
		}
		if len(imgs) < count {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrShortResult, len(imgs), count)
		}
		return imgs[:count], nil
	})
	if err != nil {
		return nil, err
	}

	batchID := c.newID()
	urls := make(ImageSet, 0, count)
	for i, img := range images {
		if img.URL != "" {
			urls = append(urls, img.URL)
			continue
		}
		key := fmt.Sprintf("generated/%s/%d.%s", batchID, i, extension(img.MIMEType))
		url, err := c.publisher.Publish(ctx, key, img.Data, img.MIMEType)
		if err != nil {
			return nil, fmt.Errorf("publish image %d: %w", i, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
