package outfit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/events"
	"citystyle-be/pkg/imagegen"
	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

const (
	logModule      = "outfit"
	DefaultTimeout = 60 * time.Second
)

var (
	ErrNoItems          = errors.New("no items provided")
	ErrGenerationFailed = errors.New("failed to generate outfit and image")
)

type Completer interface {
	Complete(ctx context.Context, pair llm.PromptPair) (llm.CompletionResult, error)
}

type ImageGenerator interface {
	GenerateImages(ctx context.Context, prompt string, count int, size imagegen.Size) imagegen.ImageSet
}

type Outfit struct {
	Outfit   string
	ImageURL string
}

// ComposeItems joins trimmed, non-empty items into one sentence-per-item string.
//
//	["wool coat", "leather boots"] -> "wool coat. leather boots."
//
// A single item is a pre-assembled string and is passed through unchanged.
func ComposeItems(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	switch {
	case len(cleaned) == 0:
		return ""
	case len(cleaned) == 1:
		return cleaned[0]
	}
	return strings.Join(cleaned, ". ") + "."
}

type Composer struct {
	completer Completer
	images    ImageGenerator
	logger    logger.ILogger
	publisher events.Publisher
	timeout   time.Duration
	imageSize imagegen.Size
	now       func() time.Time
}

func NewComposer(completer Completer, images ImageGenerator, log logger.ILogger, publisher events.Publisher, timeout time.Duration) *Composer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Composer{
		completer: completer,
		images:    images,
		logger:    log,
		publisher: publisher,
		timeout:   timeout,
		imageSize: imagegen.Size512,
		now:       time.Now,
	}
}

// Compose produces one style recommendation and one matching image. The
// image is only requested when the recommendation succeeded.
func (c *Composer) Compose(ctx context.Context, items string) (Outfit, error) {
	items = strings.TrimSpace(items)
	if items == "" {
		return Outfit{}, ErrNoItems
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	runID := uuid.NewString()
	start := time.Now()

	recommendation, err := c.completer.Complete(ctx, prompt.Outfit(items))
	if err != nil {
		return Outfit{}, c.fail(runID, "completion", err)
	}
	if !recommendation.Present() {
		return Outfit{}, c.fail(runID, "completion", llm.ErrEmptyResponse)
	}

	set := c.images.GenerateImages(ctx, prompt.OutfitImage(items), 1, c.imageSize)
	if !set.Available() {
		return Outfit{}, c.fail(runID, "image", imagegen.ErrImageUnavailable)
	}

	c.logger.Info(logModule, "outfit generated", map[string]interface{}{
		"run_id":      runID,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	itemCount := strings.Count(items, ". ") + 1
	if err := c.publisher.Publish(ctx, events.NewOutfitGenerated(runID, itemCount, c.now())); err != nil {
		c.logger.Warn(logModule, "failed to publish event", map[string]interface{}{
			"event": events.TypeOutfitGenerated,
			"error": err.Error(),
		})
	}

	return Outfit{Outfit: recommendation.Text, ImageURL: set[0]}, nil
}

func (c *Composer) fail(runID, stage string, err error) error {
	c.logger.Error(logModule, "outfit generation failed", map[string]interface{}{
		"run_id": runID,
		"stage":  stage,
		"error":  err,
	})
	return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, stage, err)
}
