package bootstrap

import (
	"context"
	"fmt"
	"time"

	"citystyle-be/internal/config"
	"citystyle-be/internal/controller"
	"citystyle-be/internal/metrics"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/internal/service"
	"citystyle-be/pkg/events"
	"citystyle-be/pkg/imagegen"
	"citystyle-be/pkg/imagegen/imagen"
	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/llm/factory"
	"citystyle-be/pkg/llm/gemini"
	"citystyle-be/pkg/outfit"
	"citystyle-be/pkg/rag"
	"citystyle-be/pkg/retry"
	"citystyle-be/pkg/search"
	"citystyle-be/pkg/search/exa"
	"citystyle-be/pkg/storage"

	pktNats "citystyle-be/pkg/nats"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	RagController    controller.IRagController
	OutfitController controller.IOutfitController

	// Background Services (nil when no event bus is configured)
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	p, err := NewPipelines(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Logger:          sysLogger,
		ConsumerService: p.ConsumerService,
		closers:         []func(){p.Close},
	}

	// Services & Controllers
	ragService := service.NewRagService(p.Orchestrator, sysLogger)
	outfitService := service.NewOutfitService(p.Composer, sysLogger)

	c.RagController = controller.NewRagController(ragService, sysLogger)
	c.OutfitController = controller.NewOutfitController(outfitService, sysLogger)

	return c, nil
}

// Pipelines holds the fully wired trend and outfit pipelines.
type Pipelines struct {
	Orchestrator    *rag.Orchestrator
	Composer        *outfit.Composer
	ConsumerService service.IConsumerService

	closers []func()
}

func NewPipelines(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*Pipelines, error) {
	p := &Pipelines{}

	genaiClient, err := gemini.NewClient(ctx, cfg.Keys.GoogleGemini)
	if err != nil {
		return nil, err
	}

	// Event Bus
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, natsPub.Close)
		publisher = natsPub

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.closers = append(p.closers, natsSub.Close)
		p.ConsumerService = service.NewConsumerService(natsSub, sysLogger)
	}

	// Providers
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, genaiClient)
	if err != nil {
		p.Close()
		return nil, err
	}

	var imagePublisher imagegen.Publisher = imagegen.InlinePublisher{}
	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Store(storage.S3Config{
			Endpoint:   cfg.Storage.Endpoint,
			Region:     cfg.Storage.Region,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			Bucket:     cfg.Storage.Bucket,
			UseSSL:     cfg.Storage.UseSSL,
			PresignTTL: cfg.Storage.PresignTTL,
		})
		if err != nil {
			p.Close()
			return nil, err
		}
		imagePublisher = store
	}

	imageSize, err := imagegen.ParseSize(cfg.Ai.ImageSize)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("IMAGE_SIZE: %w", err)
	}

	// Clients
	searchClient := search.NewClient(
		exa.NewExaProvider(cfg.Ai.SearchBaseURL, cfg.Keys.Exa),
		policy(cfg.Retry.SearchMaxRetries, cfg.Retry.SearchInitialDelay, "exa"),
		sysLogger,
	)
	completionClient := llm.NewCompletionClient(
		llmProvider,
		policy(cfg.Retry.CompletionMaxRetries, cfg.Retry.CompletionDelay, cfg.Ai.LLMProvider),
		sysLogger,
		completionOptions(cfg.Ai)...,
	)
	imageClient := imagegen.NewClient(
		imagen.NewImagenProvider(genaiClient, cfg.Ai.ImageModel),
		imagePublisher,
		policy(cfg.Retry.ImageMaxRetries, cfg.Retry.ImageInitialDelay, "imagen"),
		sysLogger,
	)

	p.Orchestrator = rag.NewOrchestrator(searchClient, completionClient, imageClient, sysLogger,
		rag.WithTimeout(cfg.Pipeline.Timeout),
		rag.WithImageSize(imageSize),
		rag.WithDefaultCity(cfg.Pipeline.DefaultCity),
		rag.WithPublisher(publisher),
	)
	p.Composer = outfit.NewComposer(completionClient, imageClient, sysLogger, publisher, cfg.Pipeline.Timeout)

	return p, nil
}

// Close releases event bus connections in reverse order of creation.
func (p *Pipelines) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func policy(maxRetries int, initialDelay time.Duration, provider string) retry.Policy {
	return retry.Policy{
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
		Notify:       metrics.RetryNotifier(provider),
	}
}

func completionOptions(ai config.AIConfig) []llm.Option {
	opts := []llm.Option{llm.WithTemperature(ai.Temperature)}
	if ai.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(ai.MaxTokens))
	}
	return opts
}
