package service

import (
	"context"
	"errors"

	"citystyle-be/internal/dto"
	"citystyle-be/internal/metrics"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/imagegen"
	"citystyle-be/pkg/outfit"
)

type IOutfitService interface {
	GenerateOutfit(ctx context.Context, req *dto.GenerateOutfitRequest) (*dto.GenerateOutfitResponse, error)
}

// OutfitComposer is satisfied by *outfit.Composer.
type OutfitComposer interface {
	Compose(ctx context.Context, items string) (outfit.Outfit, error)
}

type outfitService struct {
	composer OutfitComposer
	logger   logger.ILogger
}

func NewOutfitService(composer OutfitComposer, log logger.ILogger) IOutfitService {
	return &outfitService{composer: composer, logger: log}
}

func (s *outfitService) GenerateOutfit(ctx context.Context, req *dto.GenerateOutfitRequest) (*dto.GenerateOutfitResponse, error) {
	items := outfit.ComposeItems(req.SelectedItems)
	if items == "" {
		return nil, outfit.ErrNoItems
	}

	res, err := s.composer.Compose(ctx, items)
	if err != nil {
		if errors.Is(err, imagegen.ErrImageUnavailable) {
			metrics.ImageFallbacks.WithLabelValues("generate_outfit").Inc()
		}
		metrics.PipelineRuns.WithLabelValues("outfit_compose", "error").Inc()
		return nil, err
	}

	metrics.PipelineRuns.WithLabelValues("outfit_compose", "success").Inc()
	return &dto.GenerateOutfitResponse{
		Outfit:   res.Outfit,
		ImageUrl: res.ImageURL,
	}, nil
}
