package service

import (
	"context"
	"errors"

	"citystyle-be/internal/dto"
	"citystyle-be/internal/metrics"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/rag"
)

type IRagService interface {
	PerformRag(ctx context.Context, req *dto.PerformRagRequest) (*dto.PerformRagResponse, error)
}

// Pipeline is satisfied by *rag.Orchestrator.
type Pipeline interface {
	Run(ctx context.Context, q rag.Query) (*rag.Response, error)
}

type ragService struct {
	pipeline Pipeline
	logger   logger.ILogger
}

func NewRagService(pipeline Pipeline, log logger.ILogger) IRagService {
	return &ragService{pipeline: pipeline, logger: log}
}

func (s *ragService) PerformRag(ctx context.Context, req *dto.PerformRagRequest) (*dto.PerformRagResponse, error) {
	intent, parseErr := rag.ParseIntent(req.Type)
	label := string(intent)
	if parseErr != nil {
		// Let the pipeline reject it so the failure is traced like any other.
		intent, label = rag.Intent(req.Type), "unknown"
	}

	res, err := s.pipeline.Run(ctx, rag.Query{
		Intent:   intent,
		FreeText: req.Query,
		Locale:   req.City,
	})
	if err != nil {
		var stageErr *rag.StageError
		if errors.As(err, &stageErr) {
			observeTrace(label, stageErr.Trace)
		}
		metrics.PipelineRuns.WithLabelValues(label, outcome(err)).Inc()
		return nil, err
	}

	observeTrace(label, res.Trace)
	metrics.PipelineRuns.WithLabelValues(label, "success").Inc()
	if res.ImagesUnavailable() {
		metrics.ImageFallbacks.WithLabelValues("perform_rag").Inc()
	}

	return &dto.PerformRagResponse{
		Summary:   res.Summary,
		ImageUrls: res.ImageURLs,
		Message:   res.Message,
	}, nil
}

func observeTrace(intent string, trace rag.Trace) {
	for _, step := range trace.Steps {
		if step.State == rag.StateFailed || step.State == rag.StateDone {
			continue
		}
		metrics.PipelineStageDuration.WithLabelValues(intent, string(step.State)).Observe(step.Duration.Seconds())
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, rag.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, rag.ErrDeadlineExceeded):
		return "deadline_exceeded"
	case errors.Is(err, rag.ErrSearchUnavailable):
		return "search_unavailable"
	case errors.Is(err, rag.ErrCompletionUnavailable):
		return "completion_unavailable"
	default:
		return "error"
	}
}
