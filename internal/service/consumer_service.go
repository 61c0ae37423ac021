package service

import (
	"context"
	"fmt"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/events"
	pktNats "citystyle-be/pkg/nats"
)

const auditDurable = "generation-audit-worker"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// consumerService writes every generation event to the structured log so
// runs can be audited without a database.
type consumerService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewConsumerService(subscriber EventSubscriber, log logger.ILogger) IConsumerService {
	return &consumerService{subscriber: subscriber, logger: log}
}

func (s *consumerService) Consume(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, pktNats.Subject(">"), auditDurable, s.handleEvent); err != nil {
		return fmt.Errorf("start audit consumer: %w", err)
	}
	s.logger.Info("ConsumerService", "audit consumer started", map[string]interface{}{
		"durable": auditDurable,
	})
	return nil
}

func (s *consumerService) handleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.TypeTrendGenerated, events.TypeOutfitGenerated:
	default:
		s.logger.Debug("ConsumerService", "ignoring event", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["type"] = event.EventType()
	s.logger.Info("ConsumerService", "generation recorded", details)
	return nil
}
