package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/events"
	pktNats "citystyle-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
	err     error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	f.subject, f.durable, f.handler = subject, durableName, handler
	return f.err
}

func TestConsumerService_Consume(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sub := &fakeSubscriber{}
	svc := NewConsumerService(sub, logger.NewFromZap(zap.New(core)))

	require.NoError(t, svc.Consume(context.Background()))
	assert.Equal(t, "events.>", sub.subject)
	assert.Equal(t, auditDurable, sub.durable)

	evt := events.NewTrendGenerated("run-1", "tldr", "Paris", 4, time.Now())
	require.NoError(t, sub.handler(context.Background(), evt))
	require.NoError(t, sub.handler(context.Background(), events.BaseEvent{Type: "other"}))

	recorded := logs.FilterMessage("generation recorded").All()
	require.Len(t, recorded, 1)
}

func TestConsumerService_Consume_SubscribeError(t *testing.T) {
	svc := NewConsumerService(&fakeSubscriber{err: errors.New("no stream")}, logger.NewNopLogger())

	err := svc.Consume(context.Background())

	assert.ErrorContains(t, err, "start audit consumer")
}
