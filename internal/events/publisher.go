package events

import (
	"context"
	"time"

	"grounded-qa-be/internal/pkg/logger"
	pkgEvents "grounded-qa-be/pkg/events"

	"github.com/google/uuid"
)

// Sink is the transport an event is handed to, normally *nats.Publisher.
type Sink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

type ChatAnswered struct {
	SessionId      uuid.UUID
	UserId         uuid.UUID
	ShouldResearch bool
	Forced         bool
	Category       string
	SearchStatus   string
	Refined        bool
	LatencyMs      int64
}

// Publisher emits chat domain events. Failures are logged, never returned.
type Publisher interface {
	PublishChatAnswered(ctx context.Context, evt ChatAnswered)
	PublishSessionDeleted(ctx context.Context, sessionId, userId uuid.UUID)
}

type NatsPublisher struct {
	sink   Sink
	logger logger.ILogger
	now    func() time.Time
}

// NewNatsPublisher accepts a nil sink; every publish is then a no-op.
func NewNatsPublisher(sink Sink, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

func (p *NatsPublisher) PublishChatAnswered(ctx context.Context, evt ChatAnswered) {
	p.publish(ctx, pkgEvents.BaseEvent{
		Type: pkgEvents.TypeChatAnswered,
		Data: map[string]interface{}{
			"session_id":      evt.SessionId.String(),
			"user_id":         evt.UserId.String(),
			"should_research": evt.ShouldResearch,
			"forced":          evt.Forced,
			"category":        evt.Category,
			"search_status":   evt.SearchStatus,
			"refined":         evt.Refined,
			"latency_ms":      evt.LatencyMs,
			"entity_type":     "chat_session",
			"entity_id":       evt.SessionId.String(),
		},
		OccurredAt: p.now(),
	})
}

func (p *NatsPublisher) PublishSessionDeleted(ctx context.Context, sessionId, userId uuid.UUID) {
	p.publish(ctx, pkgEvents.BaseEvent{
		Type: pkgEvents.TypeSessionDeleted,
		Data: map[string]interface{}{
			"session_id":  sessionId.String(),
			"user_id":     userId.String(),
			"entity_type": "chat_session",
			"entity_id":   sessionId.String(),
		},
		OccurredAt: p.now(),
	})
}

func (p *NatsPublisher) publish(ctx context.Context, evt pkgEvents.BaseEvent) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
	}
}
