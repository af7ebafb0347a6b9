package service

import (
	"context"
	"encoding/json"
	"fmt"

	"grounded-qa-be/internal/dto"
	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/pkg/logger"
	"grounded-qa-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const DefaultAuditTopic = "research.audit"

type IAuditPublisher interface {
	PublishAudit(ctx context.Context, audit *dto.ResearchAuditMessage) error
}

type auditPublisher struct {
	publisher message.Publisher
	topicName string
}

func NewAuditPublisher(topicName string, publisher message.Publisher) IAuditPublisher {
	return &auditPublisher{
		publisher: publisher,
		topicName: topicName,
	}
}

func (p *auditPublisher) PublishAudit(ctx context.Context, audit *dto.ResearchAuditMessage) error {
	payload, err := json.Marshal(audit)
	if err != nil {
		return fmt.Errorf("marshal audit: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}

type IAuditConsumer interface {
	Consume(ctx context.Context) error
}

// auditConsumer stores every audit message it receives. Audits are best
// effort: bad or unstorable messages are logged and acked.
type auditConsumer struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuditConsumer(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IAuditConsumer {
	return &auditConsumer{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (c *auditConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (c *auditConsumer) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.ResearchAuditMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.logger.Error("AUDIT", "Failed to unmarshal audit message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	audit := auditFromMessage(&payload)
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ResearchAuditRepository().Create(ctx, audit); err != nil {
		c.logger.Error("AUDIT", "Failed to store research audit", map[string]interface{}{
			"session_id": payload.ChatSessionId.String(),
			"error":      err.Error(),
		})
		return
	}

	c.logger.Debug("AUDIT", "Research audit stored", map[string]interface{}{
		"audit_id":   audit.Id.String(),
		"session_id": payload.ChatSessionId.String(),
	})
}

func auditFromMessage(m *dto.ResearchAuditMessage) *entity.ResearchAudit {
	trace := make([]interface{}, 0, len(m.Trace))
	for _, s := range m.Trace {
		trace = append(trace, s)
	}
	metadata := map[string]interface{}{
		"trace":           trace,
		"decision_source": m.DecisionSource,
	}
	if m.RecoveredError != "" {
		metadata["recovered_error"] = m.RecoveredError
	}

	return &entity.ResearchAudit{
		Id:             uuid.New(),
		ChatSessionId:  m.ChatSessionId,
		UserId:         m.UserId,
		Question:       m.Question,
		Forced:         m.Forced,
		Category:       m.Category,
		ShouldResearch: m.ShouldResearch,
		SearchQuery:    m.SearchQuery,
		SearchStatus:   m.SearchStatus,
		Refined:        m.Refined,
		LatencyMs:      m.LatencyMs,
		Metadata:       metadata,
		CreatedAt:      m.OccurredAt,
	}
}
