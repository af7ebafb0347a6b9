package service

import (
	"context"
	"fmt"
	"time"

	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/repository/specification"
	"grounded-qa-be/internal/repository/unitofwork"
	"grounded-qa-be/pkg/research"

	"github.com/google/uuid"
)

// HistoryStore persists conversation turns as chat messages.
type HistoryStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewHistoryStore(uowFactory unitofwork.RepositoryFactory) *HistoryStore {
	return &HistoryStore{uowFactory: uowFactory}
}

// LoadHistory returns the session's turns oldest first. Unknown sessions have none.
func (h *HistoryStore) LoadHistory(ctx context.Context, sessionId uuid.UUID) ([]research.Turn, error) {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.Chronological{},
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	turns := make([]research.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, messageToTurn(m))
	}
	return turns, nil
}

// AppendHistory writes all turns in one transaction or none of them.
func (h *HistoryStore) AppendHistory(ctx context.Context, sessionId uuid.UUID, turns []research.Turn) error {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := h.AppendHistoryTx(ctx, uow, sessionId, turns); err != nil {
		return err
	}
	return uow.Commit()
}

// AppendHistoryTx writes turns inside a transaction owned by the caller.
func (h *HistoryStore) AppendHistoryTx(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, turns []research.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	messages := make([]*entity.ChatMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, turnToMessage(sessionId, t))
	}
	if err := uow.ChatMessageRepository().CreateBatch(ctx, messages); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func messageToTurn(m *entity.ChatMessage) research.Turn {
	role := research.RoleHuman
	if m.Role == entity.ChatRoleAi {
		role = research.RoleAI
	}
	return research.Turn{Role: role, Content: m.Chat, Timestamp: m.CreatedAt}
}

func turnToMessage(sessionId uuid.UUID, t research.Turn) *entity.ChatMessage {
	role := entity.ChatRoleHuman
	if t.Role == research.RoleAI {
		role = entity.ChatRoleAi
	}
	createdAt := t.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          t.Content,
		Role:          role,
		ChatSessionId: sessionId,
		CreatedAt:     createdAt,
	}
}
