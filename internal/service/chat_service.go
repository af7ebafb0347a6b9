package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"grounded-qa-be/internal/dto"
	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/events"
	"grounded-qa-be/internal/pkg/logger"
	"grounded-qa-be/internal/repository/memory"
	"grounded-qa-be/internal/repository/specification"
	"grounded-qa-be/internal/repository/unitofwork"
	"grounded-qa-be/pkg/research"

	"github.com/google/uuid"
)

const (
	DefaultSessionTitle = "New Chat"
	maxTitleRunes       = 60
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

// Runner answers one question; *research.Pipeline is the production runner.
type Runner interface {
	Run(ctx context.Context, sessionID, question string, prior []research.Turn) (*research.Result, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	history    *HistoryStore
	runner     Runner
	runs       *memory.RunRegistry
	audit      IAuditPublisher
	publisher  events.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	runner Runner,
	runs *memory.RunRegistry,
	audit IAuditPublisher,
	publisher events.Publisher,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		history:    NewHistoryStore(uowFactory),
		runner:     runner,
		runs:       runs,
		audit:      audit,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	sess, err := cs.createSession(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: sess.Id}, nil
}

func (cs *chatService) createSession(ctx context.Context, userId uuid.UUID) (*entity.ChatSession, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sess := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     DefaultSessionTitle,
		CreatedAt: cs.now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetAllSessions lists the user's sessions, newest first.
func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.LatestFirst{},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return response, nil
}

// GetChatHistory returns an empty list for sessions the user does not have.
func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return []*dto.GetChatHistoryResponse{}, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.Chronological{},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Chat:      m.Chat,
			CreatedAt: m.CreatedAt,
		})
	}
	return resp, nil
}

func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	question := strings.TrimSpace(request.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	sess, err := cs.resolveSession(ctx, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	key := sess.Id.String()
	if !cs.runs.Acquire(key) {
		return nil, ErrSessionBusy
	}
	defer cs.runs.Release(key)

	prior, err := cs.history.LoadHistory(ctx, sess.Id)
	if err != nil {
		return nil, err
	}

	started := cs.now()
	res, err := cs.runner.Run(ctx, key, question, prior)
	if err != nil {
		cs.logger.Warn("CHAT", "Pipeline run failed, nothing persisted", map[string]interface{}{
			"session_id": key,
			"error":      err.Error(),
		})
		return nil, err
	}
	latency := cs.now().Sub(started)

	if err := cs.persistExchange(ctx, sess, len(prior) == 0, question, res.NewTurns); err != nil {
		return nil, err
	}

	cs.afterCommit(ctx, userId, sess.Id, question, res, latency)

	return &dto.SendChatResponse{
		Response:      res.FinalAnswer,
		ChatSessionId: sess.Id,
		ChatHistory:   turnsToDTO(res.History),
		Research:      researchSummary(res.State),
	}, nil
}

func (cs *chatService) resolveSession(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID) (*entity.ChatSession, error) {
	if sessionId == nil || *sessionId == uuid.Nil {
		return cs.createSession(ctx, userId)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: *sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// persistExchange appends the new turns and, on the first exchange, renames
// the session, all in one transaction.
func (cs *chatService) persistExchange(ctx context.Context, sess *entity.ChatSession, first bool, question string, turns []research.Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := cs.history.AppendHistoryTx(ctx, uow, sess.Id, turns); err != nil {
		return err
	}

	if first && sess.Title == DefaultSessionTitle {
		now := cs.now()
		sess.Title = sessionTitle(question)
		sess.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, sess); err != nil {
			return err
		}
	}

	return uow.Commit()
}

func (cs *chatService) afterCommit(ctx context.Context, userId, sessionId uuid.UUID, question string, res *research.Result, latency time.Duration) {
	s := res.State
	trace := make([]string, 0, len(res.Trace))
	for _, stage := range res.Trace {
		trace = append(trace, stage.String())
	}

	audit := &dto.ResearchAuditMessage{
		ChatSessionId:  sessionId,
		UserId:         userId,
		Question:       question,
		Forced:         s.Decision.Override.Forced,
		Category:       string(s.Decision.Override.Category),
		ShouldResearch: s.ShouldResearch,
		SearchQuery:    s.SearchQuery,
		SearchStatus:   string(s.Research.Status),
		Refined:        s.Refined,
		LatencyMs:      latency.Milliseconds(),
		Trace:          trace,
		DecisionSource: string(s.Decision.Source),
		OccurredAt:     cs.now(),
	}
	if s.Decision.Recovered != nil {
		audit.RecoveredError = s.Decision.Recovered.Error()
	}

	if cs.audit != nil {
		if err := cs.audit.PublishAudit(ctx, audit); err != nil {
			cs.logger.Error("CHAT", "Failed to publish research audit", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}

	if cs.publisher != nil {
		cs.publisher.PublishChatAnswered(ctx, events.ChatAnswered{
			SessionId:      sessionId,
			UserId:         userId,
			ShouldResearch: s.ShouldResearch,
			Forced:         s.Decision.Override.Forced,
			Category:       string(s.Decision.Override.Category),
			SearchStatus:   string(s.Research.Status),
			Refined:        s.Refined,
			LatencyMs:      latency.Milliseconds(),
		})
	}
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if cs.publisher != nil {
		cs.publisher.PublishSessionDeleted(ctx, request.ChatSessionId, userId)
	}
	return nil
}

func sessionTitle(question string) string {
	title := strings.Join(strings.Fields(question), " ")
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	return strings.TrimSpace(string([]rune(title)[:maxTitleRunes]))
}

func turnsToDTO(turns []research.Turn) []dto.ChatTurnDTO {
	out := make([]dto.ChatTurnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, dto.ChatTurnDTO{
			Role:      string(t.Role),
			Content:   t.Content,
			Timestamp: t.Timestamp,
		})
	}
	return out
}

func researchSummary(s research.State) *dto.ResearchSummaryDTO {
	return &dto.ResearchSummaryDTO{
		ShouldResearch: s.ShouldResearch,
		Forced:         s.Decision.Override.Forced,
		Category:       string(s.Decision.Override.Category),
		SearchQuery:    s.SearchQuery,
		SearchStatus:   string(s.Research.Status),
		Refined:        s.Refined,
	}
}
