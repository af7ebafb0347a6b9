package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}

// SendChatRequest starts a new session when ChatSessionId is omitted.
type SendChatRequest struct {
	Question      string     `json:"question" validate:"required,max=4000"`
	ChatSessionId *uuid.UUID `json:"session_id,omitempty"`
}

type ChatTurnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ResearchSummaryDTO struct {
	ShouldResearch bool   `json:"should_research"`
	Forced         bool   `json:"forced"`
	Category       string `json:"category,omitempty"`
	SearchQuery    string `json:"search_query,omitempty"`
	SearchStatus   string `json:"search_status,omitempty"`
	Refined        bool   `json:"refined"`
}

type SendChatResponse struct {
	Response      string              `json:"response"`
	ChatSessionId uuid.UUID           `json:"session_id"`
	ChatHistory   []ChatTurnDTO       `json:"chat_history"`
	Research      *ResearchSummaryDTO `json:"research,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}

// ResearchAuditMessage travels over the in-process audit topic.
type ResearchAuditMessage struct {
	ChatSessionId  uuid.UUID `json:"chat_session_id"`
	UserId         uuid.UUID `json:"user_id"`
	Question       string    `json:"question"`
	Forced         bool      `json:"forced"`
	Category       string    `json:"category"`
	ShouldResearch bool      `json:"should_research"`
	SearchQuery    string    `json:"search_query"`
	SearchStatus   string    `json:"search_status"`
	Refined        bool      `json:"refined"`
	LatencyMs      int64     `json:"latency_ms"`
	Trace          []string  `json:"trace"`
	DecisionSource string    `json:"decision_source"`
	RecoveredError string    `json:"recovered_error,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
