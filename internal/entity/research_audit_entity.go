package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResearchAudit records how one pipeline run reached its answer.
type ResearchAudit struct {
	Id             uuid.UUID
	ChatSessionId  uuid.UUID
	UserId         uuid.UUID
	Question       string
	Forced         bool
	Category       string
	ShouldResearch bool
	SearchQuery    string
	SearchStatus   string
	Refined        bool
	LatencyMs      int64
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}
