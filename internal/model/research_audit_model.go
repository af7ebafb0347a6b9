package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResearchAudit struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Question       string         `gorm:"type:text;not null"`
	Forced         bool           `gorm:"not null;default:false"`
	Category       string         `gorm:"type:varchar(50)"`
	ShouldResearch bool           `gorm:"not null;default:false"`
	SearchQuery    string         `gorm:"type:text"`
	SearchStatus   string         `gorm:"type:varchar(20)"`
	Refined        bool           `gorm:"not null;default:false"`
	LatencyMs      int64          `gorm:"not null;default:0"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
}

func (ResearchAudit) TableName() string {
	return "research_audits"
}
