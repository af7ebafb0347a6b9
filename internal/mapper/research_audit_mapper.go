package mapper

import (
	"encoding/json"

	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/model"

	"gorm.io/datatypes"
)

type ResearchAuditMapper struct{}

func NewResearchAuditMapper() *ResearchAuditMapper {
	return &ResearchAuditMapper{}
}

func (m *ResearchAuditMapper) ToModel(a *entity.ResearchAudit) (*model.ResearchAudit, error) {
	if a == nil {
		return nil, nil
	}

	var metadata datatypes.JSON
	if len(a.Metadata) > 0 {
		raw, err := json.Marshal(a.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = datatypes.JSON(raw)
	}

	return &model.ResearchAudit{
		Id:             a.Id,
		ChatSessionId:  a.ChatSessionId,
		UserId:         a.UserId,
		Question:       a.Question,
		Forced:         a.Forced,
		Category:       a.Category,
		ShouldResearch: a.ShouldResearch,
		SearchQuery:    a.SearchQuery,
		SearchStatus:   a.SearchStatus,
		Refined:        a.Refined,
		LatencyMs:      a.LatencyMs,
		Metadata:       metadata,
		CreatedAt:      a.CreatedAt,
	}, nil
}

func (m *ResearchAuditMapper) ToEntity(a *model.ResearchAudit) *entity.ResearchAudit {
	if a == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(a.Metadata) > 0 {
		// Metadata is written by ToModel, a decode failure leaves it empty
		_ = json.Unmarshal(a.Metadata, &metadata)
	}

	return &entity.ResearchAudit{
		Id:             a.Id,
		ChatSessionId:  a.ChatSessionId,
		UserId:         a.UserId,
		Question:       a.Question,
		Forced:         a.Forced,
		Category:       a.Category,
		ShouldResearch: a.ShouldResearch,
		SearchQuery:    a.SearchQuery,
		SearchStatus:   a.SearchStatus,
		Refined:        a.Refined,
		LatencyMs:      a.LatencyMs,
		Metadata:       metadata,
		CreatedAt:      a.CreatedAt,
	}
}
