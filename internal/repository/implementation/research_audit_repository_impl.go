package implementation

import (
	"context"

	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/mapper"
	"grounded-qa-be/internal/model"
	"grounded-qa-be/internal/repository/contract"
	"grounded-qa-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ResearchAuditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResearchAuditMapper
}

func NewResearchAuditRepository(db *gorm.DB) contract.ResearchAuditRepository {
	return &ResearchAuditRepositoryImpl{
		db:     db,
		mapper: mapper.NewResearchAuditMapper(),
	}
}

func (r *ResearchAuditRepositoryImpl) Create(ctx context.Context, audit *entity.ResearchAudit) error {
	m, err := r.mapper.ToModel(audit)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*audit = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResearchAuditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchAudit, error) {
	var models []*model.ResearchAudit
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.ResearchAudit, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}
