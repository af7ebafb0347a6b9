package contract

import (
	"context"

	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/repository/specification"
)

type ResearchAuditRepository interface {
	Create(ctx context.Context, audit *entity.ResearchAudit) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchAudit, error)
}
