package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
)

type AssessmentRepository interface {
	Create(ctx context.Context, assessment *entity.Assessment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Assessment, error)
	List(ctx context.Context) ([]*entity.Assessment, error)

	CreateResult(ctx context.Context, result *entity.AssessmentResult) error
	UpdateResult(ctx context.Context, result *entity.AssessmentResult) error
	FindResultByID(ctx context.Context, id uuid.UUID) (*entity.AssessmentResult, error)
	FindResult(ctx context.Context, candidateID, assessmentID uuid.UUID) (*entity.AssessmentResult, error)
	ListResultsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.AssessmentResult, error)
}
