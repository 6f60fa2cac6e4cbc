package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
)

type TrainingRepository interface {
	CreateModule(ctx context.Context, module *entity.TrainingModule) error
	FindModuleByID(ctx context.Context, id uuid.UUID) (*entity.TrainingModule, error)
	// ListModules возвращает модули в порядке Position: от него зависит цепочка разблокировки.
	ListModules(ctx context.Context) ([]*entity.TrainingModule, error)

	FindProgress(ctx context.Context, candidateID uuid.UUID) (map[uuid.UUID]*entity.TrainingProgress, error)
	SaveProgress(ctx context.Context, progress *entity.TrainingProgress) error
}
