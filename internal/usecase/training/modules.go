package training

import (
	"context"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

type CreateModuleInput struct {
	Principal   entity.Principal
	Title       string
	Description string
	Position    int
	Videos      []entity.TrainingVideo
	Quiz        []entity.Question
	NextStep    int
}

type CreateModuleUseCase struct {
	training repository.TrainingRepository
}

func NewCreateModuleUseCase(training repository.TrainingRepository) *CreateModuleUseCase {
	return &CreateModuleUseCase{training: training}
}

func (uc *CreateModuleUseCase) Execute(ctx context.Context, input CreateModuleInput) (*entity.TrainingModule, error) {
	if !input.Principal.Role.OneOf(entity.RoleHR, entity.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	for _, v := range input.Videos {
		if err := validation.ValidateExternalLink(v.URL); err != nil {
			return nil, apperror.Validation(err.Error())
		}
	}

	m, err := entity.NewTrainingModule(input.Title, input.Description, input.Position, input.Videos, input.Quiz, pipeline.Step(input.NextStep))
	if err != nil {
		return nil, err
	}
	if err := uc.training.CreateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListModulesUseCase - каталог модулей для сотрудников, без прогресса.
type ListModulesUseCase struct {
	training repository.TrainingRepository
}

func NewListModulesUseCase(training repository.TrainingRepository) *ListModulesUseCase {
	return &ListModulesUseCase{training: training}
}

func (uc *ListModulesUseCase) Execute(ctx context.Context, p entity.Principal) ([]*entity.TrainingModule, error) {
	if !p.Role.IsStaff() {
		return nil, apperror.ErrForbidden
	}
	return uc.training.ListModules(ctx)
}
