package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

// Вакансиями управляют HR, директор и администратор.
var managerRoles = []entity.Role{entity.RoleHR, entity.RoleDirector, entity.RoleAdmin}

type CreateJobInput struct {
	Principal   entity.Principal
	Title       string
	Description string
	Location    *string
}

type CreateJobUseCase struct {
	jobs repository.JobRepository
}

func NewCreateJobUseCase(jobs repository.JobRepository) *CreateJobUseCase {
	return &CreateJobUseCase{jobs: jobs}
}

func (uc *CreateJobUseCase) Execute(ctx context.Context, input CreateJobInput) (*entity.Job, error) {
	if !input.Principal.Role.OneOf(managerRoles...) {
		return nil, apperror.ErrForbidden
	}
	if err := validation.ValidateJobTitle(input.Title); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateJobDescription(input.Description); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateOptional("город", input.Location, validation.MaxLocationLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	job, err := entity.NewJob(input.Title, input.Description, input.Location, &input.Principal.UserID)
	if err != nil {
		return nil, err
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// ListJobsUseCase - кандидат видит только открытые вакансии.
type ListJobsUseCase struct {
	jobs repository.JobRepository
}

func NewListJobsUseCase(jobs repository.JobRepository) *ListJobsUseCase {
	return &ListJobsUseCase{jobs: jobs}
}

func (uc *ListJobsUseCase) Execute(ctx context.Context, p entity.Principal) ([]*entity.Job, error) {
	return uc.jobs.List(ctx, !p.Role.IsStaff())
}

type GetJobUseCase struct {
	jobs repository.JobRepository
}

func NewGetJobUseCase(jobs repository.JobRepository) *GetJobUseCase {
	return &GetJobUseCase{jobs: jobs}
}

func (uc *GetJobUseCase) Execute(ctx context.Context, p entity.Principal, id uuid.UUID) (*entity.Job, error) {
	job, err := uc.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsActive && !p.Role.IsStaff() {
		return nil, apperror.ErrJobNotFound
	}
	return job, nil
}

// CloseJobUseCase снимает вакансию с публикации. Повторное закрытие ничего не меняет.
type CloseJobUseCase struct {
	jobs repository.JobRepository
}

func NewCloseJobUseCase(jobs repository.JobRepository) *CloseJobUseCase {
	return &CloseJobUseCase{jobs: jobs}
}

func (uc *CloseJobUseCase) Execute(ctx context.Context, p entity.Principal, id uuid.UUID) (*entity.Job, error) {
	if !p.Role.OneOf(managerRoles...) {
		return nil, apperror.ErrForbidden
	}
	job, err := uc.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return job, nil
	}
	job.Close()
	if err := uc.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}
