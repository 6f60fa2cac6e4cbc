package candidate

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type GetCandidateUseCase struct {
	candidates repository.CandidateRepository
}

func NewGetCandidateUseCase(candidates repository.CandidateRepository) *GetCandidateUseCase {
	return &GetCandidateUseCase{candidates: candidates}
}

func (uc *GetCandidateUseCase) Execute(ctx context.Context, p entity.Principal, id uuid.UUID) (*entity.Candidate, error) {
	return loadVisible(ctx, uc.candidates, p, id)
}

type ListInput struct {
	Status            string
	AssignedManagerID *uuid.UUID
	Search            string
	Limit             int
	Offset            int
}

type ListResult struct {
	Items  []*entity.Candidate
	Total  int
	Limit  int
	Offset int
}

// ListCandidatesUseCase - список для менеджерского интерфейса.
type ListCandidatesUseCase struct {
	candidates repository.CandidateRepository
}

func NewListCandidatesUseCase(candidates repository.CandidateRepository) *ListCandidatesUseCase {
	return &ListCandidatesUseCase{candidates: candidates}
}

func (uc *ListCandidatesUseCase) Execute(ctx context.Context, p entity.Principal, input ListInput) (*ListResult, error) {
	if err := requireRole(p, staffRoles...); err != nil {
		return nil, err
	}

	filter := repository.CandidateFilter{
		AssignedManagerID: input.AssignedManagerID,
		Search:            strings.TrimSpace(input.Search),
		Limit:             input.Limit,
		Offset:            input.Offset,
	}
	// менеджер видит только закреплённых за ним кандидатов
	if p.Role == entity.RoleManager {
		filter.AssignedManagerID = &p.UserID
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, ok := pipeline.ParseStatus(raw)
		if !ok {
			return nil, apperror.Validation("неизвестный статус в фильтре")
		}
		filter.Status = string(status)
	}
	if err := validation.ValidateLength("поиск", filter.Search, 0, validation.MaxSearchLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := uc.candidates.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

type ListActivitiesUseCase struct {
	candidates repository.CandidateRepository
	activities repository.ActivityRepository
}

func NewListActivitiesUseCase(candidates repository.CandidateRepository, activities repository.ActivityRepository) *ListActivitiesUseCase {
	return &ListActivitiesUseCase{candidates: candidates, activities: activities}
}

func (uc *ListActivitiesUseCase) Execute(ctx context.Context, p entity.Principal, candidateID uuid.UUID, limit int) ([]*entity.Activity, error) {
	c, err := loadVisible(ctx, uc.candidates, p, candidateID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return uc.activities.ListByCandidate(ctx, c.ID, limit)
}
