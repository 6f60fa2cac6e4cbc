package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
)

type CandidateRepository interface {
	Create(ctx context.Context, candidate *entity.Candidate) error
	Update(ctx context.Context, candidate *entity.Candidate) error
	// Delete удаляет кандидата вместе с результатами тестов, прогрессом обучения и лентой.
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error)
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*entity.Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]*entity.Candidate, int, error)
}

type CandidateFilter struct {
	Status            string
	AssignedManagerID *uuid.UUID
	Search            string
	Limit             int
	Offset            int
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*entity.Activity, error)
}
