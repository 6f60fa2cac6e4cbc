package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error
}
