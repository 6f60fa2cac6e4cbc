package admin

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

// EmailUpdater - удалённая функция смены email в сервисе аутентификации.
type EmailUpdater interface {
	UpdateUserEmail(ctx context.Context, userID uuid.UUID, email string) error
}

func requireAdmin(p entity.Principal) error {
	if p.Role != entity.RoleAdmin {
		return apperror.ErrForbidden
	}
	return nil
}

// ChangeEmailUseCase меняет email пользователя. Сначала вызывается удалённая
// функция: если она отказала, локальные данные не трогаются.
type ChangeEmailUseCase struct {
	users      repository.UserRepository
	candidates repository.CandidateRepository
	remote     EmailUpdater
}

func NewChangeEmailUseCase(users repository.UserRepository, candidates repository.CandidateRepository, remote EmailUpdater) *ChangeEmailUseCase {
	return &ChangeEmailUseCase{users: users, candidates: candidates, remote: remote}
}

func (uc *ChangeEmailUseCase) Execute(ctx context.Context, p entity.Principal, userID uuid.UUID, email string) (*entity.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == email {
		return user, nil
	}

	existing, err := uc.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != user.ID:
		return nil, apperror.ErrEmailTaken
	case err != nil && !apperror.IsNotFound(err):
		return nil, err
	}

	if err := uc.remote.UpdateUserEmail(ctx, user.ID, email); err != nil {
		return nil, err
	}

	user.ChangeEmail(email)
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.Role == entity.RoleCandidate {
		uc.syncCandidateEmail(ctx, user)
	}
	return user, nil
}

// syncCandidateEmail обновляет копию email в записи кандидата.
func (uc *ChangeEmailUseCase) syncCandidateEmail(ctx context.Context, user *entity.User) {
	c, err := uc.candidates.FindByProfileID(ctx, user.ID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			logger.Log.WithError(err).WithField("user_id", user.ID).Warn("admin: не удалось найти кандидата для смены email")
		}
		return
	}
	c.Email = user.Email
	if err := uc.candidates.Update(ctx, c); err != nil {
		logger.WithCandidate(c.ID).WithError(err).Warn("admin: email кандидата не обновлён")
	}
}

type ChangeRoleUseCase struct {
	users repository.UserRepository
}

func NewChangeRoleUseCase(users repository.UserRepository) *ChangeRoleUseCase {
	return &ChangeRoleUseCase{users: users}
}

func (uc *ChangeRoleUseCase) Execute(ctx context.Context, p entity.Principal, userID uuid.UUID, rawRole string) (*entity.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	role, err := entity.NewRole(rawRole)
	if err != nil {
		return nil, err
	}
	if userID == p.UserID && role != entity.RoleAdmin {
		return nil, apperror.Validation("нельзя снять с себя роль администратора")
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	// запись в воронке есть только у кандидатов
	if user.Role == entity.RoleCandidate || role == entity.RoleCandidate {
		return nil, apperror.Validation("роль кандидата нельзя назначить или снять")
	}

	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type CreateStaffInput struct {
	Principal entity.Principal
	Email     string
	Password  string
	FullName  string
	Role      string
}

// CreateStaffUseCase заводит сотрудника. Кандидаты регистрируются сами.
type CreateStaffUseCase struct {
	users repository.UserRepository
}

func NewCreateStaffUseCase(users repository.UserRepository) *CreateStaffUseCase {
	return &CreateStaffUseCase{users: users}
}

func (uc *CreateStaffUseCase) Execute(ctx context.Context, input CreateStaffInput) (*entity.User, error) {
	if err := requireAdmin(input.Principal); err != nil {
		return nil, err
	}
	role, err := entity.NewRole(input.Role)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, apperror.Validation("сотрудник не может иметь роль кандидата")
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateFullName(input.FullName); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := entity.NewUser(input.Email, hash, input.FullName, role)
	if err != nil {
		return nil, err
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
