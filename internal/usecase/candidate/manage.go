package candidate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/export"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type AssignManagerUseCase struct {
	candidates repository.CandidateRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	notifier   ChangeNotifier
}

func NewAssignManagerUseCase(candidates repository.CandidateRepository, users repository.UserRepository, activities repository.ActivityRepository, notifier ChangeNotifier) *AssignManagerUseCase {
	return &AssignManagerUseCase{candidates: candidates, users: users, activities: activities, notifier: notifier}
}

func (uc *AssignManagerUseCase) Execute(ctx context.Context, p entity.Principal, candidateID, managerID uuid.UUID) (*entity.Candidate, error) {
	if err := requireRole(p, entity.RoleHR, entity.RoleDirector, entity.RoleAdmin); err != nil {
		return nil, err
	}

	manager, err := uc.users.FindByID(ctx, managerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Validation("менеджер не найден")
		}
		return nil, err
	}
	if manager.Role != entity.RoleManager || !manager.IsActive {
		return nil, apperror.Validation("назначить можно только активного менеджера")
	}

	c, err := uc.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	c.AssignManager(manager.ID)
	if err := uc.candidates.Update(ctx, c); err != nil {
		return nil, err
	}

	recordActivity(ctx, uc.activities, uc.notifier, c.ID, &p.UserID, entity.ActivityManagerAssigned,
		"Assigned to manager "+managerName(manager))
	uc.notifier.CandidateChanged(c, false)
	return c, nil
}

func managerName(u *entity.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// DeleteCandidateUseCase удаляет кандидата вместе с результатами, прогрессом, лентой
// и учётной записью.
type DeleteCandidateUseCase struct {
	candidates repository.CandidateRepository
	store      DocumentStore
	notifier   ChangeNotifier
}

func NewDeleteCandidateUseCase(candidates repository.CandidateRepository, store DocumentStore, notifier ChangeNotifier) *DeleteCandidateUseCase {
	return &DeleteCandidateUseCase{candidates: candidates, store: store, notifier: notifier}
}

func (uc *DeleteCandidateUseCase) Execute(ctx context.Context, p entity.Principal, candidateID uuid.UUID) error {
	if err := requireRole(p, entity.RoleDirector, entity.RoleAdmin); err != nil {
		return err
	}

	if err := uc.candidates.Delete(ctx, candidateID); err != nil {
		return err
	}
	if err := uc.store.DeleteCandidate(ctx, candidateID); err != nil {
		logger.WithCandidate(candidateID).WithError(err).Warn("candidate: файлы кандидата не удалены")
	}
	uc.notifier.CandidateDeleted(candidateID)
	return nil
}

const exportPageSize = maxPageSize

// ExportCandidatesUseCase выгружает кандидатов в XLSX с теми же фильтрами, что и список.
type ExportCandidatesUseCase struct {
	candidates repository.CandidateRepository
}

func NewExportCandidatesUseCase(candidates repository.CandidateRepository) *ExportCandidatesUseCase {
	return &ExportCandidatesUseCase{candidates: candidates}
}

func (uc *ExportCandidatesUseCase) Execute(ctx context.Context, p entity.Principal, input ListInput) ([]byte, error) {
	if err := requireRole(p, entity.RoleHR, entity.RoleDirector, entity.RoleAdmin); err != nil {
		return nil, err
	}

	list := NewListCandidatesUseCase(uc.candidates)
	input.Limit = exportPageSize
	input.Offset = 0

	var all []*entity.Candidate
	for {
		page, err := list.Execute(ctx, p, input)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < page.Limit || len(all) >= page.Total {
			break
		}
		input.Offset += page.Limit
	}

	raw, err := export.CandidatesXLSX(all, time.Now())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сформировать выгрузку")
	}
	return raw, nil
}
