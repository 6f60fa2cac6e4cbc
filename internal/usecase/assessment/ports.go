package assessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// ResultNotifier рассылает изменения результатов и ленты.
type ResultNotifier interface {
	ResultChanged(r *entity.AssessmentResult)
	ActivityAdded(a *entity.Activity)
}

// QuestionGenerator - удалённая функция генерации вопросов.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, in functions.GenerateQuestionsRequest) ([]functions.GeneratedQuestion, error)
}

// Тесты составляют HR и администратор.
var authorRoles = []entity.Role{entity.RoleHR, entity.RoleAdmin}

// Проверяют результаты HR и менеджер; администратору доступно всё.
var reviewerRoles = []entity.Role{entity.RoleHR, entity.RoleManager, entity.RoleAdmin}

func requireRole(p entity.Principal, roles ...entity.Role) error {
	if !p.Role.OneOf(roles...) {
		return apperror.ErrForbidden
	}
	return nil
}

func ownCandidate(ctx context.Context, repo repository.CandidateRepository, p entity.Principal) (*entity.Candidate, error) {
	if p.Role != entity.RoleCandidate {
		return nil, apperror.ErrForbidden
	}
	return repo.FindByProfileID(ctx, p.UserID)
}

func recordActivity(ctx context.Context, repo repository.ActivityRepository, notifier ResultNotifier, candidateID uuid.UUID, actor *uuid.UUID, kind entity.ActivityKind, text string) {
	a := entity.NewActivity(candidateID, actor, kind, text)
	if err := repo.Create(ctx, a); err != nil {
		logger.WithCandidate(candidateID).WithError(err).Warn("assessment: не удалось записать активность")
		return
	}
	notifier.ActivityAdded(a)
}
