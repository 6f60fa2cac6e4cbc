package candidate

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/storage"
)

// ChangeNotifier рассылает изменения подписчикам.
type ChangeNotifier interface {
	CandidateChanged(c *entity.Candidate, created bool)
	CandidateDeleted(candidateID uuid.UUID)
	ActivityAdded(a *entity.Activity)
}

type DocumentStore interface {
	Upload(ctx context.Context, candidateID uuid.UUID, kind entity.DocumentKind, originalName string, r io.Reader) (*storage.StoredDocument, error)
	DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error
}

type TextExtractor interface {
	Supports(path string) bool
	ExtractText(ctx context.Context, path string) (string, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, email functions.Email) error
}

// Роли, которым доступна работа со списком кандидатов.
var staffRoles = []entity.Role{entity.RoleHR, entity.RoleManager, entity.RoleDirector, entity.RoleAdmin}

func requireRole(p entity.Principal, roles ...entity.Role) error {
	if !p.Role.OneOf(roles...) {
		return apperror.ErrForbidden
	}
	return nil
}

// loadVisible загружает кандидата и проверяет, что принципал может его видеть.
// Чужой кандидат для кандидата выглядит как отсутствующий.
func loadVisible(ctx context.Context, repo repository.CandidateRepository, p entity.Principal, id uuid.UUID) (*entity.Candidate, error) {
	c, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanViewCandidate(c) {
		return nil, apperror.ErrCandidateNotFound
	}
	return c, nil
}

// ownCandidate - запись в воронке текущего кандидата.
func ownCandidate(ctx context.Context, repo repository.CandidateRepository, p entity.Principal) (*entity.Candidate, error) {
	if p.Role != entity.RoleCandidate {
		return nil, apperror.ErrForbidden
	}
	return repo.FindByProfileID(ctx, p.UserID)
}

// recordActivity пишет запись в ленту. Сбой записи не отменяет основное действие.
func recordActivity(ctx context.Context, repo repository.ActivityRepository, notifier ChangeNotifier, candidateID uuid.UUID, actor *uuid.UUID, kind entity.ActivityKind, text string) {
	a := entity.NewActivity(candidateID, actor, kind, text)
	if err := repo.Create(ctx, a); err != nil {
		logger.WithCandidate(candidateID).WithError(err).Warn("candidate: не удалось записать активность")
		return
	}
	notifier.ActivityAdded(a)
}
