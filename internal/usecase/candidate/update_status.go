package candidate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/goroutine"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/logger"
)

const emailTimeout = 30 * time.Second

type UpdateStatusInput struct {
	Principal   entity.Principal
	CandidateID uuid.UUID
	Status      string
	// NotifyCandidate отправляет письмо о смене статуса.
	NotifyCandidate bool
}

// UpdateStatusUseCase меняет статус кандидата. Шаг не уменьшается, кроме
// отказа и архивации. Каждая смена пишется в ленту и рассылается подписчикам.
type UpdateStatusUseCase struct {
	candidates repository.CandidateRepository
	activities repository.ActivityRepository
	notifier   ChangeNotifier
	mailer     Mailer
}

func NewUpdateStatusUseCase(candidates repository.CandidateRepository, activities repository.ActivityRepository, notifier ChangeNotifier, mailer Mailer) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{candidates: candidates, activities: activities, notifier: notifier, mailer: mailer}
}

func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*entity.Candidate, error) {
	if err := requireRole(input.Principal, staffRoles...); err != nil {
		return nil, err
	}

	c, err := uc.candidates.FindByID(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	previous := c.View().Badge.Label
	previousStatus, previousStep := c.Status, c.CurrentStep
	if err := c.ChangeStatus(input.Status); err != nil {
		return nil, err
	}
	if c.Status == previousStatus && c.CurrentStep == previousStep {
		return c, nil
	}

	if err := uc.candidates.Update(ctx, c); err != nil {
		return nil, err
	}

	view := c.View()
	recordActivity(ctx, uc.activities, uc.notifier, c.ID, &input.Principal.UserID, entity.ActivityStatusChange,
		fmt.Sprintf("Status changed from %s to %s", previous, view.Badge.Label))
	uc.notifier.CandidateChanged(c, false)

	if input.NotifyCandidate && uc.mailer != nil && c.Email != "" {
		uc.sendStatusEmail(c.ID, c.Email, c.FullName, view)
	}
	return c, nil
}

// sendStatusEmail отправляет письмо в фоне: ответ на запрос не ждёт почту.
func (uc *UpdateStatusUseCase) sendStatusEmail(candidateID uuid.UUID, to, name string, view pipeline.View) {
	email := functions.Email{
		To:      to,
		Subject: "Your application status: " + view.Badge.Label,
		Body:    statusEmailBody(name, view),
	}

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
		defer cancel()

		if err := uc.mailer.SendEmail(ctx, email); err != nil {
			logger.WithCandidate(candidateID).WithError(err).Warn("candidate: письмо о смене статуса не отправлено")
		}
	})
}

func statusEmailBody(name string, view pipeline.View) string {
	if name == "" {
		name = "candidate"
	}
	return fmt.Sprintf("Hello %s,\n\nYour application is now at the \"%s\" stage: %s.\n",
		name, view.Stage.Name, view.Stage.Description)
}
