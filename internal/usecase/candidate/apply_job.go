package candidate

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
)

// ApplyToJobUseCase - отклик кандидата на вакансию. В ленту пишется
// "Applied to job: <title>", статус становится applied.
type ApplyToJobUseCase struct {
	candidates repository.CandidateRepository
	jobs       repository.JobRepository
	activities repository.ActivityRepository
	notifier   ChangeNotifier
}

func NewApplyToJobUseCase(candidates repository.CandidateRepository, jobs repository.JobRepository, activities repository.ActivityRepository, notifier ChangeNotifier) *ApplyToJobUseCase {
	return &ApplyToJobUseCase{candidates: candidates, jobs: jobs, activities: activities, notifier: notifier}
}

func (uc *ApplyToJobUseCase) Execute(ctx context.Context, p entity.Principal, jobID uuid.UUID) (*entity.Candidate, error) {
	c, err := ownCandidate(ctx, uc.candidates, p)
	if err != nil {
		return nil, err
	}
	job, err := uc.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	text, err := c.ApplyToJob(job)
	if err != nil {
		return nil, err
	}
	if err := uc.candidates.Update(ctx, c); err != nil {
		return nil, err
	}

	recordActivity(ctx, uc.activities, uc.notifier, c.ID, &p.UserID, entity.ActivityApplied, text)
	uc.notifier.CandidateChanged(c, false)
	return c, nil
}
