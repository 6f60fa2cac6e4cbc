package assessment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

// StartAssessmentUseCase начинает попытку. Повторный старт незавершённой
// попытки возвращает её же, завершённую начать заново нельзя.
type StartAssessmentUseCase struct {
	candidates  repository.CandidateRepository
	assessments repository.AssessmentRepository
	notifier    ResultNotifier
}

func NewStartAssessmentUseCase(candidates repository.CandidateRepository, assessments repository.AssessmentRepository, notifier ResultNotifier) *StartAssessmentUseCase {
	return &StartAssessmentUseCase{candidates: candidates, assessments: assessments, notifier: notifier}
}

func (uc *StartAssessmentUseCase) Execute(ctx context.Context, p entity.Principal, assessmentID uuid.UUID) (*entity.AssessmentResult, error) {
	c, err := ownCandidate(ctx, uc.candidates, p)
	if err != nil {
		return nil, err
	}
	if c.Step().IsTerminal() {
		return nil, apperror.ErrCandidateClosed
	}
	if _, err := uc.assessments.FindByID(ctx, assessmentID); err != nil {
		return nil, err
	}

	existing, err := uc.assessments.FindResult(ctx, c.ID, assessmentID)
	switch {
	case err == nil && existing.Completed:
		return nil, apperror.New(apperror.ErrCodeConflict, "тест уже пройден")
	case err == nil:
		return existing, nil
	case !apperror.IsNotFound(err):
		return nil, err
	}

	r := entity.StartAssessment(c.ID, assessmentID)
	if err := uc.assessments.CreateResult(ctx, r); err != nil {
		return nil, err
	}
	uc.notifier.ResultChanged(r)
	return r, nil
}

type SubmitInput struct {
	Principal entity.Principal
	ResultID  uuid.UUID
	Answers   map[string]int
	// Timings - секунды на каждый вопрос.
	Timings map[string]int
}

type SubmitAssessmentUseCase struct {
	candidates  repository.CandidateRepository
	assessments repository.AssessmentRepository
	activities  repository.ActivityRepository
	notifier    ResultNotifier
}

func NewSubmitAssessmentUseCase(
	candidates repository.CandidateRepository,
	assessments repository.AssessmentRepository,
	activities repository.ActivityRepository,
	notifier ResultNotifier,
) *SubmitAssessmentUseCase {
	return &SubmitAssessmentUseCase{candidates: candidates, assessments: assessments, activities: activities, notifier: notifier}
}

func (uc *SubmitAssessmentUseCase) Execute(ctx context.Context, input SubmitInput) (*entity.AssessmentResult, error) {
	c, err := ownCandidate(ctx, uc.candidates, input.Principal)
	if err != nil {
		return nil, err
	}

	r, err := uc.assessments.FindResultByID(ctx, input.ResultID)
	if err != nil {
		return nil, err
	}
	if r.CandidateID != c.ID {
		return nil, apperror.ErrResultNotFound
	}

	a, err := uc.assessments.FindByID(ctx, r.AssessmentID)
	if err != nil {
		return nil, err
	}
	if err := r.Submit(a, input.Answers, input.Timings); err != nil {
		return nil, err
	}
	if err := uc.assessments.UpdateResult(ctx, r); err != nil {
		return nil, err
	}

	recordActivity(ctx, uc.activities, uc.notifier, c.ID, &input.Principal.UserID, entity.ActivityAssessmentCompleted,
		fmt.Sprintf("Completed assessment %s with score %d%%", a.Title, *r.Score))
	uc.notifier.ResultChanged(r)
	return r, nil
}

type ReviewInput struct {
	Principal entity.Principal
	ResultID  uuid.UUID
	Notes     string
}

type ReviewResultUseCase struct {
	assessments repository.AssessmentRepository
	activities  repository.ActivityRepository
	notifier    ResultNotifier
}

func NewReviewResultUseCase(assessments repository.AssessmentRepository, activities repository.ActivityRepository, notifier ResultNotifier) *ReviewResultUseCase {
	return &ReviewResultUseCase{assessments: assessments, activities: activities, notifier: notifier}
}

func (uc *ReviewResultUseCase) Execute(ctx context.Context, input ReviewInput) (*entity.AssessmentResult, error) {
	if err := requireRole(input.Principal, reviewerRoles...); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("заметки", input.Notes, 0, validation.MaxReviewNotesLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	r, err := uc.assessments.FindResultByID(ctx, input.ResultID)
	if err != nil {
		return nil, err
	}
	if err := r.Review(input.Principal.UserID, input.Notes); err != nil {
		return nil, err
	}
	if err := uc.assessments.UpdateResult(ctx, r); err != nil {
		return nil, err
	}

	recordActivity(ctx, uc.activities, uc.notifier, r.CandidateID, &input.Principal.UserID, entity.ActivityAssessmentReviewed,
		"Assessment result reviewed")
	uc.notifier.ResultChanged(r)
	return r, nil
}

// ListResultsUseCase - результаты кандидата. Кандидат видит только свои.
type ListResultsUseCase struct {
	candidates  repository.CandidateRepository
	assessments repository.AssessmentRepository
}

func NewListResultsUseCase(candidates repository.CandidateRepository, assessments repository.AssessmentRepository) *ListResultsUseCase {
	return &ListResultsUseCase{candidates: candidates, assessments: assessments}
}

func (uc *ListResultsUseCase) Execute(ctx context.Context, p entity.Principal, candidateID uuid.UUID) ([]*entity.AssessmentResult, error) {
	c, err := uc.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !p.CanViewCandidate(c) {
		return nil, apperror.ErrCandidateNotFound
	}
	return uc.assessments.ListResultsByCandidate(ctx, c.ID)
}
