package training

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// ChangeNotifier рассылает изменения кандидата и ленты.
type ChangeNotifier interface {
	CandidateChanged(c *entity.Candidate, created bool)
	ActivityAdded(a *entity.Activity)
}

// ModuleView - модуль вместе с вычисленным состоянием для кандидата.
type ModuleView struct {
	Module   *entity.TrainingModule
	Progress *entity.TrainingProgress
	State    pipeline.ModuleState
}

// Overview - страница обучения кандидата.
type Overview struct {
	Candidate *entity.Candidate
	Modules   []ModuleView
}

// loader собирает модули и прогресс; общая часть всех сценариев обучения.
type loader struct {
	candidates repository.CandidateRepository
	training   repository.TrainingRepository
}

// open проверяет доступ кандидата к обучению и строит цепочку разблокировки.
func (l loader) open(ctx context.Context, p entity.Principal) (*Overview, error) {
	if p.Role != entity.RoleCandidate {
		return nil, apperror.ErrForbidden
	}
	c, err := l.candidates.FindByProfileID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if !c.CanAccessTraining() {
		return nil, apperror.ErrTrainingLocked
	}

	modules, err := l.training.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := l.training.FindProgress(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	inputs := make([]pipeline.ModuleInput, len(modules))
	for i, m := range modules {
		inputs[i] = progress[m.ID].Input(m)
	}
	states := pipeline.ResolveTrainingModuleStatus(inputs)

	views := make([]ModuleView, len(modules))
	for i, m := range modules {
		views[i] = ModuleView{Module: m, Progress: progress[m.ID], State: states[i]}
	}
	return &Overview{Candidate: c, Modules: views}, nil
}

// unlocked возвращает модуль, если он открыт кандидату.
func (o *Overview) unlocked(moduleID uuid.UUID) (*ModuleView, error) {
	for i := range o.Modules {
		if o.Modules[i].Module.ID != moduleID {
			continue
		}
		if o.Modules[i].State.Locked {
			return nil, apperror.New(apperror.ErrCodeForbidden, "модуль ещё закрыт")
		}
		return &o.Modules[i], nil
	}
	return nil, apperror.ErrModuleNotFound
}

func progressFor(view *ModuleView, candidateID uuid.UUID) *entity.TrainingProgress {
	if view.Progress != nil {
		return view.Progress
	}
	return entity.NewTrainingProgress(candidateID, view.Module.ID)
}

type GetTrainingUseCase struct {
	loader loader
}

func NewGetTrainingUseCase(candidates repository.CandidateRepository, training repository.TrainingRepository) *GetTrainingUseCase {
	return &GetTrainingUseCase{loader: loader{candidates: candidates, training: training}}
}

func (uc *GetTrainingUseCase) Execute(ctx context.Context, p entity.Principal) (*Overview, error) {
	return uc.loader.open(ctx, p)
}

type MarkWatchedInput struct {
	Principal entity.Principal
	ModuleID  uuid.UUID
	VideoID   string
}

type MarkVideoWatchedUseCase struct {
	loader loader
}

func NewMarkVideoWatchedUseCase(candidates repository.CandidateRepository, training repository.TrainingRepository) *MarkVideoWatchedUseCase {
	return &MarkVideoWatchedUseCase{loader: loader{candidates: candidates, training: training}}
}

func (uc *MarkVideoWatchedUseCase) Execute(ctx context.Context, input MarkWatchedInput) (*Overview, error) {
	overview, err := uc.loader.open(ctx, input.Principal)
	if err != nil {
		return nil, err
	}
	view, err := overview.unlocked(input.ModuleID)
	if err != nil {
		return nil, err
	}

	progress := progressFor(view, overview.Candidate.ID)
	if err := progress.MarkWatched(view.Module, input.VideoID); err != nil {
		return nil, err
	}
	if err := uc.loader.training.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}
	// следующий модуль мог открыться
	return uc.loader.open(ctx, input.Principal)
}

type SubmitQuizInput struct {
	Principal entity.Principal
	ModuleID  uuid.UUID
	Answers   map[string]int
}

type QuizResult struct {
	Score    int
	Passed   bool
	Advanced bool
	Overview *Overview
}

// SubmitQuizUseCase оценивает тест модуля. Пройденный тест продвигает кандидата
// на шаг модуля; шаг никогда не уменьшается.
type SubmitQuizUseCase struct {
	loader     loader
	activities repository.ActivityRepository
	notifier   ChangeNotifier
}

func NewSubmitQuizUseCase(candidates repository.CandidateRepository, training repository.TrainingRepository, activities repository.ActivityRepository, notifier ChangeNotifier) *SubmitQuizUseCase {
	return &SubmitQuizUseCase{
		loader:     loader{candidates: candidates, training: training},
		activities: activities,
		notifier:   notifier,
	}
}

func (uc *SubmitQuizUseCase) Execute(ctx context.Context, input SubmitQuizInput) (*QuizResult, error) {
	overview, err := uc.loader.open(ctx, input.Principal)
	if err != nil {
		return nil, err
	}
	view, err := overview.unlocked(input.ModuleID)
	if err != nil {
		return nil, err
	}
	if len(view.Module.Quiz) == 0 {
		return nil, apperror.Validation("в модуле нет теста")
	}

	score := view.Module.ScoreQuiz(input.Answers)
	progress := progressFor(view, overview.Candidate.ID)
	passed := progress.RecordQuiz(score)
	if err := uc.loader.training.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	result := &QuizResult{Score: score, Passed: passed}
	c := overview.Candidate
	if passed {
		if c.AdvanceStep(view.Module.NextStep) {
			if err := uc.loader.candidates.Update(ctx, c); err != nil {
				return nil, err
			}
			result.Advanced = true
			uc.notifier.CandidateChanged(c, false)
		}
		uc.recordPassed(ctx, c.ID, input.Principal.UserID, view.Module.Title, score)
	}

	result.Overview, err = uc.loader.open(ctx, input.Principal)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *SubmitQuizUseCase) recordPassed(ctx context.Context, candidateID, actor uuid.UUID, title string, score int) {
	a := entity.NewActivity(candidateID, &actor, entity.ActivityTrainingQuizPassed,
		fmt.Sprintf("Passed training quiz %s with score %d%%", title, score))
	if err := uc.activities.Create(ctx, a); err != nil {
		logger.WithCandidate(candidateID).WithError(err).Warn("training: не удалось записать активность")
		return
	}
	uc.notifier.ActivityAdded(a)
}
