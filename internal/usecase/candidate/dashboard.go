package candidate

import (
	"context"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/export"
)

const (
	dashboardActivities = 10
	summaryPageSize     = 200
)

// Dashboard - данные главной страницы. Для кандидата заполнены Candidate и View,
// для сотрудников - StageCounts.
type Dashboard struct {
	Kind        string
	Candidate   *entity.Candidate
	View        *pipeline.View
	Activities  []*entity.Activity
	StageCounts map[pipeline.Step]int
	Total       int
}

type DashboardUseCase struct {
	candidates repository.CandidateRepository
	activities repository.ActivityRepository
}

func NewDashboardUseCase(candidates repository.CandidateRepository, activities repository.ActivityRepository) *DashboardUseCase {
	return &DashboardUseCase{candidates: candidates, activities: activities}
}

func (uc *DashboardUseCase) Execute(ctx context.Context, p entity.Principal) (*Dashboard, error) {
	d := &Dashboard{Kind: p.Dashboard()}

	switch d.Kind {
	case "candidate":
		c, err := ownCandidate(ctx, uc.candidates, p)
		if err != nil {
			return nil, err
		}
		view := c.View()
		d.Candidate = c
		d.View = &view

		d.Activities, err = uc.activities.ListByCandidate(ctx, c.ID, dashboardActivities)
		if err != nil {
			return nil, err
		}
		return d, nil

	case "hr", "director":
		return d, uc.summarize(ctx, repository.CandidateFilter{}, d)

	case "manager":
		// менеджер видит сводку по своим кандидатам
		return d, uc.summarize(ctx, repository.CandidateFilter{AssignedManagerID: &p.UserID}, d)
	}
	return d, nil
}

func (uc *DashboardUseCase) summarize(ctx context.Context, filter repository.CandidateFilter, d *Dashboard) error {
	var all []*entity.Candidate
	filter.Limit = summaryPageSize
	for {
		page, total, err := uc.candidates.List(ctx, filter)
		if err != nil {
			return err
		}
		all = append(all, page...)
		d.Total = total
		if len(page) < summaryPageSize || len(all) >= total {
			break
		}
		filter.Offset += summaryPageSize
	}
	d.StageCounts = export.StageCounts(all)
	return nil
}
